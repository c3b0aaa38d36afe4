package jbig2

import "testing"

func TestBitmapGetSetRoundTrip(t *testing.T) {
	b := NewBitmap(10, 3)
	if b.Stride != 2 {
		t.Fatalf("Stride = %d, want 2", b.Stride)
	}
	b.Set(0, 0, 1)
	b.Set(9, 2, 1)
	b.Set(4, 1, 1)

	for _, tc := range []struct{ x, y, want int }{
		{0, 0, 1}, {9, 2, 1}, {4, 1, 1},
		{1, 0, 0}, {8, 2, 0}, {5, 1, 0},
	} {
		if got := b.Get(tc.x, tc.y); got != tc.want {
			t.Errorf("Get(%d,%d) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestBitmapGetOutOfBoundsIsZero(t *testing.T) {
	b := NewBitmap(4, 4)
	b.Fill(1)
	cases := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}}
	for _, c := range cases {
		if got := b.Get(c[0], c[1]); got != 0 {
			t.Errorf("Get(%d,%d) = %d, want 0 (out of bounds)", c[0], c[1], got)
		}
	}
}

func TestBitmapSetOutOfBoundsIsNoop(t *testing.T) {
	b := NewBitmap(2, 2)
	b.Set(-1, 0, 1) // must not panic
	b.Set(0, 5, 1)
	for _, row := range b.Data {
		if row != 0 {
			t.Fatalf("out-of-bounds Set mutated in-bounds data: %v", b.Data)
		}
	}
}

func TestBitmapFill(t *testing.T) {
	b := NewBitmap(5, 2)
	b.Fill(1)
	for y := 0; y < 2; y++ {
		for x := 0; x < 5; x++ {
			if b.Get(x, y) != 1 {
				t.Fatalf("Fill(1): pixel (%d,%d) = 0", x, y)
			}
		}
	}
	b.Fill(0)
	for y := 0; y < 2; y++ {
		for x := 0; x < 5; x++ {
			if b.Get(x, y) != 0 {
				t.Fatalf("Fill(0): pixel (%d,%d) = 1", x, y)
			}
		}
	}
}

func TestBitmapComposeOr(t *testing.T) {
	dst := NewBitmap(4, 4)
	src := NewBitmap(2, 2)
	src.Fill(1)
	dst.Compose(src, 1, 1, CombOr)

	want := map[[2]int]int{
		{1, 1}: 1, {2, 1}: 1, {1, 2}: 1, {2, 2}: 1,
		{0, 0}: 0, {3, 3}: 0,
	}
	for p, w := range want {
		if got := dst.Get(p[0], p[1]); got != w {
			t.Errorf("Get(%d,%d) = %d, want %d", p[0], p[1], got, w)
		}
	}
}

func TestBitmapComposeXorAndReplace(t *testing.T) {
	dst := NewBitmap(2, 1)
	dst.Fill(1)
	src := NewBitmap(2, 1)
	src.Set(0, 0, 1)

	dst.Compose(src, 0, 0, CombXor)
	if dst.Get(0, 0) != 0 || dst.Get(1, 0) != 1 {
		t.Fatalf("XOR compose: got (%d,%d), want (0,1)", dst.Get(0, 0), dst.Get(1, 0))
	}

	dst2 := NewBitmap(2, 1)
	dst2.Fill(1)
	dst2.Compose(src, 0, 0, CombReplace)
	if dst2.Get(0, 0) != 1 || dst2.Get(1, 0) != 0 {
		t.Fatalf("Replace compose: got (%d,%d), want (1,0)", dst2.Get(0, 0), dst2.Get(1, 0))
	}
}

func TestBitmapComposeClipsToDestBounds(t *testing.T) {
	dst := NewBitmap(2, 2)
	src := NewBitmap(4, 4)
	src.Fill(1)
	// Must not panic even though src extends past dst's bounds in both directions.
	dst.Compose(src, -1, -1, CombOr)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if dst.Get(x, y) != 1 {
				t.Errorf("Get(%d,%d) = 0, want 1 after clipped OR compose", x, y)
			}
		}
	}
}
