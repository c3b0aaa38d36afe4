package jbig2

import "testing"

func TestDefaultATPixels(t *testing.T) {
	at0 := DefaultATPixels(0)
	if at0[0] != (ATPixel{3, -1}) || at0[1] != (ATPixel{-3, -1}) {
		t.Errorf("template 0 AT pixels = %v", at0)
	}
	at1 := DefaultATPixels(1)
	if at1[0] != (ATPixel{3, -1}) {
		t.Errorf("template 1 AT pixel = %v, want {3,-1}", at1[0])
	}
	at2 := DefaultATPixels(2)
	if at2[0] != (ATPixel{2, -1}) {
		t.Errorf("template 2 AT pixel = %v, want {2,-1}", at2[0])
	}
	at3 := DefaultATPixels(3)
	if at3[0] != (ATPixel{2, -1}) {
		t.Errorf("template 3 AT pixel = %v, want {2,-1}", at3[0])
	}
}

func TestCtxBitsPerTemplate(t *testing.T) {
	cases := map[uint8]uint{0: 16, 1: 13, 2: 10, 3: 10}
	for tmpl, want := range cases {
		if got := ctxBits(tmpl); got != want {
			t.Errorf("ctxBits(%d) = %d, want %d", tmpl, got, want)
		}
	}
}

func TestTpgdContextValuesMatchStandardConstants(t *testing.T) {
	cases := map[uint8]int{0: 0x9B25, 1: 0x0795, 2: 0x00E5, 3: 0x0195}
	for tmpl, want := range cases {
		if got := tpgdContext(tmpl); got != want {
			t.Errorf("tpgdContext(%d) = %#x, want %#x", tmpl, got, want)
		}
	}
}

func TestGenericContextAllZeroNeighborsIsZero(t *testing.T) {
	b := NewBitmap(20, 20)
	at := DefaultATPixels(0)
	if got := genericContext(b, 10, 10, 0, at); got != 0 {
		t.Errorf("genericContext with all-zero neighbors = %#x, want 0", got)
	}
}

func TestGenericContextDoesNotPanicNearOrigin(t *testing.T) {
	b := NewBitmap(4, 4)
	for tmpl := uint8(0); tmpl <= 3; tmpl++ {
		at := DefaultATPixels(tmpl)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				_ = genericContext(b, x, y, tmpl, at) // must not panic at the bitmap's edges
			}
		}
	}
}

func TestDecodeGenericRegionRejectsInvalidSize(t *testing.T) {
	_, err := DecodeGenericRegion([]byte{0, 0, 0, 0}, GenericRegionParams{Width: 0, Height: 10})
	if err == nil {
		t.Fatal("DecodeGenericRegion should reject zero width")
	}
}

func TestDecodeGenericRegionMMRIsRejected(t *testing.T) {
	_, err := DecodeGenericRegion([]byte{0, 0}, GenericRegionParams{Width: 4, Height: 4, MMR: true})
	if err == nil {
		t.Fatal("MMR-coded generic regions should be rejected")
	}
}
