package jbig2

import "testing"

func TestDecodeHalftoneRegionRejectsInvalidParams(t *testing.T) {
	pat := []*Bitmap{NewBitmap(4, 4)}
	cases := []HalftoneRegionParams{
		{Width: 0, Height: 10, Patterns: pat, GridWidth: 1, GridHeight: 1},
		{Width: 10, Height: 10, Patterns: nil, GridWidth: 1, GridHeight: 1},
		{Width: 10, Height: 10, Patterns: pat, GridWidth: 0, GridHeight: 1},
	}
	for _, p := range cases {
		if _, err := DecodeHalftoneRegion([]byte{0, 0, 0, 0}, p); err == nil {
			t.Errorf("DecodeHalftoneRegion(%+v) should have been rejected", p)
		}
	}
}

func TestDecodeGrayScaleImageZeroBitsReturnsZeroedGrid(t *testing.T) {
	values, err := decodeGrayScaleImage([]byte{0, 0, 0, 0}, 3, 2, 0, 0)
	if err != nil {
		t.Fatalf("decodeGrayScaleImage: %v", err)
	}
	if len(values) != 6 {
		t.Fatalf("len(values) = %d, want 6", len(values))
	}
	for i, v := range values {
		if v != 0 {
			t.Errorf("values[%d] = %d, want 0", i, v)
		}
	}
}

func TestHalftoneGridPlacementUsesPatternSizeWhenStepUnset(t *testing.T) {
	pat := NewBitmap(2, 2)
	pat.Fill(1)
	region := NewBitmap(6, 2)
	patterns := []*Bitmap{NewBitmap(2, 2), pat}

	// Manually mirror the placement loop DecodeHalftoneRegion runs, using a
	// pre-computed gray-code grid, to check step-size defaulting without
	// driving it through an arithmetic decode.
	gray := []int{0, 1, 0}
	gridWidth, patW, patH := 3, 2, 2
	for n := 0; n < 1; n++ {
		for m := 0; m < gridWidth; m++ {
			idx := gray[n*gridWidth+m]
			x := m * patW
			y := n * patH
			region.Compose(patterns[idx], x, y, CombOr)
		}
	}
	if region.Get(2, 0) != 1 || region.Get(3, 1) != 1 {
		t.Error("pattern 1 should have been stamped at grid cell (1,0)")
	}
	if region.Get(0, 0) != 0 {
		t.Error("pattern 0 is blank and should leave its cell blank")
	}
}
