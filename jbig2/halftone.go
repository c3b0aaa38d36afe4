package jbig2

import "fmt"

// HalftoneRegionParams are the parameters of the halftone region decoding
// procedure (clause 6.6), arithmetic-coding profile only (HMMR=0).
//
// Scope limitation: this implementation handles only the axis-aligned grid
// (grid vectors (HRX,0) and (0,HRY)): grid cell (m,n) is placed at
// (HGX + m*HRX, HGY + n*HRY). Skewed or rotated grids are neither detected
// nor rejected; they are placed by the same axis-aligned formula.
type HalftoneRegionParams struct {
	Width, Height int
	Patterns      []*Bitmap
	GridWidth     int // HGW, number of patterns across
	GridHeight    int // HGH, number of patterns down
	GridX, GridY  int // HGX, HGY
	RegionX       int // HRX: horizontal grid step; 0 selects the pattern width default
	RegionY       int // HRY: vertical grid step; 0 selects the pattern height default
	Template      uint8
	CombOp        CombinationOperator
	DefaultPixel  int
	SkipEnabled   bool
}

// DecodeHalftoneRegion decodes a halftone region: a grayscale image over a
// grid of pattern positions (via gray-code bitplane decomposition, clause
// C.5) selecting which dictionary pattern is stamped at each grid cell.
func DecodeHalftoneRegion(data []byte, p HalftoneRegionParams) (*Bitmap, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("jbig2: invalid halftone region size %dx%d", p.Width, p.Height)
	}
	if len(p.Patterns) == 0 {
		return nil, fmt.Errorf("jbig2: halftone region requires a non-empty pattern dictionary")
	}
	if p.GridWidth <= 0 || p.GridHeight <= 0 {
		return nil, fmt.Errorf("jbig2: invalid halftone grid %dx%d", p.GridWidth, p.GridHeight)
	}

	region := NewBitmap(p.Width, p.Height)
	if p.DefaultPixel != 0 {
		region.Fill(1)
	}

	bitsPerValue := SymCodeLen(len(p.Patterns))
	gray, err := decodeGrayScaleImage(data, p.GridWidth, p.GridHeight, bitsPerValue, p.Template)
	if err != nil {
		return nil, err
	}

	patH := p.Patterns[0].Height
	patW := p.Patterns[0].Width
	stepX := p.RegionX
	if stepX == 0 {
		stepX = patW
	}
	stepY := p.RegionY
	if stepY == 0 {
		stepY = patH
	}

	for n := 0; n < p.GridHeight; n++ {
		for m := 0; m < p.GridWidth; m++ {
			idx := gray[n*p.GridWidth+m]
			if idx < 0 || idx >= len(p.Patterns) {
				idx = 0
			}
			x := p.GridX + m*stepX
			y := p.GridY + n*stepY
			region.Compose(p.Patterns[idx], x, y, p.CombOp)
		}
	}
	return region, nil
}

// decodeGrayScaleImage implements Annex C.5's gray-code bitplane
// decomposition: bitsPerValue generic-region bitplanes are decoded MSB
// first, each XORed against the previously decoded plane (the gray-code
// recurrence GI_j = GI_j XOR GI_{j+1}) to recover the true bit, and combined
// into one integer per grid cell.
func decodeGrayScaleImage(data []byte, w, h, bitsPerValue int, template uint8) ([]int, error) {
	if bitsPerValue <= 0 {
		values := make([]int, w*h)
		return values, nil
	}

	mq := NewSharedMQDecoder(data)
	at := DefaultATPixels(template)
	at[0] = ATPixel{X: 3, Y: -1}

	values := make([]int, w*h)
	prevPlane := make([]int, w*h)

	for j := bitsPerValue - 1; j >= 0; j-- {
		plane, err := decodeGenericWithCoder(mq, GenericRegionParams{
			Width:    w,
			Height:   h,
			Template: template,
			AT:       at,
		})
		if err != nil {
			return nil, fmt.Errorf("jbig2: halftone region: decoding gray-code bitplane %d: %w", j, err)
		}
		for n := 0; n < h; n++ {
			for m := 0; m < w; m++ {
				i := n*w + m
				bit := plane.Get(m, n) ^ prevPlane[i]
				values[i] |= bit << uint(j)
				prevPlane[i] = bit
			}
		}
	}
	return values, nil
}
