package jbig2

import "fmt"

// PatternDictParams are the parameters of the pattern dictionary decoding
// procedure (Annex C.5), arithmetic-coding profile only (HDMMR=0).
type PatternDictParams struct {
	PatternWidth, PatternHeight int
	GrayMax                     int // largest pattern index; dictionary holds GrayMax+1 patterns
	Template                    uint8
}

// DecodePatternDict decodes a collective bitmap of (GrayMax+1) horizontally
// concatenated patterns and splits it back into individual pattern bitmaps
// (Annex C.5). The collective bitmap is itself one generic-region decode,
// with AT pixel A1 fixed at (-HDPW,0) per clause C.5 step 2.
func DecodePatternDict(data []byte, p PatternDictParams) ([]*Bitmap, error) {
	if p.PatternWidth <= 0 || p.PatternHeight <= 0 || p.GrayMax < 0 {
		return nil, fmt.Errorf("jbig2: invalid pattern dictionary parameters")
	}

	at := DefaultATPixels(p.Template)
	at[0] = ATPixel{X: int8(-p.PatternWidth), Y: 0}

	collectiveWidth := (p.GrayMax + 1) * p.PatternWidth
	collective, err := DecodeGenericRegion(data, GenericRegionParams{
		Width:    collectiveWidth,
		Height:   p.PatternHeight,
		Template: p.Template,
		AT:       at,
	})
	if err != nil {
		return nil, fmt.Errorf("jbig2: pattern dictionary: decoding collective bitmap: %w", err)
	}

	patterns := make([]*Bitmap, p.GrayMax+1)
	for m := 0; m <= p.GrayMax; m++ {
		pat := NewBitmap(p.PatternWidth, p.PatternHeight)
		for y := 0; y < p.PatternHeight; y++ {
			for x := 0; x < p.PatternWidth; x++ {
				pat.Set(x, y, collective.Get(m*p.PatternWidth+x, y))
			}
		}
		patterns[m] = pat
	}
	return patterns, nil
}
