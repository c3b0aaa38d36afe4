package jbig2

import (
	"fmt"

	"github.com/codecore/imagecodecs/jpeg2000/mqc"
)

// RefinementParams are the parameters of the generic refinement region
// decoding procedure (clause 6.3): the current region is predicted from a
// reference bitmap (typically the same region at a coarser pass, or the
// corresponding symbol bitmap) plus a small offset, and only the deltas from
// that prediction are arithmetic-coded.
type RefinementParams struct {
	Width, Height int
	Template      uint8 // 0 or 1
	AT            [2]ATPixel
	Reference     *Bitmap
	RefDX, RefDY  int // reference bitmap offset relative to the region's origin
	TPGRON        bool
}

// DefaultRefinementAT returns the nominal AT pixel pair for GRTEMPLATE 0
// (clause 6.3.5.3); GRTEMPLATE 1 uses no adaptive pixels.
func DefaultRefinementAT() [2]ATPixel {
	return [2]ATPixel{{-1, -1}, {-1, -1}}
}

// DecodeRefinementRegion decodes a refinement region using a fresh MQ-coder.
func DecodeRefinementRegion(data []byte, p RefinementParams) (*Bitmap, error) {
	mq := mqc.NewMQDecoder(data, 1<<14)
	return decodeRefinementWithCoder(mq, p)
}

// decodeRefinementWithCoder runs the refinement procedure against an
// already-initialized MQ-coder and context-bank offset, for callers (text
// region refinement-coded symbols) sharing one coder across several
// procedures.
func decodeRefinementWithCoder(mq *mqc.MQDecoder, p RefinementParams) (*Bitmap, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("jbig2: invalid refinement region size %dx%d", p.Width, p.Height)
	}
	if p.TPGRON {
		return nil, fmt.Errorf("jbig2: typical prediction for refinement regions (TPGRON) is not supported")
	}
	if p.Reference == nil {
		return nil, fmt.Errorf("jbig2: refinement region requires a reference bitmap")
	}

	bmp := NewBitmap(p.Width, p.Height)
	ref := func(dx, dy int) int { return p.Reference.Get(dx-p.RefDX, dy-p.RefDY) }

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			ctx := refinementContext(bmp, ref, x, y, p.Template, p.AT)
			bit := mq.Decode(ctx)
			bmp.Set(x, y, bit)
		}
	}
	return bmp, nil
}

// refinementContext builds the context index for pixel (x,y) from the
// partially decoded current bitmap and the reference bitmap, per clause
// 6.3.5.3 (GRTEMPLATE 0 or 1). Bit order: coding-bitmap pixels first (MSB),
// then reference-bitmap pixels, in the order listed below for each
// template — matching the grouping ITU T.88 Figure 12/13 depict.
func refinementContext(cur *Bitmap, ref func(dx, dy int) int, x, y int, template uint8, at [2]ATPixel) int {
	g := func(dx, dy int) int { return cur.Get(x+dx, y+dy) }
	ag1 := func() int { return cur.Get(x+int(at[0].X), y+int(at[0].Y)) }
	r := func(dx, dy int) int { return ref(x+dx, y+dy) }
	ag2 := func() int { return ref(x+int(at[1].X), y+int(at[1].Y)) }

	if template == 0 {
		return g(0, -1)<<12 | g(1, -1)<<11 | g(-1, 0)<<10 | ag1()<<9 |
			r(0, -1)<<8 | r(1, -1)<<7 | r(-1, 0)<<6 | r(0, 0)<<5 | r(1, 0)<<4 |
			r(-1, 1)<<3 | r(0, 1)<<2 | r(1, 1)<<1 | ag2()<<0
	}
	// template 1
	return g(-1, -1)<<9 | g(0, -1)<<8 | g(1, -1)<<7 | g(-1, 0)<<6 |
		r(0, -1)<<5 | r(-1, 0)<<4 | r(0, 0)<<3 | r(1, 0)<<2 | r(0, 1)<<1 | r(1, 1)<<0
}
