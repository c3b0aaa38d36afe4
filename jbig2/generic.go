package jbig2

import (
	"fmt"

	"github.com/codecore/imagecodecs/jpeg2000/mqc"
)

// ATPixel is one adaptive template pixel offset (clause 6.2.5.3).
type ATPixel struct{ X, Y int8 }

// GenericRegionParams are the parameters of the generic region decoding
// procedure (clause 6.2), shared by standalone generic region segments and
// by pattern-dictionary/halftone-region bitplane decoding (Annex C.5).
type GenericRegionParams struct {
	Width, Height int
	Template      uint8 // 0-3
	TPGDON        bool  // typical prediction (clause 6.2.5.7)
	AT            [4]ATPixel
	MMR           bool
}

// DefaultATPixels returns the nominal AT pixel positions for a template
// (clause 6.2.5.3), used whenever the segment doesn't carry explicit AT
// pixel bytes.
func DefaultATPixels(template uint8) [4]ATPixel {
	switch template {
	case 0:
		return [4]ATPixel{{3, -1}, {-3, -1}, {2, -2}, {-2, -2}}
	case 1:
		return [4]ATPixel{{3, -1}, {0, 0}, {0, 0}, {0, 0}}
	default: // 2, 3
		return [4]ATPixel{{2, -1}, {0, 0}, {0, 0}, {0, 0}}
	}
}

// DecodeGenericRegion decodes a generic region bitmap using the arithmetic
// (MQ-coded) procedure of clause 6.2. It allocates a fresh MQ-coder with
// contexts initialized to the 0.5-probability state, matching the "start of
// segment" reset clause E.3.7 requires.
func DecodeGenericRegion(data []byte, p GenericRegionParams) (*Bitmap, error) {
	if p.MMR {
		return DecodeGenericRegionMMR(data, p.Width, p.Height)
	}

	numContexts := 1 << ctxBits(p.Template)
	mq := mqc.NewMQDecoder(data, numContexts)
	return decodeGenericWithCoder(mq, p)
}

// decodeGenericWithCoder runs the generic region procedure against an
// already-initialized MQ-coder, so callers that must share arithmetic
// decoder state across multiple regions/bitplanes (e.g. refinement against
// a reference, or gray-code halftone bitplanes) can supply their own coder.
func decodeGenericWithCoder(mq *mqc.MQDecoder, p GenericRegionParams) (*Bitmap, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("jbig2: invalid generic region size %dx%d", p.Width, p.Height)
	}
	bmp := NewBitmap(p.Width, p.Height)

	ltp := 0
	for y := 0; y < p.Height; y++ {
		if p.TPGDON {
			ctx := tpgdContext(p.Template)
			bit := mq.Decode(ctx)
			ltp ^= bit
			if ltp == 1 {
				// This row is a byte-for-byte copy of the previous row.
				if y > 0 {
					copy(bmp.Data[y*bmp.Stride:(y+1)*bmp.Stride], bmp.Data[(y-1)*bmp.Stride:y*bmp.Stride])
				}
				continue
			}
		}
		for x := 0; x < p.Width; x++ {
			ctx := genericContext(bmp, x, y, p.Template, p.AT)
			bit := mq.Decode(ctx)
			bmp.Set(x, y, bit)
		}
	}
	return bmp, nil
}

// ctxBits returns the number of context bits (pixels) a template uses.
func ctxBits(template uint8) uint {
	switch template {
	case 0:
		return 16
	case 1:
		return 13
	default:
		return 10
	}
}

// tpgdContext returns the fixed SLTP context value per template (clause
// 6.2.5.7, Table 2).
func tpgdContext(template uint8) int {
	switch template {
	case 0:
		return 0x9B25
	case 1:
		return 0x0795
	case 2:
		return 0x00E5
	default:
		return 0x0195
	}
}

// genericContext builds the context index for pixel (x,y) from already
// decoded neighbors plus the AT pixels, per clause 6.2.5.3 (templates 0-3).
//
// Bits are assigned by sorting every context pixel position (fixed plus AT,
// AT pixels included at their nominal slot) in raster order (top row to
// bottom, left to right) and shifting each one in as the next least
// significant bit — the same convention the TPGDON fixed contexts above
// (Table 2) assume, so the two must stay in lockstep.
func genericContext(b *Bitmap, x, y int, template uint8, at [4]ATPixel) int {
	g := func(dx, dy int) int { return b.Get(x+dx, y+dy) }
	ag := func(i int) int { return b.Get(x+int(at[i].X), y+int(at[i].Y)) }

	switch template {
	case 0:
		// MSB..LSB: A4,(-1,-2),(0,-2),(1,-2),A3, A2,(-2,-1),(-1,-1),(0,-1),(1,-1),(2,-1),A1, (-4,0),(-3,0),(-2,0),(-1,0)
		return ag(3)<<15 | g(-1, -2)<<14 | g(0, -2)<<13 | g(1, -2)<<12 | ag(2)<<11 |
			ag(1)<<10 | g(-2, -1)<<9 | g(-1, -1)<<8 | g(0, -1)<<7 | g(1, -1)<<6 | g(2, -1)<<5 | ag(0)<<4 |
			g(-4, 0)<<3 | g(-3, 0)<<2 | g(-2, 0)<<1 | g(-1, 0)<<0
	case 1:
		// MSB..LSB: (-1,-2),(0,-2),(1,-2),(2,-2), (-2,-1),(-1,-1),(0,-1),(1,-1),(2,-1),A1, (-3,0),(-2,0),(-1,0)
		return g(-1, -2)<<12 | g(0, -2)<<11 | g(1, -2)<<10 | g(2, -2)<<9 |
			g(-2, -1)<<8 | g(-1, -1)<<7 | g(0, -1)<<6 | g(1, -1)<<5 | g(2, -1)<<4 | ag(0)<<3 |
			g(-3, 0)<<2 | g(-2, 0)<<1 | g(-1, 0)<<0
	case 2:
		// MSB..LSB: (-1,-2),(0,-2),(1,-2), (-2,-1),(-1,-1),(0,-1),(1,-1),A1, (-2,0),(-1,0)
		return g(-1, -2)<<9 | g(0, -2)<<8 | g(1, -2)<<7 |
			g(-2, -1)<<6 | g(-1, -1)<<5 | g(0, -1)<<4 | g(1, -1)<<3 | ag(0)<<2 |
			g(-2, 0)<<1 | g(-1, 0)<<0
	default: // template 3
		// MSB..LSB: (-3,-1),(-2,-1),(-1,-1),(0,-1),(1,-1),A1, (-4,0),(-3,0),(-2,0),(-1,0)
		return g(-3, -1)<<9 | g(-2, -1)<<8 | g(-1, -1)<<7 | g(0, -1)<<6 | g(1, -1)<<5 | ag(0)<<4 |
			g(-4, 0)<<3 | g(-3, 0)<<2 | g(-2, 0)<<1 | g(-1, 0)<<0
	}
}
