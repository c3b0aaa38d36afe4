package jbig2

import "fmt"

// RefCorner identifies which corner of a symbol bitmap the decoded (S,T)
// coordinate refers to (clause 6.4.5, REFCORNER).
type RefCorner uint8

const (
	RefBottomLeft RefCorner = iota
	RefTopLeft
	RefBottomRight
	RefTopRight
)

// TextRegionParams are the parameters of the text region decoding procedure
// (clause 6.4), restricted to this package's arithmetic-coding profile
// (SBHUFF=0).
type TextRegionParams struct {
	Width, Height int
	NumInstances  int
	Symbols       []*Bitmap
	StripSize     int // SBSTRIPS, a power of two
	RefCorner     RefCorner
	Transposed    bool
	CombOp        CombinationOperator // SBCOMBOP
	DSOffset      int                 // SBDSOFFSET, signed
	DefaultPixel  int

	Refine         bool // SBREFINE
	RefineTemplate uint8
	RefineAT       [2]ATPixel
}

// DecodeTextRegion implements the arithmetic-coded text region decoding
// procedure (clause 6.4.5): it places instances of symbols from a symbol
// dictionary onto a region bitmap at positions driven by a handful of
// arithmetic-coded integers (STRIPT/DT, FIRSTS/DFS, IDS, CURT) and symbol
// IDs (IAID), optionally refining the placed bitmap (clause 6.4.11).
func DecodeTextRegion(data []byte, p TextRegionParams) (*Bitmap, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("jbig2: invalid text region size %dx%d", p.Width, p.Height)
	}
	if p.StripSize <= 0 {
		p.StripSize = 1
	}
	if len(p.Symbols) == 0 && p.NumInstances > 0 {
		return nil, fmt.Errorf("jbig2: text region references symbols but none were supplied")
	}

	mq := NewSharedMQDecoder(data)
	alloc := &ctxAllocator{}
	iadt := NewIntDecoder(mq, alloc)
	iafs := NewIntDecoder(mq, alloc)
	iads := NewIntDecoder(mq, alloc)
	iait := NewIntDecoder(mq, alloc)
	iari := NewIntDecoder(mq, alloc)
	iardw := NewIntDecoder(mq, alloc)
	iardh := NewIntDecoder(mq, alloc)
	iardx := NewIntDecoder(mq, alloc)
	iardy := NewIntDecoder(mq, alloc)
	symCodeLen := SymCodeLen(len(p.Symbols))
	iaid := NewIAIDDecoder(mq, alloc, symCodeLen)

	region := NewBitmap(p.Width, p.Height)
	if p.DefaultPixel != 0 {
		region.Fill(1)
	}

	dt0, err := iadt.Decode()
	if err != nil {
		return nil, fmt.Errorf("jbig2: text region: decoding initial STRIPT: %w", err)
	}
	stripT := -dt0 * p.StripSize
	firstS := 0
	instances := 0

	for instances < p.NumInstances {
		dt, err := iadt.Decode()
		if err != nil {
			return nil, fmt.Errorf("jbig2: text region: decoding DT: %w", err)
		}
		stripT += dt * p.StripSize

		dfs, err := iafs.Decode()
		if err != nil {
			return nil, fmt.Errorf("jbig2: text region: decoding DFS: %w", err)
		}
		firstS += dfs
		curS := firstS

		first := true
		for {
			if !first {
				ids, err := iads.Decode()
				if err == errOOB {
					break // end of strip
				}
				if err != nil {
					return nil, fmt.Errorf("jbig2: text region: decoding IDS: %w", err)
				}
				curS += ids + p.DSOffset
			}
			first = false
			if instances >= p.NumInstances {
				return nil, fmt.Errorf("jbig2: text region: more instances decoded than declared")
			}

			curT := 0
			if p.StripSize != 1 {
				t, err := iait.Decode()
				if err != nil {
					return nil, fmt.Errorf("jbig2: text region: decoding CURT: %w", err)
				}
				curT = t
			}
			t := stripT + curT

			id := iaid.Decode()
			if id < 0 || id >= len(p.Symbols) {
				return nil, fmt.Errorf("jbig2: text region: symbol id %d out of range", id)
			}
			symbol := p.Symbols[id]

			if p.Refine {
				ri, err := iari.Decode()
				if err != nil {
					return nil, fmt.Errorf("jbig2: text region: decoding RI: %w", err)
				}
				if ri != 0 {
					rdw, err1 := iardw.Decode()
					rdh, err2 := iardh.Decode()
					rdx, err3 := iardx.Decode()
					rdy, err4 := iardy.Decode()
					if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
						return nil, fmt.Errorf("jbig2: text region: decoding refinement deltas")
					}
					newW := symbol.Width + rdw
					newH := symbol.Height + rdh
					refDX := floorDiv(rdw, 2) + rdx
					refDY := floorDiv(rdh, 2) + rdy
					refined, err := decodeRefinementWithCoder(mq, RefinementParams{
						Width:     newW,
						Height:    newH,
						Template:  p.RefineTemplate,
						AT:        p.RefineAT,
						Reference: symbol,
						RefDX:     refDX,
						RefDY:     refDY,
					})
					if err != nil {
						return nil, fmt.Errorf("jbig2: text region: refining symbol %d: %w", id, err)
					}
					symbol = refined
				}
			}

			placeSymbol(region, symbol, curS, t, p.RefCorner, p.Transposed, p.CombOp, &curS)
			instances++
		}
	}

	return region, nil
}

// placeSymbol composites symbol onto region at the (s,t) coordinate decoded
// for it, per the REFCORNER/TRANSPOSED placement rules of clause 6.4.5, and
// advances *curS past the symbol for the next instance in the strip.
func placeSymbol(region, symbol *Bitmap, curS, t int, corner RefCorner, transposed bool, op CombinationOperator, outS *int) {
	w, h := symbol.Width, symbol.Height
	var x, y int
	if !transposed {
		switch corner {
		case RefBottomLeft:
			x, y = curS, t-h+1
		case RefTopLeft:
			x, y = curS, t
		case RefBottomRight:
			x, y = curS, t-h+1
		case RefTopRight:
			x, y = curS, t
		}
		*outS = curS + w - 1
	} else {
		switch corner {
		case RefBottomLeft, RefTopLeft:
			x, y = t, curS
		case RefBottomRight, RefTopRight:
			x, y = t-w+1, curS
		}
		*outS = curS + h - 1
	}
	region.Compose(symbol, x, y, op)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
