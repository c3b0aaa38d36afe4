package jbig2

import "fmt"

// SymbolDictParams are the parameters of the symbol dictionary decoding
// procedure (clause 6.5), restricted to this package's supported profile:
// arithmetic coding (SDHUFF=0) and no refinement/aggregate coding
// (SDREFAGG=0) — every new symbol is decoded as an independent generic
// region bitmap, which covers the overwhelming majority of encoders
// (refinement/aggregate coding exists to squeeze further size out of large
// symbol sets, not to represent anything arithmetic-only coding can't).
type SymbolDictParams struct {
	NumNewSymbols int
	Template      uint8 // SDTEMPLATE, generic region template for symbol bitmaps
	AT            [4]ATPixel
	InputSymbols  []*Bitmap // symbols carried in from referred-to symbol dictionaries
}

// SymbolDict is the result of decoding a symbol dictionary segment: the
// newly decoded symbols plus whichever of (input ++ new) symbols the
// segment flagged for export (clause 6.5.10), in export order.
type SymbolDict struct {
	NewSymbols    []*Bitmap
	ExportSymbols []*Bitmap
}

// DecodeSymbolDict implements the arithmetic-coded symbol dictionary
// decoding procedure of clause 6.5.5 plus the export-flag run-length
// procedure of clause 6.5.10 (Annex A.3 IAEX).
func DecodeSymbolDict(data []byte, p SymbolDictParams) (*SymbolDict, error) {
	if p.NumNewSymbols < 0 {
		return nil, fmt.Errorf("jbig2: invalid symbol dictionary new-symbol count %d", p.NumNewSymbols)
	}

	mq := NewSharedMQDecoder(data)
	alloc := &ctxAllocator{}
	iadh := NewIntDecoder(mq, alloc)
	iadw := NewIntDecoder(mq, alloc)
	iaex := NewIntDecoder(mq, alloc)
	iaai := NewIntDecoder(mq, alloc)
	_ = iaai // aggregate count, unused outside SDREFAGG which this profile rejects

	all := append([]*Bitmap{}, p.InputSymbols...)

	hcHeight := 0
	decoded := 0
	for decoded < p.NumNewSymbols {
		dh, err := iadh.Decode()
		if err != nil {
			return nil, fmt.Errorf("jbig2: symbol dictionary: decoding height class delta: %w", err)
		}
		hcHeight += dh
		if hcHeight <= 0 || hcHeight > 1<<20 {
			return nil, fmt.Errorf("jbig2: symbol dictionary: implausible height class %d", hcHeight)
		}

		symWidth := 0
		for {
			dw, err := iadw.Decode()
			if err == errOOB {
				break // end of this height class
			}
			if err != nil {
				return nil, fmt.Errorf("jbig2: symbol dictionary: decoding width delta: %w", err)
			}
			symWidth += dw
			if symWidth <= 0 || symWidth > 1<<20 {
				return nil, fmt.Errorf("jbig2: symbol dictionary: implausible symbol width %d", symWidth)
			}
			if decoded >= p.NumNewSymbols {
				return nil, fmt.Errorf("jbig2: symbol dictionary: more symbols decoded than declared")
			}

			bmp, err := decodeGenericWithCoder(mq, GenericRegionParams{
				Width:    symWidth,
				Height:   hcHeight,
				Template: p.Template,
				AT:       p.AT,
			})
			if err != nil {
				return nil, fmt.Errorf("jbig2: symbol dictionary: decoding symbol %d: %w", decoded, err)
			}
			all = append(all, bmp)
			decoded++
		}
	}

	newSymbols := all[len(p.InputSymbols):]

	// Export flag run-length decoding (clause 6.5.10): alternating runs of
	// "not exported" / "exported" lengths over the full input+new symbol list.
	var exported []*Bitmap
	exFlag := false
	total := 0
	for total < len(all) {
		runLen, err := iaex.Decode()
		if err != nil {
			return nil, fmt.Errorf("jbig2: symbol dictionary: decoding export run: %w", err)
		}
		if runLen < 0 || total+runLen > len(all) {
			return nil, fmt.Errorf("jbig2: symbol dictionary: invalid export run length %d", runLen)
		}
		if exFlag {
			exported = append(exported, all[total:total+runLen]...)
		}
		total += runLen
		exFlag = !exFlag
	}

	return &SymbolDict{NewSymbols: newSymbols, ExportSymbols: exported}, nil
}
