// Package jbig2 decodes JBIG2 bitstreams (ITU T.88), the bilevel image
// compression format used for scanned-document pages embedded in PDF and
// DICOM. This package implements the arithmetic-coding profile only
// (SDHUFF=0/SBHUFF=0/HMMR=0/MMR=0): standard Huffman tables A-O, the custom
// Tables segment (type 53), and MMR-coded regions are rejected with a clear
// error rather than silently misdecoded — see errors.go for the exact set
// of supported features.
package jbig2

import (
	"encoding/binary"
	"fmt"
)

// Decoder decodes a stream of JBIG2 segments into one or more composed
// pages, tracking symbol and pattern dictionaries by segment number so
// later segments can refer back to them (clause 7.2.5).
type Decoder struct {
	symbolDicts  map[uint32][]*Bitmap
	patternDicts map[uint32][]*Bitmap
	regions      map[uint32]*Bitmap // intermediate (non-immediate) region results, by segment number
	pages        map[uint32]*Page
}

// NewDecoder creates an empty Decoder ready to process a segment stream.
func NewDecoder() *Decoder {
	return &Decoder{
		symbolDicts:  make(map[uint32][]*Bitmap),
		patternDicts: make(map[uint32][]*Bitmap),
		regions:      make(map[uint32]*Bitmap),
		pages:        make(map[uint32]*Page),
	}
}

// Decode parses and decodes every segment in data, composing region results
// onto their associated pages, and returns the finished pages in page-number
// order of first appearance.
func (d *Decoder) Decode(data []byte) ([]*Page, error) {
	segments, err := ParseSegments(data)
	if err != nil {
		return nil, err
	}

	var pageOrder []uint32
	for _, seg := range segments {
		switch seg.Header.Type {
		case SegPageInfo:
			info, err := ParsePageInfo(seg.Data)
			if err != nil {
				return nil, err
			}
			page, err := NewPage(*info)
			if err != nil {
				return nil, err
			}
			d.pages[seg.Header.PageAssoc] = page
			pageOrder = append(pageOrder, seg.Header.PageAssoc)

		case SegSymbolDictionary:
			syms, err := d.decodeSymbolDictSegment(seg)
			if err != nil {
				return nil, fmt.Errorf("jbig2: segment %d: %w", seg.Header.Number, err)
			}
			d.symbolDicts[seg.Header.Number] = syms

		case SegPatternDictionary:
			pats, err := d.decodePatternDictSegment(seg)
			if err != nil {
				return nil, fmt.Errorf("jbig2: segment %d: %w", seg.Header.Number, err)
			}
			d.patternDicts[seg.Header.Number] = pats

		case SegTextRegionIntermediate, SegTextRegionImmediate, SegTextRegionImmediateLossl:
			region, info, err := d.decodeTextRegionSegment(seg)
			if err != nil {
				return nil, fmt.Errorf("jbig2: segment %d: %w", seg.Header.Number, err)
			}
			d.placeRegion(seg, region, info)

		case SegGenericRegionIntermed, SegGenericRegionImmediate, SegGenericRegionImmedLossl:
			region, info, err := d.decodeGenericRegionSegment(seg)
			if err != nil {
				return nil, fmt.Errorf("jbig2: segment %d: %w", seg.Header.Number, err)
			}
			d.placeRegion(seg, region, info)

		case SegHalftoneIntermediate, SegHalftoneImmediate, SegHalftoneImmediateLossl:
			region, info, err := d.decodeHalftoneRegionSegment(seg)
			if err != nil {
				return nil, fmt.Errorf("jbig2: segment %d: %w", seg.Header.Number, err)
			}
			d.placeRegion(seg, region, info)

		case SegRefinementIntermediate, SegRefinementImmediate, SegRefinementImmedLossless:
			region, info, err := d.decodeRefinementRegionSegment(seg)
			if err != nil {
				return nil, fmt.Errorf("jbig2: segment %d: %w", seg.Header.Number, err)
			}
			d.placeRegion(seg, region, info)

		case SegEndOfPage, SegEndOfStripe, SegEndOfFile, SegProfiles, SegExtension:
			// No decode state to update.

		case SegTables:
			return nil, fmt.Errorf("jbig2: custom Huffman table segments are not supported")

		default:
			return nil, fmt.Errorf("jbig2: unsupported segment type %d", seg.Header.Type)
		}
	}

	pages := make([]*Page, 0, len(pageOrder))
	seen := make(map[uint32]bool)
	for _, pa := range pageOrder {
		if seen[pa] {
			continue
		}
		seen[pa] = true
		if p, ok := d.pages[pa]; ok {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

// placeRegion composites a decoded region onto its page if the segment is
// an immediate region, or stashes it for later reference if intermediate.
func (d *Decoder) placeRegion(seg Segment, region *Bitmap, info RegionInfo) {
	immediate := seg.Header.Type != SegTextRegionIntermediate &&
		seg.Header.Type != SegGenericRegionIntermed &&
		seg.Header.Type != SegHalftoneIntermediate &&
		seg.Header.Type != SegRefinementIntermediate
	if !immediate {
		d.regions[seg.Header.Number] = region
		return
	}
	page, ok := d.pages[seg.Header.PageAssoc]
	if !ok {
		return
	}
	page.Bitmap.Compose(region, int(info.X), int(info.Y), info.CombOp)
}

func (d *Decoder) referencedSymbols(seg Segment) []*Bitmap {
	var syms []*Bitmap
	for _, ref := range seg.Header.RefSegments {
		syms = append(syms, d.symbolDicts[ref]...)
	}
	return syms
}

func (d *Decoder) decodeSymbolDictSegment(seg Segment) ([]*Bitmap, error) {
	data := seg.Data
	if len(data) < 2 {
		return nil, fmt.Errorf("symbol dictionary segment truncated")
	}
	flags := binary.BigEndian.Uint16(data[0:2])
	sdhuff := flags&0x0001 != 0
	sdrefagg := flags&0x0002 != 0
	template := uint8((flags >> 10) & 0x03)
	off := 2

	if sdhuff {
		return nil, fmt.Errorf("Huffman-coded symbol dictionaries are not supported")
	}
	if sdrefagg {
		return nil, fmt.Errorf("refinement/aggregate-coded symbol dictionaries are not supported")
	}

	at := DefaultATPixels(template)
	numAT := 1
	if template == 0 {
		numAT = 4
	}
	for i := 0; i < numAT; i++ {
		if off+2 > len(data) {
			return nil, fmt.Errorf("symbol dictionary AT pixels truncated")
		}
		at[i] = ATPixel{X: int8(data[off]), Y: int8(data[off+1])}
		off += 2
	}

	if off+8 > len(data) {
		return nil, fmt.Errorf("symbol dictionary counts truncated")
	}
	numExSyms := binary.BigEndian.Uint32(data[off : off+4])
	numNewSyms := binary.BigEndian.Uint32(data[off+4 : off+8])
	off += 8
	_ = numExSyms

	result, err := DecodeSymbolDict(data[off:], SymbolDictParams{
		NumNewSymbols: int(numNewSyms),
		Template:      template,
		AT:            at,
		InputSymbols:  d.referencedSymbols(seg),
	})
	if err != nil {
		return nil, err
	}
	return result.ExportSymbols, nil
}

func (d *Decoder) decodePatternDictSegment(seg Segment) ([]*Bitmap, error) {
	data := seg.Data
	if len(data) < 7 {
		return nil, fmt.Errorf("pattern dictionary segment truncated")
	}
	flags := data[0]
	hdmmr := flags&0x01 != 0
	template := (flags >> 1) & 0x03
	hdpw := int(data[1])
	hdph := int(data[2])
	grayMax := int(binary.BigEndian.Uint32(data[3:7]))

	if hdmmr {
		return nil, fmt.Errorf("MMR-coded pattern dictionaries are not supported")
	}

	return DecodePatternDict(data[7:], PatternDictParams{
		PatternWidth:  hdpw,
		PatternHeight: hdph,
		GrayMax:       grayMax,
		Template:      template,
	})
}

func (d *Decoder) decodeGenericRegionSegment(seg Segment) (*Bitmap, RegionInfo, error) {
	data := seg.Data
	info, off, err := ReadRegionInfo(data)
	if err != nil {
		return nil, RegionInfo{}, err
	}
	if off >= len(data) {
		return nil, RegionInfo{}, fmt.Errorf("generic region flags truncated")
	}
	flags := data[off]
	off++
	mmr := flags&0x01 != 0
	template := (flags >> 1) & 0x03
	tpgdon := flags&0x08 != 0

	at := DefaultATPixels(template)
	if !mmr {
		numAT := 1
		if template == 0 {
			numAT = 4
		}
		for i := 0; i < numAT; i++ {
			if off+2 > len(data) {
				return nil, RegionInfo{}, fmt.Errorf("generic region AT pixels truncated")
			}
			at[i] = ATPixel{X: int8(data[off]), Y: int8(data[off+1])}
			off += 2
		}
	}

	bmp, err := DecodeGenericRegion(data[off:], GenericRegionParams{
		Width:    int(info.Width),
		Height:   int(info.Height),
		Template: template,
		TPGDON:   tpgdon,
		AT:       at,
		MMR:      mmr,
	})
	if err != nil {
		return nil, RegionInfo{}, err
	}
	return bmp, info, nil
}

func (d *Decoder) decodeRefinementRegionSegment(seg Segment) (*Bitmap, RegionInfo, error) {
	data := seg.Data
	info, off, err := ReadRegionInfo(data)
	if err != nil {
		return nil, RegionInfo{}, err
	}
	if off >= len(data) {
		return nil, RegionInfo{}, fmt.Errorf("refinement region flags truncated")
	}
	flags := data[off]
	off++
	template := flags & 0x01
	tpgron := flags&0x02 != 0

	at := DefaultRefinementAT()
	if template == 0 {
		for i := 0; i < 2; i++ {
			if off+2 > len(data) {
				return nil, RegionInfo{}, fmt.Errorf("refinement region AT pixels truncated")
			}
			at[i] = ATPixel{X: int8(data[off]), Y: int8(data[off+1])}
			off += 2
		}
	}

	var reference *Bitmap
	if len(seg.Header.RefSegments) > 0 {
		reference = d.regions[seg.Header.RefSegments[0]]
	}
	if reference == nil {
		if page, ok := d.pages[seg.Header.PageAssoc]; ok {
			ref := NewBitmap(int(info.Width), int(info.Height))
			for y := 0; y < int(info.Height); y++ {
				for x := 0; x < int(info.Width); x++ {
					ref.Set(x, y, page.Bitmap.Get(int(info.X)+x, int(info.Y)+y))
				}
			}
			reference = ref
		}
	}

	bmp, err := DecodeRefinementRegion(data[off:], RefinementParams{
		Width:     int(info.Width),
		Height:    int(info.Height),
		Template:  template,
		AT:        at,
		Reference: reference,
		TPGRON:    tpgron,
	})
	if err != nil {
		return nil, RegionInfo{}, err
	}
	return bmp, info, nil
}

func (d *Decoder) decodeTextRegionSegment(seg Segment) (*Bitmap, RegionInfo, error) {
	data := seg.Data
	info, off, err := ReadRegionInfo(data)
	if err != nil {
		return nil, RegionInfo{}, err
	}
	if off+2 > len(data) {
		return nil, RegionInfo{}, fmt.Errorf("text region flags truncated")
	}
	flags := binary.BigEndian.Uint16(data[off : off+2])
	off += 2

	sbhuff := flags&0x0001 != 0
	sbrefine := flags&0x0002 != 0
	logStrips := (flags >> 2) & 0x03
	refCorner := RefCorner((flags >> 4) & 0x03)
	transposed := flags&0x0040 != 0
	combOp := CombinationOperator((flags >> 7) & 0x03)
	sbdefpixel := (flags >> 9) & 0x01
	dsOffsetRaw := int((flags >> 10) & 0x1F)
	if dsOffsetRaw > 15 {
		dsOffsetRaw -= 32 // 5-bit two's complement
	}
	rTemplate := uint8((flags >> 15) & 0x01)

	if sbhuff {
		return nil, RegionInfo{}, fmt.Errorf("Huffman-coded text regions are not supported")
	}

	var refAT [2]ATPixel
	if sbrefine && rTemplate == 0 {
		refAT = DefaultRefinementAT()
		for i := 0; i < 2; i++ {
			if off+2 > len(data) {
				return nil, RegionInfo{}, fmt.Errorf("text region refinement AT pixels truncated")
			}
			refAT[i] = ATPixel{X: int8(data[off]), Y: int8(data[off+1])}
			off += 2
		}
	}

	if off+4 > len(data) {
		return nil, RegionInfo{}, fmt.Errorf("text region instance count truncated")
	}
	numInstances := binary.BigEndian.Uint32(data[off : off+4])
	off += 4

	bmp, err := DecodeTextRegion(data[off:], TextRegionParams{
		Width:          int(info.Width),
		Height:         int(info.Height),
		NumInstances:   int(numInstances),
		Symbols:        d.referencedSymbols(seg),
		StripSize:      1 << logStrips,
		RefCorner:      refCorner,
		Transposed:     transposed,
		CombOp:         combOp,
		DSOffset:       dsOffsetRaw,
		DefaultPixel:   int(sbdefpixel),
		Refine:         sbrefine,
		RefineTemplate: rTemplate,
		RefineAT:       refAT,
	})
	if err != nil {
		return nil, RegionInfo{}, err
	}
	return bmp, info, nil
}

func (d *Decoder) decodeHalftoneRegionSegment(seg Segment) (*Bitmap, RegionInfo, error) {
	data := seg.Data
	info, off, err := ReadRegionInfo(data)
	if err != nil {
		return nil, RegionInfo{}, err
	}
	if off >= len(data) {
		return nil, RegionInfo{}, fmt.Errorf("halftone region flags truncated")
	}
	flags := data[off]
	off++
	hmmr := flags&0x01 != 0
	template := (flags >> 1) & 0x03
	combOp := CombinationOperator((flags >> 4) & 0x03)
	defPixel := int((flags >> 6) & 0x01)

	if hmmr {
		return nil, RegionInfo{}, fmt.Errorf("MMR-coded halftone regions are not supported")
	}
	if off+16 > len(data) {
		return nil, RegionInfo{}, fmt.Errorf("halftone region grid parameters truncated")
	}
	gridWidth := int(binary.BigEndian.Uint32(data[off : off+4]))
	gridHeight := int(binary.BigEndian.Uint32(data[off+4 : off+8]))
	gridX := int(int32(binary.BigEndian.Uint32(data[off+8 : off+12])))
	gridY := int(int32(binary.BigEndian.Uint32(data[off+12 : off+16])))
	off += 16
	if off+4 > len(data) {
		return nil, RegionInfo{}, fmt.Errorf("halftone region step parameters truncated")
	}
	stepX := int(int16(binary.BigEndian.Uint16(data[off : off+2])))
	stepY := int(int16(binary.BigEndian.Uint16(data[off+2 : off+4])))
	off += 4

	var patterns []*Bitmap
	for _, ref := range seg.Header.RefSegments {
		if p, ok := d.patternDicts[ref]; ok {
			patterns = p
			break
		}
	}

	bmp, err := DecodeHalftoneRegion(data[off:], HalftoneRegionParams{
		Width:        int(info.Width),
		Height:       int(info.Height),
		Patterns:     patterns,
		GridWidth:    gridWidth,
		GridHeight:   gridHeight,
		GridX:        gridX,
		GridY:        gridY,
		RegionX:      stepX,
		RegionY:      stepY,
		Template:     template,
		CombOp:       combOp,
		DefaultPixel: defPixel,
	})
	if err != nil {
		return nil, RegionInfo{}, err
	}
	return bmp, info, nil
}
