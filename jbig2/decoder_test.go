package jbig2

import (
	"encoding/binary"
	"testing"
)

func appendSegmentHeader(buf []byte, number uint32, segType byte, pageAssoc byte, dataLen uint32) []byte {
	hdr := make([]byte, 4)
	binary.BigEndian.PutUint32(hdr, number)
	buf = append(buf, hdr...)
	buf = append(buf, segType) // flags: type in low 6 bits, page-assoc size bit (6) = 0 -> 1 byte
	buf = append(buf, 0x00)    // ref flags: short form, count 0
	buf = append(buf, pageAssoc)
	lenBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBytes, dataLen)
	buf = append(buf, lenBytes...)
	return buf
}

func TestDecoderPageInfoThenEndOfFile(t *testing.T) {
	var data []byte
	data = appendSegmentHeader(data, 1, 48 /* page info */, 1, 19)
	data = append(data, buildPageInfoData(10, 20, 0)...)
	data = appendSegmentHeader(data, 2, 51 /* end of file */, 1, 0)

	d := NewDecoder()
	pages, err := d.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("len(pages) = %d, want 1", len(pages))
	}
	if pages[0].Bitmap.Width != 10 || pages[0].Bitmap.Height != 20 {
		t.Fatalf("unexpected page bitmap size: %dx%d", pages[0].Bitmap.Width, pages[0].Bitmap.Height)
	}
}

func TestDecoderRejectsTablesSegment(t *testing.T) {
	var data []byte
	data = appendSegmentHeader(data, 1, 53 /* tables */, 1, 0)

	d := NewDecoder()
	if _, err := d.Decode(data); err == nil {
		t.Fatal("Decode should reject custom Huffman table segments")
	}
}

func TestDecoderRejectsUnsupportedSegmentType(t *testing.T) {
	var data []byte
	data = appendSegmentHeader(data, 1, 63, 1, 0) // type 63 doesn't exist in T.88

	d := NewDecoder()
	if _, err := d.Decode(data); err == nil {
		t.Fatal("Decode should reject an unrecognized segment type")
	}
}

func TestPlaceRegionStashesIntermediateAndCompositesImmediate(t *testing.T) {
	d := NewDecoder()
	page, err := NewPage(PageInfo{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	d.pages[1] = page

	region := NewBitmap(2, 2)
	region.Fill(1)
	info := RegionInfo{Width: 2, Height: 2, X: 1, Y: 1, CombOp: CombOr}

	intermediate := Segment{Header: SegmentHeader{Number: 9, Type: SegGenericRegionIntermed, PageAssoc: 1}}
	d.placeRegion(intermediate, region, info)
	if _, ok := d.regions[9]; !ok {
		t.Fatal("intermediate region should be stashed by segment number")
	}
	if page.Bitmap.Get(1, 1) != 0 {
		t.Fatal("intermediate region should not be composited onto the page")
	}

	immediate := Segment{Header: SegmentHeader{Number: 10, Type: SegGenericRegionImmediate, PageAssoc: 1}}
	d.placeRegion(immediate, region, info)
	if page.Bitmap.Get(1, 1) != 1 {
		t.Fatal("immediate region should be composited onto the page")
	}
}

func TestReferencedSymbolsCollectsAcrossRefs(t *testing.T) {
	d := NewDecoder()
	d.symbolDicts[1] = []*Bitmap{NewBitmap(1, 1)}
	d.symbolDicts[2] = []*Bitmap{NewBitmap(1, 1), NewBitmap(1, 1)}

	seg := Segment{Header: SegmentHeader{RefSegments: []uint32{1, 2}}}
	syms := d.referencedSymbols(seg)
	if len(syms) != 3 {
		t.Fatalf("len(syms) = %d, want 3", len(syms))
	}
}
