package jbig2

import (
	"encoding/binary"
	"testing"
)

func buildPageInfoData(width, height uint32, flags byte) []byte {
	data := make([]byte, 19)
	binary.BigEndian.PutUint32(data[0:4], width)
	binary.BigEndian.PutUint32(data[4:8], height)
	binary.BigEndian.PutUint32(data[8:12], 0)  // x resolution
	binary.BigEndian.PutUint32(data[12:16], 0) // y resolution
	data[16] = flags
	return data
}

func TestParsePageInfo(t *testing.T) {
	// bit2 (default pixel value) set, bits3-4 = 01 (comb op 1, And)
	info, err := ParsePageInfo(buildPageInfoData(100, 200, 0x04|0x08))
	if err != nil {
		t.Fatalf("ParsePageInfo: %v", err)
	}
	if info.Width != 100 || info.Height != 200 {
		t.Fatalf("unexpected dimensions: %+v", info)
	}
	if info.DefaultPixelValue != 1 {
		t.Errorf("DefaultPixelValue = %d, want 1", info.DefaultPixelValue)
	}
	if info.DefaultCombOp != CombAnd {
		t.Errorf("DefaultCombOp = %v, want CombAnd", info.DefaultCombOp)
	}
}

func TestParsePageInfoTruncated(t *testing.T) {
	if _, err := ParsePageInfo(make([]byte, 5)); err == nil {
		t.Fatal("ParsePageInfo should reject truncated input")
	}
}

func TestNewPageAllocatesAndFills(t *testing.T) {
	info := PageInfo{Width: 8, Height: 2, DefaultPixelValue: 1}
	page, err := NewPage(info)
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if page.Bitmap.Width != 8 || page.Bitmap.Height != 2 {
		t.Fatalf("unexpected bitmap size: %dx%d", page.Bitmap.Width, page.Bitmap.Height)
	}
	if page.Bitmap.Get(0, 0) != 1 {
		t.Error("default pixel value 1 should fill the page bitmap")
	}
}

func TestNewPageRejectsUnknownHeight(t *testing.T) {
	info := PageInfo{Width: 8, Height: 0xFFFFFFFF}
	if _, err := NewPage(info); err == nil {
		t.Fatal("NewPage should reject unknown (striped) page height")
	}
}
