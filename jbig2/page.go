package jbig2

import (
	"encoding/binary"
	"fmt"
)

// PageInfo is the parsed page information segment (clause 7.4.8): page
// dimensions, resolution, and default compositing behavior for every region
// segment associated with this page.
type PageInfo struct {
	Width             uint32
	Height            uint32 // 0xFFFFFFFF means "unknown, determined by striping"
	XResolution       uint32
	YResolution       uint32
	DefaultPixelValue int
	DefaultCombOp     CombinationOperator
	MightContainRef   bool
	IsLossless        bool
}

// ParsePageInfo parses a page information segment's data (clause 7.4.8.1).
func ParsePageInfo(data []byte) (*PageInfo, error) {
	if len(data) < 19 {
		return nil, fmt.Errorf("jbig2: page info segment truncated: %d bytes", len(data))
	}
	flags := data[16]
	info := &PageInfo{
		Width:             binary.BigEndian.Uint32(data[0:4]),
		Height:            binary.BigEndian.Uint32(data[4:8]),
		XResolution:       binary.BigEndian.Uint32(data[8:12]),
		YResolution:       binary.BigEndian.Uint32(data[12:16]),
		IsLossless:        flags&0x01 != 0,
		MightContainRef:   flags&0x02 != 0,
		DefaultPixelValue: int((flags >> 2) & 0x01),
		DefaultCombOp:     CombinationOperator((flags >> 3) & 0x03),
	}
	return info, nil
}

// Page is a fully composed JBIG2 page: one bitmap plus the information
// segment that described how to build it.
type Page struct {
	Info   PageInfo
	Bitmap *Bitmap
}

// NewPage allocates a page bitmap per the page information segment,
// defaulting every pixel to DefaultPixelValue. Pages with unknown height
// (striped, clause 7.4.8.1) are not supported: this package requires a
// known page height up front rather than growing the bitmap as
// end-of-stripe segments arrive.
func NewPage(info PageInfo) (*Page, error) {
	if info.Height == 0xFFFFFFFF {
		return nil, fmt.Errorf("jbig2: striped pages with unknown height are not supported")
	}
	bmp := NewBitmap(int(info.Width), int(info.Height))
	if info.DefaultPixelValue != 0 {
		bmp.Fill(1)
	}
	return &Page{Info: info, Bitmap: bmp}, nil
}
