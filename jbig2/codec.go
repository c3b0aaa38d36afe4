package jbig2

import (
	"fmt"

	"github.com/codecore/imagecodecs/codec"
)

// syntheticUID is a fixed identifier for this codec: DICOM has no
// standard Transfer Syntax UID for bare JBIG2 (it appears embedded in PDF,
// not as its own transfer syntax), so this follows codec.Codec's documented
// fallback of a synthetic identifier rather than a DICOM-registered one.
const syntheticUID = "1.2.840.10008.5.1.4.1.1.7.2-jbig2-codecore"

var _ codec.Codec = (*Codec)(nil)

// Codec implements codec.Codec for JBIG2. Decode-only, arithmetic-coding
// profile (see errors.go); Encode always fails per SPEC_FULL.md Non-goals.
type Codec struct{}

// New creates a JBIG2 decoder codec.
func New() *Codec {
	return &Codec{}
}

func (c *Codec) Name() string { return "JBIG2" }

func (c *Codec) UID() string { return syntheticUID }

func (c *Codec) Encode(codec.EncodeParams) ([]byte, error) {
	return nil, fmt.Errorf("jbig2: %w", codec.ErrUnsupportedFormat)
}

// Decode decodes a JBIG2 segment stream and returns its first page as
// packed 1-bit-per-pixel pixel data (BitDepth 1, matching how DICOM encodes
// bilevel PixelData).
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	d := NewDecoder()
	pages, err := d.Decode(data)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("jbig2: no pages decoded")
	}
	page := pages[0]
	return &codec.DecodeResult{
		PixelData:  page.Bitmap.Data,
		Width:      page.Bitmap.Width,
		Height:     page.Bitmap.Height,
		Components: 1,
		BitDepth:   1,
	}, nil
}

func init() {
	codec.Register(New())
}
