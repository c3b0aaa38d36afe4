package jpeg2000

import (
	"fmt"

	"github.com/codecore/imagecodecs/codec"
)

// dicomTransferSyntaxUID is the well-known DICOM Transfer Syntax UID for
// JPEG 2000 Part 1 (lossy or lossless, codestream determines which).
const dicomTransferSyntaxUID = "1.2.840.10008.1.2.4.90"

var _ codec.Codec = (*Codec)(nil)

// Codec implements codec.Codec for JPEG 2000 Part 1. Decode-only, per
// SPEC_FULL.md Non-goals: Encode always fails.
type Codec struct{}

// New creates a JPEG 2000 decoder codec.
func New() *Codec {
	return &Codec{}
}

func (c *Codec) Name() string { return "JPEG 2000" }

func (c *Codec) UID() string { return dicomTransferSyntaxUID }

func (c *Codec) Encode(codec.EncodeParams) ([]byte, error) {
	return nil, fmt.Errorf("jpeg2000: %w", codec.ErrUnsupportedFormat)
}

func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	d := NewDecoder()
	if err := d.Decode(data); err != nil {
		return nil, err
	}
	return &codec.DecodeResult{
		PixelData:  d.GetPixelData(),
		Width:      d.Width(),
		Height:     d.Height(),
		Components: d.Components(),
		BitDepth:   d.BitDepth(),
	}, nil
}

func init() {
	codec.Register(New())
}
