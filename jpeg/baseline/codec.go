package baseline

import (
	"fmt"

	"github.com/codecore/imagecodecs/codec"
)

// dicomTransferSyntaxUID is the well-known DICOM Transfer Syntax UID for
// JPEG Baseline (Process 1), reused verbatim since this codec's wire format
// is the same ITU T.81 baseline bitstream DICOM encapsulates.
const dicomTransferSyntaxUID = "1.2.840.10008.1.2.4.50"

var _ codec.Codec = (*Codec)(nil)

// Codec implements codec.Codec for baseline JPEG. Per SPEC_FULL.md
// Non-goals, it is decode-only: Encode always fails.
type Codec struct{}

// New creates a baseline JPEG decoder codec.
func New() *Codec {
	return &Codec{}
}

func (c *Codec) Name() string { return "JPEG Baseline" }

func (c *Codec) UID() string { return dicomTransferSyntaxUID }

func (c *Codec) Encode(codec.EncodeParams) ([]byte, error) {
	return nil, fmt.Errorf("jpeg/baseline: %w", codec.ErrUnsupportedFormat)
}

func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	frame, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &codec.DecodeResult{
		PixelData:  frame.Pixels,
		Width:      frame.Width,
		Height:     frame.Height,
		Components: frame.Components,
		BitDepth:   8,
	}, nil
}

func init() {
	codec.Register(New())
}
