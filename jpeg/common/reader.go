package common

import (
	"encoding/binary"
	"io"
)

// Reader provides byte-level access to a JPEG marker-segment stream:
// reading markers, 16-bit big-endian lengths, and length-prefixed segments.
// Bit-level entropy decoding is handled separately by bitio.Reader.
//
// Grounded on jpeg/standard/reader.go, adapted into jpeg/common so the
// baseline decoder has a single marker reader to depend on instead of a
// sibling package.
type Reader struct {
	r   io.Reader
	buf [2]byte
	pos int64
}

// NewReader creates a marker-stream reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Pos returns the current byte offset, for error reporting (spec.md §7).
func (r *Reader) Pos() int64 { return r.pos }

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	_, err := io.ReadFull(r.r, r.buf[:1])
	if err != nil {
		return 0, err
	}
	r.pos++
	return r.buf[0], nil
}

// ReadUint16 reads a 16-bit big-endian value.
func (r *Reader) ReadUint16() (uint16, error) {
	_, err := io.ReadFull(r.r, r.buf[:2])
	if err != nil {
		return 0, err
	}
	r.pos += 2
	return binary.BigEndian.Uint16(r.buf[:2]), nil
}

// ReadMarker reads the next JPEG marker, returning its value including the
// 0xFF prefix (e.g. 0xFFD8 for SOI). Tolerates padding 0xFF fill bytes before
// the marker byte per ITU T.81 B.1.1.
func (r *Reader) ReadMarker() (uint16, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return 0, ErrInvalidMarker
	}

	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != 0xFF {
			break
		}
	}

	if b == 0x00 {
		return 0, ErrInvalidMarker
	}

	return uint16(0xFF00) | uint16(b), nil
}

// ReadSegment reads a length-prefixed marker segment, returning its payload
// (the length field itself is not included).
func (r *Reader) ReadSegment() ([]byte, error) {
	length, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if length < 2 {
		return nil, ErrInvalidData
	}

	data := make([]byte, length-2)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, err
	}
	r.pos += int64(len(data))
	return data, nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	if n <= 0 {
		return nil
	}
	nn, err := io.CopyN(io.Discard, r.r, int64(n))
	r.pos += nn
	return err
}
