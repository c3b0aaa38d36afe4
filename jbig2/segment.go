package jbig2

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Segment types (ITU T.88 Table 6 / clause 7.3).
const (
	SegSymbolDictionary         = 0
	SegTextRegionIntermediate   = 4
	SegTextRegionImmediate      = 6
	SegTextRegionImmediateLossl = 7
	SegPatternDictionary        = 16
	SegHalftoneIntermediate     = 20
	SegHalftoneImmediate        = 22
	SegHalftoneImmediateLossl   = 23
	SegGenericRegionIntermed    = 36
	SegGenericRegionImmediate   = 38
	SegGenericRegionImmedLossl  = 39
	SegRefinementIntermediate   = 40
	SegRefinementImmediate      = 42
	SegRefinementImmedLossless  = 43
	SegPageInfo                 = 48
	SegEndOfPage                = 49
	SegEndOfStripe              = 50
	SegEndOfFile                = 51
	SegProfiles                 = 52
	SegTables                   = 53
	SegExtension                = 62
)

// fileHeaderMagic is the optional JBIG2 embedded/sequential file header
// (ITU T.88 clause D.4.1), present when decoding a standalone .jb2 file
// rather than a DICOM/PDF-embedded segment stream.
var fileHeaderMagic = []byte{0x97, 0x4A, 0x42, 0x32, 0x0D, 0x0A, 0x1A, 0x0A}

// SegmentHeader is a parsed JBIG2 segment header (clause 7.2).
type SegmentHeader struct {
	Number        uint32
	Type          uint8
	PageAssocSize int // 1 or 4
	RefSegments   []uint32
	PageAssoc     uint32
	DataLength    uint32 // 0xFFFFFFFF means "unknown length" (clause 7.2.7)
}

// Segment is a header plus its raw payload bytes.
type Segment struct {
	Header SegmentHeader
	Data   []byte
}

// stripFileHeader removes the optional JBIG2 file header from the front of
// data, if present, returning the remainder unchanged otherwise.
func stripFileHeader(data []byte) []byte {
	if len(data) < 9 || !bytes.Equal(data[:8], fileHeaderMagic) {
		return data
	}
	flags := data[8]
	off := 9
	// Bit 1 of the flags byte: 0 = sequential (page count follows), 1 = random-access.
	if flags&0x02 == 0 {
		off += 4 // number of pages
	}
	if off > len(data) {
		return data
	}
	return data[off:]
}

// ParseSegments reads a flat stream of segment headers+data (as embedded in
// PDF/DICOM, or a standalone file with its optional header stripped).
func ParseSegments(data []byte) ([]Segment, error) {
	data = stripFileHeader(data)
	r := bytes.NewReader(data)

	var segments []Segment
	for {
		hdr, err := readSegmentHeader(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return segments, err
		}

		seg := Segment{Header: *hdr}
		if hdr.DataLength == 0xFFFFFFFF {
			return segments, fmt.Errorf("jbig2: unknown-length segments are not supported")
		}
		if hdr.DataLength > 0 {
			seg.Data = make([]byte, hdr.DataLength)
			if _, err := io.ReadFull(r, seg.Data); err != nil {
				return segments, fmt.Errorf("jbig2: segment %d: %w", hdr.Number, err)
			}
		}
		segments = append(segments, seg)

		if hdr.Type == SegEndOfFile {
			break
		}
	}
	return segments, nil
}

// readSegmentHeader parses one segment header (ITU T.88 clause 7.2).
func readSegmentHeader(r *bytes.Reader) (*SegmentHeader, error) {
	hdr := &SegmentHeader{}

	if err := binary.Read(r, binary.BigEndian, &hdr.Number); err != nil {
		return nil, err
	}

	flags, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("jbig2: reading segment flags: %w", err)
	}
	hdr.Type = flags & 0x3F
	if flags&0x40 != 0 {
		hdr.PageAssocSize = 4
	} else {
		hdr.PageAssocSize = 1
	}

	refFlags, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("jbig2: reading referred-to segment count: %w", err)
	}
	refCount := int(refFlags >> 5)
	if refCount == 7 {
		// Long form: re-read as a 4-byte field whose top 3 bits hold the
		// sentinel 7 and whose low 29 bits are the count, followed by a
		// retain-bit array of ceil((refCount+1)/8) bytes.
		if _, err := r.Seek(-1, io.SeekCurrent); err != nil {
			return nil, err
		}
		var long uint32
		if err := binary.Read(r, binary.BigEndian, &long); err != nil {
			return nil, err
		}
		refCount = int(long & 0x1FFFFFFF)
		retainBytes := (refCount + 8) / 8 // ceil((refCount+1)/8)
		if _, err := r.Seek(int64(retainBytes), io.SeekCurrent); err != nil {
			return nil, err
		}
	}

	// Referred-to segment numbers: width depends on this segment's own number.
	hdr.RefSegments = make([]uint32, refCount)
	for i := 0; i < refCount; i++ {
		switch {
		case hdr.Number <= 256:
			b, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			hdr.RefSegments[i] = uint32(b)
		case hdr.Number <= 65536:
			var v uint16
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return nil, err
			}
			hdr.RefSegments[i] = uint32(v)
		default:
			if err := binary.Read(r, binary.BigEndian, &hdr.RefSegments[i]); err != nil {
				return nil, err
			}
		}
	}

	if hdr.PageAssocSize == 4 {
		if err := binary.Read(r, binary.BigEndian, &hdr.PageAssoc); err != nil {
			return nil, err
		}
	} else {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		hdr.PageAssoc = uint32(b)
	}

	if err := binary.Read(r, binary.BigEndian, &hdr.DataLength); err != nil {
		return nil, err
	}

	return hdr, nil
}

// RegionInfo is the common region segment information field (clause 7.4.1)
// present at the start of every region segment's data.
type RegionInfo struct {
	Width  uint32
	Height uint32
	X      uint32
	Y      uint32
	CombOp CombinationOperator // low 3 bits of the flags byte
}

// ReadRegionInfo parses a RegionInfo from the front of a region segment's
// data and returns the number of bytes consumed (always 17).
func ReadRegionInfo(data []byte) (RegionInfo, int, error) {
	if len(data) < 17 {
		return RegionInfo{}, 0, fmt.Errorf("jbig2: region info truncated: %d bytes", len(data))
	}
	info := RegionInfo{
		Width:  binary.BigEndian.Uint32(data[0:4]),
		Height: binary.BigEndian.Uint32(data[4:8]),
		X:      binary.BigEndian.Uint32(data[8:12]),
		Y:      binary.BigEndian.Uint32(data[12:16]),
		CombOp: CombinationOperator(data[16] & 0x07),
	}
	return info, 17, nil
}
