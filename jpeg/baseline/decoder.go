// Package baseline implements the baseline-sequential JPEG (ITU T.81/JFIF)
// decode pipeline: MarkerReader -> HuffmanTableBuilder -> BitReader ->
// EntropyDecoder -> Dequantizer -> InverseDct -> ChromaUpsampler +
// ColorConverter, per SPEC_FULL.md §4.2.
package baseline

import (
	"bytes"
	"fmt"

	"github.com/codecore/imagecodecs/bitio"
	"github.com/codecore/imagecodecs/jpeg/common"
)

// Component holds one frame component's parameters and decoded sample grid.
type Component struct {
	ID              byte
	H, V            int
	Tq              int
	widthBlocks     int
	heightBlocks    int
	dcTableSelector int
	acTableSelector int
	dcPred          int32
	data            []byte // widthBlocks*heightBlocks*64 samples, block-major
}

// Frame is the decoded image: interleaved samples plus the geometry needed
// to interpret them.
type Frame struct {
	Width, Height int
	Components    int
	Pixels        []byte // interleaved, Components bytes/pixel
}

// Decoder holds the state threaded through one baseline decode, per
// spec.md §9's direction to keep DC-predictor/table state in an explicit
// record rather than module-level globals.
type Decoder struct {
	width, height int
	precision     int
	components    []*Component
	qtables       [4][64]int32
	dcTables      [4]*common.HuffmanTable
	acTables      [4]*common.HuffmanTable
	mcuWidth      int
	mcuHeight     int
	restartInt    int
}

// Decode parses and decodes a baseline JPEG byte stream into a raster Frame.
func Decode(jpegData []byte) (*Frame, error) {
	r := common.NewReader(bytes.NewReader(jpegData))
	d := &Decoder{}

	marker, err := r.ReadMarker()
	if err != nil {
		return nil, wrapOffset(common.ErrInvalidSOI, r)
	}
	if marker != common.MarkerSOI {
		return nil, wrapOffset(common.ErrInvalidSOI, r)
	}

	for {
		marker, err := r.ReadMarker()
		if err != nil {
			return nil, wrapOffset(common.ErrUnexpectedEOF, r)
		}

		switch {
		case marker == common.MarkerSOF0:
			if err := d.parseSOF(r); err != nil {
				return nil, err
			}
		case common.IsSOF(marker) && marker != common.MarkerSOF0:
			return nil, wrapOffset(fmt.Errorf("%w: non-baseline SOF marker 0x%04X", common.ErrUnsupportedFormat, marker), r)
		case marker == common.MarkerDQT:
			if err := d.parseDQT(r); err != nil {
				return nil, err
			}
		case marker == common.MarkerDHT:
			if err := d.parseDHT(r); err != nil {
				return nil, err
			}
		case marker == common.MarkerDRI:
			if err := d.parseDRI(r); err != nil {
				return nil, err
			}
		case marker == common.MarkerSOS:
			scanStart, err := d.parseSOS(r, jpegData)
			if err != nil {
				return nil, err
			}
			if err := d.decodeScan(jpegData, scanStart); err != nil {
				return nil, err
			}
			return d.assemble(), nil
		case marker == common.MarkerEOI:
			return d.assemble(), nil
		default:
			if common.HasLength(marker) {
				if _, err := r.ReadSegment(); err != nil {
					return nil, wrapOffset(err, r)
				}
			}
		}
	}
}

func wrapOffset(err error, r *common.Reader) error {
	return fmt.Errorf("%w at offset %d", err, r.Pos())
}

func (d *Decoder) parseSOF(r *common.Reader) error {
	data, err := r.ReadSegment()
	if err != nil {
		return wrapOffset(err, r)
	}
	if len(data) < 6 {
		return wrapOffset(common.ErrInvalidSOF, r)
	}

	d.precision = int(data[0])
	if d.precision != 8 {
		return wrapOffset(fmt.Errorf("%w: precision %d", common.ErrUnsupportedFormat, d.precision), r)
	}

	d.height = int(data[1])<<8 | int(data[2])
	d.width = int(data[3])<<8 | int(data[4])
	numComponents := int(data[5])

	if d.width <= 0 || d.height <= 0 {
		return wrapOffset(common.ErrInvalidDimensions, r)
	}
	if numComponents != 1 && numComponents != 3 {
		return wrapOffset(common.ErrInvalidComponents, r)
	}
	if len(data) < 6+numComponents*3 {
		return wrapOffset(common.ErrInvalidSOF, r)
	}

	maxH, maxV := 1, 1
	d.components = make([]*Component, numComponents)
	for i := 0; i < numComponents; i++ {
		off := 6 + i*3
		comp := &Component{
			ID: data[off],
			H:  int(data[off+1] >> 4),
			V:  int(data[off+1] & 0x0F),
			Tq: int(data[off+2]),
		}
		if comp.H <= 0 || comp.H > 4 || comp.V <= 0 || comp.V > 4 || comp.Tq > 3 {
			return wrapOffset(common.ErrInvalidSOF, r)
		}
		if comp.H > maxH {
			maxH = comp.H
		}
		if comp.V > maxV {
			maxV = comp.V
		}
		d.components[i] = comp
	}

	d.mcuWidth = maxH * 8
	d.mcuHeight = maxV * 8

	for _, comp := range d.components {
		comp.widthBlocks = common.DivCeil(d.width, maxH*8) * comp.H
		comp.heightBlocks = common.DivCeil(d.height, maxV*8) * comp.V
		comp.data = make([]byte, comp.widthBlocks*comp.heightBlocks*64)
	}

	return nil
}

func (d *Decoder) parseDQT(r *common.Reader) error {
	data, err := r.ReadSegment()
	if err != nil {
		return wrapOffset(err, r)
	}

	off := 0
	for off < len(data) {
		pqTq := data[off]
		pq := pqTq >> 4
		tq := pqTq & 0x0F
		if tq > 3 {
			return wrapOffset(common.ErrInvalidDQT, r)
		}
		off++

		if pq == 0 {
			if off+64 > len(data) {
				return wrapOffset(common.ErrInvalidDQT, r)
			}
			for i := 0; i < 64; i++ {
				d.qtables[tq][i] = int32(data[off+i])
			}
			off += 64
		} else {
			if off+128 > len(data) {
				return wrapOffset(common.ErrInvalidDQT, r)
			}
			for i := 0; i < 64; i++ {
				d.qtables[tq][i] = int32(data[off+i*2])<<8 | int32(data[off+i*2+1])
			}
			off += 128
		}
	}
	return nil
}

func (d *Decoder) parseDHT(r *common.Reader) error {
	data, err := r.ReadSegment()
	if err != nil {
		return wrapOffset(err, r)
	}

	off := 0
	for off < len(data) {
		tcTh := data[off]
		tc := tcTh >> 4
		th := tcTh & 0x0F
		if th > 3 {
			return wrapOffset(common.ErrInvalidDHT, r)
		}
		off++

		table := &common.HuffmanTable{}
		total := 0
		for i := 0; i < 16; i++ {
			if off >= len(data) {
				return wrapOffset(common.ErrInvalidDHT, r)
			}
			table.Bits[i] = int(data[off])
			total += table.Bits[i]
			off++
		}
		if total > 256 || off+total > len(data) {
			return wrapOffset(common.ErrInvalidDHT, r)
		}
		table.Values = make([]byte, total)
		copy(table.Values, data[off:off+total])
		off += total

		if err := table.Build(); err != nil {
			return wrapOffset(err, r)
		}
		if tc == 0 {
			d.dcTables[th] = table
		} else {
			d.acTables[th] = table
		}
	}
	return nil
}

func (d *Decoder) parseDRI(r *common.Reader) error {
	data, err := r.ReadSegment()
	if err != nil {
		return wrapOffset(err, r)
	}
	if len(data) != 2 {
		return wrapOffset(common.ErrInvalidData, r)
	}
	d.restartInt = int(data[0])<<8 | int(data[1])
	return nil
}

// parseSOS parses the scan header and returns the byte offset (into the
// original jpegData) at which entropy-coded data begins.
func (d *Decoder) parseSOS(r *common.Reader, jpegData []byte) (int, error) {
	data, err := r.ReadSegment()
	if err != nil {
		return 0, wrapOffset(err, r)
	}
	if len(data) < 1 {
		return 0, wrapOffset(common.ErrInvalidSOS, r)
	}

	ns := int(data[0])
	if len(data) < 1+ns*2+3 {
		return 0, wrapOffset(common.ErrInvalidSOS, r)
	}

	for i := 0; i < ns; i++ {
		cs := data[1+i*2]
		tdTa := data[1+i*2+1]
		td := int(tdTa >> 4)
		ta := int(tdTa & 0x0F)

		var comp *Component
		for _, c := range d.components {
			if c.ID == cs {
				comp = c
				break
			}
		}
		if comp == nil {
			return 0, wrapOffset(common.ErrInvalidSOS, r)
		}
		comp.dcTableSelector = td
		comp.acTableSelector = ta
	}

	// Ss, Se, AhAl trail the component list; baseline requires 0,63,0.
	trailer := data[1+ns*2:]
	if len(trailer) >= 3 {
		ss, se := trailer[0], trailer[1]
		if ss != 0 || se != 63 {
			return 0, wrapOffset(fmt.Errorf("%w: non-baseline spectral selection", common.ErrUnsupportedFormat), r)
		}
	}

	return int(r.Pos()), nil
}

// decodeScan decodes the entropy-coded segment following a SOS marker,
// honoring the restart interval per spec.md §4.2.3: every restartInt MCUs,
// align to byte, consume exactly one cycling RSTn marker, and reset every
// component's DC predictor to zero.
func (d *Decoder) decodeScan(jpegData []byte, start int) error {
	mcuCols := common.DivCeil(d.width, d.mcuWidth)
	mcuRows := common.DivCeil(d.height, d.mcuHeight)

	br := bitio.NewReader(jpegData, start, bitio.DialectJPEG)
	mcuCount := 0
	expectRST := 0

	for mcuY := 0; mcuY < mcuRows; mcuY++ {
		for mcuX := 0; mcuX < mcuCols; mcuX++ {
			for _, comp := range d.components {
				for v := 0; v < comp.V; v++ {
					for h := 0; h < comp.H; h++ {
						gx := mcuX*comp.H + h
						gy := mcuY*comp.V + v
						if err := d.decodeBlock(br, comp, gx, gy); err != nil {
							return err
						}
					}
				}
			}

			mcuCount++
			last := mcuY == mcuRows-1 && mcuX == mcuCols-1
			if d.restartInt > 0 && mcuCount%d.restartInt == 0 && !last {
				if err := d.consumeRestart(jpegData, br, expectRST); err != nil {
					return err
				}
				expectRST = (expectRST + 1) % 8
			}
		}
	}
	return nil
}

// consumeRestart expects RST<expectN> at the next byte boundary, steps past
// it and resets every component's DC predictor. A missing, truncated or
// wrong-numbered marker is returned as an error; the decoder does not seek
// forward to the next restart marker to resynchronise.
func (d *Decoder) consumeRestart(jpegData []byte, br *bitio.Reader, expectN int) error {
	br.AlignToByte()
	pos := br.BytePos()
	if pos+2 > len(jpegData) {
		return fmt.Errorf("%w: truncated restart marker at offset %d", common.ErrUnexpectedEOF, pos)
	}
	if jpegData[pos] != 0xFF {
		return fmt.Errorf("%w: expected restart marker at offset %d", common.ErrInvalidMarker, pos)
	}
	got := jpegData[pos+1]
	want := byte(0xD0 + expectN)
	if got != want {
		return fmt.Errorf("%w: restart marker mismatch at offset %d (got RST%d, want RST%d)",
			common.ErrInvalidData, pos, got-0xD0, expectN)
	}
	br.Reset(pos + 2)
	for _, comp := range d.components {
		comp.dcPred = 0
	}
	return nil
}

func (d *Decoder) decodeBlock(br *bitio.Reader, comp *Component, blockX, blockY int) error {
	var coef [64]int32

	dcTable := d.dcTables[comp.dcTableSelector]
	if dcTable == nil {
		return common.ErrInvalidDHT
	}
	s, err := common.DecodeHuffmanSymbol(br, dcTable)
	if err != nil {
		return err
	}
	diff, err := common.ReceiveExtend(br, int(s))
	if err != nil {
		return err
	}
	comp.dcPred += diff
	coef[0] = comp.dcPred

	acTable := d.acTables[comp.acTableSelector]
	if acTable == nil {
		return common.ErrInvalidDHT
	}

	k := 1
	for k < 64 {
		rs, err := common.DecodeHuffmanSymbol(br, acTable)
		if err != nil {
			return err
		}
		run := int(rs >> 4)
		size := int(rs & 0x0F)

		if size == 0 {
			if run == 15 {
				k += 16 // ZRL
				continue
			}
			break // EOB
		}

		k += run
		if k >= 64 {
			return common.ErrInvalidData
		}
		val, err := common.ReceiveExtend(br, size)
		if err != nil {
			return err
		}
		coef[common.ZigZag[k]] = val
		k++
	}

	qtable := &d.qtables[comp.Tq]
	for i := 0; i < 64; i++ {
		coef[common.ZigZag[i]] *= qtable[i]
	}

	if blockX >= comp.widthBlocks || blockY >= comp.heightBlocks {
		return nil
	}
	blockOffset := (blockY*comp.widthBlocks + blockX) * 64
	common.IDCT(coef[:], comp.data[blockOffset:], 8)
	return nil
}

// assemble upsamples chroma (nearest-neighbour) and converts YCbCr to RGB
// (or passes through a single grayscale component), per spec.md §4.2.6.
func (d *Decoder) assemble() *Frame {
	n := len(d.components)
	f := &Frame{Width: d.width, Height: d.height, Components: n}

	if n == 1 {
		f.Pixels = make([]byte, d.width*d.height)
		comp := d.components[0]
		for y := 0; y < d.height; y++ {
			for x := 0; x < d.width; x++ {
				bx, by := x/8, y/8
				ix, iy := x%8, y%8
				if bx < comp.widthBlocks && by < comp.heightBlocks {
					f.Pixels[y*d.width+x] = comp.data[(by*comp.widthBlocks+bx)*64+iy*8+ix]
				}
			}
		}
		return f
	}

	f.Pixels = make([]byte, d.width*d.height*3)
	maxH, maxV := d.components[0].H, d.components[0].V
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			var yy, cb, cr byte
			for i, comp := range d.components {
				sx := (x * comp.H) / maxH
				sy := (y * comp.V) / maxV
				bx, by := sx/8, sy/8
				ix, iy := sx%8, sy%8
				var v byte
				if bx < comp.widthBlocks && by < comp.heightBlocks {
					v = comp.data[(by*comp.widthBlocks+bx)*64+iy*8+ix]
				}
				switch i {
				case 0:
					yy = v
				case 1:
					cb = v
				case 2:
					cr = v
				}
			}
			r, g, b := ycbcrToRGB(yy, cb, cr)
			off := (y*d.width + x) * 3
			f.Pixels[off] = r
			f.Pixels[off+1] = g
			f.Pixels[off+2] = b
		}
	}
	return f
}

// ycbcrToRGB applies the integer colour conversion of spec.md §4.2.6.
func ycbcrToRGB(yy, cb, cr byte) (byte, byte, byte) {
	y := int(yy)
	cbVal := int(cb) - 128
	crVal := int(cr) - 128

	r := y + (91881*crVal)>>16
	g := y - ((22554*cbVal + 46802*crVal) >> 16)
	b := y + (116130*cbVal)>>16

	return byte(common.Clamp(r, 0, 255)),
		byte(common.Clamp(g, 0, 255)),
		byte(common.Clamp(b, 0, 255))
}
