package t2

import (
	"bytes"
	"fmt"
)

// PacketDecoder decodes JPEG 2000 packets
// Reference: ISO/IEC 15444-1:2019 Annex B
type PacketDecoder struct {
	// Input bitstream
	data   []byte
	offset int

	// Decoding parameters
	numComponents  int
	numLayers      int
	numResolutions int
	progression    ProgressionOrder
	imageWidth     int
	imageHeight    int
	cbWidth        int
	cbHeight       int
	numLevels      int
	codeBlockStyle uint8 // Code-block style (for TERMALL detection)

	// Parsed packets
	packets []Packet

	// Per-component bounds and subsampling, recorded for callers that need
	// precise per-component geometry; calculateNumCodeBlocks itself still
	// works off the shared imageWidth/imageHeight set via
	// SetImageDimensions, matching the single-precinct-per-resolution
	// simplification used throughout this package.
	componentBounds   map[int][4]int // x0, y0, x1, y1
	componentSampling map[int][2]int // XRsiz, YRsiz
	precinctWidths    []int
	precinctHeights   []int

	// Per (component, resolution) packet header state: tag trees and
	// code-block states persist across layers within a tile-part.
	bandState map[string]*packetHeaderBand
}

// NewPacketDecoder creates a new packet decoder
func NewPacketDecoder(data []byte, numComponents, numLayers, numResolutions int, progression ProgressionOrder, codeBlockStyle uint8) *PacketDecoder {
	return &PacketDecoder{
		data:           data,
		offset:         0,
		numComponents:  numComponents,
		numLayers:      numLayers,
		numResolutions: numResolutions,
		progression:    progression,
		imageWidth:     0,  // Will be set later if needed
		imageHeight:    0,  // Will be set later if needed
		cbWidth:        64, // Default code-block size
		cbHeight:       64, // Default code-block size
		numLevels:      numResolutions - 1,
		codeBlockStyle: codeBlockStyle,
		packets:        make([]Packet, 0),
		componentBounds:   make(map[int][4]int),
		componentSampling: make(map[int][2]int),
		bandState:         make(map[string]*packetHeaderBand),
	}
}

// SetImageDimensions sets the image and code-block dimensions
func (pd *PacketDecoder) SetImageDimensions(width, height, cbWidth, cbHeight int) {
	pd.imageWidth = width
	pd.imageHeight = height
	pd.cbWidth = cbWidth
	pd.cbHeight = cbHeight
}

// SetComponentBounds records a component's tile-relative bounding box.
func (pd *PacketDecoder) SetComponentBounds(component, x0, y0, x1, y1 int) {
	pd.componentBounds[component] = [4]int{x0, y0, x1, y1}
}

// SetComponentSampling records a component's horizontal/vertical
// subsampling factors (SIZ XRsiz/YRsiz).
func (pd *PacketDecoder) SetComponentSampling(component, xRsiz, yRsiz int) {
	pd.componentSampling[component] = [2]int{xRsiz, yRsiz}
}

// SetPrecinctSizes records the per-resolution precinct sizes declared in
// the COD segment.
func (pd *PacketDecoder) SetPrecinctSizes(widths, heights []int) {
	pd.precinctWidths = widths
	pd.precinctHeights = heights
}

// calculateNumCodeBlocks calculates the number of code-blocks for a given resolution
func (pd *PacketDecoder) calculateNumCodeBlocks(resolution int) int {
	if resolution == 0 {
		// Resolution 0: LL subband only (single subband at top-left)
		llWidth := pd.imageWidth >> pd.numLevels
		llHeight := pd.imageHeight >> pd.numLevels
		numCBX := (llWidth + pd.cbWidth - 1) / pd.cbWidth
		numCBY := (llHeight + pd.cbHeight - 1) / pd.cbHeight
		return numCBX * numCBY
	}
	// Resolution r > 0: HL, LH, HH subbands (3 subbands)
	level := pd.numLevels - resolution + 1
	sbWidth := pd.imageWidth >> level
	sbHeight := pd.imageHeight >> level
	numCBX := (sbWidth + pd.cbWidth - 1) / pd.cbWidth
	numCBY := (sbHeight + pd.cbHeight - 1) / pd.cbHeight
	// 3 subbands (HL, LH, HH), each with numCBX * numCBY code-blocks
	return 3 * numCBX * numCBY
}

// DecodePackets decodes all packets according to progression order
func (pd *PacketDecoder) DecodePackets() ([]Packet, error) {
	// The bitReader handles 0xFF00 byte-stuffing during header parsing, and
	// readAndUnstuff removes it from packet bodies as they are read, so no
	// upfront destuffing pass over pd.data is needed.
	pd.offset = 0

	switch pd.progression {
	case ProgressionLRCP:
		return pd.decodeLRCP()
	case ProgressionRLCP:
		return pd.decodeRLCP()
	default:
		return nil, fmt.Errorf("unsupported progression order: %v", pd.progression)
	}
}

// decodeLRCP decodes packets in Layer-Resolution-Component-Position order
func (pd *PacketDecoder) decodeLRCP() ([]Packet, error) {
	for layer := 0; layer < pd.numLayers; layer++ {
		for res := 0; res < pd.numResolutions; res++ {
			for comp := 0; comp < pd.numComponents; comp++ {
				packet, err := pd.decodePacket(layer, res, comp, 0)
				if err != nil {
					return nil, fmt.Errorf("failed to decode packet (L=%d,R=%d,C=%d): %w",
						layer, res, comp, err)
				}
				pd.packets = append(pd.packets, packet)
			}
		}
	}

	return pd.packets, nil
}

// decodeRLCP decodes packets in Resolution-Layer-Component-Position order
func (pd *PacketDecoder) decodeRLCP() ([]Packet, error) {
	for res := 0; res < pd.numResolutions; res++ {
		for layer := 0; layer < pd.numLayers; layer++ {
			for comp := 0; comp < pd.numComponents; comp++ {
				packet, err := pd.decodePacket(layer, res, comp, 0)
				if err != nil {
					return nil, fmt.Errorf("failed to decode packet (R=%d,L=%d,C=%d): %w",
						res, layer, comp, err)
				}
				pd.packets = append(pd.packets, packet)
			}
		}
	}

	return pd.packets, nil
}

// decodePacket decodes a single packet: an empty-packet bit, then (if
// present) a packet header and the code-block contributions it describes.
func (pd *PacketDecoder) decodePacket(layer, resolution, component, precinctIdx int) (Packet, error) {
	packet := Packet{
		LayerIndex:      layer,
		ResolutionLevel: resolution,
		ComponentIndex:  component,
		PrecinctIndex:   precinctIdx,
	}

	if pd.offset >= len(pd.data) {
		packet.HeaderPresent = false
		return packet, nil
	}

	header, cbIncls, newOffset, headerPresent, err := pd.decodePacketHeader(layer, resolution, component)
	if err != nil {
		return packet, fmt.Errorf("failed to decode packet header: %w", err)
	}
	packet.HeaderPresent = headerPresent
	packet.Header = header
	packet.CodeBlockIncls = cbIncls
	pd.offset += newOffset

	if !headerPresent {
		return packet, nil
	}

	body := &bytes.Buffer{}
	for i := range cbIncls {
		cbIncl := &cbIncls[i]
		if !cbIncl.Included || cbIncl.DataLength <= 0 {
			continue
		}

		if pd.offset+cbIncl.DataLength > len(pd.data) {
			// Not enough data remains; consume what is available. This can
			// legitimately happen at the tail of a truncated codestream.
			remaining := len(pd.data) - pd.offset
			if remaining > 0 {
				cbData := pd.data[pd.offset:len(pd.data)]
				cbIncl.Data = cbData
				cbIncl.DataLength = len(cbData)
				body.Write(cbData)
				pd.offset = len(pd.data)
			}
			break
		}

		// DataLength is the unstuffed length; readAndUnstuff returns how
		// many stuffed bytes from the bitstream that corresponds to.
		cbData, bytesRead := readAndUnstuff(pd.data[pd.offset:], cbIncl.DataLength)
		cbIncl.Data = cbData
		body.Write(cbData)
		pd.offset += bytesRead
	}
	packet.CodeBlockIncls = cbIncls
	packet.Body = body.Bytes()

	return packet, nil
}

// decodePacketHeader decodes a packet header using the tag-tree-based
// PacketHeaderParser (packet_header.go), keeping per-(component,resolution)
// tag tree and code-block state across layers as required by Annex B.10.
func (pd *PacketDecoder) decodePacketHeader(layer, resolution, component int) ([]byte, []CodeBlockIncl, int, bool, error) {
	key := fmt.Sprintf("%d:%d", component, resolution)
	band := pd.bandState[key]
	if band == nil {
		band = &packetHeaderBand{numCBX: pd.calculateNumCodeBlocks(resolution), numCBY: 1}
		pd.bandState[key] = band
	}

	useTERMALL := (pd.codeBlockStyle & 0x04) != 0
	header, cbIncls, newOffset, headerPresent, err := parsePacketHeaderMulti(pd.data[pd.offset:], layer, []*packetHeaderBand{band}, useTERMALL)
	if err != nil {
		return nil, nil, newOffset, headerPresent, err
	}
	return header, cbIncls, newOffset, headerPresent, nil
}

// readAndUnstuff reads stuffed bytes from data and unstuffs them until we have targetUnstuffedLen bytes
// Returns the unstuffed data and the number of stuffed bytes read
func readAndUnstuff(data []byte, targetUnstuffedLen int) ([]byte, int) {
	result := make([]byte, 0, targetUnstuffedLen)
	i := 0
	for i < len(data) && len(result) < targetUnstuffedLen {
		result = append(result, data[i])
		if data[i] == 0xFF && i+1 < len(data) && data[i+1] == 0x00 {
			// Skip the stuffed 0x00 byte
			i += 2
		} else {
			i++
		}
	}
	return result, i
}

// GetPackets returns the decoded packets
func (pd *PacketDecoder) GetPackets() []Packet {
	return pd.packets
}
