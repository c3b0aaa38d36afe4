package common

import "github.com/codecore/imagecodecs/bitio"

// HuffmanTable represents a canonical Huffman coding table built per spec.md
// §4.2.2: assign codes canonically (start code=0, length=1; for each length L
// emit counts[L] codes in symbol order; shift code left by 1 between
// lengths), then build an 8-bit fast lookup plus min/max/valPtr tables for
// longer codes.
type HuffmanTable struct {
	// Number of codes of each length (1-16 bits)
	Bits [16]int
	// Values for each code, in order of code length
	Values []byte
	// Lookup tables for codes longer than 8 bits
	minCode [16]int32
	maxCode [16]int32
	valPtr  [16]int32
	// Fast lookup table for codes up to 8 bits: (nbits << 8) | value, -1 if
	// no code of length <= 8 matches that 8-bit prefix.
	lookupTable [256]int16
}

// Build constructs the lookup tables. Returns ErrInvalidDHT if the bit
// counts overflow the code space (more than 2^L codes of length <= L for any
// L), per spec.md §4.2.2's "or ≤ 2^L at every prefix" requirement.
func (h *HuffmanTable) Build() error {
	for i := range h.lookupTable {
		h.lookupTable[i] = -1
	}

	total := 0
	for _, n := range h.Bits {
		total += n
	}
	if total != len(h.Values) {
		return ErrInvalidDHT
	}

	p := 0
	fast := 0
	for l := 0; l < 8; l++ {
		for i := 0; i < h.Bits[l]; i++ {
			if fast >= 1<<uint(l+1) {
				return ErrInvalidDHT
			}
			code := fast << uint(7-l)
			for j := 0; j < (1 << uint(7-l)); j++ {
				h.lookupTable[code+j] = int16((l+1)<<8 | int(h.Values[p]))
			}
			p++
			fast++
		}
		fast <<= 1
	}

	code := int32(0)
	p = 0
	for l := 0; l < 16; l++ {
		if h.Bits[l] == 0 {
			h.maxCode[l] = -1
		} else {
			h.valPtr[l] = int32(p)
			h.minCode[l] = code
			p += h.Bits[l]
			code += int32(h.Bits[l])
			h.maxCode[l] = code - 1
			if code > int32(1)<<uint(l+1) {
				return ErrInvalidDHT
			}
		}
		code <<= 1
	}

	return nil
}

// BuildStandardHuffmanTable builds a standard Huffman table from fixed
// bits/values arrays known to be well-formed.
func BuildStandardHuffmanTable(bits [16]int, values []byte) *HuffmanTable {
	table := &HuffmanTable{Bits: bits, Values: values}
	_ = table.Build()
	return table
}

// DecodeHuffmanSymbol decodes one Huffman symbol from r using table,
// following spec.md §4.2.2's 8-bit fast path, falling back to the bit-by-bit
// min/max/valPtr walk for codes longer than 8 bits.
func DecodeHuffmanSymbol(r *bitio.Reader, table *HuffmanTable) (byte, error) {
	if peek, err := r.PeekBits(8); err == nil {
		entry := table.lookupTable[peek]
		if entry >= 0 {
			nbits := int(entry >> 8)
			if _, err := r.ReadBits(nbits); err != nil {
				return 0, err
			}
			return byte(entry & 0xFF), nil
		}
	}

	code := int32(0)
	for l := 0; l < 16; l++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		code = (code << 1) | int32(bit)

		if table.maxCode[l] >= 0 && code <= table.maxCode[l] && code >= table.minCode[l] {
			idx := table.valPtr[l] + code - table.minCode[l]
			if idx >= 0 && int(idx) < len(table.Values) {
				return table.Values[idx], nil
			}
		}
	}

	return 0, ErrHuffmanDecode
}

// ReceiveExtend decodes ssss extra bits and applies the JPEG EXTEND
// operation (spec.md §4.1's read_signed), combining Huffman RECEIVE+EXTEND
// for DC/AC coefficient decoding.
func ReceiveExtend(r *bitio.Reader, ssss int) (int32, error) {
	return bitio.ReadSigned(r, ssss)
}
