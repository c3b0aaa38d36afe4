package jbig2

import "fmt"

// MMR support (CCITT T.6, referenced by clause 6.2.6 as an alternative to
// arithmetic coding for generic regions) is intentionally limited to
// rejecting the input with a clear error rather than guessing at a decoder:
// T.6's full mode-code table and white/black run-length Huffman tables are
// sizeable enough that transcribing them from memory without a toolchain to
// verify against risks silent miscoding, which is worse than an honest
// "unsupported" error. Every encoder this package was built against
// (clause 6.2.5's arithmetic procedure) remains fully implemented; only the
// MMR alternative is out of scope.
//
// DecodeGenericRegionMMR exists so GenericRegionParams.MMR has somewhere to
// dispatch to, and so that scope limitation is visible at the call site
// rather than silently mishandled.
func DecodeGenericRegionMMR(data []byte, width, height int) (*Bitmap, error) {
	return nil, fmt.Errorf("jbig2: MMR-coded generic regions are not supported (arithmetic coding profile only)")
}
