package jbig2

// Supported profile
//
// This package decodes the arithmetic-coding profile of ITU T.88:
//
//   - Segment parsing: all segment types (clause 7.3), including long-form
//     referred-to-segment counts and the optional embedded file header.
//   - Generic regions: arithmetic coding (clause 6.2), all four templates,
//     typical prediction (TPGDON).
//   - Generic refinement regions: arithmetic coding (clause 6.3), both
//     templates, without typical prediction (TPGRON).
//   - Symbol dictionaries (clause 6.5) and text regions (clause 6.4):
//     arithmetic coding only, without refinement/aggregate-coded symbols
//     (SDREFAGG) in dictionaries (refinement of already-placed text region
//     instances via SBREFINE is supported).
//   - Pattern dictionaries and halftone regions (Annex C): arithmetic coding
//     only, axis-aligned halftone grids only (a skewed or rotated grid is not
//     detected and is placed as if axis-aligned).
//
// Explicitly not supported, returned as a descriptive error rather than
// silently misdecoded:
//
//   - Huffman-coded symbol dictionaries/text regions (SDHUFF/SBHUFF) and the
//     standard Huffman tables (Annex B, Tables A-O).
//   - Custom Huffman table segments (type 53, clause 7.4.8 Tables).
//   - MMR (CCITT T.6) coded generic/pattern/halftone regions.
//   - Typical prediction for refinement regions (TPGRON).
//   - Unknown-length segments (clause 7.2.7) and striped pages with unknown
//     height (clause 7.4.8.1).
//
// These are genuine gaps in this implementation, not a claim that such
// bitstreams don't exist in the wild — they are rarer encoder choices that
// this package rejects cleanly rather than risk silently producing a
// plausible-looking but wrong bitmap.
