// Package textutil provides the string normalization used for title
// comparison and filesystem path components.
//
// The primary use cases are:
//   - Folding titles to a canonical form so "Title" and "title" written in
//     different Han scripts compare equal
//   - Converting a work or volume label into a single safe path component
//
// Folding applies NFKC normalization, width folding, Unicode case folding,
// and a traditional-to-simplified Han mapping. Path components additionally
// pass through filename sanitization and the configured Han conversion mode.
package textutil
