// Package document defines the consultation-note content tree: a rooted,
// ordered tree of typed nodes mixing rich text with embedded form elements.
//
// The package provides the node schema, the two traversal primitives (Find and
// Map) every higher-level component builds on, the element-level operations
// used by template builders, and the lossless JSON wire codec. All operations
// are pure: trees passed in are never mutated, and mutation-style operations
// return structural copies.
package document
