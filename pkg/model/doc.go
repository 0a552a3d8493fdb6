// Package model defines the mobiledoc document consumed by the builder. A
// document carries four index-addressed tables (sections, markups, atoms and
// cards); sections refer to the other three by position. Decode parses the
// array-encoded JSON wire format (0.3.x) into these types without checking
// index ranges, which the builder reports when it dereferences them. Types in
// this package are plain data and are never mutated by the render pipeline.
package model
