// Package stats implements the date-range resolver and the statistics engine.
//
// The resolver turns (anchor date, signed offset, unit) into a half-open
// [start, end) window. The engine answers per-asset extreme queries and the
// cross-asset normalized-range ranking over such a window. Both are
// read-only with respect to the store and safe for concurrent use.
package stats
