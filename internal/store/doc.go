// Package store defines the PriceStore port and its adapters.
//
// The store exclusively owns asset records, price points, and the ingested
// batch ledger. Duplicate detection is the store's job: InsertPricePoint is
// an atomic insert-if-absent, so callers never race a check against an
// insert. Two adapters exist:
//   - Postgres: durable storage via pgx, uniqueness enforced with
//     ON CONFLICT DO NOTHING
//   - Memory: in-process maps, used for tests and local runs
package store
