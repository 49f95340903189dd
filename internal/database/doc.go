// Package database provides connection pool management for PostgreSQL.
//
// The service keeps all durable state (assets, price points, the ingested
// batch ledger) in a single database; this package only knows how to build
// connection strings and open a healthy pgx pool.
package database
