// Package model defines shared data types used across the crypto stats service.
//
// Conventions:
//   - Timestamps: time.Time in UTC (batch files carry epoch milliseconds)
//   - Prices: float64, as supplied by the source files
//   - Asset IDs: int64 surrogate keys assigned by the price store
package model
