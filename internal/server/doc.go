// Package server exposes the query API over HTTP.
//
// Endpoints (all JSON):
//   - POST /api/v1/stats/normalized                ranked normalized ranges for a month window
//   - POST /api/v1/stats/crypto/{crypto}           per-asset extremes for a month window
//   - POST /api/v1/max/normalized                  top normalized range for a day window
//   - GET  /api/v1/stats/normalized/last-month     shorthand for months=-1 from today
//   - GET  /api/v1/stats/normalized/last-six-months shorthand for months=-6 from today
//   - GET  /health
//
// Every query endpoint passes the per-client token bucket first; over-budget
// requests get 429 with the configured limit in the message. Client identity
// is the request's remote IP (one consistent key; no session cookies).
package server
