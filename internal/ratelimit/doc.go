// Package ratelimit implements a per-client token bucket with interval
// refill: the bucket resets to full capacity once per elapsed period rather
// than dripping tokens continuously.
//
// Buckets are created lazily on a client's first request and keyed by
// whatever identity string the caller supplies. Each bucket has its own
// mutex, so concurrent requests from different clients never contend.
package ratelimit
