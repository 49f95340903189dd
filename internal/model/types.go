package model

import "time"

// Asset is a tracked crypto asset. Assets are registered on first sighting
// during ingestion and never deleted.
type Asset struct {
	ID   int64  // Surrogate key assigned by the store
	Name string // Case-sensitive symbol (e.g., "BTC")
}

// PricePoint is a single observed price for an asset. The (AssetID, Timestamp)
// pair is unique: a second point for the same pair is a duplicate and is
// rejected on insert, never overwritten.
type PricePoint struct {
	AssetID   int64     // Owning asset
	Symbol    string    // Asset name, denormalized for responses
	Timestamp time.Time // Observation time (UTC)
	Price     float64   // Observed price
}

// TimeWindow is a half-open interval [Start, End). The range resolver
// guarantees Start <= End.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// NormalizedPrice is one entry of the volatility ranking: the normalized
// range (max-min)/min of an asset over a window.
type NormalizedPrice struct {
	Symbol string
	Score  float64
}
