package store

import (
	"context"
	"errors"
	"time"

	"github.com/tkarimov/cryptostats/internal/model"
)

// ErrAssetNotFound is returned when a queried asset has never been registered.
var ErrAssetNotFound = errors.New("asset not supported")

// PriceStore is the storage port for assets, price points, and the ingested
// batch ledger.
//
// All range queries operate on half-open windows [Start, End). Methods that
// return a single optional point return (nil, nil) when the window is empty.
type PriceStore interface {
	// RegisterAsset creates the asset if absent and returns it. Idempotent.
	RegisterAsset(ctx context.Context, name string) (model.Asset, error)

	// FindAsset returns the asset by name, or ErrAssetNotFound.
	FindAsset(ctx context.Context, name string) (model.Asset, error)

	// ListAssets returns all registered assets in registration order.
	ListAssets(ctx context.Context) ([]model.Asset, error)

	// InsertPricePoint inserts a point if no point with the same
	// (asset, timestamp) exists. Returns false when the point was a
	// duplicate and nothing was written.
	InsertPricePoint(ctx context.Context, asset model.Asset, ts time.Time, price float64) (bool, error)

	// FindOldest returns the point with the minimum timestamp in the window.
	FindOldest(ctx context.Context, asset model.Asset, w model.TimeWindow) (*model.PricePoint, error)

	// FindNewest returns the point with the maximum timestamp in the window.
	FindNewest(ctx context.Context, asset model.Asset, w model.TimeWindow) (*model.PricePoint, error)

	// FindAllAtMinPrice returns every point in the window whose price equals
	// the window's minimum price. Multiple points when the minimum ties.
	FindAllAtMinPrice(ctx context.Context, asset model.Asset, w model.TimeWindow) ([]model.PricePoint, error)

	// FindAllAtMaxPrice returns every point in the window whose price equals
	// the window's maximum price.
	FindAllAtMaxPrice(ctx context.Context, asset model.Asset, w model.TimeWindow) ([]model.PricePoint, error)

	// IsBatchIngested reports whether the batch identifier is in the ledger.
	IsBatchIngested(ctx context.Context, name string) (bool, error)

	// MarkBatchIngested records the batch identifier in the ledger.
	MarkBatchIngested(ctx context.Context, name string) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
