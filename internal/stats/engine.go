package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tkarimov/cryptostats/internal/model"
	"github.com/tkarimov/cryptostats/internal/store"
)

// AssetStats holds the per-asset extremes over a window. Oldest and Newest
// are nil, and the price sets empty, when the window holds no points.
type AssetStats struct {
	Asset     model.Asset
	Oldest    *model.PricePoint
	Newest    *model.PricePoint
	MinPrices []model.PricePoint
	MaxPrices []model.PricePoint
}

// Config holds statistics engine settings.
type Config struct {
	// QueryConcurrency bounds the per-asset fan-out of ranking queries.
	QueryConcurrency int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{QueryConcurrency: 8}
}

// Engine computes range statistics over a PriceStore. Read-only and safe
// for concurrent use.
type Engine struct {
	cfg    Config
	store  store.PriceStore
	logger *slog.Logger
}

// NewEngine creates a statistics engine.
func NewEngine(cfg Config, st store.PriceStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueryConcurrency < 1 {
		cfg.QueryConcurrency = DefaultConfig().QueryConcurrency
	}
	return &Engine{cfg: cfg, store: st, logger: logger}
}

// AssetStats returns oldest/newest points and min/max price sets for one
// asset inside the window. Returns store.ErrAssetNotFound for unregistered
// names. An empty window is a valid result, not an error.
func (e *Engine) AssetStats(ctx context.Context, name string, w model.TimeWindow) (AssetStats, error) {
	asset, err := e.store.FindAsset(ctx, name)
	if err != nil {
		return AssetStats{}, err
	}

	oldest, err := e.store.FindOldest(ctx, asset, w)
	if err != nil {
		return AssetStats{}, fmt.Errorf("find oldest for %q: %w", name, err)
	}
	newest, err := e.store.FindNewest(ctx, asset, w)
	if err != nil {
		return AssetStats{}, fmt.Errorf("find newest for %q: %w", name, err)
	}
	minPrices, err := e.store.FindAllAtMinPrice(ctx, asset, w)
	if err != nil {
		return AssetStats{}, fmt.Errorf("find min prices for %q: %w", name, err)
	}
	maxPrices, err := e.store.FindAllAtMaxPrice(ctx, asset, w)
	if err != nil {
		return AssetStats{}, fmt.Errorf("find max prices for %q: %w", name, err)
	}

	return AssetStats{
		Asset:     asset,
		Oldest:    oldest,
		Newest:    newest,
		MinPrices: minPrices,
		MaxPrices: maxPrices,
	}, nil
}

// NormalizedRanking computes (max-min)/min for every registered asset with
// data in the window and returns the entries sorted by score descending.
// Assets without data in the window, or with a minimum price of zero, are
// excluded and logged. Equal scores keep registration order (stable sort).
func (e *Engine) NormalizedRanking(ctx context.Context, w model.TimeWindow) ([]model.NormalizedPrice, error) {
	assets, err := e.store.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	// Fan out per asset; scores stays index-aligned with assets so the
	// encounter order survives the concurrency.
	scores := make([]*model.NormalizedPrice, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.QueryConcurrency)

	for i, asset := range assets {
		g.Go(func() error {
			minSet, err := e.store.FindAllAtMinPrice(gctx, asset, w)
			if err != nil {
				return fmt.Errorf("min price for %q: %w", asset.Name, err)
			}
			if len(minSet) == 0 {
				e.logger.Warn("asset has no data in range, excluding from ranking",
					"asset", asset.Name,
					"start", w.Start,
					"end", w.End,
				)
				return nil
			}
			maxSet, err := e.store.FindAllAtMaxPrice(gctx, asset, w)
			if err != nil {
				return fmt.Errorf("max price for %q: %w", asset.Name, err)
			}

			min := minSet[0].Price
			max := maxSet[0].Price
			if min == 0 {
				// Excluded rather than dividing by zero.
				e.logger.Warn("asset min price is zero, excluding from ranking",
					"asset", asset.Name,
				)
				return nil
			}

			scores[i] = &model.NormalizedPrice{
				Symbol: asset.Name,
				Score:  (max - min) / min,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranking := make([]model.NormalizedPrice, 0, len(assets))
	for _, s := range scores {
		if s != nil {
			ranking = append(ranking, *s)
		}
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	return ranking, nil
}

// TopNormalized returns the highest-scored ranking entry for the window.
// When no asset has usable data, ok is false and the entry carries the
// sentinel score -1.
func (e *Engine) TopNormalized(ctx context.Context, w model.TimeWindow) (model.NormalizedPrice, bool, error) {
	ranking, err := e.NormalizedRanking(ctx, w)
	if err != nil {
		return model.NormalizedPrice{}, false, err
	}
	if len(ranking) == 0 {
		e.logger.Warn("no assets with data in range", "start", w.Start, "end", w.End)
		return model.NormalizedPrice{Score: -1}, false, nil
	}
	return ranking[0], true, nil
}
