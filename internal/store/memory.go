package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tkarimov/cryptostats/internal/model"
)

// Memory implements PriceStore with in-process maps. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	nextID  int64
	byName  map[string]model.Asset
	order   []string                    // registration order of asset names
	points  map[int64]map[int64]float64 // asset id -> unix nanos -> price
	batches map[string]bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextID:  1,
		byName:  make(map[string]model.Asset),
		points:  make(map[int64]map[int64]float64),
		batches: make(map[string]bool),
	}
}

func (m *Memory) RegisterAsset(ctx context.Context, name string) (model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return model.Asset{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.byName[name]; ok {
		return a, nil
	}
	a := model.Asset{ID: m.nextID, Name: name}
	m.nextID++
	m.byName[name] = a
	m.order = append(m.order, name)
	m.points[a.ID] = make(map[int64]float64)
	return a, nil
}

func (m *Memory) FindAsset(ctx context.Context, name string) (model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return model.Asset{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.byName[name]
	if !ok {
		return model.Asset{}, fmt.Errorf("asset %q: %w", name, ErrAssetNotFound)
	}
	return a, nil
}

func (m *Memory) ListAssets(ctx context.Context) ([]model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	assets := make([]model.Asset, 0, len(m.order))
	for _, name := range m.order {
		assets = append(assets, m.byName[name])
	}
	return assets, nil
}

func (m *Memory) InsertPricePoint(ctx context.Context, asset model.Asset, ts time.Time, price float64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	series, ok := m.points[asset.ID]
	if !ok {
		return false, fmt.Errorf("asset id %d: %w", asset.ID, ErrAssetNotFound)
	}
	key := ts.UnixNano()
	if _, dup := series[key]; dup {
		return false, nil
	}
	series[key] = price
	return true, nil
}

// inWindow collects the asset's points inside [Start, End), ordered by timestamp.
func (m *Memory) inWindow(asset model.Asset, w model.TimeWindow) []model.PricePoint {
	series := m.points[asset.ID]
	var pts []model.PricePoint
	for nanos, price := range series {
		ts := time.Unix(0, nanos).UTC()
		if w.Contains(ts) {
			pts = append(pts, model.PricePoint{
				AssetID:   asset.ID,
				Symbol:    asset.Name,
				Timestamp: ts,
				Price:     price,
			})
		}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Timestamp.Before(pts[j].Timestamp) })
	return pts
}

func (m *Memory) FindOldest(ctx context.Context, asset model.Asset, w model.TimeWindow) (*model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	pts := m.inWindow(asset, w)
	if len(pts) == 0 {
		return nil, nil
	}
	return &pts[0], nil
}

func (m *Memory) FindNewest(ctx context.Context, asset model.Asset, w model.TimeWindow) (*model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	pts := m.inWindow(asset, w)
	if len(pts) == 0 {
		return nil, nil
	}
	return &pts[len(pts)-1], nil
}

func (m *Memory) FindAllAtMinPrice(ctx context.Context, asset model.Asset, w model.TimeWindow) ([]model.PricePoint, error) {
	return m.findAtExtreme(ctx, asset, w, func(candidate, best float64) bool { return candidate < best })
}

func (m *Memory) FindAllAtMaxPrice(ctx context.Context, asset model.Asset, w model.TimeWindow) ([]model.PricePoint, error) {
	return m.findAtExtreme(ctx, asset, w, func(candidate, best float64) bool { return candidate > best })
}

func (m *Memory) findAtExtreme(ctx context.Context, asset model.Asset, w model.TimeWindow, better func(candidate, best float64) bool) ([]model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	pts := m.inWindow(asset, w)
	if len(pts) == 0 {
		return nil, nil
	}

	best := pts[0].Price
	for _, pt := range pts[1:] {
		if better(pt.Price, best) {
			best = pt.Price
		}
	}

	var out []model.PricePoint
	for _, pt := range pts {
		if pt.Price == best {
			out = append(out, pt)
		}
	}
	return out, nil
}

func (m *Memory) IsBatchIngested(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.batches[name], nil
}

func (m *Memory) MarkBatchIngested(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[name] = true
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

// PointCount returns the total number of stored price points.
func (m *Memory) PointCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, series := range m.points {
		n += len(series)
	}
	return n
}
