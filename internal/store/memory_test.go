package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_RegisterAsset_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	a1, err := m.RegisterAsset(ctx, "BTC")
	if err != nil {
		t.Fatalf("RegisterAsset failed: %v", err)
	}
	a2, err := m.RegisterAsset(ctx, "BTC")
	if err != nil {
		t.Fatalf("RegisterAsset (second) failed: %v", err)
	}

	if a1.ID != a2.ID {
		t.Errorf("second registration ID = %d, want %d", a2.ID, a1.ID)
	}

	assets, err := m.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(assets) != 1 {
		t.Errorf("len(assets) = %d, want 1", len(assets))
	}
}

func TestMemory_FindAsset_NotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.FindAsset(ctx, "DOGE")
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("FindAsset error = %v, want ErrAssetNotFound", err)
	}
}

func TestMemory_InsertPricePoint_Uniqueness(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	btc, _ := m.RegisterAsset(ctx, "BTC")
	ts := time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC)

	inserted, err := m.InsertPricePoint(ctx, btc, ts, 46813.21)
	if err != nil {
		t.Fatalf("InsertPricePoint failed: %v", err)
	}
	if !inserted {
		t.Error("first insert = false, want true")
	}

	// Same (asset, timestamp) pair: first write wins.
	inserted, err = m.InsertPricePoint(ctx, btc, ts, 99999.99)
	if err != nil {
		t.Fatalf("duplicate InsertPricePoint errored: %v", err)
	}
	if inserted {
		t.Error("duplicate insert = true, want false")
	}

	if got := m.PointCount(); got != 1 {
		t.Errorf("PointCount = %d, want 1", got)
	}

	w := window(t, "2022-01-01", "2022-01-02")
	oldest, err := m.FindOldest(ctx, btc, w)
	if err != nil {
		t.Fatalf("FindOldest failed: %v", err)
	}
	if oldest == nil || oldest.Price != 46813.21 {
		t.Errorf("oldest = %+v, want price 46813.21 (first write)", oldest)
	}
}

func TestMemory_WindowBoundaries(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	btc, _ := m.RegisterAsset(ctx, "BTC")

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC)

	// One point exactly at start (included), one exactly at end (excluded).
	m.InsertPricePoint(ctx, btc, start, 100)
	m.InsertPricePoint(ctx, btc, end, 200)

	w := windowTimes(start, end)

	oldest, _ := m.FindOldest(ctx, btc, w)
	newest, _ := m.FindNewest(ctx, btc, w)
	if oldest == nil || !oldest.Timestamp.Equal(start) {
		t.Errorf("oldest = %+v, want point at window start", oldest)
	}
	if newest == nil || !newest.Timestamp.Equal(start) {
		t.Errorf("newest = %+v, want point at window start (end point excluded)", newest)
	}

	maxSet, _ := m.FindAllAtMaxPrice(ctx, btc, w)
	if len(maxSet) != 1 || maxSet[0].Price != 100 {
		t.Errorf("maxSet = %+v, want single point with price 100", maxSet)
	}
}

func TestMemory_ExtremeTies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	btc, _ := m.RegisterAsset(ctx, "BTC")

	t1 := time.Date(2022, 1, 1, 1, 0, 0, 0, time.UTC)
	t2 := time.Date(2022, 1, 1, 2, 0, 0, 0, time.UTC)
	t3 := time.Date(2022, 1, 1, 3, 0, 0, 0, time.UTC)

	m.InsertPricePoint(ctx, btc, t1, 5)
	m.InsertPricePoint(ctx, btc, t2, 9)
	m.InsertPricePoint(ctx, btc, t3, 5)

	w := window(t, "2022-01-01", "2022-01-02")
	minSet, err := m.FindAllAtMinPrice(ctx, btc, w)
	if err != nil {
		t.Fatalf("FindAllAtMinPrice failed: %v", err)
	}
	if len(minSet) != 2 {
		t.Fatalf("len(minSet) = %d, want 2 (tied minimum)", len(minSet))
	}
	if !minSet[0].Timestamp.Equal(t1) || !minSet[1].Timestamp.Equal(t3) {
		t.Errorf("minSet timestamps = %v, %v; want %v, %v",
			minSet[0].Timestamp, minSet[1].Timestamp, t1, t3)
	}
}

func TestMemory_EmptyWindow(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	btc, _ := m.RegisterAsset(ctx, "BTC")

	w := window(t, "2022-01-01", "2022-01-02")

	oldest, err := m.FindOldest(ctx, btc, w)
	if err != nil {
		t.Fatalf("FindOldest failed: %v", err)
	}
	if oldest != nil {
		t.Errorf("oldest = %+v, want nil for empty window", oldest)
	}

	minSet, err := m.FindAllAtMinPrice(ctx, btc, w)
	if err != nil {
		t.Fatalf("FindAllAtMinPrice failed: %v", err)
	}
	if len(minSet) != 0 {
		t.Errorf("len(minSet) = %d, want 0", len(minSet))
	}
}

func TestMemory_BatchLedger(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ok, err := m.IsBatchIngested(ctx, "prices_2022.csv")
	if err != nil {
		t.Fatalf("IsBatchIngested failed: %v", err)
	}
	if ok {
		t.Error("IsBatchIngested = true for unknown batch, want false")
	}

	if err := m.MarkBatchIngested(ctx, "prices_2022.csv"); err != nil {
		t.Fatalf("MarkBatchIngested failed: %v", err)
	}

	ok, _ = m.IsBatchIngested(ctx, "prices_2022.csv")
	if !ok {
		t.Error("IsBatchIngested = false after MarkBatchIngested, want true")
	}
}

func TestMemory_ContextCancellation(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.ListAssets(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ListAssets error = %v, want context.Canceled", err)
	}
	if _, err := m.RegisterAsset(ctx, "BTC"); !errors.Is(err, context.Canceled) {
		t.Errorf("RegisterAsset error = %v, want context.Canceled", err)
	}
}
