package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tkarimov/cryptostats/internal/model"
	"github.com/tkarimov/cryptostats/internal/store"
)

// BatchResult accumulates per-batch row outcomes.
type BatchResult struct {
	Batch      string
	Inserted   int   // Points written
	Duplicates int   // Rows rejected by (asset, timestamp) uniqueness
	Malformed  int   // Rows skipped for bad arity or unparseable fields
	Err        error // Batch-level read failure; batch not marked ingested
}

// Summary is the outcome of one pipeline run.
type Summary struct {
	Results []BatchResult
	Skipped []string // Batches already in the ledger
}

// Inserted returns the total number of points written across all batches.
func (s Summary) Inserted() int {
	n := 0
	for _, r := range s.Results {
		n += r.Inserted
	}
	return n
}

// Failed returns the batches whose read failed.
func (s Summary) Failed() []BatchResult {
	var out []BatchResult
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Pipeline ingests price batches into a PriceStore.
type Pipeline struct {
	source BatchSource
	store  store.PriceStore
	logger *slog.Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(source BatchSource, st store.PriceStore, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{source: source, store: st, logger: logger}
}

// Run processes every batch not already in the ledger. Row-level problems
// are counted in the Summary and never fail the run; a batch whose stream
// cannot be read is recorded as failed and left for the next run. Run only
// returns an error when the source cannot be listed, the store fails, or
// ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	runID := uuid.New()
	logger := p.logger.With("run_id", runID.String())

	names, err := p.source.Batches(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list batches: %w", err)
	}

	// Asset cache saves a store lookup per row.
	assets := make(map[string]model.Asset)
	known, err := p.store.ListAssets(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("preload assets: %w", err)
	}
	for _, a := range known {
		assets[a.Name] = a
	}

	var summary Summary
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		done, err := p.store.IsBatchIngested(ctx, name)
		if err != nil {
			return summary, fmt.Errorf("check ledger for %q: %w", name, err)
		}
		if done {
			logger.Info("batch already ingested, skipping", "batch", name)
			summary.Skipped = append(summary.Skipped, name)
			continue
		}

		result := p.ingestBatch(ctx, logger, name, assets)
		if result.Err == nil {
			if err := p.store.MarkBatchIngested(ctx, name); err != nil {
				return summary, fmt.Errorf("mark batch %q ingested: %w", name, err)
			}
			logger.Info("batch ingested",
				"batch", name,
				"inserted", result.Inserted,
				"duplicates", result.Duplicates,
				"malformed", result.Malformed,
			)
		} else if errors.Is(result.Err, context.Canceled) || errors.Is(result.Err, context.DeadlineExceeded) {
			summary.Results = append(summary.Results, result)
			return summary, result.Err
		} else {
			logger.Error("batch failed, will retry next run", "batch", name, "error", result.Err)
		}
		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

func (p *Pipeline) ingestBatch(ctx context.Context, logger *slog.Logger, name string, assets map[string]model.Asset) BatchResult {
	result := BatchResult{Batch: name}

	rc, err := p.source.Open(ctx, name)
	if err != nil {
		result.Err = err
		return result
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1 // arity checked per row

	line := 0
	for {
		rec, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			// Unreadable CSV syntax on this line only; keep going to
			// salvage the rest of the file.
			logger.Warn("unreadable row, skipping", "batch", name, "line", line, "error", err)
			result.Malformed++
			continue
		}

		if len(rec) != 3 {
			logger.Warn("wrong field count, skipping row",
				"batch", name, "line", line, "fields", len(rec))
			result.Malformed++
			continue
		}

		rawTS, symbol, rawPrice := rec[0], rec[1], rec[2]

		// Column header.
		if rawTS == "timestamp" {
			continue
		}

		millis, err := strconv.ParseInt(rawTS, 10, 64)
		if err != nil {
			logger.Warn("bad timestamp, skipping row",
				"batch", name, "line", line, "value", rawTS)
			result.Malformed++
			continue
		}
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil {
			logger.Warn("bad price, skipping row",
				"batch", name, "line", line, "value", rawPrice)
			result.Malformed++
			continue
		}

		asset, ok := assets[symbol]
		if !ok {
			asset, err = p.store.RegisterAsset(ctx, symbol)
			if err != nil {
				result.Err = fmt.Errorf("register asset %q: %w", symbol, err)
				return result
			}
			assets[symbol] = asset
			logger.Info("registered new asset", "asset", symbol)
		}

		ts := time.UnixMilli(millis).UTC()
		inserted, err := p.store.InsertPricePoint(ctx, asset, ts, price)
		if err != nil {
			result.Err = fmt.Errorf("insert point for %q: %w", symbol, err)
			return result
		}
		if !inserted {
			// First write wins; the duplicate is dropped.
			logger.Warn("duplicate point, skipping row",
				"batch", name, "line", line, "asset", symbol, "ts", ts)
			result.Duplicates++
			continue
		}
		result.Inserted++
	}

	return result
}
