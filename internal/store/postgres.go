package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tkarimov/cryptostats/internal/model"
)

// Postgres implements PriceStore on a pgx connection pool.
type Postgres struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres wraps an existing pool.
func NewPostgres(db *pgxpool.Pool, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{db: db, logger: logger}
}

// EnsureSchema creates the tables if they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS assets (
			id   BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS price_points (
			asset_id BIGINT NOT NULL REFERENCES assets(id),
			ts       TIMESTAMPTZ NOT NULL,
			price    DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (asset_id, ts)
		);
		CREATE TABLE IF NOT EXISTS ingested_batches (
			name        TEXT PRIMARY KEY,
			ingested_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	if _, err := p.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) RegisterAsset(ctx context.Context, name string) (model.Asset, error) {
	var id int64
	err := p.db.QueryRow(ctx,
		`INSERT INTO assets (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`,
		name,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// Already registered, fetch the existing row.
		return p.FindAsset(ctx, name)
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("register asset %q: %w", name, err)
	}
	return model.Asset{ID: id, Name: name}, nil
}

func (p *Postgres) FindAsset(ctx context.Context, name string) (model.Asset, error) {
	var id int64
	err := p.db.QueryRow(ctx, `SELECT id FROM assets WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Asset{}, fmt.Errorf("asset %q: %w", name, ErrAssetNotFound)
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("find asset %q: %w", name, err)
	}
	return model.Asset{ID: id, Name: name}, nil
}

func (p *Postgres) ListAssets(ctx context.Context) ([]model.Asset, error) {
	rows, err := p.db.Query(ctx, `SELECT id, name FROM assets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

func (p *Postgres) InsertPricePoint(ctx context.Context, asset model.Asset, ts time.Time, price float64) (bool, error) {
	ct, err := p.db.Exec(ctx, `
		INSERT INTO price_points (asset_id, ts, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (asset_id, ts) DO NOTHING
	`, asset.ID, ts, price)
	if err != nil {
		return false, fmt.Errorf("insert price point: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (p *Postgres) FindOldest(ctx context.Context, asset model.Asset, w model.TimeWindow) (*model.PricePoint, error) {
	return p.findEdge(ctx, asset, w, "ASC")
}

func (p *Postgres) FindNewest(ctx context.Context, asset model.Asset, w model.TimeWindow) (*model.PricePoint, error) {
	return p.findEdge(ctx, asset, w, "DESC")
}

func (p *Postgres) findEdge(ctx context.Context, asset model.Asset, w model.TimeWindow, order string) (*model.PricePoint, error) {
	q := fmt.Sprintf(`
		SELECT ts, price FROM price_points
		WHERE asset_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts %s
		LIMIT 1
	`, order)

	pt := model.PricePoint{AssetID: asset.ID, Symbol: asset.Name}
	err := p.db.QueryRow(ctx, q, asset.ID, w.Start, w.End).Scan(&pt.Timestamp, &pt.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find edge point: %w", err)
	}
	pt.Timestamp = pt.Timestamp.UTC()
	return &pt, nil
}

func (p *Postgres) FindAllAtMinPrice(ctx context.Context, asset model.Asset, w model.TimeWindow) ([]model.PricePoint, error) {
	return p.findAtExtremePrice(ctx, asset, w, "MIN")
}

func (p *Postgres) FindAllAtMaxPrice(ctx context.Context, asset model.Asset, w model.TimeWindow) ([]model.PricePoint, error) {
	return p.findAtExtremePrice(ctx, asset, w, "MAX")
}

func (p *Postgres) findAtExtremePrice(ctx context.Context, asset model.Asset, w model.TimeWindow, agg string) ([]model.PricePoint, error) {
	q := fmt.Sprintf(`
		SELECT ts, price FROM price_points
		WHERE asset_id = $1 AND ts >= $2 AND ts < $3 AND price = (
			SELECT %s(price) FROM price_points
			WHERE asset_id = $1 AND ts >= $2 AND ts < $3
		)
		ORDER BY ts
	`, agg)

	rows, err := p.db.Query(ctx, q, asset.ID, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("find extreme prices: %w", err)
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		pt := model.PricePoint{AssetID: asset.ID, Symbol: asset.Name}
		if err := rows.Scan(&pt.Timestamp, &pt.Price); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		pt.Timestamp = pt.Timestamp.UTC()
		points = append(points, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find extreme prices: %w", err)
	}
	return points, nil
}

func (p *Postgres) IsBatchIngested(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ingested_batches WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check batch ledger: %w", err)
	}
	return exists, nil
}

func (p *Postgres) MarkBatchIngested(ctx context.Context, name string) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO ingested_batches (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("mark batch ingested: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
