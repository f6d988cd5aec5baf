package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/b3dash/internal/contracts"
)

const schemaSQL = `
	CREATE SCHEMA IF NOT EXISTS market;
	CREATE TABLE IF NOT EXISTS market.daily_prices (
		symbol      TEXT        NOT NULL,
		trade_date  DATE        NOT NULL,
		open_price  NUMERIC(18,4) NOT NULL,
		high_price  NUMERIC(18,4) NOT NULL,
		low_price   NUMERIC(18,4) NOT NULL,
		close_price NUMERIC(18,4) NOT NULL,
		volume      BIGINT      NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (symbol, trade_date)
	);
`

const upsertSQL = `
	INSERT INTO market.daily_prices (symbol, trade_date, open_price, high_price, low_price, close_price, volume)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (symbol, trade_date) DO UPDATE SET
		open_price = EXCLUDED.open_price,
		high_price = EXCLUDED.high_price,
		low_price = EXCLUDED.low_price,
		close_price = EXCLUDED.close_price,
		volume = EXCLUDED.volume,
		updated_at = NOW()
`

// PriceRepository stores daily bars in PostgreSQL
// ⭐ SSOT: 일봉 저장소는 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// EnsureSchema creates the market schema and table when missing
func (r *PriceRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveBars upserts bars for a symbol in one batch
func (r *PriceRepository) SaveBars(ctx context.Context, symbol string, bars []contracts.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(upsertSQL, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range bars {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert %s bars: %w", symbol, err)
		}
	}
	return nil
}

// CountBySymbol returns how many bars are stored per symbol
func (r *PriceRepository) CountBySymbol(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT symbol, COUNT(*) FROM market.daily_prices GROUP BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("count bars: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var symbol string
		var n int
		if err := rows.Scan(&symbol, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[symbol] = n
	}
	return counts, rows.Err()
}
