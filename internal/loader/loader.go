package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantfeed/tickersync/internal/model"
)

// Config holds warehouse load settings.
type Config struct {
	Table     string // destination table, bare SQL identifier
	ChunkSize int    // rows per physical write call
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Table:     "stock_tickers",
		ChunkSize: 500,
	}
}

// Loader applies fetched batches to the warehouse table.
type Loader struct {
	cfg    Config
	db     *pgxpool.Pool
	logger *slog.Logger

	now func() time.Time
}

// New creates a new Loader.
func New(cfg Config, db *pgxpool.Pool, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Table == "" {
		cfg.Table = DefaultConfig().Table
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	return &Loader{
		cfg:    cfg,
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
	ticker           TEXT PRIMARY KEY,
	name             TEXT,
	market           TEXT,
	locale           TEXT,
	primary_exchange TEXT,
	type             TEXT,
	active           BOOLEAN,
	currency_name    TEXT,
	cik              TEXT,
	composite_figi   TEXT,
	share_class_figi TEXT,
	last_updated_utc TIMESTAMPTZ,
	ds               TEXT
)`

const upsertSQL = `INSERT INTO %s
	(ticker, name, market, locale, primary_exchange, type, active, currency_name, cik, composite_figi, share_class_figi, last_updated_utc, ds)
VALUES
	($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (ticker) DO UPDATE SET
	name = EXCLUDED.name,
	market = EXCLUDED.market,
	locale = EXCLUDED.locale,
	primary_exchange = EXCLUDED.primary_exchange,
	type = EXCLUDED.type,
	active = EXCLUDED.active,
	currency_name = EXCLUDED.currency_name,
	cik = EXCLUDED.cik,
	composite_figi = EXCLUDED.composite_figi,
	share_class_figi = EXCLUDED.share_class_figi,
	last_updated_utc = EXCLUDED.last_updated_utc,
	ds = EXCLUDED.ds`

// EnsureTable creates the destination table when absent. It never drops or
// alters an existing table.
func (l *Loader) EnsureTable(ctx context.Context) error {
	if _, err := l.db.Exec(ctx, fmt.Sprintf(createTableSQL, l.cfg.Table)); err != nil {
		return fmt.Errorf("ensure table %s: %w", l.cfg.Table, err)
	}
	return nil
}

// Apply merge-upserts the batch into the destination table, keyed on ticker.
// Physical writes are chunked, but the whole batch commits in a single
// transaction: a failed run leaves the table exactly as the prior run did.
// Every row of one apply carries the same ds stamp.
func (l *Loader) Apply(ctx context.Context, batch model.SyncBatch) (model.LoadResult, error) {
	if err := l.EnsureTable(ctx); err != nil {
		return model.LoadResult{}, err
	}

	if len(batch.Records) == 0 {
		l.logger.Info("no records to load", "table", l.cfg.Table)
		return model.LoadResult{RowsSkipped: batch.Skipped}, nil
	}

	ds := l.now().Format("2006-01-02")
	start := l.now()

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return model.LoadResult{}, fmt.Errorf("begin warehouse tx: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := fmt.Sprintf(upsertSQL, l.cfg.Table)
	for _, chunk := range chunkRecords(batch.Records, l.cfg.ChunkSize) {
		if err := upsertChunk(ctx, tx, sql, chunk, ds); err != nil {
			return model.LoadResult{}, fmt.Errorf("upsert into %s: %w", l.cfg.Table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.LoadResult{}, fmt.Errorf("commit warehouse tx: %w", err)
	}

	l.logger.Info("batch applied",
		"table", l.cfg.Table,
		"rows", len(batch.Records),
		"skipped", batch.Skipped,
		"ds", ds,
		"duration", time.Since(start),
	)

	return model.LoadResult{
		RowsWritten: len(batch.Records),
		RowsSkipped: batch.Skipped,
	}, nil
}

// upsertChunk queues one merge statement per row and executes them as a
// single round trip within the enclosing transaction.
func upsertChunk(ctx context.Context, tx pgx.Tx, sql string, records []model.TickerRecord, ds string) error {
	b := &pgx.Batch{}
	for _, r := range records {
		b.Queue(sql,
			r.Ticker,
			r.Name,
			r.Market,
			r.Locale,
			r.PrimaryExchange,
			r.Type,
			r.Active,
			r.CurrencyName,
			r.CIK,
			r.CompositeFIGI,
			r.ShareClassFIGI,
			nullableTime(r.LastUpdated),
			ds,
		)
	}

	results := tx.SendBatch(ctx, b)
	for range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return err
		}
	}
	return results.Close()
}

// chunkRecords splits records into slices of at most size rows.
func chunkRecords(records []model.TickerRecord, size int) [][]model.TickerRecord {
	if size <= 0 {
		size = 1
	}
	var chunks [][]model.TickerRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
