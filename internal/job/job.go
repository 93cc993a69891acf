package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quantfeed/tickersync/internal/model"
)

// Fetcher produces the full upstream ticker catalog as one batch.
type Fetcher interface {
	FetchAll(ctx context.Context) (model.SyncBatch, error)
}

// FetcherFunc is a function adapter for Fetcher.
type FetcherFunc func(ctx context.Context) (model.SyncBatch, error)

func (f FetcherFunc) FetchAll(ctx context.Context) (model.SyncBatch, error) {
	return f(ctx)
}

// Applier writes a batch to the warehouse.
type Applier interface {
	Apply(ctx context.Context, batch model.SyncBatch) (model.LoadResult, error)
}

// Job composes fetch and load into one sync cycle. The batch is fully
// materialized before the load starts; nothing is written to the warehouse
// during fetch.
type Job struct {
	fetcher Fetcher
	applier Applier
	logger  *slog.Logger
}

// New creates a sync job.
func New(fetcher Fetcher, applier Applier, logger *slog.Logger) *Job {
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{
		fetcher: fetcher,
		applier: applier,
		logger:  logger,
	}
}

// Run fetches the full catalog and applies it to the warehouse.
func (j *Job) Run(ctx context.Context) (model.JobResult, error) {
	batch, err := j.fetcher.FetchAll(ctx)
	if err != nil {
		return model.JobResult{}, fmt.Errorf("fetch tickers: %w", err)
	}

	j.logger.Info("ticker catalog fetched",
		"records", len(batch.Records),
		"pages", batch.Pages,
		"skipped", batch.Skipped,
	)

	res, err := j.applier.Apply(ctx, batch)
	if err != nil {
		return model.JobResult{Records: len(batch.Records)}, fmt.Errorf("load tickers: %w", err)
	}

	return model.JobResult{
		Records: len(batch.Records),
		Written: res.RowsWritten,
		Skipped: res.RowsSkipped,
	}, nil
}
