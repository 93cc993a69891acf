package job

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quantfeed/tickersync/internal/model"
)

// recordingApplier captures the batch it was handed.
type recordingApplier struct {
	applied []model.SyncBatch
	result  model.LoadResult
	err     error
}

func (a *recordingApplier) Apply(ctx context.Context, batch model.SyncBatch) (model.LoadResult, error) {
	a.applied = append(a.applied, batch)
	if a.err != nil {
		return model.LoadResult{}, a.err
	}
	return a.result, nil
}

func staticFetcher(batch model.SyncBatch, err error) Fetcher {
	return FetcherFunc(func(ctx context.Context) (model.SyncBatch, error) {
		return batch, err
	})
}

func TestJobRun(t *testing.T) {
	t.Run("fetch then load", func(t *testing.T) {
		batch := model.SyncBatch{
			Records: []model.TickerRecord{{Ticker: "AAPL"}, {Ticker: "MSFT"}},
			Skipped: 1,
			Pages:   2,
		}
		applier := &recordingApplier{result: model.LoadResult{RowsWritten: 2, RowsSkipped: 1}}

		j := New(staticFetcher(batch, nil), applier, nil)
		res, err := j.Run(context.Background())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(applier.applied) != 1 {
			t.Fatalf("applied %d batches, want 1", len(applier.applied))
		}
		if len(applier.applied[0].Records) != 2 {
			t.Errorf("applied batch has %d records, want 2", len(applier.applied[0].Records))
		}
		if res.Records != 2 {
			t.Errorf("Records = %d, want 2", res.Records)
		}
		if res.Written != 2 {
			t.Errorf("Written = %d, want 2", res.Written)
		}
		if res.Skipped != 1 {
			t.Errorf("Skipped = %d, want 1", res.Skipped)
		}
	})

	t.Run("fetch failure skips the load", func(t *testing.T) {
		applier := &recordingApplier{}
		j := New(staticFetcher(model.SyncBatch{}, errors.New("upstream api error 429")), applier, nil)

		_, err := j.Run(context.Background())
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "fetch tickers") {
			t.Errorf("error = %v, want fetch context", err)
		}
		if len(applier.applied) != 0 {
			t.Errorf("applied %d batches after fetch failure, want 0", len(applier.applied))
		}
	})

	t.Run("load failure surfaces", func(t *testing.T) {
		batch := model.SyncBatch{Records: []model.TickerRecord{{Ticker: "AAPL"}}}
		applier := &recordingApplier{err: errors.New("connection refused")}
		j := New(staticFetcher(batch, nil), applier, nil)

		res, err := j.Run(context.Background())
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "load tickers") {
			t.Errorf("error = %v, want load context", err)
		}
		if res.Records != 1 {
			t.Errorf("Records = %d, want 1 even on load failure", res.Records)
		}
	})

	t.Run("empty catalog still applies", func(t *testing.T) {
		applier := &recordingApplier{}
		j := New(staticFetcher(model.SyncBatch{Pages: 1}, nil), applier, nil)

		if _, err := j.Run(context.Background()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(applier.applied) != 1 {
			t.Errorf("applied %d batches, want 1", len(applier.applied))
		}
	})
}
