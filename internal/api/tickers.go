package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/quantfeed/tickersync/internal/model"
)

// GetTickers fetches a page of the reference ticker listing.
func (c *Client) GetTickers(ctx context.Context, opts GetTickersOptions) (*TickersResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.Market != "" {
		query.Set("market", opts.Market)
	}
	if opts.ActiveOnly {
		query.Set("active", "true")
	}
	if opts.Order != "" {
		query.Set("order", opts.Order)
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	var resp TickersResponse
	if err := c.get(ctx, "/v3/reference/tickers", query, &resp); err != nil {
		return nil, fmt.Errorf("get tickers: %w", err)
	}

	// A 200 with a non-OK body status is still an upstream failure.
	if resp.Status != "" && resp.Status != "OK" {
		return nil, fmt.Errorf("get tickers: upstream status %q", resp.Status)
	}

	return &resp, nil
}

// NextCursor extracts the continuation cursor from next_url.
// Empty when the listing is exhausted or next_url is unparseable.
func (r *TickersResponse) NextCursor() string {
	if r.NextURL == "" {
		return ""
	}
	u, err := url.Parse(r.NextURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("cursor")
}

// GetAllTickers walks the listing to exhaustion and returns the fully
// materialized batch. Individual records without a ticker symbol are skipped
// and counted, never aborting the walk.
func (c *Client) GetAllTickers(ctx context.Context, opts GetTickersOptions) (model.SyncBatch, error) {
	var batch model.SyncBatch

	if opts.Limit <= 0 {
		opts.Limit = 1000 // Max page size
	}

	for {
		resp, err := c.GetTickers(ctx, opts)
		if err != nil {
			return model.SyncBatch{}, err
		}
		batch.Pages++

		for i := range resp.Results {
			rec, ok := resp.Results[i].ToRecord()
			if !ok {
				batch.Skipped++
				c.logger.Warn("skipping malformed ticker record",
					"page", batch.Pages,
					"name", resp.Results[i].Name,
				)
				continue
			}
			batch.Records = append(batch.Records, rec)
		}

		next := resp.NextCursor()
		// A repeated cursor would loop forever; treat it as exhaustion.
		if next == "" || next == opts.Cursor {
			break
		}
		opts.Cursor = next
	}

	return batch, nil
}
