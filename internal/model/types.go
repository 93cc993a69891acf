package model

import (
	"time"

	"github.com/google/uuid"
)

// TickerRecord is one row of upstream ticker metadata. Ticker is the natural
// identity for deduplication and is never empty; every other field is
// optional and may be zero when the upstream omits it.
type TickerRecord struct {
	Ticker          string    // Primary key (e.g., "AAPL")
	Name            string    // Company name
	Market          string    // Market class (e.g., "stocks")
	Locale          string    // Geography (e.g., "us")
	PrimaryExchange string    // Listing exchange MIC
	Type            string    // Security type (e.g., "CS")
	Active          bool      // Whether the ticker is actively traded
	CurrencyName    string    // Trading currency
	CIK             string    // SEC CIK number
	CompositeFIGI   string    // OpenFIGI composite identifier
	ShareClassFIGI  string    // OpenFIGI share class identifier
	LastUpdated     time.Time // Upstream last-update time (UTC), zero if not provided
}

// SyncBatch is the fully materialized result of one complete pagination walk.
// It is built entirely before any load begins.
type SyncBatch struct {
	Records []TickerRecord // Well-formed records in upstream order
	Skipped int            // Malformed upstream records dropped during the walk
	Pages   int            // Listing requests issued
}

// LoadResult reports one warehouse apply.
type LoadResult struct {
	RowsWritten int // Rows merged into the destination table
	RowsSkipped int // Rows dropped before load (malformed upstream records)
}

// JobResult is the outcome of one sync job. It is logged and discarded,
// never persisted.
type JobResult struct {
	RunID    uuid.UUID     // Correlates all log lines of one run
	Success  bool          // Whether fetch and load both completed
	Records  int           // Records fetched from upstream
	Written  int           // Rows merged into the warehouse
	Skipped  int           // Malformed records dropped
	Err      error         // Failure cause, nil on success
	Duration time.Duration // Wall time of the run
}
