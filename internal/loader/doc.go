// Package loader applies fetched ticker batches to the warehouse.
//
// The destination table is created on first use (never dropped). Batches are
// merge-upserted keyed on ticker: matching rows are replaced, new rows
// inserted, so re-applying the same batch never duplicates rows. Writes are
// chunked for statement size but committed in one transaction per batch.
package loader
