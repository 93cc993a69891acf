// Package model defines the domain types shared across the sync pipeline:
// ticker metadata records, the per-run batch, and load/job outcomes.
package model
