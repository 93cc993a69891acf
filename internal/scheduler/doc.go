// Package scheduler implements the daily trigger loop as an explicit
// IDLE/RUNNING state machine driven by an injectable clock.
//
// Invariants:
//   - At most one job runs at a time.
//   - At most one run completes per calendar day (in-memory suppression).
//   - Job failures are logged at the job boundary and never end the loop.
package scheduler
