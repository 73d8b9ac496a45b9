// Package jobs implements background job processing for the CampusHub API.
//
// The jobs package contains scheduled tasks that run independently of
// HTTP request handling.
//
// # Job Types
//
// Available background jobs:
//
//   - MergeSweeper: Periodic removal of abandoned merge proposals
//
// # Lifecycle
//
// Jobs follow a common Start/Stop pattern:
//
//	sweeper := jobs.NewMergeSweeper(mergeService, time.Hour, 30*24*time.Hour)
//	sweeper.Start()
//	defer sweeper.Stop()
//
// Start is idempotent and runs the job loop on its own goroutine; Stop
// blocks until the loop has drained.
//
// # Error Handling
//
// Jobs log errors but don't crash the application. A failed run is
// retried on the next tick.
package jobs
