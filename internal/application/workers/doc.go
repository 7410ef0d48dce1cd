// Package workers implements the notification worker pool.
//
// The worker pool manages a fixed number of goroutines that:
//   - Subscribe to group events from the event bus
//   - Fan a completed draw out into one notification job per participant
//   - Deliver notifications through the Notifier port
//   - Record delivery metrics
//
// The health monitor tracks worker status and logs metrics.
package workers
