// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OrderStatsJob - counts orders by status and publishes the counts to the
// dispatch_orders gauge
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	statsJob, err := jobs.NewOrderStatsJob(statsHandler, dispatchMetrics, "@every 15s", log)
//	if err != nil {
//		return err
//	}
//	jobManager := jobs.NewJobManager(statsJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		return fmt.Errorf("failed to start jobs: %w", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the cron syntax with an optional seconds field, or descriptors
// such as "@every 15s".
//
// # Error Handling
//
// - A failed run is logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
