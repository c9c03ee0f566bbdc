// Package jobs provides scheduled background tasks for the parcel engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Specs carry a seconds field.
//
// # Available Jobs
//
//  1. StorageExpiryJob - Closes storage assignments whose stored-until time has passed
//  2. OverdueLegJob - Cancels scheduled legs not started within a grace period.
//     Opt-in: it only runs when Schedule.OverdueLegSpec is set.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(schedule, expireStorageHandler, listOverdueLegsHandler, cancelLegHandler, logger)
//
//	if err := jobManager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed run is logged and retried on the next tick
// - Overdue legs that were started or cancelled concurrently are skipped quietly
// - Failed job starts will stop any already running jobs
package jobs
