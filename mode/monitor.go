package mode

import (
	"context"
	"log/slog"
	"time"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/pipeline"
	"github.com/khaledhikmat/bm-go/service/lgr"
)

// The agents monitor is responsible for monitoring for orphaned cameras
// and publishing orphaned cameras so they can be picked up by the agents manager
func Monitor(canxCtx context.Context, svcs pipeline.ServicesFactory, _ []pipeline.Streamer, _ pipeline.Reporter) error {
	// Wait for cancellation or timeout
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"agents monitor context cancelled",
			)
			goto resume

		case <-time.After(time.Duration(time.Duration(svcs.CfgSvc.GetAgentsMonitorPeriodicTimeout()) * time.Second)):
			// Retrieve orphaned cameras
			// Errors are persisted directly, the monitor runs no go
			// routines of its own that could receive from a stream
			cameras, err := svcs.DataSvc.RetrieveOrphanedCameras(svcs.CfgSvc.GetAgentsMonitorMaxOrphanedCameras())
			if err != nil {
				procError(svcs.DataSvc, model.GenError("agents_monitor",
					err,
					map[string]interface{}{},
					"error retrieving orphaned cameras"))
				continue
			}

			// Publish orphaned cameras through the orphan service
			err = svcs.OrphanSvc.Publish(cameras)
			if err != nil {
				procError(svcs.DataSvc, model.GenError("agents_monitor",
					err,
					map[string]interface{}{},
					"error publishing through orphan service"))
				continue
			}
		}
	}

	// Wait in a non-blocking way for the shutdown time for all the go routines to exit
resume:
	lgr.Logger.Info(
		"agents monitor is waiting for all go routines to exit",
	)

	// The only way to exit the main function is to wait for the shutdown
	// duration
	timer := time.NewTimer(time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime()) * time.Second)
	defer timer.Stop()

	<-timer.C

	lgr.Logger.Info(
		"agents monitor shutdown waiting period expired. Exiting now",
		slog.Duration("period", time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second),
	)

	return nil
}
