package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/lgr"
	"gocv.io/x/gocv"
)

func SimpleReporter(canx context.Context, svcs ServicesFactory, errorStream chan interface{}, statsStream chan interface{}) chan MeasureData {
	in := make(chan MeasureData, 100)

	go func() {
		defer close(in)

		var startTime = time.Now().Unix()
		var records = 0
		var errors = 0

		flush := func() {
			statsStream <- model.ReporterStats{
				Name:    "simpleReporter",
				Records: records,
				Errors:  errors,
				Uptime:  time.Now().Unix() - startTime,
			}
		}
		defer flush()

		for {
			select {
			case <-canx.Done():
				lgr.Logger.Info(
					"reporter context cancelled",
				)
				return

			case <-time.After(time.Duration(time.Duration(svcs.CfgSvc.GetAgentReporterPeriodicTimeout()) * time.Second)):
				// TODO: Retry webhooks if failures

			case measure := <-in:
				records++

				// Store the measured frame as an image
				snapshot := fmt.Sprintf("%s/%s_measured_frame_%d.jpg", svcs.CfgSvc.GetSnapshotsFolder(), measure.Camera.ID, time.Now().Unix())
				gocv.IMWrite(snapshot, measure.Mat)
				measure.Mat.Close()

				// Upload the snapshot to a cloud storage
				snapshotURL, err := svcs.StorageSvc.StoreFile(snapshot)
				if err != nil {
					errors++
					errorStream <- model.GenError("reporter",
						err,
						map[string]interface{}{},
						"error storing snapshot file")
					continue
				}

				lgr.Logger.Info(
					"measurement record",
					slog.String("camera", measure.Camera.Name),
					slog.Float64("shoulderWidth", measure.Record.ShoulderWidth),
					slog.Float64("hipWidth", measure.Record.HipWidth),
					slog.Float64("height", measure.Record.Height),
					slog.Time("timestamp", measure.Timestamp),
				)

				payload := map[string]interface{}{
					"source":        measure.Camera.Name,
					"snapshotURL":   snapshotURL,
					"shoulderWidth": measure.Record.ShoulderWidth,
					"hipWidth":      measure.Record.HipWidth,
					"height":        measure.Record.Height,
					"timestamp":     time.Now().Format(time.RFC3339),
				}

				// Send to a webhook
				err = svcs.WebhookSvc.Post(payload)
				if err != nil {
					errors++
					errorStream <- model.GenError("reporter",
						err,
						map[string]interface{}{},
						"error posting measurement payload")
				}
			}
		}
	}()

	return in
}
