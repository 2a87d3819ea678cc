package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/config"
	"github.com/khaledhikmat/bm-go/service/estimator"
	"github.com/khaledhikmat/bm-go/service/lgr"
	"github.com/natefinch/lumberjack"
	"gocv.io/x/gocv"
)

// Global logger instance
var measurementsLogger = &lumberjack.Logger{
	Filename:   "measurements.log",
	MaxSize:    10, // MB
	MaxBackups: 5,
	MaxAge:     7,    // days
	Compress:   true, // compress old logs
}

func PoseStreamer(canx context.Context, svcs ServicesFactory, camera model.Camera, errorStream chan interface{}, statsStream chan interface{}, measureStream chan MeasureData) chan FrameData {
	in := make(chan FrameData, 100)

	go func() {
		defer close(in)

		lgr.Logger.Info("pose streamer starting...",
			slog.String("camera", camera.Name),
			slog.String("model", svcs.CfgSvc.GetStreamerParameters(config.PoseStreamerName).ModelPath),
			slog.String("openCV", gocv.Version()),
		)

		proc := func(frame FrameData, mdl *estimator.Model) {
			defer frame.Mat.Close()
			defer func() {
				if r := recover(); r != nil {
					lgr.Logger.Warn("recovered from panic in pose streamer", slog.Any("panic", r))
				}
			}()

			if frame.Mat.Empty() {
				lgr.Logger.Debug("skipping empty frame due to decode error")
				return
			}

			estimated := svcs.EstimatorSvc.Estimate(mdl, frame.Mat)
			if !estimated.Success() {
				reportFailure(camera, estimated.Failure())
				return
			}

			measured := Measurements(estimated.Value())
			if !measured.Success() {
				reportFailure(camera, measured.Failure())
				return
			}

			record := measured.Value()
			if svcs.CfgSvc.GetStreamerParameters(config.PoseStreamerName).Logging {
				logMeasurement(camera.Name, record)
			}

			if !OfferMeasure(measureStream, MeasureData{
				Mat:       frame.Mat.Clone(),
				Camera:    camera,
				Record:    record,
				Timestamp: time.Now(),
			}) {
				lgr.Logger.Warn("measureStream full, dropping record")
			}
		}

		for i := 0; i < svcs.CfgSvc.GetStreamerMaxWorkers(); i++ {
			worker := i
			go func(worker int, in chan FrameData) {
				// WARNING: the model handle is not thread-safe!!!
				// So it must be loaded in each worker
				loaded := svcs.EstimatorSvc.Load()
				if !loaded.Success() {
					failure := loaded.Failure()
					errorStream <- model.GenError("agent_pose_streamer",
						failure,
						map[string]interface{}{"worker": worker},
						"worker %d: %s", worker, failure.Message)
					return
				}
				mdl := loaded.Value()
				defer svcs.EstimatorSvc.Close(mdl)

				frames := 0
				beginTime := time.Now().Unix()
				endTime := time.Now().Unix()
				errors := 0
				var totalInferenceTime time.Duration

				defer func() {
					endTime = time.Now().Unix()
					uptime := endTime - beginTime
					fps := int(float64(frames) / float64(uptime))
					if fps == 0 {
						fps = 1
					}
					var AvgProcTime float64
					if frames > 0 {
						AvgProcTime = totalInferenceTime.Seconds() / float64(frames)
					}
					statsStream <- model.StreamerStats{
						Name:        "poseStreamer",
						Worker:      worker,
						Camera:      camera.Name,
						Frames:      frames,
						Errors:      errors,
						Uptime:      uptime,
						FPS:         fps,
						AvgProcTime: AvgProcTime,
					}
				}()

				for f := range in {
					select {
					case <-canx.Done():
						lgr.Logger.Info(
							"pose streamer worker context cancelled",
							slog.Int("worker", worker),
						)
						return
					default:
						startInference := time.Now()
						proc(f, mdl)
						frames++
						totalInferenceTime += time.Since(startInference)
					}
				}
			}(worker, in)
		}

		<-canx.Done()
		time.Sleep(waitBeforeCancel)
		lgr.Logger.Info("pose streamer context cancelled")
	}()

	return in
}

// OfferMeasure forwards a record to the measurement stream without
// blocking. The record carries a cloned Mat, so the clone must be
// released whenever the stream is full and the record is dropped.
func OfferMeasure(measureStream chan MeasureData, data MeasureData) bool {
	select {
	case measureStream <- data:
		return true
	default:
		data.Mat.Close()
		return false
	}
}

func reportFailure(camera model.Camera, failure model.Failure) {
	lgr.Logger.Debug(
		"pose streamer detection failure",
		slog.String("camera", camera.Name),
		slog.String("kind", string(failure.Kind)),
		slog.String("message", failure.Message),
	)
}

func logMeasurement(cameraName string, record model.Measurement) {
	entry := map[string]interface{}{
		"time":        time.Now().Format(time.RFC3339),
		"camera":      cameraName,
		"measurement": record,
	}

	jsonData, err := json.MarshalIndent(entry, "", "  ") // pretty-print
	if err != nil {
		fmt.Println("Error marshaling measurement:", err)
		return
	}

	if _, err := measurementsLogger.Write(append(jsonData, '\n')); err != nil {
		fmt.Println("Error writing to measurements log file:", err)
	}
}
