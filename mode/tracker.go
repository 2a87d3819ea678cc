package mode

import (
	"context"
	"log/slog"
	"time"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/pipeline"
	"github.com/khaledhikmat/bm-go/service/lgr"
	"gocv.io/x/gocv"
	"golang.org/x/xerrors"
)

// Tracker states. Each transition requires the prior stage's outcome
// to be a success; any failure halts progression and is reported.
const (
	StateIdle        = "idle"
	StateCameraReady = "cameraReady"
	StateModelReady  = "modelReady"
	StateDetecting   = "detecting"
)

// The tracker runs a single webcam through the acquire -> load -> detect
// progression and reports one measurement record per polling tick.
// There is no automatic retry: a camera or model failure ends the mode,
// and a failed detection is simply retried on the next tick by virtue
// of the loop.
func Tracker(canxCtx context.Context, svcs pipeline.ServicesFactory, _ []pipeline.Streamer, reporter pipeline.Reporter) error {
	state := StateIdle
	lgr.Logger.Info("tracker starting...", slog.String("state", state))

	camera := trackerCamera(svcs)

	// Create an error stream
	// The reporter still flushes its final stats and errors after the
	// tracker returns, so both streams stay open and buffered. Closing
	// them here would panic the reporter's deferred flush.
	errorStream := make(chan interface{}, 10)

	// Create a stats stream
	statsStream := make(chan interface{}, 10)

	// Create a measurement stream using the provided reporter
	measureStream := reporter(canxCtx, svcs, errorStream, statsStream)

	// Idle -> CameraReady
	acquired := svcs.VideoSvc.Acquire(camera)
	if !acquired.Success() {
		failure := acquired.Failure()
		procError(svcs.DataSvc, model.GenError("tracker",
			failure,
			map[string]interface{}{"kind": string(failure.Kind)},
			"error acquiring the video source: %s", failure.Message))
		return xerrors.New(failure.Message)
	}
	source := acquired.Value()
	defer source.Close()

	state = StateCameraReady
	lgr.Logger.Info("tracker camera ready", slog.String("state", state))

	// CameraReady -> ModelReady
	loaded := svcs.EstimatorSvc.Load()
	if !loaded.Success() {
		failure := loaded.Failure()
		procError(svcs.DataSvc, model.GenError("tracker",
			failure,
			map[string]interface{}{"kind": string(failure.Kind)},
			"error loading the pose model: %s", failure.Message))
		return xerrors.New(failure.Message)
	}
	mdl := loaded.Value()
	defer svcs.EstimatorSvc.Close(mdl)

	state = StateModelReady
	lgr.Logger.Info("tracker model ready", slog.String("state", state))

	// ModelReady -> Detecting
	state = StateDetecting
	lgr.Logger.Info("tracker detecting", slog.String("state", state), slog.Int("pollingSecs", svcs.CfgSvc.GetPollingInterval()))

	ticker := time.NewTicker(time.Duration(svcs.CfgSvc.GetPollingInterval()) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"tracker context cancelled",
			)
			goto resume

		case <-ticker.C:
			img := gocv.NewMat()

			if ok := source.Read(&img); !ok {
				img.Close()
				procError(svcs.DataSvc, model.GenError("tracker",
					model.NewFailure(model.FailureDeviceUnavailable, model.MsgDeviceUnavailable),
					map[string]interface{}{},
					"error reading a frame from the video source"))
				continue
			}

			estimated := svcs.EstimatorSvc.Estimate(mdl, img)
			if !estimated.Success() {
				img.Close()
				reportTrackerFailure(svcs, camera, estimated.Failure())
				continue
			}

			measured := pipeline.Measurements(estimated.Value())
			if !measured.Success() {
				img.Close()
				reportTrackerFailure(svcs, camera, measured.Failure())
				continue
			}

			if !pipeline.OfferMeasure(measureStream, pipeline.MeasureData{
				Mat:       img.Clone(),
				Camera:    camera,
				Record:    measured.Value(),
				Timestamp: time.Now(),
			}) {
				lgr.Logger.Warn("measureStream full, dropping record")
			}
			img.Close()

		case s := <-statsStream:
			procStats(svcs.DataSvc, s)

		case e := <-errorStream:
			procError(svcs.DataSvc, e)
		}
	}

	// Wait in a non-blocking way for the shutdown time so the reporter
	// can flush its final stats and errors as it is exiting
resume:
	lgr.Logger.Info(
		"tracker is waiting for all go routines to exit",
	)

	timer := time.NewTimer(time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime()) * time.Second)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"tracker shutdown waiting period expired. Exiting now",
				slog.Duration("period", time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second),
			)

			return nil

		case s := <-statsStream:
			procStats(svcs.DataSvc, s)

		case e := <-errorStream:
			procError(svcs.DataSvc, e)
		}
	}
}

// trackerCamera resolves the camera to track: the first configured
// camera if any, otherwise the default local webcam.
func trackerCamera(svcs pipeline.ServicesFactory) model.Camera {
	cameras, err := svcs.DataSvc.RetrieveCameras()
	if err == nil && len(cameras) > 0 {
		return cameras[0]
	}

	return model.Camera{
		ID:         "webcam",
		Name:       "webcam",
		DeviceURL:  "0",
		FramerType: "webcam",
	}
}

// Detection failures are expected between subjects, so they are logged
// at debug rather than persisted as errors.
func reportTrackerFailure(svcs pipeline.ServicesFactory, camera model.Camera, failure model.Failure) {
	if failure.Kind == model.FailureDetection {
		lgr.Logger.Debug(
			"tracker detection failure",
			slog.String("camera", camera.Name),
			slog.String("message", failure.Message),
		)
		return
	}

	procError(svcs.DataSvc, model.GenError("tracker",
		failure,
		map[string]interface{}{"kind": string(failure.Kind)},
		"tracker failure: %s", failure.Message))
}
