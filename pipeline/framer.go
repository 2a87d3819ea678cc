package pipeline

import (
	"context"
	"time"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/lgr"
	"gocv.io/x/gocv"
)

func framer(canxCtx context.Context, svcs ServicesFactory, camera model.Camera, errorStream chan interface{}, statsStream chan interface{}, streamChannels []chan FrameData) {
	if camera.FramerType == "random" {
		go randomFramer(canxCtx, svcs, camera, errorStream, statsStream, streamChannels)
		return
	}

	go webcamFramer(canxCtx, svcs, camera, errorStream, statsStream, streamChannels)
}

func webcamFramer(canxCtx context.Context, svcs ServicesFactory, camera model.Camera, errorStream chan interface{}, statsStream chan interface{}, streamChannels []chan FrameData) {
	acquired := svcs.VideoSvc.Acquire(camera)
	if !acquired.Success() {
		failure := acquired.Failure()
		errorStream <- model.GenError("agent_webcam_framer",
			failure,
			map[string]interface{}{"kind": string(failure.Kind)},
			"error acquiring the video source: %s", failure.Message)
		return
	}

	source := acquired.Value()
	defer source.Close()

	var startTime = time.Now().Unix()
	var endTime = time.Now().Unix()
	var frames = 0
	var skippedFrames = 0
	var errors = 0

	defer func() {
		endTime = time.Now().Unix()
		uptime := endTime - startTime
		fps := int(float64(frames) / float64(uptime))
		statsStream <- model.FramerStats{
			Name:          "webcamFramer",
			Camera:        camera.Name,
			Frames:        frames,
			SkippedFrames: skippedFrames,
			Errors:        errors,
			Uptime:        uptime,
			FPS:           fps,
		}
	}()

	// Frames are forwarded on a fixed polling cadence. The source keeps
	// being drained in between so forwarded frames are always current.
	ticker := time.NewTicker(time.Duration(svcs.CfgSvc.GetPollingInterval()) * time.Second)
	defer ticker.Stop()

	// Capture frames, route captured frames to streamers and monitor cancellations
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"webcamFramer context cancelled",
			)
			return

		default:
			img := gocv.NewMat()
			if ok := source.Read(&img); !ok {
				errors++
				img.Close() // Crucial to close the image to avoid memory leaks
				continue
			}

			frames++
			// Determine if we should skip the frame
			if svcs.EstimatorSvc.CanSkipFrame(frames) {
				skippedFrames++
				img.Close() // Crucial to close the image to avoid memory leaks
				continue
			}

			// Only forward a frame when the polling tick has elapsed
			select {
			case <-ticker.C:
			default:
				skippedFrames++
				img.Close() // Crucial to close the image to avoid memory leaks
				continue
			}

			for _, streamChan := range streamChannels {
				// WARNING: We need an extra check to make sure we don't send on a closed channel
				select {
				case <-canxCtx.Done():
					// Context canceled, stop sending
					lgr.Logger.Info("webcamFramer context cancelled while sending!!")
					img.Close() // Crucial to close the image to avoid memory leaks
					return
				case streamChan <- FrameData{Mat: img.Clone(), Timestamp: time.Now()}:
					// Successfully sent to the channel
				}
			}

			img.Close() // Crucial to close the image to avoid memory leaks
		}
	}
}

func randomFramer(canxCtx context.Context, svcs ServicesFactory, camera model.Camera, _ chan interface{}, statsStream chan interface{}, streamChannels []chan FrameData) {
	var startTime = time.Now().Unix()
	var endTime = time.Now().Unix()
	var frames = 0
	var skippedFrames = 0
	var errors = 0

	defer func() {
		endTime = time.Now().Unix()
		uptime := endTime - startTime
		fps := int(float64(frames) / float64(uptime))
		statsStream <- model.FramerStats{
			Name:          "randomFramer",
			Camera:        camera.Name,
			Frames:        frames,
			SkippedFrames: skippedFrames,
			Errors:        errors,
			Uptime:        uptime,
			FPS:           fps,
		}
	}()

	// Capture frames, route captured frames to streamers and monitor cancellations
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"randomFramer context cancelled",
			)
			return
		default:
			frames++
			// Determine if we should skip the frame
			if svcs.EstimatorSvc.CanSkipFrame(frames) {
				skippedFrames++
				continue
			}

			// Generate a random frame
			img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3) // Create a 480x640 image with 3 channels (BGR)
			// Route the frame to multiple streamers
			for _, streamChan := range streamChannels {
				// WARNING: We need an extra check to make sure we don't send on a closed channel
				select {
				case <-canxCtx.Done():
					// Context canceled, stop sending
					lgr.Logger.Info("randomFramer context cancelled while sending!!")
					img.Close() // Crucial to close the image to avoid memory leaks
					return
				case streamChan <- FrameData{Mat: img.Clone(), Timestamp: time.Now()}:
					// Successfully sent to the channel
				}
			}

			img.Close() // Crucial to close the image to avoid memory leaks
		}
	}
}
