package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/lgr"
)

func Agent(canxCtx context.Context,
	svcs ServicesFactory,
	errorStream chan interface{},
	statsStream chan interface{},
	measureStream chan MeasureData,
	camera model.Camera,
	streamers []Streamer) error {
	agentID := uuid.NewString()

	attrs := []any{
		slog.String("agentID", agentID),
		slog.String("camera", camera.Name),
		slog.String("frameType", camera.FramerType),
		slog.String("device", camera.DeviceURL),
		slog.String("streamers", fmt.Sprintf("%d", len(streamers))),
	}
	attrs = append(attrs, lgr.TraceAttrs(canxCtx)...)
	lgr.Logger.Info(
		"agent starting....",
		attrs...,
	)

	var agentStartTime = time.Now().Unix()
	agentStats := model.AgentStats{
		ID:     agentID,
		Camera: camera.Name,
		Uptime: agentStartTime,
	}

	// Update the camera agent id
	err := svcs.DataSvc.UpdateCameraAgentID(camera.ID, agentID)
	if err != nil {
		return fmt.Errorf("error updating camera agent id: %w", err)
	}

	// Setup the stream channels
	streamChannels := []chan FrameData{}
	for _, streamer := range streamers {
		streamChannels = append(streamChannels, streamer(canxCtx, svcs, camera, errorStream, statsStream, measureStream))
	}

	// Start the agent frame capturer
	framer(canxCtx, svcs, camera, errorStream, statsStream, streamChannels)

	// Monitor cancellations and update heartbeats
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"agent context cancelled",
			)
			return nil

		case <-time.After(time.Duration(time.Duration(svcs.CfgSvc.GetAgentPeriodicTimeout()) * time.Second)):
			// Update the agent heartbeat so that the agents monitor would know
			// that the agent is alive and kicking and does not need to be re-scheduled
			err := svcs.DataSvc.UpdateCameraAgentHeartbeat(camera.ID)
			if err != nil {
				lgr.Logger.Error(
					"error updating camera agent heartbeat",
					slog.Any("error", err),
				)
			}

			agentStats.Uptime = time.Now().Unix() - agentStartTime

			statsStream <- agentStats
		}
	}
}
