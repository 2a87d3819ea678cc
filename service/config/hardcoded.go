package config

import (
	"fmt"
)

// Streamer names used to look up parameters.
const (
	PoseStreamerName = "poseStreamer"
	MP4RecorderName  = "mp4Recorder"
)

type hardcodedService struct {
}

func NewHardCoded() IService {
	return &hardcodedService{}
}

func (svc *hardcodedService) GetModeMaxShutdownTime() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 5
}

func (svc *hardcodedService) GetInputFolder() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "./settings"
}

func (svc *hardcodedService) GetCamerasInputFile() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return fmt.Sprintf("%s/cameras.json", svc.GetInputFolder())
}

func (svc *hardcodedService) GetSnapshotsFolder() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "./snapshots"
}

func (svc *hardcodedService) GetRecordingsFolder() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "./recordings"
}

func (svc *hardcodedService) GetMaxAgentsPerPod() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 1
}

func (svc *hardcodedService) GetAgentReporterPeriodicTimeout() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 5 * 60
}

func (svc *hardcodedService) GetAgentPeriodicTimeout() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 30
}

func (svc *hardcodedService) GetAgentsManagerPeriodicTimeout() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 30
}

func (svc *hardcodedService) GetAgentsMonitorPeriodicTimeout() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 30
}

func (svc *hardcodedService) GetAgentsMonitorMaxOrphanedCameras() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 10
}

func (svc *hardcodedService) GetStreamerMaxWorkers() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 3
}

func (svc *hardcodedService) GetPollingInterval() int {
	// Per-frame detection cadence in seconds.
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 1
}

func (svc *hardcodedService) GetStreamerParameters(name string) StreamerParameters {
	if name == PoseStreamerName {
		return StreamerParameters{
			ModelPath:      "./movenet/movenet_singlepose_lightning.onnx",
			InputSize:      192,
			ScoreThreshold: 0.3,
			ClipDuration:   0,
			CoolDownPeriod: 0,
			Logging:        false,
		}
	}

	if name == MP4RecorderName {
		return StreamerParameters{
			ModelPath:      "",
			InputSize:      0,
			ScoreThreshold: 0,
			ClipDuration:   6,
			CoolDownPeriod: 0,
			Logging:        false,
		}
	}

	return StreamerParameters{}
}
