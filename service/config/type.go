package config

type StreamerParameters struct {
	ModelPath      string
	InputSize      int
	ScoreThreshold float32
	ClipDuration   int
	CoolDownPeriod int
	Logging        bool
}

type IService interface {
	GetModeMaxShutdownTime() int
	GetInputFolder() string
	GetCamerasInputFile() string
	GetSnapshotsFolder() string
	GetRecordingsFolder() string
	GetMaxAgentsPerPod() int
	GetAgentReporterPeriodicTimeout() int
	GetAgentPeriodicTimeout() int
	GetAgentsManagerPeriodicTimeout() int
	GetAgentsMonitorPeriodicTimeout() int
	GetAgentsMonitorMaxOrphanedCameras() int
	GetStreamerMaxWorkers() int
	GetPollingInterval() int
	GetStreamerParameters(name string) StreamerParameters
}
