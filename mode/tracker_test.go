package mode

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/pipeline"
	"github.com/khaledhikmat/bm-go/service/config"
	"github.com/khaledhikmat/bm-go/service/estimator"
	"github.com/khaledhikmat/bm-go/service/storage"
	"github.com/khaledhikmat/bm-go/service/video"
	"github.com/khaledhikmat/bm-go/service/webhook"
	"golang.org/x/xerrors"
)

// testConfig overrides just the knobs the mode tests need. Everything
// else falls through to the embedded nil interface, which keeps the
// tests honest about what the modes actually consult.
type testConfig struct {
	config.IService
	shutdownTime    int
	pollingInterval int
	reporterTimeout int
	monitorTimeout  int
	monitorMax      int
	maxAgents       int
	managerTimeout  int
	agentTimeout    int
}

func (c *testConfig) GetModeMaxShutdownTime() int             { return c.shutdownTime }
func (c *testConfig) GetPollingInterval() int                 { return c.pollingInterval }
func (c *testConfig) GetAgentReporterPeriodicTimeout() int    { return c.reporterTimeout }
func (c *testConfig) GetAgentsMonitorPeriodicTimeout() int    { return c.monitorTimeout }
func (c *testConfig) GetAgentsMonitorMaxOrphanedCameras() int { return c.monitorMax }
func (c *testConfig) GetMaxAgentsPerPod() int                 { return c.maxAgents }
func (c *testConfig) GetAgentsManagerPeriodicTimeout() int    { return c.managerTimeout }
func (c *testConfig) GetAgentPeriodicTimeout() int            { return c.agentTimeout }
func (c *testConfig) GetSnapshotsFolder() string              { return "" }

// stubDataService records errors and stats and serves a fixed camera
// list. Modes persist from multiple go routines, hence the lock.
type stubDataService struct {
	mu               sync.Mutex
	cameras          []model.Camera
	camerasErr       error
	orphanedErr      error
	updateAgentIDErr error
	errors           []interface{}
	reporterStats    int
}

func (s *stubDataService) RetrieveCameras() ([]model.Camera, error) {
	return s.cameras, s.camerasErr
}

func (s *stubDataService) RetrieveCamerasByID(id string) (model.Camera, error) {
	return model.Camera{}, nil
}

func (s *stubDataService) RetrieveCamerasByIDs(ids []string) ([]model.Camera, error) {
	return nil, nil
}

func (s *stubDataService) RetrieveOrphanedCameras(max int) ([]model.Camera, error) {
	return nil, s.orphanedErr
}

func (s *stubDataService) UpdateCameraExcluded(id string, excluded bool) error {
	return nil
}

func (s *stubDataService) UpdateCameraAgentID(cameraID, agentID string) error {
	return s.updateAgentIDErr
}

func (s *stubDataService) UpdateCameraAgentHeartbeat(id string) error {
	return nil
}

func (s *stubDataService) NewError(err interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
	return nil
}

func (s *stubDataService) errorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errors)
}

func (s *stubDataService) NewAgentsManagerStats(stats model.AgentsManagerStats) error {
	return nil
}

func (s *stubDataService) NewAgentStats(stats model.AgentStats) error {
	return nil
}

func (s *stubDataService) NewFramerStats(stats model.FramerStats) error {
	return nil
}

func (s *stubDataService) NewStreamerStats(stats model.StreamerStats) error {
	return nil
}

func (s *stubDataService) NewReporterStats(stats model.ReporterStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reporterStats++
	return nil
}

func (s *stubDataService) reporterStatsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reporterStats
}

func TestTrackerCamera_Configured(t *testing.T) {
	svcs := pipeline.ServicesFactory{
		DataSvc: &stubDataService{cameras: []model.Camera{
			{ID: "cam1", Name: "front", DeviceURL: "1"},
			{ID: "cam2", Name: "back", DeviceURL: "2"},
		}},
	}

	camera := trackerCamera(svcs)
	if camera.ID != "cam1" {
		t.Errorf("got %q, want the first configured camera", camera.ID)
	}
}

func TestTrackerCamera_FallbackWebcam(t *testing.T) {
	svcs := pipeline.ServicesFactory{
		DataSvc: &stubDataService{camerasErr: xerrors.New("no cameras file")},
	}

	camera := trackerCamera(svcs)
	if camera.ID != "webcam" {
		t.Errorf("got %q, want the webcam fallback", camera.ID)
	}
	if camera.DeviceURL != "0" {
		t.Errorf("got device %q, want 0", camera.DeviceURL)
	}
}

func TestReportTrackerFailure_DetectionNotPersisted(t *testing.T) {
	dataSvc := &stubDataService{}
	svcs := pipeline.ServicesFactory{DataSvc: dataSvc}

	reportTrackerFailure(svcs, model.Camera{Name: "cam"}, model.NewFailure(model.FailureDetection, model.MsgDetectionFailed))
	if dataSvc.errorCount() != 0 {
		t.Errorf("detection failures should not be persisted, got %d", dataSvc.errorCount())
	}

	reportTrackerFailure(svcs, model.Camera{Name: "cam"}, model.NewFailure(model.FailureDeviceUnavailable, model.MsgDeviceUnavailable))
	if dataSvc.errorCount() != 1 {
		t.Errorf("device failures should be persisted, got %d", dataSvc.errorCount())
	}
}

// A denied camera ends the tracker but must not crash the process:
// the reporter still flushes its final stats after the tracker has
// returned and the host has cancelled the context.
func TestTracker_CameraFailureOutlivesReporterFlush(t *testing.T) {
	cfgSvc := &testConfig{
		shutdownTime:    1,
		pollingInterval: 1,
		reporterTimeout: 300,
	}
	dataSvc := &stubDataService{}
	svcs := pipeline.ServicesFactory{
		CfgSvc:       cfgSvc,
		DataSvc:      dataSvc,
		VideoSvc:     video.NewFakeDenied(cfgSvc),
		EstimatorSvc: estimator.NewFake(),
		StorageSvc:   storage.NewFake(cfgSvc),
		WebhookSvc:   webhook.NewFake(cfgSvc),
	}

	canxCtx, canxFn := context.WithCancel(context.Background())

	err := Tracker(canxCtx, svcs, nil, pipeline.SimpleReporter)
	if err == nil {
		t.Fatal("expected an error when the camera is denied")
	}
	if err.Error() != model.MsgCameraAccess {
		t.Errorf("got %q, want %q", err.Error(), model.MsgCameraAccess)
	}
	if dataSvc.errorCount() != 1 {
		t.Errorf("the camera failure should be persisted, got %d", dataSvc.errorCount())
	}

	// Cancelling now triggers the reporter's final flush. A panic in
	// that go routine would take the test binary down with it.
	canxFn()
	time.Sleep(200 * time.Millisecond)
}

// Cancellation while detecting drains the reporter's final stats
// before the tracker returns.
func TestTracker_CancellationDrainsReporter(t *testing.T) {
	cfgSvc := &testConfig{
		shutdownTime:    1,
		pollingInterval: 5,
		reporterTimeout: 300,
	}
	dataSvc := &stubDataService{}
	svcs := pipeline.ServicesFactory{
		CfgSvc:       cfgSvc,
		DataSvc:      dataSvc,
		VideoSvc:     video.NewFake(cfgSvc),
		EstimatorSvc: estimator.NewFake(),
		StorageSvc:   storage.NewFake(cfgSvc),
		WebhookSvc:   webhook.NewFake(cfgSvc),
	}

	canxCtx, canxFn := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		canxFn()
	}()

	err := Tracker(canxCtx, svcs, nil, pipeline.SimpleReporter)
	if err != nil {
		t.Fatalf("expected a clean shutdown, got %v", err)
	}
	if dataSvc.reporterStatsCount() != 1 {
		t.Errorf("the reporter's final stats should be drained, got %d", dataSvc.reporterStatsCount())
	}
}
