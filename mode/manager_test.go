package mode

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/pipeline"
	"github.com/khaledhikmat/bm-go/service/estimator"
	"github.com/khaledhikmat/bm-go/service/storage"
	"github.com/khaledhikmat/bm-go/service/video"
	"github.com/khaledhikmat/bm-go/service/webhook"
	"golang.org/x/xerrors"
)

type stubOrphanService struct {
	mu           sync.Mutex
	ch           chan []model.Camera
	unsubscribed bool
}

func (s *stubOrphanService) Publish(cameras []model.Camera) error {
	return nil
}

func (s *stubOrphanService) Subscribe() (<-chan []model.Camera, error) {
	return s.ch, nil
}

func (s *stubOrphanService) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubscribed = true
	return nil
}

func (s *stubOrphanService) Finalize() {
}

// An agent that fails to start reports its error from its own go
// routine. The manager must observe the failure without sharing any
// state with that go routine.
func TestManager_AgentStartFailurePersisted(t *testing.T) {
	cfgSvc := &testConfig{
		shutdownTime:    1,
		maxAgents:       1,
		managerTimeout:  300,
		reporterTimeout: 300,
		agentTimeout:    300,
	}
	dataSvc := &stubDataService{updateAgentIDErr: xerrors.New("cameras file is read-only")}
	orphanSvc := &stubOrphanService{ch: make(chan []model.Camera, 1)}
	svcs := pipeline.ServicesFactory{
		CfgSvc:       cfgSvc,
		DataSvc:      dataSvc,
		OrphanSvc:    orphanSvc,
		VideoSvc:     video.NewFake(cfgSvc),
		EstimatorSvc: estimator.NewFake(),
		StorageSvc:   storage.NewFake(cfgSvc),
		WebhookSvc:   webhook.NewFake(cfgSvc),
	}

	canxCtx, canxFn := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Manager(canxCtx, svcs, nil, pipeline.SimpleReporter)
	}()

	orphanSvc.ch <- []model.Camera{{ID: "cam1", Name: "front", DeviceURL: "1", FramerType: "webcam"}}

	deadline := time.Now().Add(2 * time.Second)
	for dataSvc.errorCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if dataSvc.errorCount() == 0 {
		t.Fatal("expected the agent start failure to be persisted")
	}

	canxFn()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not shut down after cancellation")
	}
}
