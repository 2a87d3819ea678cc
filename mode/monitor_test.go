package mode

import (
	"context"
	"testing"
	"time"

	"github.com/khaledhikmat/bm-go/pipeline"
	"golang.org/x/xerrors"
)

// A failing data service must not wedge the monitor: errors are
// persisted and the next period proceeds, and cancellation still
// shuts the mode down.
func TestMonitor_RetrieveErrorKeepsRunning(t *testing.T) {
	cfgSvc := &testConfig{
		shutdownTime:   0,
		monitorTimeout: 0,
		monitorMax:     5,
	}
	dataSvc := &stubDataService{orphanedErr: xerrors.New("backing store offline")}
	svcs := pipeline.ServicesFactory{
		CfgSvc:    cfgSvc,
		DataSvc:   dataSvc,
		OrphanSvc: &stubOrphanService{},
	}

	canxCtx, canxFn := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Monitor(canxCtx, svcs, nil, nil)
	}()

	// The monitor should keep cycling through errors rather than hang
	// on the first one.
	deadline := time.Now().Add(2 * time.Second)
	for dataSvc.errorCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if dataSvc.errorCount() < 2 {
		t.Fatalf("expected repeated persisted errors, got %d", dataSvc.errorCount())
	}

	canxFn()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not shut down after cancellation")
	}
}
