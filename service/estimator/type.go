package estimator

import (
	"github.com/khaledhikmat/bm-go/model"
	"gocv.io/x/gocv"
)

// Model is an opaque handle to a loaded pose network.
// WARNING: handles are not thread-safe. Each worker must Load its own.
type Model struct {
	net *gocv.Net
}

type IService interface {
	// Load reads the pose model. One-time per worker; may fail on
	// missing files or fetch issues.
	Load() model.Outcome[*Model]
	// Estimate runs the model against a single frame and returns the
	// detected keypoint set. The set is empty when no subject is found.
	Estimate(mdl *Model, img gocv.Mat) model.Outcome[model.KeypointSet]
	// Close releases the model handle.
	Close(mdl *Model)
	// CanSkipFrame lets the framer thin the frame stream.
	CanSkipFrame(frames int) bool
}
