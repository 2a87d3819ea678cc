package video

import (
	"github.com/khaledhikmat/bm-go/model"
	"gocv.io/x/gocv"
)

// FrameSource exposes individual frames on demand. Read mirrors
// gocv.VideoCapture: it reports false when no frame could be decoded.
type FrameSource interface {
	Read(img *gocv.Mat) bool
	Close() error
}

// IService acquires a live camera stream. Failures are surfaced
// verbatim; the service never retries.
type IService interface {
	Acquire(camera model.Camera) model.Outcome[FrameSource]
}
