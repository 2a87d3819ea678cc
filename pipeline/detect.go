package pipeline

import (
	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/estimator"
	"github.com/khaledhikmat/bm-go/service/video"
	"gocv.io/x/gocv"
)

// Detect runs one full detection pass: read a frame from the source,
// estimate a keypoint set against the loaded model and derive the
// measurement record. Each stage's failure is surfaced verbatim;
// nothing is retried here, that is the caller's call on its next tick.
func Detect(est estimator.IService, src video.FrameSource, mdl *estimator.Model) model.Outcome[model.Measurement] {
	img := gocv.NewMat()
	defer img.Close()

	if ok := src.Read(&img); !ok {
		return model.Fail[model.Measurement](model.NewFailure(model.FailureDeviceUnavailable, model.MsgDeviceUnavailable))
	}

	estimated := est.Estimate(mdl, img)
	if !estimated.Success() {
		return model.Fail[model.Measurement](estimated.Failure())
	}

	return Measurements(estimated.Value())
}
