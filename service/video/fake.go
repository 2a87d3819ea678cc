package video

import (
	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/config"
	"gocv.io/x/gocv"
)

type fakeService struct {
	CfgSvc config.IService
	// Deny simulates a camera permission failure on Acquire.
	Deny bool
}

func NewFake(cfgsvc config.IService) IService {
	return &fakeService{
		CfgSvc: cfgsvc,
	}
}

func NewFakeDenied(cfgsvc config.IService) IService {
	return &fakeService{
		CfgSvc: cfgsvc,
		Deny:   true,
	}
}

func (svc *fakeService) Acquire(_ model.Camera) model.Outcome[FrameSource] {
	if svc.Deny {
		return model.Fail[FrameSource](model.NewFailure(model.FailureCameraAccess, model.MsgCameraAccess))
	}
	return model.Ok[FrameSource](&fakeSource{})
}

// fakeSource pretends every read succeeded without touching the Mat,
// so it is safe to use where no OpenCV runtime is available.
type fakeSource struct {
}

func (src *fakeSource) Read(_ *gocv.Mat) bool {
	return true
}

func (src *fakeSource) Close() error {
	return nil
}
