package estimator

import (
	"github.com/khaledhikmat/bm-go/model"
	"gocv.io/x/gocv"
)

type fakeService struct {
	// NoSubject simulates an empty detection on every frame.
	NoSubject bool
}

func NewFake() IService {
	return &fakeService{}
}

func NewFakeNoSubject() IService {
	return &fakeService{
		NoSubject: true,
	}
}

func (svc *fakeService) Load() model.Outcome[*Model] {
	return model.Ok(&Model{})
}

// Estimate returns a canned full-body keypoint set. The frame is ignored,
// so the fake is safe where no OpenCV runtime is available.
func (svc *fakeService) Estimate(_ *Model, _ gocv.Mat) model.Outcome[model.KeypointSet] {
	if svc.NoSubject {
		return model.Ok(model.KeypointSet{})
	}

	return model.Ok(model.KeypointSet{
		Keypoints: []model.Keypoint{
			{Part: model.PartNose, X: 150, Y: 0, Score: 0.9},
			{Part: model.PartLeftShoulder, X: 0, Y: 0, Score: 0.9},
			{Part: model.PartRightShoulder, X: 300, Y: 0, Score: 0.9},
			{Part: model.PartLeftHip, X: 50, Y: 200, Score: 0.9},
			{Part: model.PartRightHip, X: 300, Y: 200, Score: 0.9},
			{Part: model.PartLeftAnkle, X: 150, Y: 600, Score: 0.9},
		},
	})
}

func (svc *fakeService) Close(_ *Model) {
}

func (svc *fakeService) CanSkipFrame(_ int) bool {
	return false
}
