package estimator

import (
	"image"
	"os"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/config"
	"gocv.io/x/gocv"
)

// keypointRows is the number of keypoint rows in the model output.
const keypointRows = 17

type movenetService struct {
	CfgSvc config.IService
}

func NewMoveNet(cfgsvc config.IService) IService {
	return &movenetService{
		CfgSvc: cfgsvc,
	}
}

func (svc *movenetService) Load() model.Outcome[*Model] {
	params := svc.CfgSvc.GetStreamerParameters(config.PoseStreamerName)

	if _, err := os.Stat(params.ModelPath); os.IsNotExist(err) {
		return model.Fail[*Model](model.NewFailure(model.FailureModelLoad, model.MsgModelLoad))
	}

	net := gocv.ReadNet(params.ModelPath, "")
	if net.Empty() {
		return model.Fail[*Model](model.NewFailure(model.FailureModelLoad, model.MsgModelLoad))
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return model.Fail[*Model](model.NewFailure(model.FailureModelLoad, model.MsgModelLoad))
	}

	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return model.Fail[*Model](model.NewFailure(model.FailureModelLoad, model.MsgModelLoad))
	}

	return model.Ok(&Model{net: &net})
}

func (svc *movenetService) Estimate(mdl *Model, img gocv.Mat) (outcome model.Outcome[model.KeypointSet]) {
	// A runtime fault inside the DNN is a detection failure, not a crash.
	defer func() {
		if r := recover(); r != nil {
			outcome = model.Fail[model.KeypointSet](model.NewFailure(model.FailureDetection, model.MsgDetectionFailed))
		}
	}()

	if mdl == nil || mdl.net == nil {
		return model.Fail[model.KeypointSet](model.NewFailure(model.FailureModelLoad, model.MsgModelLoad))
	}

	if img.Empty() {
		return model.Fail[model.KeypointSet](model.NewFailure(model.FailureDetection, model.MsgDetectionFailed))
	}

	params := svc.CfgSvc.GetStreamerParameters(config.PoseStreamerName)

	blob := gocv.BlobFromImage(img, 1.0/255.0, image.Pt(params.InputSize, params.InputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	mdl.net.SetInput(blob, "")

	output := mdl.net.Forward("")
	defer output.Close()

	// Expected output shape is [1, 1, 17, 3]: one (y, x, score) row per part.
	reshaped := output.Reshape(1, keypointRows)
	if reshaped.Empty() || reshaped.Rows() != keypointRows || reshaped.Cols() < 3 {
		reshaped.Close()
		return model.Fail[model.KeypointSet](model.NewFailure(model.FailureDetection, model.MsgDetectionFailed))
	}
	defer reshaped.Close()

	set := model.KeypointSet{}
	for i := 0; i < reshaped.Rows(); i++ {
		row := reshaped.RowRange(i, i+1)
		data, okErr := row.DataPtrFloat32()
		row.Close()

		if okErr != nil || data == nil || len(data) < 3 {
			continue
		}

		score := data[2]
		if score < params.ScoreThreshold {
			continue
		}

		// Rows are (y, x, score) normalized to the frame.
		set.Keypoints = append(set.Keypoints, model.Keypoint{
			Part:  model.PartNames[i],
			X:     float64(data[1]) * float64(img.Cols()),
			Y:     float64(data[0]) * float64(img.Rows()),
			Score: float64(score),
		})
	}

	return model.Ok(set)
}

func (svc *movenetService) Close(mdl *Model) {
	if mdl == nil || mdl.net == nil {
		return
	}
	mdl.net.Close()
	mdl.net = nil
}

func (svc *movenetService) CanSkipFrame(_ int) bool {
	return false
}
