package pipeline

import (
	"context"
	"time"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/config"
	"github.com/khaledhikmat/bm-go/service/data"
	"github.com/khaledhikmat/bm-go/service/estimator"
	"github.com/khaledhikmat/bm-go/service/orphan"
	"github.com/khaledhikmat/bm-go/service/storage"
	"github.com/khaledhikmat/bm-go/service/video"
	"github.com/khaledhikmat/bm-go/service/webhook"
	"gocv.io/x/gocv"
)

const waitBeforeCancel = 2 * time.Second

type ServicesFactory struct {
	CfgSvc       config.IService
	DataSvc      data.IService
	OrphanSvc    orphan.IService
	StorageSvc   storage.IService
	VideoSvc     video.IService
	EstimatorSvc estimator.IService
	WebhookSvc   webhook.IService
}

type FrameData struct {
	Mat       gocv.Mat
	Timestamp time.Time
}

type MeasureData struct {
	Mat       gocv.Mat
	Camera    model.Camera
	Record    model.Measurement
	Timestamp time.Time
}

// Signature of streamer function
type Streamer func(canx context.Context, svcs ServicesFactory, camera model.Camera, errorStream chan interface{}, statsStream chan interface{}, measureStream chan MeasureData) chan FrameData

// Signature of reporter function
type Reporter func(canx context.Context, svcs ServicesFactory, errorStream chan interface{}, statsStream chan interface{}) chan MeasureData
