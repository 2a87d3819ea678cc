package pipeline

import (
	"testing"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/config"
	"github.com/khaledhikmat/bm-go/service/estimator"
	"github.com/khaledhikmat/bm-go/service/video"
	"github.com/stretchr/testify/assert"
)

func TestDetect_FullPass(t *testing.T) {
	est := estimator.NewFake()
	acquired := video.NewFake(config.NewHardCoded()).Acquire(model.Camera{ID: "cam1", DeviceURL: "0"})
	assert.True(t, acquired.Success())
	src := acquired.Value()
	defer src.Close()

	loaded := est.Load()
	assert.True(t, loaded.Success())
	mdl := loaded.Value()
	defer est.Close(mdl)

	outcome := Detect(est, src, mdl)

	assert.True(t, outcome.Success())
	record := outcome.Value()
	assert.Equal(t, 300.0, record.ShoulderWidth)
	assert.Equal(t, 250.0, record.HipWidth)
	assert.Equal(t, 600.0, record.Height)
}

func TestDetect_NoSubject(t *testing.T) {
	est := estimator.NewFakeNoSubject()
	acquired := video.NewFake(config.NewHardCoded()).Acquire(model.Camera{ID: "cam1", DeviceURL: "0"})
	assert.True(t, acquired.Success())
	src := acquired.Value()
	defer src.Close()

	loaded := est.Load()
	assert.True(t, loaded.Success())

	outcome := Detect(est, src, loaded.Value())

	assert.False(t, outcome.Success())
	assert.Equal(t, model.FailureDetection, outcome.Failure().Kind)
	assert.Equal(t, "Pose estimation failed. Could not detect key points.", outcome.Failure().Message)
}
