package video

import (
	"testing"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/config"
	"github.com/stretchr/testify/assert"
)

func TestFake_Acquire(t *testing.T) {
	svc := NewFake(config.NewHardCoded())

	outcome := svc.Acquire(model.Camera{ID: "cam1", DeviceURL: "0"})

	assert.True(t, outcome.Success())
	source := outcome.Value()
	assert.True(t, source.Read(nil))
	assert.NoError(t, source.Close())
}

func TestFake_AcquireDenied(t *testing.T) {
	svc := NewFakeDenied(config.NewHardCoded())

	outcome := svc.Acquire(model.Camera{ID: "cam1", DeviceURL: "0"})

	assert.False(t, outcome.Success())
	failure := outcome.Failure()
	assert.Equal(t, model.FailureCameraAccess, failure.Kind)
	assert.Equal(t, "Failed to access the camera. Please check camera permissions.", failure.Message)
}
