package estimator

import (
	"testing"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func TestFake_LoadAndEstimate(t *testing.T) {
	svc := NewFake()

	loaded := svc.Load()
	assert.True(t, loaded.Success())
	mdl := loaded.Value()
	defer svc.Close(mdl)

	estimated := svc.Estimate(mdl, gocv.Mat{})
	assert.True(t, estimated.Success())

	set := estimated.Value()
	assert.False(t, set.Empty())

	kp, ok := set.Lookup(model.PartLeftShoulder)
	assert.True(t, ok)
	assert.Equal(t, 0.0, kp.X)

	kp, ok = set.Lookup(model.PartRightShoulder)
	assert.True(t, ok)
	assert.Equal(t, 300.0, kp.X)
}

func TestFake_NoSubject(t *testing.T) {
	svc := NewFakeNoSubject()

	loaded := svc.Load()
	assert.True(t, loaded.Success())

	estimated := svc.Estimate(loaded.Value(), gocv.Mat{})
	assert.True(t, estimated.Success())
	assert.True(t, estimated.Value().Empty())
}

func TestFake_CanSkipFrame(t *testing.T) {
	svc := NewFake()
	assert.False(t, svc.CanSkipFrame(100))
}
