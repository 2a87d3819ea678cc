package pipeline

import (
	"math"

	"github.com/khaledhikmat/bm-go/model"
)

// The three derived measurements and the keypoint pair each requires.
var measurementPairs = []struct {
	from string
	to   string
	set  func(*model.Measurement, float64)
}{
	{model.PartLeftShoulder, model.PartRightShoulder, func(m *model.Measurement, v float64) { m.ShoulderWidth = v }},
	{model.PartLeftHip, model.PartRightHip, func(m *model.Measurement, v float64) { m.HipWidth = v }},
	{model.PartNose, model.PartLeftAnkle, func(m *model.Measurement, v float64) { m.Height = v }},
}

// Measurements transforms one keypoint set into one measurement record.
// An empty set means the upstream detection found no subject and yields
// a detection failure. A missing keypoint pair degrades its measurement
// to 0 without failing the record. Pure function of its input.
func Measurements(set model.KeypointSet) model.Outcome[model.Measurement] {
	if set.Empty() {
		return model.Fail[model.Measurement](model.NewFailure(model.FailureDetection, model.MsgDetectionFailed))
	}

	record := model.Measurement{}
	for _, pair := range measurementPairs {
		pair.set(&record, pairDistance(set, pair.from, pair.to))
	}

	return model.Ok(record)
}

// pairDistance is the planar Euclidean distance between two named
// keypoints, or 0 when either is absent from the set.
func pairDistance(set model.KeypointSet, from, to string) float64 {
	a, ok := set.Lookup(from)
	if !ok {
		return 0
	}

	b, ok := set.Lookup(to)
	if !ok {
		return 0
	}

	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
