package model

// Anatomical part names as produced by MoveNet-style pose models.
const (
	PartNose          = "nose"
	PartLeftEye       = "leftEye"
	PartRightEye      = "rightEye"
	PartLeftEar       = "leftEar"
	PartRightEar      = "rightEar"
	PartLeftShoulder  = "leftShoulder"
	PartRightShoulder = "rightShoulder"
	PartLeftElbow     = "leftElbow"
	PartRightElbow    = "rightElbow"
	PartLeftWrist     = "leftWrist"
	PartRightWrist    = "rightWrist"
	PartLeftHip       = "leftHip"
	PartRightHip      = "rightHip"
	PartLeftKnee      = "leftKnee"
	PartRightKnee     = "rightKnee"
	PartLeftAnkle     = "leftAnkle"
	PartRightAnkle    = "rightAnkle"
)

// PartNames lists the model output parts in row order.
var PartNames = []string{
	PartNose,
	PartLeftEye,
	PartRightEye,
	PartLeftEar,
	PartRightEar,
	PartLeftShoulder,
	PartRightShoulder,
	PartLeftElbow,
	PartRightElbow,
	PartLeftWrist,
	PartRightWrist,
	PartLeftHip,
	PartRightHip,
	PartLeftKnee,
	PartRightKnee,
	PartLeftAnkle,
	PartRightAnkle,
}

type Keypoint struct {
	Part  string  `json:"part"`
	X     float64 `json:"x"` // pixels
	Y     float64 `json:"y"` // pixels
	Score float64 `json:"score"`
}

// KeypointSet holds the keypoints detected for one subject in one frame.
// Keypoints below the estimator's score threshold are omitted, so a part
// is "present" iff it appears in the set.
type KeypointSet struct {
	Keypoints []Keypoint `json:"keypoints"`
}

// Lookup returns the keypoint for the given part name.
// First match wins if a set carries duplicate entries for a part.
func (s KeypointSet) Lookup(part string) (Keypoint, bool) {
	for _, kp := range s.Keypoints {
		if kp.Part == part {
			return kp, true
		}
	}
	return Keypoint{}, false
}

// Empty reports whether no keypoints were detected at all,
// which downstream treats as a failed detection.
func (s KeypointSet) Empty() bool {
	return len(s.Keypoints) == 0
}
