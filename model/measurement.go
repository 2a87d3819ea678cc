package model

// Measurement is the derived body-measurement record. All values are
// planar pixel distances; a value is 0 when its keypoint pair was not
// fully detected. No calibration to real-world units is performed.
type Measurement struct {
	ShoulderWidth float64 `json:"shoulderWidth"`
	HipWidth      float64 `json:"hipWidth"`
	Height        float64 `json:"height"`
}
