package model

import "encoding/json"

type FailureKind string

const (
	FailureCameraAccess      FailureKind = "cameraAccess"
	FailureDeviceUnavailable FailureKind = "deviceUnavailable"
	FailureModelLoad         FailureKind = "modelLoad"
	FailureDetection         FailureKind = "detectionFailed"
)

// Fixed user-facing failure messages. Callers surface these verbatim.
const (
	MsgCameraAccess      = "Failed to access the camera. Please check camera permissions."
	MsgDeviceUnavailable = "Failed to open the camera device. Please check the device is connected."
	MsgModelLoad         = "Failed to load the pose model. Please check the model path and network."
	MsgDetectionFailed   = "Pose estimation failed. Could not detect key points."
)

type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func NewFailure(kind FailureKind, message string) Failure {
	return Failure{
		Kind:    kind,
		Message: message,
	}
}

// Failure satisfies the error interface so it can cross
// channel/stream boundaries like any other error.
func (f Failure) Error() string {
	return f.Message
}

func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Success bool        `json:"success"`
		Kind    FailureKind `json:"kind"`
		Message string      `json:"message"`
	}{
		Success: false,
		Kind:    f.Kind,
		Message: f.Message,
	})
}

// Outcome is a tagged sum of a result value and a Failure.
// Exactly one of the two is populated; callers branch on Success.
type Outcome[T any] struct {
	value   T
	failure *Failure
}

func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

func Fail[T any](failure Failure) Outcome[T] {
	return Outcome[T]{failure: &failure}
}

func (o Outcome[T]) Success() bool {
	return o.failure == nil
}

// Value returns the success value. It is the zero value of T
// when the outcome is a failure.
func (o Outcome[T]) Value() T {
	return o.value
}

// Failure returns the failure. It is the zero Failure
// when the outcome is a success.
func (o Outcome[T]) Failure() Failure {
	if o.failure == nil {
		return Failure{}
	}
	return *o.failure
}
