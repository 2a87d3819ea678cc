package model

import (
	"encoding/json"
	"testing"
)

func TestOutcome_Ok(t *testing.T) {
	outcome := Ok(Measurement{ShoulderWidth: 1, HipWidth: 2, Height: 3})

	if !outcome.Success() {
		t.Fatal("expected a success outcome")
	}
	if outcome.Value().Height != 3 {
		t.Errorf("Height: got %v, want 3", outcome.Value().Height)
	}
	if outcome.Failure() != (Failure{}) {
		t.Errorf("Failure: got %v, want zero", outcome.Failure())
	}
}

func TestOutcome_Fail(t *testing.T) {
	outcome := Fail[Measurement](NewFailure(FailureDetection, MsgDetectionFailed))

	if outcome.Success() {
		t.Fatal("expected a failure outcome")
	}
	if outcome.Failure().Kind != FailureDetection {
		t.Errorf("Kind: got %v, want %v", outcome.Failure().Kind, FailureDetection)
	}
	if outcome.Value() != (Measurement{}) {
		t.Errorf("Value: got %v, want zero", outcome.Value())
	}
}

func TestFailure_JSONCarriesSuccessMarker(t *testing.T) {
	failure := NewFailure(FailureCameraAccess, MsgCameraAccess)

	data, err := json.Marshal(failure)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if success, ok := decoded["success"].(bool); !ok || success {
		t.Errorf("success marker: got %v, want false", decoded["success"])
	}
	if decoded["message"] != "Failed to access the camera. Please check camera permissions." {
		t.Errorf("message: got %v", decoded["message"])
	}
}

func TestFailure_Error(t *testing.T) {
	failure := NewFailure(FailureModelLoad, MsgModelLoad)

	var err error = failure
	if err.Error() != MsgModelLoad {
		t.Errorf("Error(): got %q, want %q", err.Error(), MsgModelLoad)
	}
}
