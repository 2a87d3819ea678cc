package model

import "testing"

func TestKeypointSet_Lookup(t *testing.T) {
	set := KeypointSet{
		Keypoints: []Keypoint{
			{Part: PartNose, X: 1, Y: 2, Score: 0.9},
			{Part: PartLeftShoulder, X: 3, Y: 4, Score: 0.8},
		},
	}

	kp, ok := set.Lookup(PartLeftShoulder)
	if !ok {
		t.Fatal("expected leftShoulder to be present")
	}
	if kp.X != 3 || kp.Y != 4 {
		t.Errorf("got (%v, %v), want (3, 4)", kp.X, kp.Y)
	}

	if _, ok := set.Lookup(PartRightAnkle); ok {
		t.Error("expected rightAnkle to be absent")
	}
}

func TestKeypointSet_LookupFirstMatchWins(t *testing.T) {
	set := KeypointSet{
		Keypoints: []Keypoint{
			{Part: PartNose, X: 10, Y: 10, Score: 0.9},
			{Part: PartNose, X: 99, Y: 99, Score: 0.5},
		},
	}

	kp, ok := set.Lookup(PartNose)
	if !ok {
		t.Fatal("expected nose to be present")
	}
	if kp.X != 10 {
		t.Errorf("got X=%v, want first match X=10", kp.X)
	}
}

func TestKeypointSet_Empty(t *testing.T) {
	if !(KeypointSet{}).Empty() {
		t.Error("zero set should be empty")
	}

	set := KeypointSet{Keypoints: []Keypoint{{Part: PartNose}}}
	if set.Empty() {
		t.Error("populated set should not be empty")
	}
}

func TestPartNames_CoverAllRows(t *testing.T) {
	if len(PartNames) != 17 {
		t.Errorf("got %d part names, want 17", len(PartNames))
	}
}
