package pipeline

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestOfferMeasure_DropReleasesFrame(t *testing.T) {
	stream := make(chan MeasureData, 1)

	first := gocv.NewMat()
	if !OfferMeasure(stream, MeasureData{Mat: first}) {
		t.Fatal("expected the record to be accepted while the stream has room")
	}

	second := gocv.NewMat()
	if OfferMeasure(stream, MeasureData{Mat: second}) {
		t.Fatal("expected the record to be dropped when the stream is full")
	}
	if !second.Closed() {
		t.Error("a dropped record should release its frame")
	}

	accepted := <-stream
	if accepted.Mat.Closed() {
		t.Error("an accepted record should keep its frame open")
	}
	accepted.Mat.Close()
}
