package video

import (
	"fmt"
	"os"
	"strconv"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/config"
	"gocv.io/x/gocv"
)

type webcamService struct {
	CfgSvc config.IService
}

func NewWebcam(cfgsvc config.IService) IService {
	return &webcamService{
		CfgSvc: cfgsvc,
	}
}

func (svc *webcamService) Acquire(camera model.Camera) model.Outcome[FrameSource] {
	// A bare integer device URL is a local device index (i.e. "0"),
	// anything else is treated as a capture URL (i.e. RTSP).
	if idx, err := strconv.Atoi(camera.DeviceURL); err == nil {
		webcam, err := gocv.OpenVideoCapture(idx)
		if err != nil {
			// OpenCV flattens most open failures into a generic error,
			// so a denied device node rarely surfaces as a permission
			// error here. Probing the device file first gives the OS a
			// chance to report the denial before OpenCV masks it.
			if os.IsPermission(err) || deviceAccessDenied(idx) {
				return model.Fail[FrameSource](model.NewFailure(model.FailureCameraAccess, model.MsgCameraAccess))
			}
			return model.Fail[FrameSource](model.NewFailure(model.FailureDeviceUnavailable, model.MsgDeviceUnavailable))
		}
		return model.Ok[FrameSource](&webcamSource{capture: webcam})
	}

	webcam, err := gocv.OpenVideoCapture(camera.DeviceURL)
	if err != nil {
		return model.Fail[FrameSource](model.NewFailure(model.FailureDeviceUnavailable, model.MsgDeviceUnavailable))
	}

	return model.Ok[FrameSource](&webcamSource{capture: webcam})
}

// deviceAccessDenied reports whether the local capture device node
// exists but cannot be opened by this process. Only meaningful on
// platforms that expose cameras as device files; elsewhere it simply
// returns false and the generic unavailable failure stands.
func deviceAccessDenied(idx int) bool {
	f, err := os.OpenFile(fmt.Sprintf("/dev/video%d", idx), os.O_RDONLY, 0)
	if err != nil {
		return os.IsPermission(err)
	}
	f.Close()
	return false
}

type webcamSource struct {
	capture *gocv.VideoCapture
}

func (src *webcamSource) Read(img *gocv.Mat) bool {
	if ok := src.capture.Read(img); !ok || img.Empty() {
		return false
	}
	return true
}

func (src *webcamSource) Close() error {
	return src.capture.Close()
}
