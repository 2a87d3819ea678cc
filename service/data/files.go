package data

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/khaledhikmat/bm-go/model"
	"github.com/khaledhikmat/bm-go/service/config"
)

type filesDBService struct {
	CfgSvc config.IService
}

func NewFilesDB(cfgsvc config.IService) IService {
	return &filesDBService{
		CfgSvc: cfgsvc,
	}
}

func (svc *filesDBService) RetrieveCameras() ([]model.Camera, error) {
	cameras := []model.Camera{}

	input := svc.CfgSvc.GetCamerasInputFile()
	data, err := os.ReadFile(input)
	if err != nil {
		return cameras, err
	}

	err = json.Unmarshal(data, &cameras)
	if err != nil {
		return cameras, err
	}

	return cameras, nil
}

func (svc *filesDBService) RetrieveCamerasByID(id string) (model.Camera, error) {
	cameras, err := svc.RetrieveCameras()
	if err != nil {
		return model.Camera{}, err
	}

	for _, camera := range cameras {
		if camera.ID == id {
			return camera, nil
		}
	}

	return model.Camera{}, nil
}

func (svc *filesDBService) RetrieveCamerasByIDs(ids []string) ([]model.Camera, error) {
	cameras, err := svc.RetrieveCameras()
	if err != nil {
		return nil, err
	}

	var result []model.Camera
	for _, camera := range cameras {
		for _, id := range ids {
			if camera.ID == id {
				result = append(result, camera)
			}
		}
	}

	return result, nil
}

func (svc *filesDBService) RetrieveOrphanedCameras(max int) ([]model.Camera, error) {
	cameras, err := svc.RetrieveCameras()
	if err != nil {
		return nil, err
	}

	// A camera is orphaned if it is not excluded and its agent has not
	// reported a heartbeat within the agent periodic timeout.
	cutoff := time.Now().Unix() - int64(2*svc.CfgSvc.GetAgentPeriodicTimeout())

	var result []model.Camera
	for _, camera := range cameras {
		if camera.Excluded {
			continue
		}

		if camera.LastHeartBeat >= cutoff {
			continue
		}

		result = append(result, camera)
		if len(result) >= max {
			break
		}
	}

	return result, nil
}

func (svc *filesDBService) UpdateCameraExcluded(id string, excluded bool) error {
	cameras, err := svc.RetrieveCameras()
	if err != nil {
		return err
	}

	for i, camera := range cameras {
		if camera.ID == id {
			cameras[i].Excluded = excluded
		}
	}

	return svc.storeCameras(cameras)
}

func (svc *filesDBService) UpdateCameraAgentID(cameraID, agentID string) error {
	cameras, err := svc.RetrieveCameras()
	if err != nil {
		return err
	}

	for i, camera := range cameras {
		if camera.ID == cameraID {
			cameras[i].AgentID = agentID
			cameras[i].StartupTime = time.Now().Unix()
			cameras[i].LastHeartBeat = time.Now().Unix()
		}
	}

	return svc.storeCameras(cameras)
}

func (svc *filesDBService) UpdateCameraAgentHeartbeat(id string) error {
	cameras, err := svc.RetrieveCameras()
	if err != nil {
		return err
	}

	for i, camera := range cameras {
		if camera.ID == id {
			cameras[i].LastHeartBeat = time.Now().Unix()
			cameras[i].Uptime = cameras[i].LastHeartBeat - cameras[i].StartupTime
		}
	}

	return svc.storeCameras(cameras)
}

func (svc *filesDBService) NewError(err interface{}) error {
	return svc.appendJSON("errors", err)
}

func (svc *filesDBService) NewAgentsManagerStats(stats model.AgentsManagerStats) error {
	stats.Timestamp = time.Now().Unix()
	return svc.appendJSON("agents_manager_stats", stats)
}

func (svc *filesDBService) NewAgentStats(stats model.AgentStats) error {
	stats.Timestamp = time.Now().Unix()
	return svc.appendJSON("agent_stats", stats)
}

func (svc *filesDBService) NewFramerStats(stats model.FramerStats) error {
	stats.Timestamp = time.Now().Unix()
	return svc.appendJSON("framer_stats", stats)
}

func (svc *filesDBService) NewStreamerStats(stats model.StreamerStats) error {
	stats.Timestamp = time.Now().Unix()
	return svc.appendJSON("streamer_stats", stats)
}

func (svc *filesDBService) NewReporterStats(stats model.ReporterStats) error {
	stats.Timestamp = time.Now().Unix()
	return svc.appendJSON("reporter_stats", stats)
}

func (svc *filesDBService) storeCameras(cameras []model.Camera) error {
	data, err := json.MarshalIndent(cameras, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(svc.CfgSvc.GetCamerasInputFile(), data, 0644)
}

func (svc *filesDBService) appendJSON(name string, entry interface{}) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("%s/%s.json", svc.CfgSvc.GetInputFolder(), name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}
