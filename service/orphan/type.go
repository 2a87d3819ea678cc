package orphan

import "github.com/khaledhikmat/bm-go/model"

type IService interface {
	Publish(cameras []model.Camera) error
	Subscribe() (<-chan []model.Camera, error)
	Unsubscribe() error
	Finalize()
}
