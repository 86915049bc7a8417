package cache

import (
	"time"

	"github.com/MNPJason/MNPCoin-PolisCore/util"
)

// Dummy remembers nothing.
type Dummy struct{}

func (Dummy) Has(interface{}) bool {
	return false
}

func (Dummy) Get(interface{}) (interface{}, error) {
	return nil, util.NotFoundError.Errorf("dummy cache")
}

func (Dummy) Set(interface{}, interface{}, time.Duration) error {
	return nil
}

func (Dummy) Remove(interface{}) bool {
	return false
}

func (Dummy) Purge() error {
	return nil
}

func (Dummy) Len() int {
	return 0
}

func (Dummy) New() (Cache, error) {
	return Dummy{}, nil
}
