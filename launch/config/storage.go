package config

import (
	"strings"
)

var DefaultStoragePath = "./mnd-data"

type Storage interface {
	Path() string
	SetPath(string) error
}

// BaseStorage is the leveldb storage of masternode list and governance votes.
type BaseStorage struct {
	path string
}

func EmptyBaseStorage() *BaseStorage {
	return &BaseStorage{}
}

func (no BaseStorage) Path() string {
	return no.path
}

func (no *BaseStorage) SetPath(s string) error {
	no.path = strings.TrimSpace(s)

	return nil
}
