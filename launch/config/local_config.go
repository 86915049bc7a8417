package config

import (
	"net/url"
	"time"

	"github.com/pkg/errors"
)

var (
	DefaultSyncInterval  = time.Minute * 2
	DefaultTimeServer    = "time.google.com"
	DefaultCheckInterval = time.Second * 5
	DefaultCache         = "gcache:?type=lru&size=10000&expire=1h"
)

// LocalConfig is the runtime settings of node. VoteRetention of zero keeps
// the governance votes until their object is removed.
type LocalConfig interface {
	SyncInterval() time.Duration
	SetSyncInterval(string) error
	TimeServer() string
	SetTimeServer(string) error
	CheckInterval() time.Duration
	SetCheckInterval(string) error
	Cache() *url.URL
	SetCache(string) error
	VoteRetention() time.Duration
	SetVoteRetention(string) error
}

type DefaultLocalConfig struct {
	syncInterval  time.Duration
	timeServer    string
	checkInterval time.Duration
	cache         *url.URL
	voteRetention time.Duration
}

func EmptyDefaultLocalConfig() *DefaultLocalConfig {
	return &DefaultLocalConfig{
		syncInterval:  DefaultSyncInterval,
		timeServer:    DefaultTimeServer,
		checkInterval: DefaultCheckInterval,
	}
}

func (no *DefaultLocalConfig) SyncInterval() time.Duration {
	return no.syncInterval
}

func (no *DefaultLocalConfig) SetSyncInterval(s string) error {
	if t, err := parseTimeDuration(s, true); err != nil {
		return err
	} else {
		no.syncInterval = t

		return nil
	}
}

func (no *DefaultLocalConfig) TimeServer() string {
	return no.timeServer
}

// SetTimeServer sets the ntp server. The empty string disables the time
// syncer and the local clock is used.
func (no *DefaultLocalConfig) SetTimeServer(s string) error {
	no.timeServer = s

	return nil
}

func (no *DefaultLocalConfig) CheckInterval() time.Duration {
	return no.checkInterval
}

func (no *DefaultLocalConfig) SetCheckInterval(s string) error {
	t, err := parseTimeDuration(s, false)
	if err != nil {
		return err
	}

	if t <= 0 {
		return errors.Errorf("check interval should be over zero, %q", s)
	}

	no.checkInterval = t

	return nil
}

func (no *DefaultLocalConfig) Cache() *url.URL {
	return no.cache
}

func (no *DefaultLocalConfig) SetCache(s string) error {
	if u, err := ParseURLString(s, true); err != nil {
		return err
	} else {
		no.cache = u

		return nil
	}
}

func (no *DefaultLocalConfig) VoteRetention() time.Duration {
	return no.voteRetention
}

func (no *DefaultLocalConfig) SetVoteRetention(s string) error {
	t, err := parseTimeDuration(s, true)
	if err != nil {
		return err
	}

	if t < 0 {
		return errors.Errorf("negative vote retention, %q", s)
	}

	no.voteRetention = t

	return nil
}
