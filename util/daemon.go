package util

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

var (
	DaemonAlreadyStartedError = NewError("daemon already started")
	DaemonAlreadyStoppedError = NewError("daemon already stopped")
)

type Daemon interface {
	Start() error
	Stop() error
}

// ContextDaemon runs a function in a goroutine until its context is
// canceled by Stop.
type ContextDaemon struct {
	sync.RWMutex
	*logging.Logging
	fn      func(context.Context) error
	cancel  func()
	stopped chan struct{}
	started bool
}

func NewContextDaemon(name string, fn func(context.Context) error) *ContextDaemon {
	return &ContextDaemon{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "context-daemon").Str("daemon", name)
		}),
		fn: fn,
	}
}

func (dm *ContextDaemon) IsStarted() bool {
	dm.RLock()
	defer dm.RUnlock()

	return dm.started
}

func (dm *ContextDaemon) Start() error {
	dm.Lock()
	defer dm.Unlock()

	if dm.started {
		return DaemonAlreadyStartedError
	}

	ctx, cancel := context.WithCancel(context.Background())
	dm.cancel = cancel
	dm.stopped = make(chan struct{})
	dm.started = true

	go func(stopped chan struct{}) {
		defer close(stopped)

		if err := dm.fn(ctx); err != nil && ctx.Err() == nil {
			dm.Log().Error().Err(err).Msg("daemon function failed")
		}
	}(dm.stopped)

	return nil
}

func (dm *ContextDaemon) Stop() error {
	dm.Lock()
	defer dm.Unlock()

	if !dm.started {
		return DaemonAlreadyStoppedError
	}

	dm.cancel()
	<-dm.stopped

	dm.cancel = nil
	dm.stopped = nil
	dm.started = false

	return nil
}
