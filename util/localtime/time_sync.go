package localtime

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/MNPJason/MNPCoin-PolisCore/util"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

var (
	allowedTimeSyncOffset    = time.Millisecond * 500
	minTimeSyncCheckInterval = time.Second * 5
	timeSyncerLock           sync.RWMutex
	timeSyncer               *TimeSyncer
)

type queryFunc func(string) (*ntp.Response, error)

// TimeSyncer keeps the offset between the local clock and the time server.
// Its offset is the network adjustment applied by Now.
type TimeSyncer struct {
	sync.RWMutex
	*logging.Logging
	server   string
	offset   time.Duration
	interval time.Duration
	query    queryFunc
}

func NewTimeSyncer(server string, checkInterval time.Duration) (*TimeSyncer, error) {
	return newTimeSyncer(server, checkInterval, ntp.Query)
}

func newTimeSyncer(server string, checkInterval time.Duration, query queryFunc) (*TimeSyncer, error) {
	if err := util.Retry(3, time.Millisecond*300, func(int) error {
		_, err := query(server)

		return err
	}); err != nil {
		return nil, errors.Wrapf(err, "failed to query ntp server, %q", server)
	}

	ts := &TimeSyncer{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "time-syncer").
				Str("server", server).
				Dur("interval", checkInterval)
		}),
		server:   server,
		interval: checkInterval,
		query:    query,
	}

	ts.check()

	return ts, nil
}

// Run checks the time server every interval until ctx is done. It is the
// function of the daemon which keeps TimeSyncer up to date.
func (ts *TimeSyncer) Run(ctx context.Context) error {
	if ts.interval < minTimeSyncCheckInterval {
		ts.Log().Warn().
			Dur("check_interval", ts.interval).
			Dur("min_check_interval", minTimeSyncCheckInterval).
			Msg("interval too short")
	}

	ticker := time.NewTicker(ts.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ts.Log().Debug().Msg("stopped")

			return nil
		case <-ticker.C:
			ts.check()
		}
	}
}

func (ts *TimeSyncer) Offset() time.Duration {
	ts.RLock()
	defer ts.RUnlock()

	return ts.offset
}

func (ts *TimeSyncer) check() {
	ts.Lock()
	defer ts.Unlock()

	response, err := ts.query(ts.server)
	if err != nil {
		ts.Log().Error().Err(err).Msg("failed to query")

		return
	}

	if err := response.Validate(); err != nil {
		ts.Log().Error().Err(err).Interface("response", response).Msg("invalid response")

		return
	}

	defer func() {
		ts.Log().Debug().Dur("offset", ts.offset).Msg("time checked")
	}()

	if ts.offset == 0 {
		ts.offset = response.ClockOffset

		return
	}

	diff := ts.offset - response.ClockOffset
	if diff < 0 {
		diff *= -1
	}

	if diff < allowedTimeSyncOffset {
		return
	}

	ts.offset = response.ClockOffset
}

func SetTimeSyncer(syncer *TimeSyncer) {
	timeSyncerLock.Lock()
	defer timeSyncerLock.Unlock()

	timeSyncer = syncer
}

// Now returns the local time adjusted by the TimeSyncer offset.
func Now() time.Time {
	timeSyncerLock.RLock()
	ts := timeSyncer
	timeSyncerLock.RUnlock()

	if ts == nil {
		return time.Now()
	}

	return time.Now().Add(ts.Offset())
}

func UTCNow() time.Time {
	return Now().UTC()
}

// AdjustedTime returns the network adjusted time in seconds since epoch.
func AdjustedTime() int64 {
	return Now().Unix()
}
