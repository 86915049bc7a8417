package localtime

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type testTime struct {
	suite.Suite
}

func (t *testTime) TestNormalize() {
	tn := time.Now()

	n := Normalize(tn)

	t.Equal(time.UTC, n.Location())
	t.Equal((tn.Nanosecond()/1000000)*1000000, n.Nanosecond())
}

func (t *testTime) TestUnix() {
	n := Unix(1600000000)
	t.Equal(int64(1600000000), n.Unix())
	t.Equal(time.UTC, n.Location())
}

func fixedQuery(offset time.Duration) queryFunc {
	return func(string) (*ntp.Response, error) {
		now := time.Now()

		return &ntp.Response{
			Stratum:       2,
			Time:          now,
			ReferenceTime: now,
			ClockOffset:   offset,
		}, nil
	}
}

func (t *testTime) TestSyncerOffset() {
	ts, err := newTimeSyncer("localhost", time.Second, fixedQuery(time.Hour))
	t.NoError(err)
	t.Equal(time.Hour, ts.Offset())

	SetTimeSyncer(ts)
	defer SetTimeSyncer(nil)

	diff := Now().Sub(time.Now())
	t.True(diff > time.Minute*59)
	t.True(AdjustedTime()-time.Now().Unix() >= 3599)
}

func (t *testTime) TestSyncerIgnoresSmallDrift() {
	ts, err := newTimeSyncer("localhost", time.Second, fixedQuery(time.Second))
	t.NoError(err)

	ts.query = fixedQuery(time.Second + time.Millisecond*100)
	ts.check()
	t.Equal(time.Second, ts.Offset())

	ts.query = fixedQuery(time.Second * 3)
	ts.check()
	t.Equal(time.Second*3, ts.Offset())
}

func (t *testTime) TestSyncerFailedQuery() {
	_, err := newTimeSyncer("localhost", time.Second, func(string) (*ntp.Response, error) {
		return nil, errors.Errorf("showme")
	})
	t.Error(err)
	t.Contains(err.Error(), "failed to query ntp server")
}

func (t *testTime) TestRun() {
	ts, err := newTimeSyncer("localhost", time.Millisecond*10, fixedQuery(time.Second))
	t.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- ts.Run(ctx)
	}()

	<-time.After(time.Millisecond * 30)
	cancel()

	t.NoError(<-done)
}

func TestTime(t *testing.T) {
	defer goleak.VerifyNone(t)

	suite.Run(t, new(testTime))
}
