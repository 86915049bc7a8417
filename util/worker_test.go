package util

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type testWorker struct {
	suite.Suite
}

func (t *testWorker) TestRun() {
	var l sync.Mutex
	var called []int

	err := RunErrgroupWorker(context.Background(), 3, 10, func(_ context.Context, i int) error {
		l.Lock()
		defer l.Unlock()

		called = append(called, i)

		return nil
	})
	t.NoError(err)

	sort.Ints(called)
	t.Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, called)
}

func (t *testWorker) TestError() {
	err := RunErrgroupWorker(context.Background(), 1, 10, func(_ context.Context, i int) error {
		if i == 3 {
			return errors.Errorf("findme")
		}

		return nil
	})
	t.Error(err)
	t.Contains(err.Error(), "findme")
}

func (t *testWorker) TestCanceled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunErrgroupWorker(ctx, 1, 10, func(context.Context, int) error {
		return nil
	})
	t.True(errors.Is(err, context.Canceled))
}

func TestWorker(t *testing.T) {
	defer goleak.VerifyNone(t)

	suite.Run(t, new(testWorker))
}

type testChecker struct {
	suite.Suite
}

func (t *testChecker) TestStop() {
	var called []string

	ck := NewChecker("test-checker", []CheckerFunc{
		func() (bool, error) {
			called = append(called, "a")

			return true, nil
		},
		func() (bool, error) {
			called = append(called, "b")

			return false, nil
		},
		func() (bool, error) {
			called = append(called, "c")

			return true, nil
		},
	})

	t.NoError(ck.Check())
	t.Equal([]string{"a", "b"}, called)
}

func (t *testChecker) TestError() {
	ck := NewChecker("test-checker", []CheckerFunc{
		func() (bool, error) {
			return true, IgnoreError.Errorf("showme")
		},
	})

	t.True(errors.Is(ck.Check(), IgnoreError))
}

func (t *testChecker) TestRetry() {
	var tried int
	err := Retry(3, 0, func(i int) error {
		tried = i + 1

		return errors.Errorf("again")
	})
	t.Error(err)
	t.Equal(3, tried)

	err = Retry(0, 0, func(i int) error {
		if i == 1 {
			return StopRetryingError.Errorf("stop")
		}

		return errors.Errorf("again")
	})
	t.True(errors.Is(err, StopRetryingError))
}

func TestChecker(t *testing.T) {
	suite.Run(t, new(testChecker))
}
