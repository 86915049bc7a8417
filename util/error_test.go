package util

import (
	"fmt"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type testError struct {
	suite.Suite
}

func (t *testError) TestIs() {
	e0 := NewError("showme")
	t.Implements((*(interface{ Error() string }))(nil), e0)

	t.Equal("showme", e0.Error())

	t.True(errors.Is(e0, e0))
	t.False(errors.Is(e0, NewError("showme")))
	t.True(errors.Is(e0.Errorf("findme"), e0))
}

func (t *testError) TestWrap() {
	e0 := NewError("showme")

	pe := &os.PathError{Err: errors.Errorf("path error")}
	e1 := e0.Wrap(pe)

	t.True(errors.Is(e1, e0))
	t.True(errors.Is(e1, pe))

	var npe *os.PathError
	t.True(errors.As(e1, &npe))
	t.Contains(e1.Error(), "showme; ")
}

func (t *testError) TestErrorf() {
	e0 := NewError("showme")
	e1 := e0.Errorf("height=%d", 33)

	t.True(errors.Is(e1, e0))
	t.Equal("showme; height=33", e1.Error())
	t.NotNil(e1.StackTrace())
	t.Nil(e0.StackTrace())
}

func (t *testError) TestFormat() {
	e0 := NewError("showme")
	e1 := e0.Wrap(errors.New("findme"))

	t.Equal("showme; findme", fmt.Sprintf("%v", e1))
	t.Equal(`"showme; findme"`, fmt.Sprintf("%q", e1))
	t.Contains(fmt.Sprintf("%+v", e1), "error_test.go")
}

func (t *testError) TestSentinels() {
	t.False(errors.Is(RetryLaterError, NotFoundError))
	t.True(errors.Is(RetryLaterError.Errorf("unknown block"), RetryLaterError))
}

func TestError(t *testing.T) {
	suite.Run(t, new(testError))
}
