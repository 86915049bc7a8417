package util

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type testContext struct {
	suite.Suite
}

func (t *testContext) TestLoad() {
	var key ContextKey = "showme"

	ctx := context.WithValue(context.Background(), key, "findme")

	var s string
	t.NoError(LoadFromContextValue(ctx, key, &s))
	t.Equal("findme", s)

	var i int
	err := LoadFromContextValue(ctx, key, &i)
	t.Error(err)
	t.Contains(err.Error(), "expected")

	err = LoadFromContextValue(context.Background(), key, &s)
	t.True(errors.Is(err, ContextValueNotFoundError))
}

func (t *testContext) TestInterface() {
	var e error = NotFoundError

	var target error
	t.NoError(InterfaceSetValue(e, &target))
	t.True(errors.Is(target, NotFoundError))

	t.Error(InterfaceSetValue(e, target))
}

func TestContext(t *testing.T) {
	suite.Run(t, new(testContext))
}
