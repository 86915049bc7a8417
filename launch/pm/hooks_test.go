package pm

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"

	"github.com/MNPJason/MNPCoin-PolisCore/util"
)

type testHooks struct {
	suite.Suite
}

type hookKey string

func appendHook(name string) ProcessFunc {
	return func(ctx context.Context) (context.Context, error) {
		var called []string
		if i := ctx.Value(hookKey("called")); i != nil {
			called = i.([]string)
		}

		return context.WithValue(ctx, hookKey("called"), append(called, name)), nil
	}
}

func (t *testHooks) TestRun() {
	hs := NewHooks("showme")
	t.NoError(hs.Add("a", appendHook("a"), false))
	t.NoError(hs.Add("b", appendHook("b"), false))
	t.NoError(hs.AddBefore("c", "a", appendHook("c"), false))
	t.NoError(hs.AddAfter("d", "a", appendHook("d"), false))

	t.Equal([]string{"c", "a", "d", "b"}, hs.Names())

	ctx, err := hs.Run(context.Background())
	t.NoError(err)
	t.Equal([]string{"c", "a", "d", "b"}, ctx.Value(hookKey("called")))
}

func (t *testHooks) TestOverride() {
	hs := NewHooks("showme")
	t.NoError(hs.Add("a", appendHook("a"), false))
	t.NoError(hs.Add("b", appendHook("b"), false))

	err := hs.Add("a", appendHook("a"), false)
	t.True(errors.Is(err, HookAlreadyAddedError))

	t.NoError(hs.Add("a", EmptyHookFunc, true))
	t.Equal([]string{"a", "b"}, hs.Names())

	ctx, err := hs.Run(context.Background())
	t.NoError(err)
	t.Equal([]string{"b"}, ctx.Value(hookKey("called")))

	err = hs.AddAfter("c", "unknown", EmptyHookFunc, false)
	t.True(errors.Is(err, util.NotFoundError))
}

func (t *testHooks) TestFailed() {
	hs := NewHooks("showme")
	t.NoError(hs.Add("a", appendHook("a"), false))
	t.NoError(hs.Add("b", func(ctx context.Context) (context.Context, error) {
		return ctx, util.IgnoreError.Errorf("findme")
	}, false))
	t.NoError(hs.Add("c", appendHook("c"), false))

	_, err := hs.Run(context.Background())
	t.True(errors.Is(err, util.IgnoreError))
	t.Contains(err.Error(), `hook, "b"`)
}

func TestHooks(t *testing.T) {
	suite.Run(t, new(testHooks))
}
