package pm

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/MNPJason/MNPCoin-PolisCore/util"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

var HookAlreadyAddedError = util.NewError("hook already added")

// ProcessFunc prepares one part of node. The returned context carries what
// it prepared to the next ProcessFunc.
type ProcessFunc func(context.Context) (context.Context, error)

func EmptyHookFunc(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

// Hooks runs the named ProcessFuncs in order.
type Hooks struct {
	*logging.Logging
	seq   []string
	hooks map[string] /* hook */ ProcessFunc
}

func NewHooks(name string) *Hooks {
	return &Hooks{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", fmt.Sprintf("hooks-%s", name))
		}),
		hooks: map[string]ProcessFunc{},
	}
}

// Add appends the hook. With override, the hook of same name is replaced
// and keeps its position.
func (hs *Hooks) Add(name string, f ProcessFunc, override bool) error {
	if _, found := hs.hooks[name]; found {
		if !override {
			return HookAlreadyAddedError.Errorf("%q", name)
		}

		hs.hooks[name] = f

		return nil
	}

	hs.hooks[name] = f
	hs.seq = append(hs.seq, name)

	return nil
}

func (hs *Hooks) AddBefore(name, target string, f ProcessFunc, override bool) error {
	if _, found := hs.hooks[target]; !found {
		return util.NotFoundError.Errorf("target hook, %q", target)
	}

	if err := hs.Add(name, f, override); err != nil {
		return err
	}

	b := make([]string, 0, len(hs.seq))
	for _, k := range hs.seq {
		switch k {
		case name:
			continue
		case target:
			b = append(b, name)
		}

		b = append(b, k)
	}

	hs.seq = b

	return nil
}

func (hs *Hooks) AddAfter(name, target string, f ProcessFunc, override bool) error {
	if _, found := hs.hooks[target]; !found {
		return util.NotFoundError.Errorf("target hook, %q", target)
	}

	if err := hs.Add(name, f, override); err != nil {
		return err
	}

	b := make([]string, 0, len(hs.seq))
	for _, k := range hs.seq {
		if k == name {
			continue
		}

		b = append(b, k)

		if k == target {
			b = append(b, name)
		}
	}

	hs.seq = b

	return nil
}

func (hs *Hooks) Names() []string {
	n := make([]string, len(hs.seq))
	copy(n, hs.seq)

	return n
}

func (hs *Hooks) Run(ctx context.Context) (context.Context, error) {
	if len(hs.seq) < 1 {
		return ctx, nil
	}

	hs.Log().Debug().Msg("running hooks")

	for i := range hs.seq {
		name := hs.seq[i]

		c, err := hs.hooks[name](ctx)
		if err != nil {
			hs.Log().Error().Err(err).Str("hook", name).Msg("failed to run hook")

			return ctx, errors.WithMessagef(err, "hook, %q", name)
		}

		hs.Log().Debug().Str("hook", name).Msg("hook done")

		ctx = c
	}

	hs.Log().Debug().Msg("hooks done")

	return ctx, nil
}
