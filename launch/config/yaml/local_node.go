package yamlconfig

import (
	"context"
	"strings"

	"github.com/MNPJason/MNPCoin-PolisCore/launch/config"
)

type LocalNode struct {
	Network       *string                `yaml:",omitempty"`
	Deterministic *bool                  `yaml:",omitempty"`
	Storage       *Storage               `yaml:",omitempty"`
	Policy        *Policy                `yaml:",omitempty"`
	LocalConfig   *LocalConfig           `yaml:",inline"`
	Extras        map[string]interface{} `yaml:",inline"`
}

func (no LocalNode) Set(ctx context.Context) (context.Context, error) {
	var conf config.LocalNode
	if err := config.LoadConfigContextValue(ctx, &conf); err != nil {
		return ctx, err
	}

	if no.Network != nil {
		if err := conf.SetNetwork(strings.TrimSpace(*no.Network)); err != nil {
			return ctx, err
		}
	}

	if no.Deterministic != nil {
		if err := conf.SetDeterministic(*no.Deterministic); err != nil {
			return ctx, err
		}
	}

	if no.Storage != nil {
		if i, err := no.Storage.Set(ctx); err != nil {
			return ctx, err
		} else {
			ctx = i
		}
	}

	if no.Policy != nil {
		if i, err := no.Policy.Set(ctx); err != nil {
			return ctx, err
		} else {
			ctx = i
		}
	}

	if no.LocalConfig != nil {
		if i, err := no.LocalConfig.Set(ctx); err != nil {
			return ctx, err
		} else {
			ctx = i
		}
	}

	return ctx, nil
}
