package yamlconfig

import (
	"context"
	"strings"

	"github.com/MNPJason/MNPCoin-PolisCore/launch/config"
)

type LocalConfig struct {
	SyncInterval  *string `yaml:"time-sync-interval,omitempty"`
	TimeServer    *string `yaml:"time-server,omitempty"`
	CheckInterval *string `yaml:"check-interval,omitempty"`
	Cache         *string `yaml:",omitempty"`
	VoteRetention *string `yaml:"vote-retention,omitempty"`
}

func (no LocalConfig) Set(ctx context.Context) (context.Context, error) {
	var l config.LocalNode
	var conf config.LocalConfig
	if err := config.LoadConfigContextValue(ctx, &l); err != nil {
		return ctx, err
	} else {
		conf = l.LocalConfig()
	}

	if no.TimeServer != nil {
		if err := conf.SetTimeServer(strings.TrimSpace(*no.TimeServer)); err != nil {
			return ctx, err
		}
	}

	if no.SyncInterval != nil {
		if err := conf.SetSyncInterval(*no.SyncInterval); err != nil {
			return ctx, err
		}
	}

	if no.CheckInterval != nil {
		if err := conf.SetCheckInterval(*no.CheckInterval); err != nil {
			return ctx, err
		}
	}

	if no.Cache != nil {
		if err := conf.SetCache(*no.Cache); err != nil {
			return ctx, err
		}
	}

	if no.VoteRetention != nil {
		if err := conf.SetVoteRetention(*no.VoteRetention); err != nil {
			return ctx, err
		}
	}

	return ctx, nil
}
