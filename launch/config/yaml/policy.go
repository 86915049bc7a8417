package yamlconfig

import (
	"context"

	"github.com/MNPJason/MNPCoin-PolisCore/launch/config"
)

type Policy struct {
	MinProtocolVersion   *int32  `yaml:"min-protocol-version,omitempty"`
	CollateralAmount     *int64  `yaml:"collateral-amount,omitempty"`
	MinConfirmations     *int32  `yaml:"min-confirmations,omitempty"`
	SentinelPingRequired *bool   `yaml:"sentinel-ping-required,omitempty"`
	DefaultPort          *uint16 `yaml:"default-port,omitempty"`
	SentinelVersion      *string `yaml:"sentinel-version,omitempty"`
	DaemonVersion        *string `yaml:"daemon-version,omitempty"`
}

func (no Policy) Set(ctx context.Context) (context.Context, error) {
	var l config.LocalNode
	var conf config.Policy
	if err := config.LoadConfigContextValue(ctx, &l); err != nil {
		return ctx, err
	} else {
		conf = l.Policy()
	}

	if no.MinProtocolVersion != nil {
		if err := conf.SetMinProtocolVersion(*no.MinProtocolVersion); err != nil {
			return ctx, err
		}
	}

	if no.CollateralAmount != nil {
		if err := conf.SetCollateralAmount(*no.CollateralAmount); err != nil {
			return ctx, err
		}
	}

	if no.MinConfirmations != nil {
		if err := conf.SetMinConfirmations(*no.MinConfirmations); err != nil {
			return ctx, err
		}
	}

	if no.SentinelPingRequired != nil {
		if err := conf.SetSentinelPingRequired(*no.SentinelPingRequired); err != nil {
			return ctx, err
		}
	}

	if no.DefaultPort != nil {
		if err := conf.SetDefaultPort(*no.DefaultPort); err != nil {
			return ctx, err
		}
	}

	if no.SentinelVersion != nil {
		if err := conf.SetSentinelVersion(*no.SentinelVersion); err != nil {
			return ctx, err
		}
	}

	if no.DaemonVersion != nil {
		if err := conf.SetDaemonVersion(*no.DaemonVersion); err != nil {
			return ctx, err
		}
	}

	return ctx, nil
}
