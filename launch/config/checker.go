package config

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/MNPJason/MNPCoin-PolisCore/masternode"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
	"github.com/MNPJason/MNPCoin-PolisCore/util/cache"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

type checker struct {
	*logging.Logging
	ctx    context.Context
	config LocalNode
}

func NewChecker(ctx context.Context) (*checker, error) {
	var conf LocalNode
	if err := LoadConfigContextValue(ctx, &conf); err != nil {
		return nil, err
	}

	cc := &checker{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "config-checker")
		}),
		ctx:    ctx,
		config: conf,
	}

	var l *logging.Logging
	if err := LoadLogContextValue(ctx, &l); err == nil {
		_ = cc.SetLogging(l)
	}

	return cc, nil
}

func (cc *checker) Context() context.Context {
	return cc.ctx
}

// Check runs all the checks in order.
func (cc *checker) Check() error {
	if err := util.NewChecker("config-checker", []util.CheckerFunc{
		cc.CheckNetwork,
		cc.CheckStorage,
		cc.CheckLocalConfig,
		cc.CheckPolicy,
	}).Check(); err != nil {
		if errors.Is(err, util.IgnoreError) {
			return nil
		}

		return err
	}

	return nil
}

func (cc *checker) CheckNetwork() (bool, error) {
	if len(cc.config.Network()) < 1 {
		if err := cc.config.SetNetwork(DefaultNetwork); err != nil {
			return false, err
		}
	}

	return true, nil
}

func (cc *checker) CheckStorage() (bool, error) {
	conf := cc.config.Storage()

	if len(conf.Path()) < 1 {
		if err := conf.SetPath(DefaultStoragePath); err != nil {
			return false, err
		}
	}

	return true, nil
}

func (cc *checker) CheckLocalConfig() (bool, error) {
	conf := cc.config.LocalConfig()

	if conf.Cache() == nil {
		if err := conf.SetCache(DefaultCache); err != nil {
			return false, err
		}
	}

	if _, err := cache.NewCacheFromURI(conf.Cache().String()); err != nil {
		return false, err
	}

	if len(conf.TimeServer()) > 0 && conf.SyncInterval() <= 0 {
		if err := conf.SetSyncInterval(DefaultSyncInterval.String()); err != nil {
			return false, err
		}
	}

	return true, nil
}

func (cc *checker) CheckPolicy() (bool, error) {
	conf := cc.config.Policy()
	def := masternode.DefaultPolicy()

	if conf.MinProtocolVersion() < 1 {
		if err := conf.SetMinProtocolVersion(def.MinProtocolVersion); err != nil {
			return false, err
		}
	}

	if conf.CollateralAmount() < 1 {
		if err := conf.SetCollateralAmount(def.CollateralAmount); err != nil {
			return false, err
		}
	}

	if conf.MinConfirmations() < 1 {
		if err := conf.SetMinConfirmations(def.MinConfirmations); err != nil {
			return false, err
		}
	}

	if conf.DefaultPort() < 1 {
		if err := conf.SetDefaultPort(def.MainnetDefaultPort); err != nil {
			return false, err
		}
	}

	if bp, ok := conf.(*BasePolicy); ok && bp.sentinelPingRequired == nil {
		if err := conf.SetSentinelPingRequired(def.SentinelPingRequired); err != nil {
			return false, err
		}
	}

	cc.Log().Debug().
		Str("network", cc.config.Network()).
		Int32("min_protocol_version", conf.MinProtocolVersion()).
		Int64("collateral_amount", conf.CollateralAmount()).
		Int32("min_confirmations", conf.MinConfirmations()).
		Msg("policy checked")

	return true, nil
}
