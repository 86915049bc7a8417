package launch

import (
	"context"

	"github.com/pkg/errors"

	"github.com/MNPJason/MNPCoin-PolisCore/governance"
	"github.com/MNPJason/MNPCoin-PolisCore/launch/config"
	"github.com/MNPJason/MNPCoin-PolisCore/launch/pm"
	"github.com/MNPJason/MNPCoin-PolisCore/masternode"
	"github.com/MNPJason/MNPCoin-PolisCore/storage"
	leveldbstorage "github.com/MNPJason/MNPCoin-PolisCore/storage/leveldb"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
	"github.com/MNPJason/MNPCoin-PolisCore/util/cache"
	"github.com/MNPJason/MNPCoin-PolisCore/util/localtime"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

const (
	HookNameTimeSyncer     = "time-syncer"
	HookNameDatabase       = "database"
	HookNameMasternodeList = "masternode-list"
	HookNameLoad           = "load"
)

// MemoryStoragePath opens the memory database instead of the files.
const MemoryStoragePath = "memory:"

var (
	ContextValueTimeSyncer util.ContextKey = "time_syncer"
	ContextValueDatabase   util.ContextKey = "database"
	ContextValueEnv        util.ContextKey = "masternode_env"
	ContextValueList       util.ContextKey = "masternode_list"
	ContextValueVotes      util.ContextKey = "governance_votes"
)

func DefaultHooks() *pm.Hooks {
	hs := pm.NewHooks("node")

	for _, h := range []struct {
		name string
		f    pm.ProcessFunc
	}{
		{name: HookNameTimeSyncer, f: HookTimeSyncer},
		{name: HookNameDatabase, f: HookDatabase},
		{name: HookNameMasternodeList, f: HookMasternodeList},
		{name: HookNameLoad, f: HookLoad},
	} {
		if err := hs.Add(h.name, h.f, false); err != nil {
			panic(err)
		}
	}

	return hs
}

// HookTimeSyncer starts to sync the local clock with the time server. The
// syncer is not started without time server.
func HookTimeSyncer(ctx context.Context) (context.Context, error) {
	var conf config.LocalNode
	if err := config.LoadConfigContextValue(ctx, &conf); err != nil {
		return ctx, err
	}

	log := loadLog(ctx)

	lc := conf.LocalConfig()
	if len(lc.TimeServer()) < 1 {
		log.Log().Debug().Msg("no time server; local time will be used")

		return ctx, nil
	}

	ts, err := localtime.NewTimeSyncer(lc.TimeServer(), lc.SyncInterval())
	if err != nil {
		return ctx, err
	}

	_ = ts.SetLogging(log)

	localtime.SetTimeSyncer(ts)

	return context.WithValue(ctx, ContextValueTimeSyncer, ts), nil
}

func HookDatabase(ctx context.Context) (context.Context, error) {
	var conf config.LocalNode
	if err := config.LoadConfigContextValue(ctx, &conf); err != nil {
		return ctx, err
	}

	var st *leveldbstorage.Database

	switch p := conf.Storage().Path(); {
	case p == MemoryStoragePath:
		st = leveldbstorage.NewMemDatabase()
	case len(p) < 1:
		return ctx, errors.Errorf("empty storage path")
	default:
		i, err := leveldbstorage.NewDatabaseFromPath(p)
		if err != nil {
			return ctx, err
		}

		st = i
	}

	_ = st.SetLogging(loadLog(ctx))

	if err := st.Initialize(); err != nil {
		_ = st.Close()

		return ctx, err
	}

	return context.WithValue(ctx, ContextValueDatabase, storage.Database(st)), nil
}

// HookMasternodeList makes the masternode list and the governance votes. The
// masternode.Env already in ctx is used, so the chain and the collateral
// views can be given; otherwise they are empty.
func HookMasternodeList(ctx context.Context) (context.Context, error) {
	var conf config.LocalNode
	if err := config.LoadConfigContextValue(ctx, &conf); err != nil {
		return ctx, err
	}

	c, err := cache.NewCacheFromURI(conf.LocalConfig().Cache().String())
	if err != nil {
		return ctx, err
	}

	log := loadLog(ctx)

	votes := governance.NewVotes()
	_ = votes.SetLogging(log)

	env := &masternode.Env{
		Governance: votes,
		Policy:     config.MasternodePolicy(conf),
	}

	if i := ctx.Value(ContextValueEnv); i != nil {
		if e, ok := i.(*masternode.Env); ok {
			env = e
			env.Governance = votes
			env.Policy = config.MasternodePolicy(conf)
		}
	}

	l, err := masternode.NewList(env, c)
	if err != nil {
		return ctx, err
	}

	_ = l.SetLogging(log)

	ctx = context.WithValue(ctx, ContextValueEnv, env)
	ctx = context.WithValue(ctx, ContextValueVotes, votes)

	return context.WithValue(ctx, ContextValueList, l), nil
}

// HookLoad loads the stored masternodes and governance votes.
func HookLoad(ctx context.Context) (context.Context, error) {
	var st storage.Database
	if err := util.LoadFromContextValue(ctx, ContextValueDatabase, &st); err != nil {
		return ctx, err
	}

	var env *masternode.Env
	if err := util.LoadFromContextValue(ctx, ContextValueEnv, &env); err != nil {
		return ctx, err
	}

	var l *masternode.List
	if err := util.LoadFromContextValue(ctx, ContextValueList, &l); err != nil {
		return ctx, err
	}

	var votes *governance.Votes
	if err := util.LoadFromContextValue(ctx, ContextValueVotes, &votes); err != nil {
		return ctx, err
	}

	mns, err := storage.LoadList(st, l, env)
	if err != nil {
		return ctx, err
	}

	objects, err := storage.LoadVotes(st, votes)
	if err != nil {
		return ctx, err
	}

	loadLog(ctx).Log().Info().Int("masternodes", mns).Int("governance_objects", objects).Msg("loaded")

	return ctx, nil
}

func loadLog(ctx context.Context) *logging.Logging {
	var l *logging.Logging
	if err := config.LoadLogContextValue(ctx, &l); err != nil || l == nil {
		return logging.NewLogging(nil)
	}

	return l
}
