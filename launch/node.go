package launch

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/MNPJason/MNPCoin-PolisCore/governance"
	"github.com/MNPJason/MNPCoin-PolisCore/launch/config"
	"github.com/MNPJason/MNPCoin-PolisCore/launch/pm"
	"github.com/MNPJason/MNPCoin-PolisCore/masternode"
	"github.com/MNPJason/MNPCoin-PolisCore/storage"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
	"github.com/MNPJason/MNPCoin-PolisCore/util/localtime"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

// Node keeps the masternode list and the governance votes up to date and
// stores them when stopped.
type Node struct {
	*logging.Logging
	conf    config.LocalNode
	env     *masternode.Env
	db      storage.Database
	list    *masternode.List
	votes   *governance.Votes
	syncer  *localtime.TimeSyncer
	daemons []*util.ContextDaemon
}

// NewNode runs the hooks and builds Node from what they prepared. ctx should
// have the config.
func NewNode(ctx context.Context, hooks *pm.Hooks) (*Node, error) {
	_ = hooks.SetLogging(loadLog(ctx))

	ctx, err := hooks.Run(ctx)
	if err != nil {
		return nil, err
	}

	n := &Node{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "node")
		}),
	}

	_ = n.SetLogging(loadLog(ctx))

	if err := config.LoadConfigContextValue(ctx, &n.conf); err != nil {
		return nil, err
	}

	for _, i := range []struct {
		key    util.ContextKey
		target interface{}
	}{
		{key: ContextValueDatabase, target: &n.db},
		{key: ContextValueEnv, target: &n.env},
		{key: ContextValueList, target: &n.list},
		{key: ContextValueVotes, target: &n.votes},
	} {
		if err := util.LoadFromContextValue(ctx, i.key, i.target); err != nil {
			return nil, err
		}
	}

	if err := util.LoadFromContextValue(ctx, ContextValueTimeSyncer, &n.syncer); err != nil {
		if !errors.Is(err, util.ContextValueNotFoundError) {
			return nil, err
		}
	}

	if n.syncer != nil {
		n.daemons = append(n.daemons, util.NewContextDaemon(HookNameTimeSyncer, n.syncer.Run))
	}

	n.daemons = append(n.daemons, util.NewContextDaemon("checker", n.runChecker))

	for i := range n.daemons {
		_ = n.daemons[i].SetLogging(n.Logging)
	}

	return n, nil
}

func (n *Node) Env() *masternode.Env {
	return n.env
}

func (n *Node) List() *masternode.List {
	return n.list
}

func (n *Node) Votes() *governance.Votes {
	return n.votes
}

func (n *Node) Database() storage.Database {
	return n.db
}

func (n *Node) Start() error {
	for i := range n.daemons {
		if err := n.daemons[i].Start(); err != nil {
			return err
		}
	}

	n.Log().Info().Int("masternodes", n.list.Len()).Msg("node started")

	return nil
}

// Stop stops the daemons, stores the masternode list and the votes, and
// closes the database.
func (n *Node) Stop() error {
	for i := range n.daemons {
		if err := n.daemons[i].Stop(); err != nil {
			if !errors.Is(err, util.DaemonAlreadyStoppedError) {
				return err
			}
		}
	}

	if err := n.Save(); err != nil {
		return err
	}

	if err := n.db.Close(); err != nil {
		return err
	}

	n.Log().Info().Msg("node stopped")

	return nil
}

func (n *Node) Save() error {
	if err := storage.SaveList(n.db, n.list); err != nil {
		return errors.WithMessage(err, "failed to save masternode list")
	}

	if err := storage.SaveVotes(n.db, n.votes); err != nil {
		return errors.WithMessage(err, "failed to save governance votes")
	}

	return nil
}

// Check checks the masternodes, removes the spent ones and the expired
// governance votes.
func (n *Node) Check(ctx context.Context) error {
	removed, err := n.list.CheckAndRemove(ctx)
	if err != nil {
		return err
	}

	for i := range removed {
		if err := n.db.RemoveMasternode(removed[i]); err != nil {
			if !errors.Is(err, util.NotFoundError) {
				return err
			}
		}
	}

	var expired int
	if d := n.conf.LocalConfig().VoteRetention(); d > 0 {
		minTime := localtime.UTCNow().Add(d * -1).Unix()
		if n.env.Now != nil {
			minTime = n.env.Now() - int64(d/time.Second)
		}

		for _, hs := range n.votes.RemoveOldVotes(minTime) {
			expired += len(hs)
		}
	}

	n.Log().Debug().
		Int("masternodes", n.list.Len()).
		Int("removed", len(removed)).
		Int("expired_votes", expired).
		Msg("checked")

	return nil
}

func (n *Node) runChecker(ctx context.Context) error {
	ticker := time.NewTicker(n.conf.LocalConfig().CheckInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := n.Check(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}

				n.Log().Error().Err(err).Msg("failed to check")
			}
		}
	}
}
