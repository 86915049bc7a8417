package masternode

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/governance"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
	"github.com/MNPJason/MNPCoin-PolisCore/util/cache"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

const (
	// LastPaidScanBlocks is how many blocks UpdateLastPaid looks back.
	LastPaidScanBlocks = 100
	checkWorkers       = 8
)

type seenBroadcast struct {
	sync.Mutex
	time int64
	mnb  Broadcast
}

// List is the masternode list of the legacy network. It keeps the
// broadcasts, pings and verifications seen recently, so the same message is
// processed once.
type List struct {
	sync.RWMutex
	*logging.Logging
	env               *Env
	nodes             map[base.Outpoint]*Masternode
	seenBroadcasts    cache.Cache
	seenPings         cache.Cache
	seenVerifications cache.Cache
}

// NewList makes new List. The seen caches are made from c. The list becomes
// the ListSize and Seen of env unless they are already set.
func NewList(env *Env, c cache.Cache) (*List, error) {
	pings, err := c.New()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to make cache for pings")
	}

	verifications, err := c.New()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to make cache for verifications")
	}

	l := &List{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "masternode-list")
		}),
		env:               env,
		nodes:             map[base.Outpoint]*Masternode{},
		seenBroadcasts:    c,
		seenPings:         pings,
		seenVerifications: verifications,
	}

	if env.ListSize == nil {
		env.ListSize = l.Len
	}

	if env.Seen == nil {
		env.Seen = l
	}

	return l, nil
}

func (l *List) SetLogging(lg *logging.Logging) *logging.Logging {
	l.RLock()
	defer l.RUnlock()

	for i := range l.nodes {
		_ = l.nodes[i].SetLogging(lg)
	}

	return l.Logging.SetLogging(lg)
}

// Add returns false when the masternode is already in the list.
func (l *List) Add(mn *Masternode) bool {
	o := mn.Outpoint()

	l.Lock()
	defer l.Unlock()

	if _, found := l.nodes[o]; found {
		return false
	}

	_ = mn.SetLogging(l.Logging)
	l.nodes[o] = mn

	l.Log().Debug().Str("outpoint", base.ShortOutpoint(o)).Int("size", len(l.nodes)).Msg("masternode added")

	return true
}

func (l *List) Get(o base.Outpoint) (*Masternode, bool) {
	l.RLock()
	defer l.RUnlock()

	mn, found := l.nodes[o]

	return mn, found
}

func (l *List) Has(o base.Outpoint) bool {
	_, found := l.Get(o)

	return found
}

func (l *List) Remove(o base.Outpoint) bool {
	l.Lock()
	defer l.Unlock()

	if _, found := l.nodes[o]; !found {
		return false
	}

	delete(l.nodes, o)

	return true
}

func (l *List) Len() int {
	l.RLock()
	defer l.RUnlock()

	return len(l.nodes)
}

// Masternodes returns the masternodes ordered by outpoint.
func (l *List) Masternodes() []*Masternode {
	l.RLock()

	mns := make([]*Masternode, 0, len(l.nodes))
	for i := range l.nodes {
		mns = append(mns, l.nodes[i])
	}

	l.RUnlock()

	sort.Slice(mns, func(i, j int) bool {
		return lessOutpoint(mns[i].Outpoint(), mns[j].Outpoint())
	})

	return mns
}

func (l *List) Infos() []Info {
	mns := l.Masternodes()

	infos := make([]Info, len(mns))
	for i := range mns {
		infos[i] = mns[i].GetInfo()
	}

	return infos
}

// CheckMnbAndUpdateMasternodeList processes the broadcast from the network.
// The returned int is the misbehavior score of the sender.
func (l *List) CheckMnbAndUpdateMasternodeList(mnb Broadcast) (int, error) {
	h := mnb.Hash()
	now := l.env.now()

	if i, err := l.seenBroadcasts.Get(h); err == nil && !mnb.Recovery {
		seen := i.(*seenBroadcast)

		seen.Lock()
		if now-seen.time > NewStartRequiredSeconds-MinMNPSeconds*2 {
			seen.time = now
		}
		seen.Unlock()

		return 0, util.DuplicatedError.Errorf("seen broadcast, %s", h)
	}

	if err := l.seenBroadcasts.Set(h, &seenBroadcast{time: now, mnb: mnb}, 0); err != nil {
		return 0, err
	}

	e := l.Log().With().Str("outpoint", base.ShortOutpoint(mnb.Outpoint)).Stringer("broadcast", h).Logger()

	if dos, err := mnb.SimpleCheck(l.env); err != nil {
		e.Debug().Err(err).Int("dos", dos).Msg("broadcast rejected by simple check")

		return dos, err
	}

	if mn, found := l.Get(mnb.Outpoint); found {
		old := NewBroadcastFromMasternode(mn).Hash()

		if dos, err := mnb.Update(mn, l.env); err != nil {
			e.Debug().Err(err).Int("dos", dos).Msg("failed to update masternode")

			return dos, err
		}

		if old != h {
			_ = l.seenBroadcasts.Remove(old)
		}

		return 0, nil
	}

	if dos, err := mnb.CheckOutpoint(l.env); err != nil {
		if errors.Is(err, util.RetryLaterError) {
			// NOTE check it again when it comes next time
			_ = l.seenBroadcasts.Remove(h)
		}

		e.Debug().Err(err).Int("dos", dos).Msg("rejected masternode entry")

		return dos, err
	}

	// NOTE keep the checked broadcast, which has the collateral block
	_ = l.seenBroadcasts.Set(h, &seenBroadcast{time: now, mnb: mnb}, 0)

	l.Add(NewMasternodeFromBroadcast(l.env, mnb))

	mnb.Relay(l.env)

	e.Debug().Msg("new masternode entry")

	return 0, nil
}

// UpdateSeenBroadcastPing updates the ping of the seen broadcast.
func (l *List) UpdateSeenBroadcastPing(h base.Hash, p Ping) {
	i, err := l.seenBroadcasts.Get(h)
	if err != nil {
		return
	}

	seen := i.(*seenBroadcast)

	seen.Lock()
	defer seen.Unlock()

	seen.mnb.LastPing = p
}

// SeenBroadcast returns the broadcast in the seen cache.
func (l *List) SeenBroadcast(h base.Hash) (Broadcast, bool) {
	i, err := l.seenBroadcasts.Get(h)
	if err != nil {
		return Broadcast{}, false
	}

	seen := i.(*seenBroadcast)

	seen.Lock()
	defer seen.Unlock()

	return seen.mnb, true
}

func (l *List) ProcessPing(p Ping) (int, error) {
	h := p.Hash()
	if l.seenPings.Has(h) {
		return 0, util.DuplicatedError.Errorf("seen ping, %s", h)
	}

	if err := l.seenPings.Set(h, p, 0); err != nil {
		return 0, err
	}

	mn, _ := l.Get(p.Outpoint)

	dos, err := p.CheckAndUpdate(mn, false, l.env)
	if err != nil {
		if errors.Is(err, util.RetryLaterError) {
			// NOTE the block of ping may come later
			_ = l.seenPings.Remove(h)
		}

		l.Log().Debug().Err(err).Int("dos", dos).Str("outpoint", base.ShortOutpoint(p.Outpoint)).
			Msg("ping rejected")
	}

	return dos, err
}

// ProcessVerification processes the verification relayed by the other
// masternode. The verified masternode gains the score and the other
// masternodes at the same address lose.
func (l *List) ProcessVerification(v Verification) (int, error) {
	h := v.Hash()
	if l.seenVerifications.Has(h) {
		return 0, util.DuplicatedError.Errorf("seen verification, %s", h)
	}

	if err := l.seenVerifications.Set(h, struct{}{}, 0); err != nil {
		return 0, err
	}

	if v.Outpoint1 == v.Outpoint2 {
		return 100, InvalidVerificationError.Errorf("same masternodes, %s", base.ShortOutpoint(v.Outpoint1))
	}

	b, found := l.env.blockByHeight(v.BlockHeight)
	if !found {
		_ = l.seenVerifications.Remove(h)

		return 0, util.RetryLaterError.Wrap(InvalidVerificationError.Errorf("unknown block height, %d", v.BlockHeight))
	}

	if tip, found := l.env.tip(); found && v.BlockHeight < tip.Height-MaxPoSeBlocks {
		return 0, InvalidVerificationError.Errorf("outdated; height=%d tip=%d", v.BlockHeight, tip.Height)
	}

	switch rank, found := l.Rank(v.Outpoint2, b.Hash, l.env.Policy.MinProtocolVersion); {
	case !found:
		return 0, UnknownMasternodeError.Errorf("can not calculate rank, %s", base.ShortOutpoint(v.Outpoint2))
	case rank > MaxPoSeRank:
		return 0, InvalidVerificationError.Errorf("verifier is not in top %d, rank=%d", MaxPoSeRank, rank)
	}

	mn1, found := l.Get(v.Outpoint1)
	if !found {
		return 0, UnknownMasternodeError.Errorf("unknown verified masternode, %s", base.ShortOutpoint(v.Outpoint1))
	}

	mn2, found := l.Get(v.Outpoint2)
	if !found {
		return 0, UnknownMasternodeError.Errorf("unknown verifying masternode, %s", base.ShortOutpoint(v.Outpoint2))
	}

	if addr := mn1.GetInfo().Addr; !addr.Equal(v.Addr) {
		return 0, InvalidVerificationError.Errorf("address does not match; %s != %s", addr, v.Addr)
	}

	if err := v.CheckSignature1(mn1.OperatorVerifier(), b.Hash); err != nil {
		return 0, err
	}

	if err := v.CheckSignature2(mn2.OperatorVerifier(), b.Hash); err != nil {
		return 0, err
	}

	if !mn1.IsPoSeVerified() {
		mn1.DecreasePoSeBanScore()
	}

	v.Relay(l.env)

	mns := l.Masternodes()
	for i := range mns {
		mn := mns[i]
		if mn == mn1 || !mn.GetInfo().Addr.Equal(v.Addr) {
			continue
		}

		mn.IncreasePoSeBanScore()

		l.Log().Debug().Str("outpoint", base.ShortOutpoint(mn.Outpoint())).Stringer("addr", v.Addr).
			Int32("score", mn.PoSeBanScore()).Msg("increased PoSe ban score of fake masternode")
	}

	return 0, nil
}

// CheckAll checks every masternode in parallel.
func (l *List) CheckAll(ctx context.Context, force bool) error {
	mns := l.Masternodes()

	return util.RunErrgroupWorker(ctx, checkWorkers, len(mns), func(_ context.Context, i int) error {
		mns[i].Check(force)

		return nil
	})
}

// CheckAndRemove checks the masternodes and removes the ones whose
// collateral was spent. The votes of the removed masternodes are purged.
func (l *List) CheckAndRemove(ctx context.Context) ([]base.Outpoint, error) {
	if err := l.CheckAll(ctx, false); err != nil {
		return nil, err
	}

	var removed []base.Outpoint

	mns := l.Masternodes()
	for i := range mns {
		mn := mns[i]
		if !mn.IsOutpointSpent() {
			continue
		}

		o := mn.Outpoint()

		_ = l.seenBroadcasts.Remove(NewBroadcastFromMasternode(mn).Hash())

		mn.FlagGovernanceItemsAsDirty()

		if l.env.Governance != nil {
			_ = l.env.Governance.RemoveVotesFromMasternode(o)
		}

		if l.Remove(o) {
			removed = append(removed, o)
		}
	}

	if len(removed) > 0 {
		l.Log().Debug().Int("removed", len(removed)).Int("size", l.Len()).Msg("spent masternodes removed")
	}

	return removed, nil
}

// UpdateLastPaid updates the last paid block of every masternode.
func (l *List) UpdateLastPaid(ctx context.Context, from Block) error {
	mns := l.Masternodes()

	return util.RunErrgroupWorker(ctx, checkWorkers, len(mns), func(_ context.Context, i int) error {
		mns[i].UpdateLastPaid(from, LastPaidScanBlocks)

		return nil
	})
}

type RankedMasternode struct {
	Rank       int
	Score      *uint256.Int
	Masternode *Masternode
}

// Ranks orders the masternodes by the score for the block, the highest
// first. The masternodes below minProtocol are excluded.
func (l *List) Ranks(blockHash base.Hash, minProtocol int32) []RankedMasternode {
	mns := l.Masternodes()

	ranked := make([]RankedMasternode, 0, len(mns))
	for i := range mns {
		if mns[i].GetInfo().ProtocolVersion < minProtocol {
			continue
		}

		ranked = append(ranked, RankedMasternode{Score: mns[i].CalculateScore(blockHash), Masternode: mns[i]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if c := ranked[i].Score.Cmp(ranked[j].Score); c != 0 {
			return c > 0
		}

		return lessOutpoint(ranked[j].Masternode.Outpoint(), ranked[i].Masternode.Outpoint())
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

func (l *List) Rank(o base.Outpoint, blockHash base.Hash, minProtocol int32) (int, bool) {
	for _, r := range l.Ranks(blockHash, minProtocol) {
		if r.Masternode.Outpoint() == o {
			return r.Rank, true
		}
	}

	return 0, false
}

// IsVoteValid checks the governance vote with the key of the masternode in
// the list.
func (l *List) IsVoteValid(v governance.Vote, useVotingKey bool) bool {
	mn, found := l.Get(v.MasternodeOutpoint())
	if !found {
		return false
	}

	verifier := mn.OperatorVerifier()
	if useVotingKey {
		verifier = mn.VotingVerifier()
	}

	if err := v.IsValid(l.env.now(), verifier); err != nil {
		l.Log().Trace().Err(err).Stringer("vote", v).Msg("invalid vote")

		return false
	}

	return true
}

// ProcessVote checks the governance vote and passes it to the governance.
// The masternode counts the accepted vote for the object, so the object can
// be flagged as dirty when the masternode is banned or removed.
func (l *List) ProcessVote(v governance.Vote, useVotingKey bool) (int, error) {
	mn, found := l.Get(v.MasternodeOutpoint())
	if !found {
		return 0, UnknownMasternodeError.Errorf("vote of unknown masternode, %s", base.ShortOutpoint(v.MasternodeOutpoint()))
	}

	verifier := mn.OperatorVerifier()
	if useVotingKey {
		verifier = mn.VotingVerifier()
	}

	if err := v.IsValid(l.env.now(), verifier); err != nil {
		return 20, err
	}

	if l.env.Governance == nil {
		return 0, util.NotFoundError.Errorf("no governance to keep vote")
	}

	if !l.env.Governance.AddVote(v) {
		return 0, util.DuplicatedError.Errorf("known vote, %s", v.Hash())
	}

	mn.AddGovernanceVote(v.ParentHash())

	l.Log().Trace().Stringer("vote", v).Msg("vote accepted")

	return 0, nil
}

func lessOutpoint(a, b base.Outpoint) bool {
	switch c := bytes.Compare(a.Hash[:], b.Hash[:]); {
	case c != 0:
		return c < 0
	default:
		return a.Index < b.Index
	}
}
