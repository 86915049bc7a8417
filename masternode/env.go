package masternode

import (
	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/governance"
	"github.com/MNPJason/MNPCoin-PolisCore/util/localtime"
)

const (
	NetworkMain    = "main"
	NetworkTest    = "test"
	NetworkRegtest = "regtest"
	NetworkDevnet  = "devnet"
)

// Block is the part of block header used by masternodes.
type Block struct {
	Hash   base.Hash
	Height int32
	Time   int64
}

type ChainView interface {
	Tip() (Block, bool)
	BlockByHash(base.Hash) (Block, bool)
	BlockByHeight(int32) (Block, bool)
}

// Coin is the unspent output of collateral. KeyID is the destination of the
// pay-to-pubkey-hash script; it is empty for the other scripts.
type Coin struct {
	Amount int64
	KeyID  base.KeyID
	Height int32
}

type UTXOView interface {
	Coin(base.Outpoint) (Coin, bool)
}

type Relayer interface {
	RelayPing(Ping)
	RelayBroadcast(Broadcast)
	RelayVerification(Verification)
}

// GovernanceNotifier keeps the votes accepted from masternodes. It also
// receives the governance objects which should be validated again, and
// purges the votes of removed masternodes.
type GovernanceNotifier interface {
	AddVote(governance.Vote) bool
	AddDirtyGovernanceObjectHash(base.Hash)
	RemoveVotesFromMasternode(base.Outpoint) int
}

// Payments reports whether the payee was paid in the block of the height.
type Payments interface {
	IsPaid(payee base.KeyID, height int32) bool
}

// SeenBroadcasts keeps the ping of the broadcast in the seen cache up to
// date.
type SeenBroadcasts interface {
	UpdateSeenBroadcastPing(base.Hash, Ping)
}

// Policy is the network rules for masternodes.
type Policy struct {
	Network              string
	Deterministic        bool
	ProtocolVersion      int32
	MinProtocolVersion   int32
	CollateralAmount     int64
	MinConfirmations     int32
	SentinelPingRequired bool
	MainnetDefaultPort   uint16
	DaemonVersion        uint32
}

func DefaultPolicy() Policy {
	return Policy{
		Network:              NetworkMain,
		ProtocolVersion:      70210,
		MinProtocolVersion:   70210,
		CollateralAmount:     1000 * 100000000,
		MinConfirmations:     15,
		SentinelPingRequired: true,
		MainnetDefaultPort:   24126,
		DaemonVersion:        1040000,
	}
}

// Env is the collaborators of masternode. The nil members are treated as
// empty ones.
type Env struct {
	Chain      ChainView
	UTXO       UTXOView
	Relayer    Relayer
	Governance GovernanceNotifier
	Payments   Payments
	Seen       SeenBroadcasts
	// Now returns the network adjusted time in seconds.
	Now      func() int64
	ListSize func() int
	Policy   Policy
}

func (env *Env) now() int64 {
	if env.Now == nil {
		return localtime.AdjustedTime()
	}

	return env.Now()
}

func (env *Env) listSize() int {
	if env.ListSize == nil {
		return 0
	}

	return env.ListSize()
}

func (env *Env) tip() (Block, bool) {
	if env.Chain == nil {
		return Block{}, false
	}

	return env.Chain.Tip()
}

func (env *Env) blockByHash(h base.Hash) (Block, bool) {
	if env.Chain == nil {
		return Block{}, false
	}

	return env.Chain.BlockByHash(h)
}

func (env *Env) blockByHeight(height int32) (Block, bool) {
	if env.Chain == nil {
		return Block{}, false
	}

	return env.Chain.BlockByHeight(height)
}

func (env *Env) relayPing(p Ping) {
	if env.Relayer != nil {
		env.Relayer.RelayPing(p)
	}
}

func (env *Env) relayBroadcast(mnb Broadcast) {
	if env.Relayer != nil {
		env.Relayer.RelayBroadcast(mnb)
	}
}

func (env *Env) isMainnet() bool {
	return env.Policy.Network == NetworkMain
}

func (env *Env) isRegtest() bool {
	return env.Policy.Network == NetworkRegtest
}
