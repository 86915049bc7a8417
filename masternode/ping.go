package masternode

import (
	"fmt"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/base/key"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
)

// Ping is the heartbeat of masternode. The most significant byte of
// SentinelVersion is always 0; the other 3 bytes are the x.x.x version.
type Ping struct {
	Outpoint          base.Outpoint
	BlockHash         base.Hash
	SigTime           int64
	Sig               key.Signature
	SentinelIsCurrent bool
	SentinelVersion   uint32
	DaemonVersion     uint32
}

func NewEmptyPing() Ping {
	return Ping{
		SentinelVersion: DefaultSentinelVersion,
		DaemonVersion:   DefaultDaemonVersion,
	}
}

// NewPing makes unsigned ping of the masternode, which refers the block
// PingBlockDepth deep from the tip.
func NewPing(outpoint base.Outpoint, env *Env) (Ping, error) {
	tip, found := env.tip()
	if !found || tip.Height < PingBlockDepth {
		return Ping{}, util.RetryLaterError.Errorf("chain is too short for ping")
	}

	b, found := env.blockByHeight(tip.Height - PingBlockDepth)
	if !found {
		return Ping{}, util.RetryLaterError.Errorf("block not found, %d", tip.Height-PingBlockDepth)
	}

	p := NewEmptyPing()
	p.Outpoint = outpoint
	p.BlockHash = b.Hash
	p.SigTime = env.now()
	p.DaemonVersion = env.Policy.DaemonVersion

	return p, nil
}

// IsEmpty reports whether the ping is the empty one. Only the masternode and
// the block are compared.
func (p Ping) IsEmpty() bool {
	return p.Outpoint == (base.Outpoint{}) && p.BlockHash == (base.Hash{})
}

func (p Ping) Equal(b Ping) bool {
	return p.Outpoint == b.Outpoint && p.BlockHash == b.BlockHash
}

func (p Ping) Hash() base.Hash {
	return base.SerializeHash(p)
}

func (p Ping) SignatureHash() base.Hash {
	return p.Hash()
}

func (p Ping) IsExpired(now int64) bool {
	return now-p.SigTime > NewStartRequiredSeconds
}

func (p *Ping) Sign(priv key.Privatekey, now int64) error {
	p.SigTime = now

	sig, err := priv.SignHash(p.SignatureHash())
	if err != nil {
		return InvalidPingError.Wrap(err)
	}

	p.Sig = sig

	if err := priv.Publickey().VerifyHash(p.SignatureHash(), p.Sig); err != nil {
		return InvalidPingError.Wrap(err)
	}

	return nil
}

func (p Ping) CheckSignature(verifier key.HashVerifier) (int, error) {
	if verifier == nil {
		return 0, InvalidPingError.Errorf("empty operator key")
	}

	if err := verifier.VerifyHash(p.SignatureHash(), p.Sig); err != nil {
		return 33, InvalidPingError.Wrap(err)
	}

	return 0, nil
}

// SimpleCheck checks the ping without the masternode. Unknown block is not
// the fault of the peer; it returns RetryLaterError.
func (p Ping) SimpleCheck(env *Env) (int, error) {
	if now := env.now(); p.SigTime > now+MaxFutureSeconds {
		return 1, InvalidPingError.Errorf("signature rejected, too far into the future; sig_time=%d now=%d", p.SigTime, now)
	}

	if _, found := env.blockByHash(p.BlockHash); !found {
		return 0, util.RetryLaterError.Wrap(InvalidPingError.Errorf("unknown block hash, %s", p.BlockHash))
	}

	return 0, nil
}

// CheckAndUpdate checks the ping against the masternode, and keeps it as the
// last ping of masternode. The accepted ping is relayed only when the
// masternode is in ENABLED, EXPIRED or SENTINEL_PING_EXPIRED state.
func (p Ping) CheckAndUpdate(mn *Masternode, fromNewBroadcast bool, env *Env) (int, error) {
	if dos, err := p.SimpleCheck(env); err != nil {
		return dos, err
	}

	if mn == nil {
		return 0, UnknownMasternodeError.Errorf("ping of unknown masternode, %s", base.ShortOutpoint(p.Outpoint))
	}

	if !fromNewBroadcast {
		switch s := mn.State(); s {
		case StateUpdateRequired, StateNewStartRequired:
			return 0, InvalidPingError.Errorf("masternode is in %s state", s)
		}
	}

	if b, found := env.blockByHash(p.BlockHash); found {
		if tip, found := env.tip(); found && b.Height < tip.Height-MaxPingBlockAge {
			return 0, InvalidPingError.Errorf("block hash is too old; height=%d tip=%d", b.Height, tip.Height)
		}
	}

	if mn.IsPingedWithinAt(MinMNPSeconds-60, p.SigTime) {
		return 0, InvalidPingError.Errorf("ping arrived too early")
	}

	if dos, err := p.CheckSignature(mn.OperatorVerifier()); err != nil {
		return dos, err
	}

	mn.setLastPing(p)

	if env.Seen != nil {
		env.Seen.UpdateSeenBroadcastPing(NewBroadcastFromMasternode(mn).Hash(), p)
	}

	mn.Check(true)

	switch s := mn.State(); s {
	case StateEnabled, StateExpired, StateSentinelPingExpired:
		env.relayPing(p)
	default:
		mn.Log().Trace().Stringer("state", s).Msg("ping accepted, but not relayed")
	}

	return 0, nil
}

// SentinelString returns the x.x.x sentinel version.
func (p Ping) SentinelString() string {
	switch {
	case p.SentinelVersion <= DefaultSentinelVersion:
		return "Unknown"
	case p.SentinelVersion&0xff000000 != 0:
		return "invalid_version"
	}

	return fmt.Sprintf("%d.%d.%d",
		(p.SentinelVersion>>16)&0xff,
		(p.SentinelVersion>>8)&0xff,
		p.SentinelVersion&0xff,
	)
}

func (p Ping) DaemonString() string {
	if p.DaemonVersion <= DefaultDaemonVersion {
		return "Unknown"
	}

	return FormatDaemonVersion(p.DaemonVersion)
}

// FormatDaemonVersion formats version like 1040000 to "1.4.0"; the build
// number is added when it is not zero.
func FormatDaemonVersion(v uint32) string {
	s := fmt.Sprintf("%d.%d.%d", v/1000000, (v/10000)%100, (v/100)%100)
	if v%100 != 0 {
		s += fmt.Sprintf(".%d", v%100)
	}

	return s
}

func (p Ping) EncodeBinary(w *binenc.Writer) {
	w.OutPoint(p.Outpoint)
	w.Hash(p.BlockHash)
	w.Int64(p.SigTime)

	if !w.IsHashMode() {
		w.VarBytes(p.Sig)
	}

	w.Bool(p.SentinelIsCurrent)
	w.Uint32(p.SentinelVersion)
	w.Uint32(p.DaemonVersion)
}

func (p *Ping) DecodeBinary(r *binenc.Reader) {
	p.Outpoint = r.OutPoint()
	p.BlockHash = r.Hash()
	p.SigTime = r.Int64()
	p.Sig = r.VarBytes("ping signature")
	p.SentinelIsCurrent = r.Bool()
	p.SentinelVersion = r.Uint32()
	p.DaemonVersion = r.Uint32()
}
