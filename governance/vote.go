package governance

import (
	"fmt"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/base/key"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
)

// MaxVoteFutureSeconds is how far in the future the vote time may be.
const MaxVoteFutureSeconds int64 = 60 * 60

var InvalidVoteError = util.NewError("invalid vote")

type Signal int32

const (
	SignalNone Signal = iota
	SignalFunding
	SignalValid
	SignalDelete
	SignalEndorsed
)

func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalFunding:
		return "funding"
	case SignalValid:
		return "valid"
	case SignalDelete:
		return "delete"
	case SignalEndorsed:
		return "endorsed"
	default:
		return fmt.Sprintf("<unknown signal: %d>", s)
	}
}

type Outcome int32

const (
	OutcomeNone Outcome = iota
	OutcomeYes
	OutcomeNo
	OutcomeAbstain
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeYes:
		return "yes"
	case OutcomeNo:
		return "no"
	case OutcomeAbstain:
		return "abstain"
	default:
		return fmt.Sprintf("<unknown outcome: %d>", o)
	}
}

// Vote is the vote of a masternode on a governance object. Vote is not
// changed after creation; Sign returns a new Vote.
type Vote struct {
	outpoint base.Outpoint
	parent   base.Hash
	outcome  Outcome
	signal   Signal
	time     int64
	sig      key.Signature
	h        base.Hash
}

func NewVote(outpoint base.Outpoint, parent base.Hash, signal Signal, outcome Outcome, t int64) Vote {
	v := Vote{
		outpoint: outpoint,
		parent:   parent,
		signal:   signal,
		outcome:  outcome,
		time:     t,
	}
	v.h = v.generateHash()

	return v
}

func (v Vote) MasternodeOutpoint() base.Outpoint {
	return v.outpoint
}

func (v Vote) ParentHash() base.Hash {
	return v.parent
}

func (v Vote) Signal() Signal {
	return v.signal
}

func (v Vote) Outcome() Outcome {
	return v.outcome
}

func (v Vote) Timestamp() int64 {
	return v.time
}

// Signature returns the copy of signature.
func (v Vote) Signature() key.Signature {
	if v.sig == nil {
		return nil
	}

	return key.Signature(util.CopyBytes(v.sig))
}

// Hash identifies the vote. It does not cover the signature.
func (v Vote) Hash() base.Hash {
	return v.h
}

func (v Vote) generateHash() base.Hash {
	hw := base.NewHashWriter()
	hw.LegacyOutpoint(v.outpoint)
	hw.Hash(v.parent)
	hw.Int32(int32(v.signal))
	hw.Int32(int32(v.outcome))
	hw.Int64(v.time)

	return hw.Sum()
}

func (v Vote) SignatureHash() base.Hash {
	return base.SerializeHash(v)
}

func (v Vote) Sign(priv key.Privatekey) (Vote, error) {
	sig, err := priv.SignHash(v.SignatureHash())
	if err != nil {
		return v, InvalidVoteError.Wrap(err)
	}

	v.sig = sig

	return v, nil
}

func (v Vote) CheckSignature(verifier key.HashVerifier) error {
	if err := verifier.VerifyHash(v.SignatureHash(), v.sig); err != nil {
		return InvalidVoteError.Wrap(err)
	}

	return nil
}

// IsValid checks the vote at the given time. verifier is the voting key of
// the masternode which casts the vote; nil means the masternode is unknown.
func (v Vote) IsValid(now int64, verifier key.HashVerifier) error {
	switch {
	case v.time > now+MaxVoteFutureSeconds:
		return InvalidVoteError.Errorf("vote is too far ahead of current time; time=%d now=%d", v.time, now)
	case v.signal < SignalNone || v.signal > SignalEndorsed:
		return InvalidVoteError.Errorf("unsupported vote signal, %d", v.signal)
	case v.outcome < OutcomeNone || v.outcome > OutcomeAbstain:
		return InvalidVoteError.Errorf("unsupported vote outcome, %d", v.outcome)
	case verifier == nil:
		return InvalidVoteError.Wrap(util.NotFoundError.Errorf("unknown masternode, %s", base.ShortOutpoint(v.outpoint)))
	}

	return v.CheckSignature(verifier)
}

func (v Vote) String() string {
	return fmt.Sprintf("%s:%d:%s:%s", base.ShortOutpoint(v.outpoint), v.time, v.signal, v.outcome)
}

func (v Vote) EncodeBinary(w *binenc.Writer) {
	w.OutPoint(v.outpoint)
	w.Hash(v.parent)
	w.Int32(int32(v.outcome))
	w.Int32(int32(v.signal))
	w.Int64(v.time)

	if !w.IsHashMode() {
		w.VarBytes(v.sig)
	}
}

func (v *Vote) DecodeBinary(r *binenc.Reader) {
	v.outpoint = r.OutPoint()
	v.parent = r.Hash()
	v.outcome = Outcome(r.Int32())
	v.signal = Signal(r.Int32())
	v.time = r.Int64()
	v.sig = r.VarBytes("vote signature")

	if r.Err() == nil {
		v.h = v.generateHash()
	}
}
