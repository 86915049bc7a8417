package masternode

import (
	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/base/key"
	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
)

const (
	// MaxPoSeBlocks is how old the block of verification may be.
	MaxPoSeBlocks int32 = 10
	// MaxPoSeRank is the lowest rank of the masternode which can verify the
	// others.
	MaxPoSeRank = 10
)

// Verification proves that the masternode at Outpoint1 answers at Addr.
// Sig1 is signed by the masternode being verified, Sig2 by the verifying
// masternode at Outpoint2.
type Verification struct {
	Outpoint1   base.Outpoint
	Outpoint2   base.Outpoint
	Addr        base.Service
	Nonce       int32
	BlockHeight int32
	Sig1        key.Signature
	Sig2        key.Signature
}

func NewVerification(addr base.Service, nonce, blockHeight int32) Verification {
	return Verification{
		Addr:        addr,
		Nonce:       nonce,
		BlockHeight: blockHeight,
	}
}

// Hash identifies the verification. It does not match the serialized form.
func (v Verification) Hash() base.Hash {
	hw := base.NewHashWriter()
	hw.LegacyOutpoint(v.Outpoint1)
	hw.LegacyOutpoint(v.Outpoint2)
	hw.Encode(v.Addr)
	hw.Int32(v.Nonce)
	hw.Int32(v.BlockHeight)

	return hw.Sum()
}

func (v Verification) SignatureHash1(blockHash base.Hash) base.Hash {
	hw := base.NewHashWriter()
	hw.Encode(v.Addr)
	hw.Int32(v.Nonce)
	hw.Hash(blockHash)

	return hw.Sum()
}

func (v Verification) SignatureHash2(blockHash base.Hash) base.Hash {
	hw := base.NewHashWriter()
	hw.OutPoint(v.Outpoint1)
	hw.OutPoint(v.Outpoint2)
	hw.Encode(v.Addr)
	hw.Int32(v.Nonce)
	hw.Hash(blockHash)

	return hw.Sum()
}

func (v *Verification) Sign1(priv key.Privatekey, blockHash base.Hash) error {
	sig, err := priv.SignHash(v.SignatureHash1(blockHash))
	if err != nil {
		return InvalidVerificationError.Wrap(err)
	}

	v.Sig1 = sig

	return nil
}

func (v *Verification) Sign2(priv key.Privatekey, blockHash base.Hash) error {
	sig, err := priv.SignHash(v.SignatureHash2(blockHash))
	if err != nil {
		return InvalidVerificationError.Wrap(err)
	}

	v.Sig2 = sig

	return nil
}

func (v Verification) CheckSignature1(verifier key.HashVerifier, blockHash base.Hash) error {
	if verifier == nil {
		return InvalidVerificationError.Errorf("empty key of verified masternode")
	}

	if err := verifier.VerifyHash(v.SignatureHash1(blockHash), v.Sig1); err != nil {
		return InvalidVerificationError.Wrap(err)
	}

	return nil
}

func (v Verification) CheckSignature2(verifier key.HashVerifier, blockHash base.Hash) error {
	if verifier == nil {
		return InvalidVerificationError.Errorf("empty key of verifying masternode")
	}

	if err := verifier.VerifyHash(v.SignatureHash2(blockHash), v.Sig2); err != nil {
		return InvalidVerificationError.Wrap(err)
	}

	return nil
}

func (v Verification) Relay(env *Env) {
	if env.Relayer != nil {
		env.Relayer.RelayVerification(v)
	}
}

func (v Verification) EncodeBinary(w *binenc.Writer) {
	w.OutPoint(v.Outpoint1)
	w.OutPoint(v.Outpoint2)
	w.Encode(v.Addr)
	w.Int32(v.Nonce)
	w.Int32(v.BlockHeight)
	w.VarBytes(v.Sig1)
	w.VarBytes(v.Sig2)
}

func (v *Verification) DecodeBinary(r *binenc.Reader) {
	v.Outpoint1 = r.OutPoint()
	v.Outpoint2 = r.OutPoint()
	r.Decode(&v.Addr)
	v.Nonce = r.Int32()
	v.BlockHeight = r.Int32()
	v.Sig1 = r.VarBytes("verification signature 1")
	v.Sig2 = r.VarBytes("verification signature 2")
}
