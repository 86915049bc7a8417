package key

import (
	"bytes"
	"encoding/hex"
	"sync"

	"github.com/herumi/bls-eth-go-binary/bls"
	"github.com/pkg/errors"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
)

const BLSPublickeySize = 48

var (
	blsOnce sync.Once
	blsErr  error
)

func initBLS() error {
	blsOnce.Do(func() {
		if err := bls.Init(bls.BLS12_381); err != nil {
			blsErr = errors.Wrap(err, "failed to initialize bls")

			return
		}

		if err := bls.SetETHmode(bls.EthModeDraft07); err != nil {
			blsErr = errors.Wrap(err, "failed to set bls mode")
		}
	})

	return blsErr
}

// BLSPrivatekey is the operator key of a masternode in the deterministic
// list.
type BLSPrivatekey struct {
	sk *bls.SecretKey
}

func NewBLSPrivatekey() (BLSPrivatekey, error) {
	if err := initBLS(); err != nil {
		return BLSPrivatekey{}, InvalidKeyError.Wrap(err)
	}

	sk := new(bls.SecretKey)
	sk.SetByCSPRNG()

	return BLSPrivatekey{sk: sk}, nil
}

func ParseBLSPrivatekey(s string) (BLSPrivatekey, error) {
	if err := initBLS(); err != nil {
		return BLSPrivatekey{}, InvalidKeyError.Wrap(err)
	}

	sk := new(bls.SecretKey)
	if err := sk.DeserializeHexStr(s); err != nil {
		return BLSPrivatekey{}, InvalidKeyError.Wrap(err)
	}

	return BLSPrivatekey{sk: sk}, nil
}

func (k BLSPrivatekey) String() string {
	if k.sk == nil {
		return ""
	}

	return k.sk.SerializeToHexStr()
}

func (k BLSPrivatekey) Bytes() []byte {
	if k.sk == nil {
		return nil
	}

	return k.sk.Serialize()
}

func (k BLSPrivatekey) IsValid() error {
	if k.sk == nil {
		return InvalidKeyError.Errorf("empty bls secret key")
	}

	return nil
}

func (k BLSPrivatekey) Publickey() Publickey {
	return k.BLSPublickey()
}

func (k BLSPrivatekey) BLSPublickey() BLSPublickey {
	var p BLSPublickey
	copy(p.b[:], k.sk.GetPublicKey().Serialize())

	return p
}

func (k BLSPrivatekey) SignHash(h base.Hash) (Signature, error) {
	if err := k.IsValid(); err != nil {
		return nil, err
	}

	return Signature(k.sk.SignByte(h[:]).Serialize()), nil
}

// BLSPublickey is kept in its 48 bytes serialized form; the all zero value
// is the null key of records without an operator key.
type BLSPublickey struct {
	b [BLSPublickeySize]byte
}

func ParseBLSPublickey(b []byte) (BLSPublickey, error) {
	var p BLSPublickey
	if len(b) != BLSPublickeySize {
		return p, InvalidKeyError.Errorf("wrong length of bls public key, %d", len(b))
	}

	copy(p.b[:], b)

	if p.IsEmpty() {
		return p, nil
	}

	if _, err := p.publickey(); err != nil {
		return BLSPublickey{}, err
	}

	return p, nil
}

func (k BLSPublickey) publickey() (*bls.PublicKey, error) {
	if err := initBLS(); err != nil {
		return nil, InvalidKeyError.Wrap(err)
	}

	pk := new(bls.PublicKey)
	if err := pk.Deserialize(k.b[:]); err != nil {
		return nil, InvalidKeyError.Wrap(err)
	}

	return pk, nil
}

func (k BLSPublickey) String() string {
	return hex.EncodeToString(k.b[:])
}

func (k BLSPublickey) Bytes() []byte {
	return k.b[:]
}

func (k BLSPublickey) IsEmpty() bool {
	return k.b == [BLSPublickeySize]byte{}
}

func (k BLSPublickey) IsValid() error {
	if k.IsEmpty() {
		return InvalidKeyError.Errorf("empty bls public key")
	}

	_, err := k.publickey()

	return err
}

func (k BLSPublickey) Equal(b Publickey) bool {
	if b == nil {
		return false
	}

	return bytes.Equal(k.Bytes(), b.Bytes())
}

func (k BLSPublickey) VerifyHash(h base.Hash, sig Signature) error {
	pk, err := k.publickey()
	if err != nil {
		return SignatureVerificationFailedError.Wrap(err)
	}

	var s bls.Sign
	if err := s.Deserialize(sig); err != nil {
		return SignatureVerificationFailedError.Wrap(err)
	}

	if !s.VerifyByte(pk, h[:]) {
		return SignatureVerificationFailedError.Errorf("invalid bls signature")
	}

	return nil
}
