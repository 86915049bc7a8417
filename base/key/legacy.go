package key

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
)

// LegacyPrivatekey is the secp256k1 key used for collateral and, before the
// deterministic list, for the masternode operator.
type LegacyPrivatekey struct {
	wif *btcutil.WIF
}

func NewLegacyPrivatekey() (LegacyPrivatekey, error) {
	secret, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return LegacyPrivatekey{}, InvalidKeyError.Wrap(err)
	}

	wif, err := btcutil.NewWIF(secret, &chaincfg.MainNetParams, true)
	if err != nil {
		return LegacyPrivatekey{}, InvalidKeyError.Wrap(err)
	}

	return LegacyPrivatekey{wif: wif}, nil
}

func ParseLegacyPrivatekey(s string) (LegacyPrivatekey, error) {
	wif, err := btcutil.DecodeWIF(s)
	if err != nil {
		return LegacyPrivatekey{}, InvalidKeyError.Wrap(err)
	}

	return LegacyPrivatekey{wif: wif}, nil
}

func (k LegacyPrivatekey) String() string {
	if k.wif == nil {
		return ""
	}

	return k.wif.String()
}

func (k LegacyPrivatekey) Bytes() []byte {
	if k.wif == nil {
		return nil
	}

	return k.wif.PrivKey.Serialize()
}

func (k LegacyPrivatekey) IsValid() error {
	switch {
	case k.wif == nil:
		return InvalidKeyError.Errorf("empty wif")
	case k.wif.PrivKey == nil:
		return InvalidKeyError.Errorf("empty private key in wif")
	default:
		return nil
	}
}

func (k LegacyPrivatekey) Publickey() Publickey {
	return k.LegacyPublickey()
}

func (k LegacyPrivatekey) LegacyPublickey() LegacyPublickey {
	pub := k.wif.PrivKey.PubKey()

	var b []byte
	if k.wif.CompressPubKey {
		b = pub.SerializeCompressed()
	} else {
		b = pub.SerializeUncompressed()
	}

	return LegacyPublickey{pub: pub, b: b}
}

// SignHash returns the 65 bytes compact signature of h. The signer's public
// key can be recovered from it.
func (k LegacyPrivatekey) SignHash(h base.Hash) (Signature, error) {
	if err := k.IsValid(); err != nil {
		return nil, err
	}

	sig, err := btcec.SignCompact(btcec.S256(), k.wif.PrivKey, h[:], k.wif.CompressPubKey)
	if err != nil {
		return nil, InvalidKeyError.Wrap(err)
	}

	return Signature(sig), nil
}

// LegacyPublickey keeps the bytes it was parsed from, compressed or not, so
// serialized records keep their original form.
type LegacyPublickey struct {
	pub *btcec.PublicKey
	b   []byte
}

func ParseLegacyPublickey(b []byte) (LegacyPublickey, error) {
	if len(b) < 1 {
		return LegacyPublickey{}, nil
	}

	pub, err := btcec.ParsePubKey(b, btcec.S256())
	if err != nil {
		return LegacyPublickey{}, InvalidKeyError.Wrap(err)
	}

	c := make([]byte, len(b))
	copy(c, b)

	return LegacyPublickey{pub: pub, b: c}, nil
}

func (k LegacyPublickey) String() string {
	return hex.EncodeToString(k.b)
}

func (k LegacyPublickey) Bytes() []byte {
	return k.b
}

func (k LegacyPublickey) IsEmpty() bool {
	return k.pub == nil
}

func (k LegacyPublickey) IsValid() error {
	if k.pub == nil {
		return InvalidKeyError.Errorf("empty public key")
	}

	return nil
}

func (k LegacyPublickey) Equal(b Publickey) bool {
	if b == nil {
		return false
	}

	return bytes.Equal(k.Bytes(), b.Bytes())
}

func (k LegacyPublickey) KeyID() base.KeyID {
	if k.pub == nil {
		return base.KeyID{}
	}

	return base.NewKeyID(k.b)
}

func (k LegacyPublickey) VerifyHash(h base.Hash, sig Signature) error {
	if err := k.IsValid(); err != nil {
		return SignatureVerificationFailedError.Wrap(err)
	}

	return VerifyHashWithKeyID(h, k.KeyID(), sig)
}

// VerifyHashWithKeyID recovers the public key from the compact signature and
// compares its key id with id.
func VerifyHashWithKeyID(h base.Hash, id base.KeyID, sig Signature) error {
	pub, compressed, err := btcec.RecoverCompact(btcec.S256(), sig, h[:])
	if err != nil {
		return SignatureVerificationFailedError.Wrap(err)
	}

	var b []byte
	if compressed {
		b = pub.SerializeCompressed()
	} else {
		b = pub.SerializeUncompressed()
	}

	if rid := base.NewKeyID(b); rid != id {
		return SignatureVerificationFailedError.Errorf("key id mismatch; expected=%s recovered=%s", id, rid)
	}

	return nil
}

// LegacyKeyIDVerifier verifies signatures by the key id only, when the
// public key itself is not known.
type LegacyKeyIDVerifier base.KeyID

func (v LegacyKeyIDVerifier) VerifyHash(h base.Hash, sig Signature) error {
	return VerifyHashWithKeyID(h, base.KeyID(v), sig)
}
