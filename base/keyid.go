package base

import (
	"encoding/hex"

	"github.com/btcsuite/btcutil"
	"github.com/pkg/errors"

	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
)

const KeyIDSize = 20

// KeyID is the hash160 of a serialized public key.
type KeyID [KeyIDSize]byte

func NewKeyID(pub []byte) KeyID {
	var k KeyID
	copy(k[:], btcutil.Hash160(pub))

	return k
}

func ParseKeyID(s string) (KeyID, error) {
	var k KeyID

	b, err := hex.DecodeString(s)
	if err != nil {
		return k, errors.Wrap(err, "invalid key id")
	}

	if len(b) != KeyIDSize {
		return k, errors.Errorf("invalid key id length, %d", len(b))
	}

	// NOTE displayed reversed like uint160
	for i := range b {
		k[KeyIDSize-1-i] = b[i]
	}

	return k, nil
}

func (k KeyID) IsEmpty() bool {
	return k == KeyID{}
}

func (k KeyID) String() string {
	r := make([]byte, KeyIDSize)
	for i := range k {
		r[KeyIDSize-1-i] = k[i]
	}

	return hex.EncodeToString(r)
}

func (k KeyID) EncodeBinary(w *binenc.Writer) {
	w.Write(k[:])
}

func (k *KeyID) DecodeBinary(r *binenc.Reader) {
	r.Read(k[:])
}
