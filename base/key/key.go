package key

import (
	"fmt"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
)

type Key interface {
	fmt.Stringer
	Bytes() []byte
	IsValid() error
}

type Privatekey interface {
	Key
	Publickey() Publickey
	SignHash(base.Hash) (Signature, error)
}

type Publickey interface {
	Key
	HashVerifier
	Equal(Publickey) bool
}

// HashVerifier verifies a signature over a 32 byte hash. A masternode
// operator is either a legacy key id or a BLS public key; both satisfy it.
type HashVerifier interface {
	VerifyHash(base.Hash, Signature) error
}
