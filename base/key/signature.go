package key

import (
	"bytes"

	"github.com/btcsuite/btcutil/base58"
)

type Signature []byte

func (sg Signature) Bytes() []byte {
	return sg
}

func (sg Signature) String() string {
	return base58.Encode(sg)
}

func (sg Signature) IsEmpty() bool {
	return len(sg) < 1
}

func (sg Signature) Equal(ns Signature) bool {
	return bytes.Equal(sg, ns)
}
