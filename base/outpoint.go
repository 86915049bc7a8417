package base

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Hash is the 256-bit protocol hash. Like uint256 it is displayed
// byte-reversed.
type Hash = chainhash.Hash

const HashSize = chainhash.HashSize

// Outpoint is the collateral transaction output identifying a masternode.
type Outpoint = wire.OutPoint

var NullIndex uint32 = 0xffffffff

func NewOutpoint(h Hash, index uint32) Outpoint {
	return Outpoint{Hash: h, Index: index}
}

func IsNullOutpoint(o Outpoint) bool {
	return o.Hash == (Hash{}) && o.Index == NullIndex
}

func IsEmptyOutpoint(o Outpoint) bool {
	return o.Hash == (Hash{}) && o.Index == 0
}

// ShortOutpoint formats the outpoint as "<hash>-<index>".
func ShortOutpoint(o Outpoint) string {
	return fmt.Sprintf("%s-%d", o.Hash, o.Index)
}

func IsEmptyHash(h Hash) bool {
	return h == (Hash{})
}
