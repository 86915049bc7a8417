package base

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
)

// HashWriter collects fields in hash mode and returns their double-SHA256.
type HashWriter struct {
	*binenc.Writer
	bf *bytes.Buffer
}

func NewHashWriter() *HashWriter {
	bf := &bytes.Buffer{}

	return &HashWriter{
		Writer: binenc.NewWriter(bf, binenc.ModeHash),
		bf:     bf,
	}
}

// LegacyOutpoint writes the outpoint followed by the empty script length
// and the final sequence number. Older hashes were computed over a
// transaction input, and these bytes keep them unchanged.
func (hw *HashWriter) LegacyOutpoint(o Outpoint) *HashWriter {
	hw.OutPoint(o)
	hw.Uint8(0)
	hw.Uint32(0xffffffff)

	return hw
}

func (hw *HashWriter) Sum() Hash {
	return chainhash.DoubleHashH(hw.bf.Bytes())
}

// SerializeHash hashes e in hash mode.
func SerializeHash(e binenc.Encoder) Hash {
	hw := NewHashWriter()
	e.EncodeBinary(hw.Writer)

	return hw.Sum()
}
