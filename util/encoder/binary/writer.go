package binenc

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Mode selects which fields a record writes. ModeHash drops signatures and
// other fields excluded from hashing, like SER_GETHASH.
type Mode uint8

const (
	ModeWire Mode = 1 << iota
	ModeDisk
	ModeHash
)

func (m Mode) String() string {
	switch m {
	case ModeWire:
		return "wire"
	case ModeDisk:
		return "disk"
	case ModeHash:
		return "hash"
	default:
		return "<unknown mode>"
	}
}

// pver is passed to the btcd wire helpers; compact size encoding does not
// depend on it.
const pver = wire.ProtocolVersion

type Encoder interface {
	EncodeBinary(*Writer)
}

// Writer writes little-endian fields to the underlying writer. The first
// error is kept and every later call does nothing, so a record can write
// all of its fields and check Err once.
type Writer struct {
	w    io.Writer
	mode Mode
	err  error
}

func NewWriter(w io.Writer, mode Mode) *Writer {
	return &Writer{w: w, mode: mode}
}

func (w *Writer) Mode() Mode {
	return w.mode
}

func (w *Writer) IsHashMode() bool {
	return w.mode == ModeHash
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) Write(b []byte) {
	if w.err != nil {
		return
	}

	_, w.err = w.w.Write(b)
}

func (w *Writer) Bool(b bool) {
	if b {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

func (w *Writer) Uint8(u uint8) {
	w.Write([]byte{u})
}

func (w *Writer) Uint16BE(u uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], u)
	w.Write(b[:])
}

func (w *Writer) Uint32(u uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], u)
	w.Write(b[:])
}

func (w *Writer) Int32(i int32) {
	w.Uint32(uint32(i))
}

func (w *Writer) Int64(i int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(i))
	w.Write(b[:])
}

func (w *Writer) CompactSize(u uint64) {
	if w.err != nil {
		return
	}

	w.err = wire.WriteVarInt(w.w, pver, u)
}

func (w *Writer) VarBytes(b []byte) {
	if w.err != nil {
		return
	}

	w.err = wire.WriteVarBytes(w.w, pver, b)
}

func (w *Writer) Hash(h chainhash.Hash) {
	w.Write(h[:])
}

func (w *Writer) OutPoint(o wire.OutPoint) {
	w.Hash(o.Hash)
	w.Uint32(o.Index)
}

// HashIntMap writes the map ordered by the raw bytes of its keys, which is
// the order of the original ordered map.
func (w *Writer) HashIntMap(m map[chainhash.Hash]int32) {
	keys := make([]chainhash.Hash, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	w.CompactSize(uint64(len(keys)))
	for i := range keys {
		w.Hash(keys[i])
		w.Int32(m[keys[i]])
	}
}

func (w *Writer) Encode(e Encoder) {
	if w.err != nil {
		return
	}

	e.EncodeBinary(w)
}

// Marshal encodes e in the given mode.
func Marshal(e Encoder, mode Mode) ([]byte, error) {
	var bf bytes.Buffer
	w := NewWriter(&bf, mode)
	e.EncodeBinary(w)

	if err := w.Err(); err != nil {
		return nil, err
	}

	return bf.Bytes(), nil
}
