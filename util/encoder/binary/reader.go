package binenc

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

const (
	MaxVarBytes  = 1 << 20
	MaxMapLength = 1 << 20
)

// mapCapacityHint limits the preallocation by the decoded length, which is
// not trusted until the entries are read.
const mapCapacityHint = 1024

type Decoder interface {
	DecodeBinary(*Reader)
}

// Reader is the counterpart of Writer and keeps the first error the same
// way.
type Reader struct {
	r    io.Reader
	mode Mode
	err  error
}

func NewReader(r io.Reader, mode Mode) *Reader {
	return &Reader{r: r, mode: mode}
}

func (r *Reader) Mode() Mode {
	return r.mode
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) SetErr(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) Read(b []byte) {
	if r.err != nil {
		return
	}

	if _, err := io.ReadFull(r.r, b); err != nil {
		r.err = errors.Wrap(err, "failed to read")
	}
}

func (r *Reader) Bool() bool {
	return r.Uint8() != 0
}

func (r *Reader) Uint8() uint8 {
	var b [1]byte
	r.Read(b[:])

	return b[0]
}

func (r *Reader) Uint16BE() uint16 {
	var b [2]byte
	r.Read(b[:])

	return binary.BigEndian.Uint16(b[:])
}

func (r *Reader) Uint32() uint32 {
	var b [4]byte
	r.Read(b[:])

	return binary.LittleEndian.Uint32(b[:])
}

func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

func (r *Reader) Int64() int64 {
	var b [8]byte
	r.Read(b[:])

	return int64(binary.LittleEndian.Uint64(b[:]))
}

func (r *Reader) CompactSize() uint64 {
	if r.err != nil {
		return 0
	}

	u, err := wire.ReadVarInt(r.r, pver)
	if err != nil {
		r.err = errors.Wrap(err, "failed to read compact size")
	}

	return u
}

func (r *Reader) VarBytes(fieldName string) []byte {
	if r.err != nil {
		return nil
	}

	b, err := wire.ReadVarBytes(r.r, pver, MaxVarBytes, fieldName)
	if err != nil {
		r.err = errors.Wrapf(err, "failed to read %s", fieldName)

		return nil
	}

	if len(b) < 1 {
		return nil
	}

	return b
}

func (r *Reader) Hash() chainhash.Hash {
	var h chainhash.Hash
	r.Read(h[:])

	return h
}

func (r *Reader) OutPoint() wire.OutPoint {
	h := r.Hash()

	return wire.OutPoint{Hash: h, Index: r.Uint32()}
}

func (r *Reader) HashIntMap() map[chainhash.Hash]int32 {
	n := r.CompactSize()
	if r.err != nil {
		return nil
	}

	if n > MaxMapLength {
		r.err = errors.Errorf("too long map, %d", n)

		return nil
	}

	hint := n
	if hint > mapCapacityHint {
		hint = mapCapacityHint
	}

	m := make(map[chainhash.Hash]int32, hint)
	for i := uint64(0); i < n; i++ {
		k := r.Hash()
		v := r.Int32()

		if r.err != nil {
			return nil
		}

		m[k] = v
	}

	return m
}

func (r *Reader) Decode(d Decoder) {
	if r.err != nil {
		return
	}

	d.DecodeBinary(r)
}

// Unmarshal decodes b into d; trailing bytes are an error.
func Unmarshal(b []byte, d Decoder, mode Mode) error {
	bf := bytes.NewReader(b)
	r := NewReader(bf, mode)
	d.DecodeBinary(r)

	if err := r.Err(); err != nil {
		return err
	}

	if bf.Len() > 0 {
		return errors.Errorf("%d trailing bytes", bf.Len())
	}

	return nil
}
