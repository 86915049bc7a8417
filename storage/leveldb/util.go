package leveldbstorage

import (
	"encoding/binary"

	"github.com/pkg/errors"
	leveldbErrors "github.com/syndtr/goleveldb/leveldb/errors"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/storage"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
)

func concatBytes(sl ...[]byte) []byte {
	var n int
	for i := range sl {
		n += len(sl[i])
	}

	b := make([]byte, 0, n)
	for i := range sl {
		b = append(b, sl[i]...)
	}

	return b
}

func leveldbMasternodeKey(o base.Outpoint) []byte {
	index := make([]byte, 4)
	binary.BigEndian.PutUint32(index, o.Index)

	return concatBytes(keyPrefixMasternode, o.Hash[:], index)
}

func leveldbVoteFileKey(parent base.Hash) []byte {
	return concatBytes(keyPrefixVoteFile, parent[:])
}

func parseVoteFileKey(k []byte) (base.Hash, error) {
	var h base.Hash
	if len(k) != len(keyPrefixVoteFile)+base.HashSize {
		return h, errors.Errorf("wrong length of vote file key, %d", len(k))
	}

	copy(h[:], k[len(keyPrefixVoteFile):])

	return h, nil
}

func mergeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, leveldbErrors.ErrNotFound):
		return util.NotFoundError.Wrap(err)
	default:
		return storage.WrapStorageError(err)
	}
}
