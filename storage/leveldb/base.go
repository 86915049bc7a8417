package leveldbstorage

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbutil "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/governance"
	"github.com/MNPJason/MNPCoin-PolisCore/masternode"
	"github.com/MNPJason/MNPCoin-PolisCore/storage"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

var (
	keyPrefixInfo       = []byte{0x00, 0x00}
	keyPrefixMasternode = []byte{0x00, 0x01}
	keyPrefixVoteFile   = []byte{0x00, 0x02}

	keyVersion = concatBytes(keyPrefixInfo, []byte("version"))
)

// Version is the format of the stored records. The database of the other
// version is cleaned by Initialize.
const Version = "polis-masternode-v1"

type Database struct {
	*logging.Logging
	db *leveldb.DB
}

func NewDatabase(db *leveldb.DB) *Database {
	return &Database{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "leveldb-database")
		}),
		db: db,
	}
}

func NewDatabaseFromPath(p string) (*Database, error) {
	db, err := leveldb.OpenFile(p, nil)
	if err != nil {
		return nil, storage.WrapStorageError(errors.Wrapf(err, "failed to open leveldb, %q", p))
	}

	return NewDatabase(db), nil
}

func NewMemDatabase() *Database {
	db, _ := leveldb.Open(leveldbStorage.NewMemStorage(), nil)

	return NewDatabase(db)
}

// Initialize checks the version of database. The empty database gets the
// current version; the database of the other version is cleaned.
func (st *Database) Initialize() error {
	switch b, err := st.get(keyVersion); {
	case err == nil:
		if string(b) == Version {
			return nil
		}

		st.Log().Debug().Str("found", string(b)).Str("expected", Version).Msg("version mismatch; clean up")

		if err := st.Clean(); err != nil {
			return err
		}
	case !errors.Is(err, util.NotFoundError):
		return err
	}

	return mergeError(st.db.Put(keyVersion, []byte(Version), nil))
}

func (st *Database) DB() *leveldb.DB {
	return st.db
}

func (st *Database) Close() error {
	return mergeError(st.db.Close())
}

func (st *Database) Clean() error {
	batch := &leveldb.Batch{}

	if err := st.iter(
		nil,
		func(key, _ []byte) (bool, error) {
			batch.Delete(key)

			return true, nil
		},
		false,
	); err != nil {
		return err
	}

	return mergeError(st.db.Write(batch, nil))
}

func (st *Database) SaveMasternode(mn *masternode.Masternode) error {
	b, err := binenc.Marshal(mn, binenc.ModeDisk)
	if err != nil {
		return storage.WrapStorageError(err)
	}

	return mergeError(st.db.Put(leveldbMasternodeKey(mn.Outpoint()), b, nil))
}

func (st *Database) SaveMasternodes(mns []*masternode.Masternode) error {
	batch := &leveldb.Batch{}

	if err := st.iter(
		keyPrefixMasternode,
		func(key, _ []byte) (bool, error) {
			batch.Delete(key)

			return true, nil
		},
		true,
	); err != nil {
		return err
	}

	for i := range mns {
		b, err := binenc.Marshal(mns[i], binenc.ModeDisk)
		if err != nil {
			return storage.WrapStorageError(err)
		}

		batch.Put(leveldbMasternodeKey(mns[i].Outpoint()), b)
	}

	if err := mergeError(st.db.Write(batch, nil)); err != nil {
		return err
	}

	st.Log().Debug().Int("masternodes", len(mns)).Msg("masternodes saved")

	return nil
}

func (st *Database) RemoveMasternode(o base.Outpoint) error {
	return mergeError(st.db.Delete(leveldbMasternodeKey(o), nil))
}

func (st *Database) Masternode(o base.Outpoint, env *masternode.Env) (*masternode.Masternode, bool, error) {
	b, err := st.get(leveldbMasternodeKey(o))
	if err != nil {
		if errors.Is(err, util.NotFoundError) {
			return nil, false, nil
		}

		return nil, false, err
	}

	mn, err := masternode.DecodeMasternode(b, env)
	if err != nil {
		return nil, false, storage.WrapStorageError(err)
	}

	return mn, true, nil
}

// Masternodes loads the stored masternodes ordered by outpoint.
func (st *Database) Masternodes(env *masternode.Env, callback func(*masternode.Masternode) (bool, error)) error {
	return st.iter(
		keyPrefixMasternode,
		func(_, value []byte) (bool, error) {
			mn, err := masternode.DecodeMasternode(value, env)
			if err != nil {
				return false, storage.WrapStorageError(err)
			}

			return callback(mn)
		},
		true,
	)
}

func (st *Database) SaveVoteFile(parent base.Hash, vf *governance.VoteFile) error {
	b, err := binenc.Marshal(vf, binenc.ModeDisk)
	if err != nil {
		return storage.WrapStorageError(err)
	}

	return mergeError(st.db.Put(leveldbVoteFileKey(parent), b, nil))
}

func (st *Database) RemoveVoteFile(parent base.Hash) error {
	return mergeError(st.db.Delete(leveldbVoteFileKey(parent), nil))
}

func (st *Database) VoteFile(parent base.Hash) (*governance.VoteFile, bool, error) {
	b, err := st.get(leveldbVoteFileKey(parent))
	if err != nil {
		if errors.Is(err, util.NotFoundError) {
			return nil, false, nil
		}

		return nil, false, err
	}

	vf, err := loadVoteFile(b)
	if err != nil {
		return nil, false, err
	}

	return vf, true, nil
}

func (st *Database) VoteFiles(callback func(base.Hash, *governance.VoteFile) (bool, error)) error {
	return st.iter(
		keyPrefixVoteFile,
		func(key, value []byte) (bool, error) {
			parent, err := parseVoteFileKey(key)
			if err != nil {
				return false, storage.WrapStorageError(err)
			}

			vf, err := loadVoteFile(value)
			if err != nil {
				return false, err
			}

			return callback(parent, vf)
		},
		true,
	)
}

func loadVoteFile(b []byte) (*governance.VoteFile, error) {
	vf := governance.NewVoteFile()
	if err := binenc.Unmarshal(b, vf, binenc.ModeDisk); err != nil {
		return nil, storage.WrapStorageError(errors.WithMessage(err, "failed to decode vote file"))
	}

	return vf, nil
}

func (st *Database) get(key []byte) ([]byte, error) {
	b, err := st.db.Get(key, nil)

	return b, mergeError(err)
}

func (st *Database) iter(
	prefix []byte,
	callback func([]byte /* key */, []byte /* value */) (bool, error),
	sort bool,
) error {
	iter := st.db.NewIterator(leveldbutil.BytesPrefix(prefix), nil)
	defer iter.Release()

	var seek func() bool
	var next func() bool
	if sort {
		seek = iter.First
		next = iter.Next
	} else {
		seek = iter.Last
		next = iter.Prev
	}

	if !seek() {
		return nil
	}

	for {
		if keep, err := callback(util.CopyBytes(iter.Key()), util.CopyBytes(iter.Value())); err != nil {
			return err
		} else if !keep {
			break
		}

		if !next() {
			break
		}
	}

	return mergeError(iter.Error())
}
