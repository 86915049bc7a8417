package storage

import (
	"github.com/pkg/errors"

	"github.com/MNPJason/MNPCoin-PolisCore/util"
)

var (
	StorageError         = util.NewError("storage error")
	VersionMismatchError = util.NewError("storage version mismatch")
)

// WrapStorageError wraps err with StorageError. util.NotFoundError and the
// storage errors are returned as they are.
func WrapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, util.NotFoundError),
		errors.Is(err, StorageError),
		errors.Is(err, VersionMismatchError):
		return err
	default:
		return StorageError.Wrap(err)
	}
}
