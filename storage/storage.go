package storage

import (
	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/governance"
	"github.com/MNPJason/MNPCoin-PolisCore/masternode"
)

// Database keeps the masternode list and the governance votes between
// restarts.
type Database interface {
	Initialize() error
	Close() error
	Clean() error

	SaveMasternode(*masternode.Masternode) error
	// SaveMasternodes replaces the stored masternodes with the given ones.
	SaveMasternodes([]*masternode.Masternode) error
	RemoveMasternode(base.Outpoint) error
	Masternode(base.Outpoint, *masternode.Env) (*masternode.Masternode, bool, error)
	Masternodes(*masternode.Env, func(*masternode.Masternode) (bool, error)) error

	SaveVoteFile(base.Hash, *governance.VoteFile) error
	RemoveVoteFile(base.Hash) error
	VoteFile(base.Hash) (*governance.VoteFile, bool, error)
	VoteFiles(func(base.Hash, *governance.VoteFile) (bool, error)) error
}
