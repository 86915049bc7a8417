package governance

import (
	"bytes"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

// Votes keeps the VoteFile of every governance object under one lock, and
// the governance objects which need to be validated again.
type Votes struct {
	sync.RWMutex
	*logging.Logging
	files map[base.Hash]*VoteFile
	dirty map[base.Hash]struct{}
}

func NewVotes() *Votes {
	return &Votes{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "governance-votes")
		}),
		files: map[base.Hash]*VoteFile{},
		dirty: map[base.Hash]struct{}{},
	}
}

// AddVote returns false when the vote is already known.
func (vs *Votes) AddVote(v Vote) bool {
	vs.Lock()
	defer vs.Unlock()

	vf, found := vs.files[v.ParentHash()]
	if !found {
		vf = NewVoteFile()
		vs.files[v.ParentHash()] = vf
	}

	if vf.HasVote(v.Hash()) {
		return false
	}

	vf.AddVote(v)

	vs.Log().Trace().Stringer("vote", v).Stringer("object", v.ParentHash()).Msg("vote added")

	return true
}

func (vs *Votes) HasVote(parent, h base.Hash) bool {
	vs.RLock()
	defer vs.RUnlock()

	vf, found := vs.files[parent]
	if !found {
		return false
	}

	return vf.HasVote(h)
}

// VoteFile returns the copy of the VoteFile of the governance object.
func (vs *Votes) VoteFile(parent base.Hash) (*VoteFile, bool) {
	vs.RLock()
	defer vs.RUnlock()

	vf, found := vs.files[parent]
	if !found {
		return nil, false
	}

	return vf.Copy(), true
}

func (vs *Votes) SetVoteFile(parent base.Hash, vf *VoteFile) {
	vs.Lock()
	defer vs.Unlock()

	vs.files[parent] = vf.Copy()
}

func (vs *Votes) RemoveObject(parent base.Hash) bool {
	vs.Lock()
	defer vs.Unlock()

	if _, found := vs.files[parent]; !found {
		return false
	}

	delete(vs.files, parent)
	delete(vs.dirty, parent)

	return true
}

// Objects returns the hashes of the known governance objects in byte order.
func (vs *Votes) Objects() []base.Hash {
	vs.RLock()
	defer vs.RUnlock()

	return sortedHashes(vs.files)
}

func (vs *Votes) RemoveVotesFromMasternode(outpoint base.Outpoint) int {
	vs.Lock()
	defer vs.Unlock()

	var removed int
	for i := range vs.files {
		removed += vs.files[i].RemoveVotesFromMasternode(outpoint)
	}

	if removed > 0 {
		vs.Log().Debug().Str("masternode", base.ShortOutpoint(outpoint)).Int("removed", removed).
			Msg("votes of masternode removed")
	}

	return removed
}

func (vs *Votes) RemoveInvalidProposalVotes(outpoint base.Outpoint, validator VoteValidator) map[base.Hash]struct{} {
	vs.Lock()
	defer vs.Unlock()

	removed := map[base.Hash]struct{}{}
	for i := range vs.files {
		for h := range vs.files[i].RemoveInvalidProposalVotes(outpoint, validator) {
			removed[h] = struct{}{}
		}
	}

	if len(removed) > 0 {
		vs.Log().Debug().Str("masternode", base.ShortOutpoint(outpoint)).Int("removed", len(removed)).
			Msg("invalid proposal votes removed")
	}

	return removed
}

// RemoveOldVotes removes the votes older than minTime from every governance
// object.
func (vs *Votes) RemoveOldVotes(minTime int64) map[base.Hash][]base.Hash {
	vs.Lock()
	defer vs.Unlock()

	removed := map[base.Hash][]base.Hash{}
	for i := range vs.files {
		if hs := vs.files[i].RemoveOldVotes(minTime); len(hs) > 0 {
			removed[i] = hs
		}
	}

	if len(removed) > 0 {
		vs.Log().Debug().Int64("min_time", minTime).Int("objects", len(removed)).Msg("old votes removed")
	}

	return removed
}

// AddDirtyGovernanceObjectHash marks the governance object to be validated
// again.
func (vs *Votes) AddDirtyGovernanceObjectHash(h base.Hash) {
	vs.Lock()
	defer vs.Unlock()

	vs.dirty[h] = struct{}{}
}

// DirtyHashes returns the dirty governance objects and clears them.
func (vs *Votes) DirtyHashes() []base.Hash {
	vs.Lock()
	defer vs.Unlock()

	hs := sortedHashes(vs.dirty)
	vs.dirty = map[base.Hash]struct{}{}

	return hs
}

func sortedHashes[T any](m map[base.Hash]T) []base.Hash {
	hs := make([]base.Hash, 0, len(m))
	for h := range m {
		hs = append(hs, h)
	}

	sort.Slice(hs, func(i, j int) bool {
		return bytes.Compare(hs[i][:], hs[j][:]) < 0
	})

	return hs
}
