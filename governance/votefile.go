package governance

import (
	"container/list"

	"github.com/pkg/errors"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
)

// MaxVoteFileLength limits the number of votes decoded from one file.
const MaxVoteFileLength = 1 << 20

// VoteValidator validates a vote against the current masternode list.
type VoteValidator interface {
	IsVoteValid(Vote, bool /* use voting key */) bool
}

// VoteFile keeps the votes of one governance object. The list is
// authoritative and keeps the latest added vote first; the index points to
// list elements by vote hash. VoteFile is not safe for concurrent use.
type VoteFile struct {
	memoryVotes int
	votes       *list.List
	index       map[base.Hash]*list.Element
}

func NewVoteFile() *VoteFile {
	return &VoteFile{
		votes: list.New(),
		index: map[base.Hash]*list.Element{},
	}
}

// Copy returns a new VoteFile with the same votes. The index of the copy is
// rebuilt from its own list.
func (vf *VoteFile) Copy() *VoteFile {
	n := NewVoteFile()
	for e := vf.votes.Front(); e != nil; e = e.Next() {
		n.votes.PushBack(e.Value.(Vote))
	}

	n.memoryVotes = vf.memoryVotes
	n.RebuildIndex()

	return n
}

// AddVote adds the vote at front; known vote is ignored.
func (vf *VoteFile) AddVote(v Vote) {
	h := v.Hash()
	if vf.HasVote(h) {
		return
	}

	vf.index[h] = vf.votes.PushFront(v)
	vf.memoryVotes++
}

func (vf *VoteFile) HasVote(h base.Hash) bool {
	_, found := vf.index[h]

	return found
}

func (vf *VoteFile) Vote(h base.Hash) (Vote, bool) {
	e, found := vf.index[h]
	if !found {
		return Vote{}, false
	}

	return e.Value.(Vote), true
}

// SerializeVoteToStream writes the vote to w. It returns false without
// writing when the vote is unknown; write errors are kept in w.
func (vf *VoteFile) SerializeVoteToStream(h base.Hash, w *binenc.Writer) bool {
	e, found := vf.index[h]
	if !found {
		return false
	}

	w.Encode(e.Value.(Vote))

	return true
}

// Votes returns the votes, the latest added first.
func (vf *VoteFile) Votes() []Vote {
	vs := make([]Vote, 0, vf.votes.Len())
	for e := vf.votes.Front(); e != nil; e = e.Next() {
		vs = append(vs, e.Value.(Vote))
	}

	return vs
}

func (vf *VoteFile) Len() int {
	return vf.memoryVotes
}

func (vf *VoteFile) remove(e *list.Element) *list.Element {
	next := e.Next()

	delete(vf.index, e.Value.(Vote).Hash())
	vf.votes.Remove(e)
	vf.memoryVotes--

	return next
}

func (vf *VoteFile) RemoveVotesFromMasternode(outpoint base.Outpoint) int {
	var removed int

	for e := vf.votes.Front(); e != nil; {
		if e.Value.(Vote).MasternodeOutpoint() != outpoint {
			e = e.Next()

			continue
		}

		e = vf.remove(e)
		removed++
	}

	return removed
}

// RemoveInvalidProposalVotes removes the funding votes of the masternode
// which are not valid anymore. The other signals are not checked.
func (vf *VoteFile) RemoveInvalidProposalVotes(outpoint base.Outpoint, validator VoteValidator) map[base.Hash]struct{} {
	removed := map[base.Hash]struct{}{}

	for e := vf.votes.Front(); e != nil; {
		v := e.Value.(Vote)
		if v.Signal() != SignalFunding || v.MasternodeOutpoint() != outpoint || validator.IsVoteValid(v, true) {
			e = e.Next()

			continue
		}

		removed[v.Hash()] = struct{}{}
		e = vf.remove(e)
	}

	return removed
}

// RemoveOldVotes removes the votes older than minTime and returns their
// hashes in list order.
func (vf *VoteFile) RemoveOldVotes(minTime int64) []base.Hash {
	var removed []base.Hash

	for e := vf.votes.Front(); e != nil; {
		v := e.Value.(Vote)
		if v.Timestamp() >= minTime {
			e = e.Next()

			continue
		}

		removed = append(removed, v.Hash())
		e = vf.remove(e)
	}

	return removed
}

// RebuildIndex builds the index from the list again. The later duplicated
// vote in the list is dropped.
func (vf *VoteFile) RebuildIndex() {
	vf.index = make(map[base.Hash]*list.Element, vf.votes.Len())
	vf.memoryVotes = 0

	for e := vf.votes.Front(); e != nil; {
		h := e.Value.(Vote).Hash()
		if _, found := vf.index[h]; found {
			next := e.Next()
			vf.votes.Remove(e)
			e = next

			continue
		}

		vf.index[h] = e
		vf.memoryVotes++
		e = e.Next()
	}
}

func (vf *VoteFile) EncodeBinary(w *binenc.Writer) {
	w.Int32(int32(vf.memoryVotes))
	w.CompactSize(uint64(vf.votes.Len()))

	for e := vf.votes.Front(); e != nil; e = e.Next() {
		w.Encode(e.Value.(Vote))
	}
}

func (vf *VoteFile) DecodeBinary(r *binenc.Reader) {
	_ = r.Int32() // NOTE memory votes is counted again by RebuildIndex

	n := r.CompactSize()
	if r.Err() != nil {
		return
	}

	if n > MaxVoteFileLength {
		r.SetErr(errors.Errorf("too many votes in vote file, %d", n))

		return
	}

	vf.votes = list.New()

	for i := uint64(0); i < n; i++ {
		var v Vote
		r.Decode(&v)

		if r.Err() != nil {
			return
		}

		vf.votes.PushBack(v)
	}

	vf.RebuildIndex()
}
