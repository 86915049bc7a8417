package governance

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/suite"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
)

type invalidVotes map[base.Hash]struct{}

func (iv invalidVotes) IsVoteValid(v Vote, _ bool) bool {
	_, found := iv[v.Hash()]

	return !found
}

type testVoteFile struct {
	suite.Suite
	parent base.Hash
}

func (t *testVoteFile) SetupSuite() {
	t.parent = chainhash.DoubleHashH([]byte("proposal"))
}

func (t *testVoteFile) checkConsistent(vf *VoteFile) {
	t.Equal(vf.votes.Len(), vf.Len())
	t.Equal(len(vf.index), vf.Len())

	for e := vf.votes.Front(); e != nil; e = e.Next() {
		t.Equal(e, vf.index[e.Value.(Vote).Hash()])
	}
}

func (t *testVoteFile) TestAddVote() {
	vf := NewVoteFile()

	a := NewVote(newOutpoint("a", 0), t.parent, SignalFunding, OutcomeYes, 10)
	b := NewVote(newOutpoint("b", 0), t.parent, SignalFunding, OutcomeNo, 11)

	vf.AddVote(a)
	vf.AddVote(b)
	t.checkConsistent(vf)

	t.True(vf.HasVote(a.Hash()))
	t.True(vf.HasVote(b.Hash()))
	t.False(vf.HasVote(chainhash.DoubleHashH([]byte("unknown"))))

	vs := vf.Votes()
	t.Equal(2, len(vs))
	t.Equal(b.Hash(), vs[0].Hash())
	t.Equal(a.Hash(), vs[1].Hash())

	// NOTE same vote again does nothing
	vf.AddVote(a)
	t.Equal(2, vf.Len())
	t.Equal(b.Hash(), vf.Votes()[0].Hash())
	t.checkConsistent(vf)

	// NOTE the returned slice is a copy
	vs[0] = a
	t.Equal(b.Hash(), vf.Votes()[0].Hash())
}

func (t *testVoteFile) TestSerializeVoteToStream() {
	vf := NewVoteFile()
	a := NewVote(newOutpoint("a", 0), t.parent, SignalFunding, OutcomeYes, 10)
	vf.AddVote(a)

	var bf bytes.Buffer
	w := binenc.NewWriter(&bf, binenc.ModeWire)

	t.False(vf.SerializeVoteToStream(chainhash.DoubleHashH([]byte("unknown")), w))
	t.Equal(0, bf.Len())

	t.True(vf.SerializeVoteToStream(a.Hash(), w))
	t.NoError(w.Err())

	b, err := binenc.Marshal(a, binenc.ModeWire)
	t.NoError(err)
	t.Equal(b, bf.Bytes())
}

func (t *testVoteFile) TestRemoveVotesFromMasternode() {
	vf := NewVoteFile()

	oa := newOutpoint("a", 0)
	ob := newOutpoint("b", 0)

	var kept []base.Hash
	for i := 0; i < 10; i++ {
		o := oa
		if i%3 == 0 {
			o = ob
		}

		v := NewVote(o, t.parent, SignalFunding, OutcomeYes, int64(i))
		vf.AddVote(v)

		if o == oa {
			kept = append([]base.Hash{v.Hash()}, kept...)
		}
	}

	t.Equal(4, vf.RemoveVotesFromMasternode(ob))
	t.checkConsistent(vf)

	vs := vf.Votes()
	t.Equal(len(kept), len(vs))

	for i := range vs {
		t.Equal(oa, vs[i].MasternodeOutpoint())
		t.Equal(kept[i], vs[i].Hash())
	}

	t.Equal(0, vf.RemoveVotesFromMasternode(ob))
}

func (t *testVoteFile) TestRemoveInvalidProposalVotes() {
	vf := NewVoteFile()

	oa := newOutpoint("a", 0)
	ob := newOutpoint("b", 0)

	fundingA := NewVote(oa, t.parent, SignalFunding, OutcomeYes, 1)
	validA := NewVote(oa, t.parent, SignalValid, OutcomeYes, 2)
	fundingB := NewVote(ob, t.parent, SignalFunding, OutcomeYes, 3)
	fundingA2 := NewVote(oa, t.parent, SignalFunding, OutcomeNo, 4)

	for _, v := range []Vote{fundingA, validA, fundingB, fundingA2} {
		vf.AddVote(v)
	}

	// NOTE every vote is invalid, but only funding votes of oa are removed
	invalid := invalidVotes{}
	for _, v := range vf.Votes() {
		invalid[v.Hash()] = struct{}{}
	}

	removed := vf.RemoveInvalidProposalVotes(oa, invalid)
	t.Equal(2, len(removed))
	t.Contains(removed, fundingA.Hash())
	t.Contains(removed, fundingA2.Hash())
	t.checkConsistent(vf)

	t.True(vf.HasVote(validA.Hash()))
	t.True(vf.HasVote(fundingB.Hash()))

	t.Run("valid votes are kept", func() {
		vf := NewVoteFile()
		vf.AddVote(fundingA)

		t.Empty(vf.RemoveInvalidProposalVotes(oa, invalidVotes{}))
		t.Equal(1, vf.Len())
	})
}

func (t *testVoteFile) TestRemoveOldVotes() {
	vf := NewVoteFile()

	for _, i := range []int64{5, 1, 9, 3, 7} {
		vf.AddVote(NewVote(newOutpoint("a", uint32(i)), t.parent, SignalFunding, OutcomeYes, i))
	}

	before := vf.Len()
	removed := vf.RemoveOldVotes(5)
	t.checkConsistent(vf)

	t.Equal(before-vf.Len(), len(removed))

	// NOTE removed in list order, latest added first
	t.Equal(2, len(removed))
	t.Equal(NewVote(newOutpoint("a", 3), t.parent, SignalFunding, OutcomeYes, 3).Hash(), removed[0])
	t.Equal(NewVote(newOutpoint("a", 1), t.parent, SignalFunding, OutcomeYes, 1).Hash(), removed[1])

	for _, v := range vf.Votes() {
		t.GreaterOrEqual(v.Timestamp(), int64(5))
	}

	t.Empty(vf.RemoveOldVotes(5))
}

func (t *testVoteFile) TestRebuildIndex() {
	vf := NewVoteFile()

	a := NewVote(newOutpoint("a", 0), t.parent, SignalFunding, OutcomeYes, 10)
	b := NewVote(newOutpoint("b", 0), t.parent, SignalFunding, OutcomeYes, 10)

	vf.votes.PushBack(a)
	vf.votes.PushBack(b)
	vf.votes.PushBack(a)
	vf.votes.PushBack(b)
	vf.votes.PushBack(a)

	vf.RebuildIndex()
	t.checkConsistent(vf)

	t.Equal(2, vf.Len())
	t.True(vf.HasVote(a.Hash()))
	t.True(vf.HasVote(b.Hash()))

	vs := vf.Votes()
	t.Equal(a.Hash(), vs[0].Hash())
	t.Equal(b.Hash(), vs[1].Hash())
}

func (t *testVoteFile) TestCopy() {
	vf := NewVoteFile()
	for i := 0; i < 3; i++ {
		vf.AddVote(NewVote(newOutpoint("a", uint32(i)), t.parent, SignalFunding, OutcomeYes, int64(i)))
	}

	c := vf.Copy()
	t.checkConsistent(c)
	t.Equal(vf.Len(), c.Len())

	c.RemoveOldVotes(10)
	t.Equal(0, c.Len())
	t.Equal(3, vf.Len())
	t.checkConsistent(vf)
}

func (t *testVoteFile) TestEncode() {
	vf := NewVoteFile()
	for i := 0; i < 4; i++ {
		vf.AddVote(NewVote(newOutpoint("a", uint32(i)), t.parent, SignalFunding, OutcomeYes, int64(i)))
	}

	b, err := binenc.Marshal(vf, binenc.ModeDisk)
	t.NoError(err)

	u := NewVoteFile()
	t.NoError(binenc.Unmarshal(b, u, binenc.ModeDisk))
	t.checkConsistent(u)

	avs := vf.Votes()
	bvs := u.Votes()
	t.Equal(len(avs), len(bvs))

	for i := range avs {
		t.Equal(avs[i].Hash(), bvs[i].Hash())
	}
}

func TestVoteFile(t *testing.T) {
	suite.Run(t, new(testVoteFile))
}
