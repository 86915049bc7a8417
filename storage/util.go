package storage

import (
	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/governance"
	"github.com/MNPJason/MNPCoin-PolisCore/masternode"
)

// LoadList adds the stored masternodes to the list and returns how many were
// added.
func LoadList(st Database, l *masternode.List, env *masternode.Env) (int, error) {
	var n int
	if err := st.Masternodes(env, func(mn *masternode.Masternode) (bool, error) {
		if l.Add(mn) {
			n++
		}

		return true, nil
	}); err != nil {
		return n, err
	}

	return n, nil
}

func SaveList(st Database, l *masternode.List) error {
	return st.SaveMasternodes(l.Masternodes())
}

// LoadVotes sets the stored vote files to votes and returns how many were
// loaded.
func LoadVotes(st Database, votes *governance.Votes) (int, error) {
	var n int
	if err := st.VoteFiles(func(parent base.Hash, vf *governance.VoteFile) (bool, error) {
		votes.SetVoteFile(parent, vf)
		n++

		return true, nil
	}); err != nil {
		return n, err
	}

	return n, nil
}

// SaveVotes stores every vote file in votes. The stored vote files of the
// removed governance objects are removed.
func SaveVotes(st Database, votes *governance.Votes) error {
	objects := votes.Objects()

	known := map[base.Hash]struct{}{}
	for i := range objects {
		known[objects[i]] = struct{}{}

		vf, found := votes.VoteFile(objects[i])
		if !found {
			continue
		}

		if err := st.SaveVoteFile(objects[i], vf); err != nil {
			return err
		}
	}

	var removed []base.Hash
	if err := st.VoteFiles(func(parent base.Hash, _ *governance.VoteFile) (bool, error) {
		if _, found := known[parent]; !found {
			removed = append(removed, parent)
		}

		return true, nil
	}); err != nil {
		return err
	}

	for i := range removed {
		if err := st.RemoveVoteFile(removed[i]); err != nil {
			return err
		}
	}

	return nil
}
