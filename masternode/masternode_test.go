package masternode

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/base/key"
	"github.com/MNPJason/MNPCoin-PolisCore/governance"
	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
)

type testMasternode struct {
	suite.Suite
	env  testEnv
	keys testKeys
	addr base.Service
}

func (t *testMasternode) SetupTest() {
	t.env = newTestEnv()
	t.keys = newTestKeys("showme")

	addr, err := base.ParseService("8.8.8.8:24126")
	t.NoError(err)
	t.addr = addr

	t.env.fund(t.keys, 10)
}

func (t *testMasternode) newMasternode() *Masternode {
	return NewMasternode(
		t.env.Env,
		t.addr,
		t.keys.outpoint,
		t.keys.collateral.LegacyPublickey(),
		t.keys.masternode.LegacyPublickey(),
		t.env.Policy.ProtocolVersion,
	)
}

// newAgedMasternode makes masternode broadcasted broadcastAge seconds ago;
// with negative pingAge it has no ping.
func (t *testMasternode) newAgedMasternode(broadcastAge, pingAge int64) *Masternode {
	mn := t.newMasternode()

	now := t.env.clock.now()
	mn.info.SigTime = now - broadcastAge

	if pingAge >= 0 {
		tip, _ := t.env.chain.Tip()

		p := NewEmptyPing()
		p.Outpoint = t.keys.outpoint
		p.BlockHash = tip.Hash
		p.SigTime = now - pingAge
		p.SentinelIsCurrent = true

		mn.setLastPing(p)
	}

	return mn
}

func (t *testMasternode) TestNew() {
	mn := t.newMasternode()

	in := mn.GetInfo()
	t.Equal(StateEnabled, in.ActiveState)
	t.Equal(t.env.clock.now(), in.SigTime)
	t.Equal(t.keys.outpoint, in.Outpoint)
	t.Equal(t.keys.collateral.LegacyPublickey().KeyID(), in.KeyIDCollateral)
	t.Equal(t.keys.masternode.LegacyPublickey().KeyID(), in.LegacyKeyIDOperator)
	t.Equal(t.keys.masternode.LegacyPublickey().KeyID(), in.KeyIDVoting)
	t.True(in.InfoValid)
	t.True(mn.LastPing().IsEmpty())
	t.True(mn.IsValidNetAddr())
	t.True(mn.IsValidForMixingTxes())
}

func (t *testMasternode) TestCheckEnabled() {
	mn := t.newAgedMasternode(1000, 30)

	mn.Check(true)
	t.Equal(StateEnabled, mn.State())
	t.True(mn.IsEnabled())
	t.True(mn.IsValidForPayment())
}

func (t *testMasternode) TestCheckNewStartRequiredByOldBroadcast() {
	mn := t.newAgedMasternode(200*60, 30)

	mn.Check(true)
	t.Equal(StateNewStartRequired, mn.State())
	t.False(mn.IsValidForPayment())
}

func (t *testMasternode) TestCheckNewStartRequiredWithoutPing() {
	mn := t.newAgedMasternode(MinMNPSeconds+1, -1)

	mn.Check(true)
	t.Equal(StateNewStartRequired, mn.State())
}

func (t *testMasternode) TestCheckPreEnabled() {
	mn := t.newAgedMasternode(60, 30)

	mn.Check(true)
	t.Equal(StatePreEnabled, mn.State())

	t.Run("no pre-enabled on regtest", func() {
		t.env.Policy.Network = NetworkRegtest

		mn.Check(true)
		t.Equal(StateEnabled, mn.State())
	})
}

func (t *testMasternode) TestCheckExpired() {
	mn := t.newAgedMasternode(9000, ExpirationSeconds+1)

	mn.Check(true)
	t.Equal(StateExpired, mn.State())
	t.True(mn.IsExpired())
}

func (t *testMasternode) TestCheckSentinelPingExpired() {
	mn := t.newAgedMasternode(1000, 30)

	p := mn.LastPing()
	p.SentinelIsCurrent = false
	mn.setLastPing(p)

	mn.Check(true)
	t.Equal(StateSentinelPingExpired, mn.State())
	t.False(mn.IsValidForPayment())

	t.Run("too old sentinel ping", func() {
		p.SentinelIsCurrent = true
		p.SigTime = t.env.clock.now() - SentinelPingMaxSeconds - 1
		mn.setLastPing(p)

		mn.Check(true)
		t.Equal(StateSentinelPingExpired, mn.State())
	})

	t.Run("sentinel ping not required", func() {
		t.env.Policy.SentinelPingRequired = false

		mn.Check(true)
		t.Equal(StateEnabled, mn.State())
	})
}

func (t *testMasternode) TestCheckUpdateRequired() {
	mn := t.newAgedMasternode(1000, 30)
	mn.info.ProtocolVersion = t.env.Policy.MinProtocolVersion - 1

	mn.Check(true)
	t.Equal(StateUpdateRequired, mn.State())
	t.True(mn.IsUpdateRequired())
}

func (t *testMasternode) TestCheckOutpointSpentIsSticky() {
	mn := t.newAgedMasternode(1000, 30)

	t.env.utxo.spend(t.keys.outpoint)

	mn.Check(true)
	t.Equal(StateOutpointSpent, mn.State())

	t.env.fund(t.keys, 10)

	mn.Check(true)
	t.Equal(StateOutpointSpent, mn.State())
	t.True(mn.IsOutpointSpent())
}

func (t *testMasternode) TestCheckInvalidCollateralAmount() {
	mn := t.newAgedMasternode(1000, 30)

	t.env.utxo.set(t.keys.outpoint, Coin{
		Amount: t.env.Policy.CollateralAmount - 1,
		KeyID:  t.keys.collateral.LegacyPublickey().KeyID(),
		Height: 10,
	})

	mn.Check(true)
	t.Equal(StateOutpointSpent, mn.State())
}

func (t *testMasternode) TestCheckUnitTestSkipsCollateral() {
	mn := t.newAgedMasternode(1000, 30)
	mn.SetUnitTest(true)

	t.env.utxo.spend(t.keys.outpoint)

	mn.Check(true)
	t.Equal(StateEnabled, mn.State())
}

func (t *testMasternode) TestCheckThrottled() {
	mn := t.newAgedMasternode(1000, 30)

	mn.Check(false)
	t.Equal(StateEnabled, mn.State())

	t.env.utxo.spend(t.keys.outpoint)

	t.env.clock.add(CheckSeconds - 1)
	mn.Check(false)
	t.Equal(StateEnabled, mn.State())

	t.env.clock.add(1)
	mn.Check(false)
	t.Equal(StateOutpointSpent, mn.State())
}

func (t *testMasternode) TestCheckDeterministic() {
	t.env.Policy.Deterministic = true

	mn := t.newAgedMasternode(200*60, -1)

	mn.Check(true)
	t.Equal(StateEnabled, mn.State())
}

func (t *testMasternode) TestPoSeScoreBounds() {
	mn := t.newMasternode()

	for i := 0; i < 10; i++ {
		mn.IncreasePoSeBanScore()
	}

	t.Equal(PoSeBanMaxScore, mn.PoSeBanScore())

	for i := 0; i < 20; i++ {
		mn.DecreasePoSeBanScore()
	}

	t.Equal(-PoSeBanMaxScore, mn.PoSeBanScore())
	t.True(mn.IsPoSeVerified())

	mn.IncreasePoSeBanScore()
	t.False(mn.IsPoSeVerified())

	mn.PoSeBan()
	t.Equal(PoSeBanMaxScore, mn.PoSeBanScore())
}

func (t *testMasternode) TestPoSeBanAndUnban() {
	t.env.ListSize = func() int { return 3 }

	mn := t.newAgedMasternode(1000, 30)
	mn.PoSeBan()

	mn.Check(true)
	t.Equal(StatePoSeBan, mn.State())
	t.Equal(int32(99+3), mn.PoSeBanHeight())
	t.False(mn.IsValidForPayment())

	t.env.chain.extend(2)

	mn.Check(true)
	t.Equal(StatePoSeBan, mn.State())

	t.env.chain.extend(1)

	mn.Check(true)
	t.Equal(StateEnabled, mn.State())
	t.Equal(PoSeBanMaxScore-1, mn.PoSeBanScore())

	t.Run("banned again", func() {
		mn.IncreasePoSeBanScore()

		mn.Check(true)
		t.Equal(StatePoSeBan, mn.State())
		t.Equal(int32(102+3), mn.PoSeBanHeight())
	})
}

func (t *testMasternode) TestCalculateScore() {
	mn := t.newMasternode()
	mn.collateralMinConfBlockHash = chainhash.DoubleHashH([]byte("conf"))

	blockHash := chainhash.DoubleHashH([]byte("block"))

	a := mn.CalculateScore(blockHash)
	t.True(a.Eq(mn.CalculateScore(blockHash)))
	t.False(a.Eq(mn.CalculateScore(chainhash.DoubleHashH([]byte("another block")))))

	hw := base.NewHashWriter()
	hw.OutPoint(t.keys.outpoint)
	hw.Hash(mn.collateralMinConfBlockHash)
	hw.Hash(blockHash)
	h := hw.Sum()

	expected := new(uint256.Int)
	for i := base.HashSize - 1; i >= 0; i-- {
		expected.Lsh(expected, 8)
		expected.Or(expected, uint256.NewInt(uint64(h[i])))
	}

	t.True(expected.Eq(a))

	t.Run("ignores state", func() {
		mn.info.ActiveState = StatePoSeBan
		t.True(a.Eq(mn.CalculateScore(blockHash)))
	})
}

func (t *testMasternode) TestUpdateFromNewBroadcast() {
	mn := t.newAgedMasternode(1000, 30)
	mn.IncreasePoSeBanScore()

	newKey, err := key.NewLegacyPrivatekey()
	t.NoError(err)

	mnb := NewBroadcastFromMasternode(mn)
	mnb.PubKeyMasternode = newKey.LegacyPublickey()
	mnb.LastPing = NewEmptyPing()
	t.NoError(mnb.Sign(t.keys.collateral, t.env.clock.now()))

	dos, err := mn.UpdateFromNewBroadcast(mnb)
	t.NoError(err)
	t.Equal(0, dos)

	in := mn.GetInfo()
	t.Equal(newKey.LegacyPublickey().KeyID(), in.LegacyKeyIDOperator)
	t.Equal(mnb.SigTime, in.SigTime)
	t.Equal(int64(0), in.TimeLastChecked)
	t.Equal(int32(0), mn.PoSeBanScore())
	t.True(mn.LastPing().IsEmpty())
	t.True(mn.Signature().Equal(mnb.Sig))

	t.Run("not newer", func() {
		_, err := mn.UpdateFromNewBroadcast(mnb)
		t.True(errors.Is(err, InvalidBroadcastError))
	})

	t.Run("recovery", func() {
		mnb.Recovery = true

		_, err := mn.UpdateFromNewBroadcast(mnb)
		t.NoError(err)
	})

	t.Run("different collateral key", func() {
		other, err := key.NewLegacyPrivatekey()
		t.NoError(err)

		b := mnb
		b.PubKeyCollateral = other.LegacyPublickey()
		t.NoError(b.Sign(other, t.env.clock.now()+1))

		dos, err := mn.UpdateFromNewBroadcast(b)
		t.True(errors.Is(err, InvalidBroadcastError))
		t.Equal(33, dos)
	})

	t.Run("wrong signature", func() {
		b := mnb
		b.SigTime++

		dos, err := mn.UpdateFromNewBroadcast(b)
		t.True(errors.Is(err, InvalidBroadcastError))
		t.Equal(100, dos)
	})

	newer := func(sigTime int64) Broadcast {
		b := mnb
		t.NoError(b.Sign(t.keys.collateral, sigTime))

		return b
	}

	t.Run("outdated protocol version", func() {
		b := mnb
		b.ProtocolVersion = t.env.Policy.MinProtocolVersion - 100
		t.NoError(b.Sign(t.keys.collateral, t.env.clock.now()+2))

		dos, err := mn.UpdateFromNewBroadcast(b)
		t.True(errors.Is(err, InvalidBroadcastError))
		t.Contains(err.Error(), "outdated protocol version")
		t.Equal(0, dos)
		t.Equal(mnb.ProtocolVersion, mn.GetInfo().ProtocolVersion)
	})

	t.Run("invalid collateral amount", func() {
		t.env.utxo.set(t.keys.outpoint, Coin{
			Amount: t.env.Policy.CollateralAmount - 1,
			KeyID:  t.keys.collateral.LegacyPublickey().KeyID(),
			Height: 10,
		})
		defer t.env.fund(t.keys, 10)

		dos, err := mn.UpdateFromNewBroadcast(newer(t.env.clock.now() + 3))
		t.True(errors.Is(err, InvalidCollateralError))
		t.Equal(0, dos)
	})

	t.Run("collateral of other key", func() {
		other, err := key.NewLegacyPrivatekey()
		t.NoError(err)

		t.env.utxo.set(t.keys.outpoint, Coin{
			Amount: t.env.Policy.CollateralAmount,
			KeyID:  other.LegacyPublickey().KeyID(),
			Height: 10,
		})
		defer t.env.fund(t.keys, 10)

		dos, err := mn.UpdateFromNewBroadcast(newer(t.env.clock.now() + 4))
		t.True(errors.Is(err, InvalidCollateralError))
		t.Equal(33, dos)
	})

	t.Run("spent collateral", func() {
		t.env.utxo.spend(t.keys.outpoint)
		defer t.env.fund(t.keys, 10)

		sigTime := mn.GetInfo().SigTime

		dos, err := mn.UpdateFromNewBroadcast(newer(t.env.clock.now() + 5))
		t.True(errors.Is(err, InvalidCollateralError))
		t.Equal(0, dos)
		t.Equal(sigTime, mn.GetInfo().SigTime)
	})

	t.Run("collateral ok", func() {
		b := newer(t.env.clock.now() + 6)

		_, err := mn.UpdateFromNewBroadcast(b)
		t.NoError(err)
		t.Equal(b.SigTime, mn.GetInfo().SigTime)
	})
}

func (t *testMasternode) TestUpdateLastPaid() {
	payments := dummyPayments{
		80: t.keys.collateral.LegacyPublickey().KeyID(),
		95: t.keys.collateral.LegacyPublickey().KeyID(),
	}
	t.env.Payments = payments

	mn := t.newMasternode()

	tip, _ := t.env.chain.Tip()
	mn.UpdateLastPaid(tip, 2)
	t.Equal(int32(0), mn.LastPaidBlock())

	mn.UpdateLastPaid(tip, 10)
	t.Equal(int32(95), mn.LastPaidBlock())

	b, _ := t.env.chain.BlockByHeight(95)
	t.Equal(b.Time, mn.LastPaidTime())

	t.Run("not before last paid", func() {
		from, _ := t.env.chain.BlockByHeight(90)
		mn.UpdateLastPaid(from, 20)
		t.Equal(int32(95), mn.LastPaidBlock())
	})
}

func (t *testMasternode) TestMixing() {
	mn := t.newMasternode()

	for i := int32(0); i <= MaxMixingTxes; i++ {
		t.True(mn.IsValidForMixingTxes())
		mn.DisallowMixing()
	}

	t.False(mn.IsValidForMixingTxes())

	mn.AllowMixing(33)
	t.True(mn.IsValidForMixingTxes())
	t.Equal(int64(33), mn.GetInfo().LastDsq)
}

func (t *testMasternode) TestGovernanceVotes() {
	votes := governance.NewVotes()
	t.env.Governance = votes

	mn := t.newMasternode()

	a := chainhash.DoubleHashH([]byte("a"))
	b := chainhash.DoubleHashH([]byte("b"))

	mn.AddGovernanceVote(a)
	mn.AddGovernanceVote(a)
	mn.AddGovernanceVote(b)

	t.Equal(map[base.Hash]int32{a: 2, b: 1}, mn.GovernanceVotes())

	mn.FlagGovernanceItemsAsDirty()

	dirty := votes.DirtyHashes()
	t.Equal(2, len(dirty))
	t.Contains(dirty, a)
	t.Contains(dirty, b)

	mn.RemoveGovernanceObject(a)
	t.Equal(map[base.Hash]int32{b: 1}, mn.GovernanceVotes())
}

func (t *testMasternode) TestPoSeBanFlagsGovernance() {
	votes := governance.NewVotes()
	t.env.Governance = votes

	mn := t.newMasternode()

	obj := chainhash.DoubleHashH([]byte("proposal"))
	mn.AddGovernanceVote(obj)

	mn.Check(true)
	t.False(mn.IsPoSeBanned())
	t.Empty(votes.DirtyHashes())

	mn.PoSeBan()
	mn.Check(true)
	t.Equal(StatePoSeBan, mn.State())
	t.Equal([]base.Hash{obj}, votes.DirtyHashes())

	t.Run("still banned", func() {
		mn.Check(true)
		t.Equal(StatePoSeBan, mn.State())
		t.Empty(votes.DirtyHashes())
	})
}

func (t *testMasternode) TestOperatorVerifier() {
	mn := t.newMasternode()

	h := chainhash.DoubleHashH([]byte("showme"))

	sig, err := t.keys.masternode.SignHash(h)
	t.NoError(err)
	t.NoError(mn.OperatorVerifier().VerifyHash(h, sig))
	t.NoError(mn.VotingVerifier().VerifyHash(h, sig))

	sig, err = t.keys.collateral.SignHash(h)
	t.NoError(err)
	t.Error(mn.OperatorVerifier().VerifyHash(h, sig))
}

func (t *testMasternode) TestDeterministic() {
	t.env.Policy.Deterministic = true

	operator, err := key.NewBLSPrivatekey()
	t.NoError(err)

	mn := NewMasternodeFromDeterministic(t.env.Env, DeterministicEntry{
		ProTxHash:       chainhash.DoubleHashH([]byte("protx")),
		CollateralIndex: 2,
		Addr:            t.addr,
		KeyIDOwner:      t.keys.collateral.LegacyPublickey().KeyID(),
		OperatorKey:     operator.BLSPublickey(),
		KeyIDVoting:     t.keys.masternode.LegacyPublickey().KeyID(),
	})

	in := mn.GetInfo()
	t.Equal(StateEnabled, in.ActiveState)
	t.Equal(uint32(2), in.Outpoint.Index)
	t.True(in.PubKeyCollateral.IsEmpty())
	t.True(in.LegacyKeyIDOperator.IsEmpty())

	h := chainhash.DoubleHashH([]byte("showme"))

	sig, err := operator.SignHash(h)
	t.NoError(err)
	t.NoError(mn.OperatorVerifier().VerifyHash(h, sig))
}

func (t *testMasternode) TestEncode() {
	mn := t.newAgedMasternode(1000, 30)
	mn.collateralMinConfBlockHash = chainhash.DoubleHashH([]byte("conf"))
	mn.lastPaidBlock = 33
	mn.info.TimeLastPaid = 44
	mn.info.LastDsq = 55
	mn.IncreasePoSeBanScore()
	mn.DisallowMixing()
	mn.AddGovernanceVote(chainhash.DoubleHashH([]byte("a")))
	mn.Check(true)

	b, err := binenc.Marshal(mn, binenc.ModeDisk)
	t.NoError(err)

	umn, err := DecodeMasternode(b, t.env.Env)
	t.NoError(err)

	t.Equal(mn.GetInfo().String(), umn.GetInfo().String())
	t.True(mn.LastPing().Equal(umn.LastPing()))
	t.Equal(mn.LastPing().SigTime, umn.LastPing().SigTime)
	t.Equal(mn.CollateralMinConfBlockHash(), umn.CollateralMinConfBlockHash())
	t.Equal(mn.LastPaidBlock(), umn.LastPaidBlock())
	t.Equal(mn.PoSeBanScore(), umn.PoSeBanScore())
	t.Equal(mn.mixingTxCount, umn.mixingTxCount)
	t.Equal(mn.GovernanceVotes(), umn.GovernanceVotes())

	t.Run("broken", func() {
		_, err := DecodeMasternode(b[:len(b)-3], t.env.Env)
		t.Error(err)
	})
}

func (t *testMasternode) TestInfoJSON() {
	mn := t.newMasternode()

	s := mn.GetInfo().String()
	t.Contains(s, `"active_state": "ENABLED"`)
	t.Contains(s, base.ShortOutpoint(t.keys.outpoint))
	t.NotContains(s, "bls_pubkey_operator")
}

func (t *testMasternode) TestStates() {
	t.Equal("PRE_ENABLED", StatePreEnabled.String())
	t.Equal("POSE_BAN", StatePoSeBan.String())
	t.Equal("UNKNOWN", ActiveState(99).String())

	t.True(StateExpired.IsValidStateForAutoStart())
	t.False(StateOutpointSpent.IsValidStateForAutoStart())
	t.False(StateNewStartRequired.IsValidStateForAutoStart())
}

func TestMasternode(t *testing.T) {
	suite.Run(t, new(testMasternode))
}
