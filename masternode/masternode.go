package masternode

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/base/key"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

// Masternode is the masternode in the list. The lock guards every member;
// read the consistent snapshot by GetInfo.
type Masternode struct {
	sync.RWMutex
	*logging.Logging
	env                        *Env
	info                       Info
	lastPing                   Ping
	sig                        key.Signature
	collateralMinConfBlockHash base.Hash
	lastPaidBlock              int32
	poseBanScore               int32
	poseBanHeight              int32
	mixingTxCount              int32
	unitTest                   bool
	governanceVotes            map[base.Hash]int32
}

func newMasternode(env *Env, info Info) *Masternode {
	return &Masternode{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "masternode").Str("outpoint", base.ShortOutpoint(info.Outpoint))
		}),
		env:             env,
		info:            info,
		lastPing:        NewEmptyPing(),
		governanceVotes: map[base.Hash]int32{},
	}
}

// NewMasternode makes masternode of the legacy list.
func NewMasternode(
	env *Env,
	addr base.Service,
	outpoint base.Outpoint,
	pubKeyCollateral, pubKeyMasternode key.LegacyPublickey,
	protocolVersion int32,
) *Masternode {
	return newMasternode(env, Info{
		ActiveState:         StateEnabled,
		ProtocolVersion:     protocolVersion,
		SigTime:             env.now(),
		Outpoint:            outpoint,
		Addr:                addr,
		PubKeyCollateral:    pubKeyCollateral,
		PubKeyMasternode:    pubKeyMasternode,
		KeyIDCollateral:     pubKeyCollateral.KeyID(),
		KeyIDOwner:          pubKeyMasternode.KeyID(),
		LegacyKeyIDOperator: pubKeyMasternode.KeyID(),
		KeyIDVoting:         pubKeyMasternode.KeyID(),
	})
}

// NewMasternodeFromBroadcast makes masternode from the checked broadcast.
func NewMasternodeFromBroadcast(env *Env, mnb Broadcast) *Masternode {
	mn := newMasternode(env, Info{
		ActiveState:         mnb.State,
		ProtocolVersion:     mnb.ProtocolVersion,
		SigTime:             mnb.SigTime,
		Outpoint:            mnb.Outpoint,
		Addr:                mnb.Addr,
		PubKeyCollateral:    mnb.PubKeyCollateral,
		PubKeyMasternode:    mnb.PubKeyMasternode,
		KeyIDCollateral:     mnb.PubKeyCollateral.KeyID(),
		KeyIDOwner:          mnb.PubKeyMasternode.KeyID(),
		LegacyKeyIDOperator: mnb.PubKeyMasternode.KeyID(),
		KeyIDVoting:         mnb.PubKeyMasternode.KeyID(),
	})

	mn.lastPing = mnb.LastPing
	mn.sig = mnb.Sig
	mn.collateralMinConfBlockHash = mnb.CollateralMinConfBlockHash

	return mn
}

// DeterministicEntry is the entry of the deterministic masternode list.
type DeterministicEntry struct {
	ProTxHash       base.Hash
	CollateralIndex uint32
	Addr            base.Service
	KeyIDOwner      base.KeyID
	OperatorKey     key.BLSPublickey
	KeyIDVoting     base.KeyID
}

// NewMasternodeFromDeterministic makes masternode from the deterministic list
// entry; it has no legacy keys.
func NewMasternodeFromDeterministic(env *Env, entry DeterministicEntry) *Masternode {
	return newMasternode(env, Info{
		ActiveState:       StateEnabled,
		ProtocolVersion:   env.Policy.ProtocolVersion,
		SigTime:           env.now(),
		Outpoint:          base.NewOutpoint(entry.ProTxHash, entry.CollateralIndex),
		Addr:              entry.Addr,
		KeyIDOwner:        entry.KeyIDOwner,
		BLSPubKeyOperator: entry.OperatorKey,
		KeyIDVoting:       entry.KeyIDVoting,
	})
}

// DecodeMasternode decodes the stored masternode.
func DecodeMasternode(b []byte, env *Env) (*Masternode, error) {
	mn := newMasternode(env, Info{})
	if err := binenc.Unmarshal(b, mn, binenc.ModeDisk); err != nil {
		return nil, errors.Wrap(err, "failed to decode masternode")
	}

	return mn, nil
}

func (mn *Masternode) Outpoint() base.Outpoint {
	mn.RLock()
	defer mn.RUnlock()

	return mn.info.Outpoint
}

func (mn *Masternode) GetInfo() Info {
	mn.RLock()
	defer mn.RUnlock()

	in := mn.info
	in.TimeLastPing = mn.lastPing.SigTime
	in.InfoValid = true

	return in
}

func (mn *Masternode) LastPing() Ping {
	mn.RLock()
	defer mn.RUnlock()

	return mn.lastPing
}

func (mn *Masternode) setLastPing(p Ping) {
	mn.Lock()
	defer mn.Unlock()

	mn.lastPing = p
}

func (mn *Masternode) Signature() key.Signature {
	mn.RLock()
	defer mn.RUnlock()

	return mn.sig
}

func (mn *Masternode) CollateralMinConfBlockHash() base.Hash {
	mn.RLock()
	defer mn.RUnlock()

	return mn.collateralMinConfBlockHash
}

// SetUnitTest skips the collateral lookup of Check.
func (mn *Masternode) SetUnitTest(b bool) {
	mn.Lock()
	defer mn.Unlock()

	mn.unitTest = b
}

// OperatorVerifier returns the operator key, which is the BLS key in the
// deterministic list and the legacy key id otherwise.
func (mn *Masternode) OperatorVerifier() key.HashVerifier {
	mn.RLock()
	defer mn.RUnlock()

	return mn.operatorVerifier()
}

func (mn *Masternode) operatorVerifier() key.HashVerifier {
	if mn.env.Policy.Deterministic {
		if mn.info.BLSPubKeyOperator.IsEmpty() {
			return nil
		}

		return mn.info.BLSPubKeyOperator
	}

	if mn.info.LegacyKeyIDOperator.IsEmpty() {
		return nil
	}

	return key.LegacyKeyIDVerifier(mn.info.LegacyKeyIDOperator)
}

func (mn *Masternode) VotingVerifier() key.HashVerifier {
	mn.RLock()
	defer mn.RUnlock()

	if mn.info.KeyIDVoting.IsEmpty() {
		return nil
	}

	return key.LegacyKeyIDVerifier(mn.info.KeyIDVoting)
}

// CalculateScore ranks the masternode for the block. The score depends only
// on the masternode and the block hash.
func (mn *Masternode) CalculateScore(blockHash base.Hash) *uint256.Int {
	mn.RLock()
	defer mn.RUnlock()

	hw := base.NewHashWriter()
	hw.OutPoint(mn.info.Outpoint)
	hw.Hash(mn.collateralMinConfBlockHash)
	hw.Hash(blockHash)

	return hashToUint256(hw.Sum())
}

// hashToUint256 reads the hash as little endian number like arith_uint256.
func hashToUint256(h base.Hash) *uint256.Int {
	var b [base.HashSize]byte
	for i := range h {
		b[base.HashSize-1-i] = h[i]
	}

	return new(uint256.Int).SetBytes(b[:])
}

// Check evaluates the state of masternode. Unless forced, it runs at most
// once in CheckSeconds. The rules are evaluated in order and the first
// matched rule decides the state.
//
// The governance objects the masternode voted on are flagged as dirty when
// it is banned by PoSe.
func (mn *Masternode) Check(force bool) {
	if banned := mn.check(force); banned {
		mn.FlagGovernanceItemsAsDirty()
	}
}

// check returns true when masternode is newly banned.
func (mn *Masternode) check(force bool) bool {
	mn.Lock()
	defer mn.Unlock()

	if mn.env.Policy.Deterministic {
		return false
	}

	now := mn.env.now()
	if !force && now-mn.info.TimeLastChecked < CheckSeconds {
		return false
	}

	mn.info.TimeLastChecked = now

	prev := mn.info.ActiveState

	if err := util.NewChecker("masternode-check", []util.CheckerFunc{
		mn.checkOutpointSpent,
		func() (bool, error) { return mn.checkPoSeBan(), nil },
		func() (bool, error) { return mn.checkBroadcastAge(now), nil },
		func() (bool, error) { return mn.checkPing(now), nil },
		func() (bool, error) { return mn.checkProtocolVersion(), nil },
		func() (bool, error) { return mn.checkPreEnabled(now), nil },
		func() (bool, error) {
			mn.info.ActiveState = StateEnabled

			return false, nil
		},
	}).Check(); err != nil {
		mn.Log().Error().Err(err).Msg("failed to check masternode")
	}

	if prev == mn.info.ActiveState {
		return false
	}

	mn.Log().Debug().Stringer("from", prev).Stringer("to", mn.info.ActiveState).Msg("state changed")

	return mn.info.ActiveState == StatePoSeBan
}

func (mn *Masternode) checkOutpointSpent() (bool, error) {
	if mn.info.ActiveState == StateOutpointSpent {
		return false, nil
	}

	if mn.unitTest {
		return true, nil
	}

	switch status, _ := CheckCollateral(mn.env.UTXO, mn.info.Outpoint, mn.info.KeyIDCollateral, mn.env.Policy.CollateralAmount); status {
	case CollateralUTXONotFound, CollateralInvalidAmount:
		mn.info.ActiveState = StateOutpointSpent

		mn.Log().Debug().Stringer("collateral", status).Msg("failed to find valid collateral")

		return false, nil
	default:
		return true, nil
	}
}

func (mn *Masternode) checkPoSeBan() bool {
	var height int32
	if !mn.unitTest {
		if tip, found := mn.env.tip(); found {
			height = tip.Height
		}
	}

	switch {
	case mn.info.ActiveState == StatePoSeBan:
		if height < mn.poseBanHeight {
			return false
		}

		// NOTE give the chance to be checked again; it will be banned again
		// easily with the next failed verification.
		mn.decreasePoSeBanScore()

		mn.Log().Debug().Int32("score", mn.poseBanScore).Msg("unbanned and back in list")

		return true
	case mn.poseBanScore >= PoSeBanMaxScore:
		mn.info.ActiveState = StatePoSeBan
		mn.poseBanHeight = height + int32(mn.env.listSize())

		mn.Log().Debug().Int32("until", mn.poseBanHeight).Msg("banned by PoSe")

		return false
	default:
		return true
	}
}

func (mn *Masternode) checkBroadcastAge(now int64) bool {
	age := now - mn.info.SigTime

	switch {
	case age > NewStartRequiredSeconds,
		mn.lastPing.IsEmpty() && age > MinMNPSeconds:
		mn.info.ActiveState = StateNewStartRequired

		return false
	default:
		return true
	}
}

func (mn *Masternode) checkPing(now int64) bool {
	if mn.lastPing.IsEmpty() {
		return true
	}

	age := now - mn.lastPing.SigTime

	switch {
	case age > ExpirationSeconds:
		mn.info.ActiveState = StateExpired

		return false
	case mn.env.Policy.SentinelPingRequired &&
		(!mn.lastPing.SentinelIsCurrent || age > SentinelPingMaxSeconds):
		mn.info.ActiveState = StateSentinelPingExpired

		return false
	default:
		return true
	}
}

func (mn *Masternode) checkProtocolVersion() bool {
	if mn.info.ProtocolVersion < mn.env.Policy.MinProtocolVersion {
		mn.info.ActiveState = StateUpdateRequired

		return false
	}

	return true
}

func (mn *Masternode) checkPreEnabled(now int64) bool {
	switch mn.env.Policy.Network {
	case NetworkRegtest, NetworkDevnet:
		return true
	}

	if now-mn.info.SigTime < MinMNBSeconds {
		mn.info.ActiveState = StatePreEnabled

		return false
	}

	return true
}

// UpdateFromNewBroadcast checks the broadcast and updates the masternode with
// it. The returned int is the misbehavior score of the peer.
func (mn *Masternode) UpdateFromNewBroadcast(mnb Broadcast) (int, error) {
	if dos, err := mn.checkNewBroadcast(mnb); err != nil {
		return dos, err
	}

	return mn.updateFromNewBroadcast(mnb)
}

func (mn *Masternode) checkNewBroadcast(mnb Broadcast) (int, error) {
	in := mn.GetInfo()

	switch {
	case mnb.Outpoint != in.Outpoint:
		return 0, InvalidBroadcastError.Errorf("different masternode, %s", base.ShortOutpoint(mnb.Outpoint))
	case !mnb.PubKeyCollateral.Equal(in.PubKeyCollateral):
		return 33, InvalidBroadcastError.Errorf("collateral public key does not match")
	case mnb.ProtocolVersion < mn.env.Policy.MinProtocolVersion:
		return 0, InvalidBroadcastError.Errorf("outdated protocol version; %d < %d",
			mnb.ProtocolVersion, mn.env.Policy.MinProtocolVersion)
	}

	if dos, err := mnb.CheckSignature(); err != nil {
		return dos, err
	}

	mn.RLock()
	unitTest := mn.unitTest
	mn.RUnlock()

	if unitTest {
		return 0, nil
	}

	switch status, _ := CheckCollateral(mn.env.UTXO, mnb.Outpoint, mnb.KeyIDCollateral(), mn.env.Policy.CollateralAmount); status {
	case CollateralOK:
		return 0, nil
	case CollateralUTXONotFound, CollateralInvalidAmount:
		return 0, InvalidCollateralError.Errorf("%s, %s", status, base.ShortOutpoint(mnb.Outpoint))
	default:
		return 33, InvalidCollateralError.Errorf("%s, %s", status, base.ShortOutpoint(mnb.Outpoint))
	}
}

func (mn *Masternode) updateFromNewBroadcast(mnb Broadcast) (int, error) {
	mn.Lock()

	if mnb.SigTime <= mn.info.SigTime && !mnb.Recovery {
		mn.Unlock()

		return 0, InvalidBroadcastError.Errorf("not newer broadcast; sig_time=%d current=%d", mnb.SigTime, mn.info.SigTime)
	}

	mn.info.PubKeyMasternode = mnb.PubKeyMasternode
	mn.info.KeyIDOwner = mnb.PubKeyMasternode.KeyID()
	mn.info.LegacyKeyIDOperator = mnb.PubKeyMasternode.KeyID()
	mn.info.KeyIDVoting = mnb.PubKeyMasternode.KeyID()
	mn.info.SigTime = mnb.SigTime
	mn.sig = mnb.Sig
	mn.info.ProtocolVersion = mnb.ProtocolVersion
	mn.info.Addr = mnb.Addr
	mn.poseBanScore = 0
	mn.poseBanHeight = 0
	mn.info.TimeLastChecked = 0

	mn.Unlock()

	if mnb.LastPing.IsEmpty() {
		mn.setLastPing(mnb.LastPing)
	} else if _, err := mnb.LastPing.CheckAndUpdate(mn, true, mn.env); err != nil {
		mn.Log().Debug().Err(err).Msg("ping of new broadcast rejected")
	}

	mn.Log().Debug().Int64("sig_time", mnb.SigTime).Stringer("addr", mnb.Addr).Msg("updated from new broadcast")

	return 0, nil
}

func (mn *Masternode) IncreasePoSeBanScore() {
	mn.Lock()
	defer mn.Unlock()

	if mn.poseBanScore < PoSeBanMaxScore {
		mn.poseBanScore++
	}
}

func (mn *Masternode) DecreasePoSeBanScore() {
	mn.Lock()
	defer mn.Unlock()

	mn.decreasePoSeBanScore()
}

func (mn *Masternode) decreasePoSeBanScore() {
	if mn.poseBanScore > -PoSeBanMaxScore {
		mn.poseBanScore--
	}
}

// PoSeBan bans the masternode at once; the state is changed by the next
// Check.
func (mn *Masternode) PoSeBan() {
	mn.Lock()
	defer mn.Unlock()

	mn.poseBanScore = PoSeBanMaxScore
}

func (mn *Masternode) PoSeBanScore() int32 {
	mn.RLock()
	defer mn.RUnlock()

	return mn.poseBanScore
}

func (mn *Masternode) PoSeBanHeight() int32 {
	mn.RLock()
	defer mn.RUnlock()

	return mn.poseBanHeight
}

// IsPoSeVerified is true only after the score reaches the lowest bound. It
// depends on the score, not on the state.
func (mn *Masternode) IsPoSeVerified() bool {
	mn.RLock()
	defer mn.RUnlock()

	return mn.poseBanScore <= -PoSeBanMaxScore
}

func (mn *Masternode) State() ActiveState {
	mn.RLock()
	defer mn.RUnlock()

	return mn.info.ActiveState
}

func (mn *Masternode) StateString() string {
	return mn.State().String()
}

func (mn *Masternode) Status() string {
	return mn.StateString()
}

func (mn *Masternode) IsEnabled() bool {
	return mn.State() == StateEnabled
}

func (mn *Masternode) IsPreEnabled() bool {
	return mn.State() == StatePreEnabled
}

func (mn *Masternode) IsPoSeBanned() bool {
	return mn.State() == StatePoSeBan
}

func (mn *Masternode) IsExpired() bool {
	return mn.State() == StateExpired
}

func (mn *Masternode) IsOutpointSpent() bool {
	return mn.State() == StateOutpointSpent
}

func (mn *Masternode) IsUpdateRequired() bool {
	return mn.State() == StateUpdateRequired
}

func (mn *Masternode) IsSentinelPingExpired() bool {
	return mn.State() == StateSentinelPingExpired
}

func (mn *Masternode) IsNewStartRequired() bool {
	return mn.State() == StateNewStartRequired
}

func (mn *Masternode) IsValidForPayment() bool {
	switch mn.State() {
	case StateEnabled:
		return true
	case StateSentinelPingExpired:
		return !mn.env.Policy.SentinelPingRequired
	default:
		return false
	}
}

func (mn *Masternode) IsBroadcastedWithin(seconds int64) bool {
	mn.RLock()
	defer mn.RUnlock()

	return mn.env.now()-mn.info.SigTime < seconds
}

func (mn *Masternode) IsPingedWithin(seconds int64) bool {
	return mn.IsPingedWithinAt(seconds, mn.env.now())
}

// IsPingedWithinAt checks the last ping at the given time instead of now.
func (mn *Masternode) IsPingedWithinAt(seconds, at int64) bool {
	mn.RLock()
	defer mn.RUnlock()

	if mn.lastPing.IsEmpty() {
		return false
	}

	return at-mn.lastPing.SigTime < seconds
}

func (mn *Masternode) IsValidNetAddr() bool {
	mn.RLock()
	defer mn.RUnlock()

	return IsValidNetAddr(mn.env, mn.info.Addr)
}

// IsValidNetAddr accepts only routable IPv4 address; regtest accepts any.
func IsValidNetAddr(env *Env, addr base.Service) bool {
	return env.isRegtest() || (addr.IsIPv4() && addr.IsRoutable())
}

func (mn *Masternode) IsValidForMixingTxes() bool {
	mn.RLock()
	defer mn.RUnlock()

	return mn.mixingTxCount <= MaxMixingTxes
}

// AllowMixing is called when the masternode sends new dsq.
func (mn *Masternode) AllowMixing(dsq int64) {
	mn.Lock()
	defer mn.Unlock()

	mn.info.LastDsq = dsq
	mn.mixingTxCount = 0
}

func (mn *Masternode) DisallowMixing() {
	mn.Lock()
	defer mn.Unlock()

	mn.mixingTxCount++
}

func (mn *Masternode) LastPaidBlock() int32 {
	mn.RLock()
	defer mn.RUnlock()

	return mn.lastPaidBlock
}

func (mn *Masternode) LastPaidTime() int64 {
	mn.RLock()
	defer mn.RUnlock()

	return mn.info.TimeLastPaid
}

// UpdateLastPaid looks for the last payment to the masternode from the given
// block back to at most maxBlocks blocks.
func (mn *Masternode) UpdateLastPaid(from Block, maxBlocks int) {
	mn.Lock()
	defer mn.Unlock()

	if mn.env.Payments == nil {
		return
	}

	payee := mn.info.KeyIDCollateral
	height := from.Height

	for i := 0; height > mn.lastPaidBlock && i < maxBlocks; i++ {
		b, found := mn.env.blockByHeight(height)
		if !found {
			break
		}

		if mn.env.Payments.IsPaid(payee, height) {
			mn.lastPaidBlock = height
			mn.info.TimeLastPaid = b.Time

			mn.Log().Trace().Int32("height", height).Msg("last paid found")

			return
		}

		if height < 1 {
			break
		}

		height--
	}
}

// AddGovernanceVote counts the vote of the masternode on the governance
// object.
func (mn *Masternode) AddGovernanceVote(h base.Hash) {
	mn.Lock()
	defer mn.Unlock()

	mn.governanceVotes[h]++
}

func (mn *Masternode) RemoveGovernanceObject(h base.Hash) {
	mn.Lock()
	defer mn.Unlock()

	delete(mn.governanceVotes, h)
}

func (mn *Masternode) GovernanceVotes() map[base.Hash]int32 {
	mn.RLock()
	defer mn.RUnlock()

	m := make(map[base.Hash]int32, len(mn.governanceVotes))
	for h := range mn.governanceVotes {
		m[h] = mn.governanceVotes[h]
	}

	return m
}

// FlagGovernanceItemsAsDirty lets the governance validate again every
// object the masternode voted on.
func (mn *Masternode) FlagGovernanceItemsAsDirty() {
	mn.RLock()

	hs := make([]base.Hash, 0, len(mn.governanceVotes))
	for h := range mn.governanceVotes {
		hs = append(hs, h)
	}

	mn.RUnlock()

	if mn.env.Governance == nil {
		return
	}

	for i := range hs {
		mn.env.Governance.AddDirtyGovernanceObjectHash(hs[i])
	}
}

func (mn *Masternode) EncodeBinary(w *binenc.Writer) {
	mn.RLock()
	defer mn.RUnlock()

	w.OutPoint(mn.info.Outpoint)
	w.Encode(mn.info.Addr)
	w.VarBytes(mn.info.PubKeyCollateral.Bytes())
	w.VarBytes(mn.info.PubKeyMasternode.Bytes())
	w.Encode(mn.info.KeyIDCollateral)
	w.Encode(mn.info.KeyIDOwner)
	w.Encode(mn.info.LegacyKeyIDOperator)
	w.Write(mn.info.BLSPubKeyOperator.Bytes())
	w.Encode(mn.info.KeyIDVoting)
	w.Encode(mn.lastPing)
	w.VarBytes(mn.sig)
	w.Int64(mn.info.SigTime)
	w.Int64(mn.info.LastDsq)
	w.Int64(mn.info.TimeLastChecked)
	w.Int64(mn.info.TimeLastPaid)
	w.Int32(int32(mn.info.ActiveState))
	w.Hash(mn.collateralMinConfBlockHash)
	w.Int32(mn.lastPaidBlock)
	w.Int32(mn.info.ProtocolVersion)
	w.Int32(mn.poseBanScore)
	w.Int32(mn.poseBanHeight)
	w.Int32(mn.mixingTxCount)
	w.Bool(mn.unitTest)
	w.HashIntMap(mn.governanceVotes)
}

func (mn *Masternode) DecodeBinary(r *binenc.Reader) {
	mn.Lock()
	defer mn.Unlock()

	mn.info.Outpoint = r.OutPoint()
	r.Decode(&mn.info.Addr)
	mn.info.PubKeyCollateral = decodeLegacyPublickey(r, "collateral public key")
	mn.info.PubKeyMasternode = decodeLegacyPublickey(r, "masternode public key")
	r.Decode(&mn.info.KeyIDCollateral)
	r.Decode(&mn.info.KeyIDOwner)
	r.Decode(&mn.info.LegacyKeyIDOperator)
	mn.info.BLSPubKeyOperator = decodeBLSPublickey(r)
	r.Decode(&mn.info.KeyIDVoting)
	r.Decode(&mn.lastPing)
	mn.sig = r.VarBytes("masternode signature")
	mn.info.SigTime = r.Int64()
	mn.info.LastDsq = r.Int64()
	mn.info.TimeLastChecked = r.Int64()
	mn.info.TimeLastPaid = r.Int64()
	mn.info.ActiveState = ActiveState(r.Int32())
	mn.collateralMinConfBlockHash = r.Hash()
	mn.lastPaidBlock = r.Int32()
	mn.info.ProtocolVersion = r.Int32()
	mn.poseBanScore = r.Int32()
	mn.poseBanHeight = r.Int32()
	mn.mixingTxCount = r.Int32()
	mn.unitTest = r.Bool()

	if m := r.HashIntMap(); m != nil {
		mn.governanceVotes = m
	}
}

func decodeLegacyPublickey(r *binenc.Reader, name string) key.LegacyPublickey {
	b := r.VarBytes(name)
	if r.Err() != nil {
		return key.LegacyPublickey{}
	}

	k, err := key.ParseLegacyPublickey(b)
	if err != nil {
		r.SetErr(errors.WithMessagef(err, "failed to decode %s", name))
	}

	return k
}

func decodeBLSPublickey(r *binenc.Reader) key.BLSPublickey {
	b := make([]byte, key.BLSPublickeySize)
	r.Read(b)

	if r.Err() != nil {
		return key.BLSPublickey{}
	}

	k, err := key.ParseBLSPublickey(b)
	if err != nil {
		r.SetErr(errors.WithMessage(err, "failed to decode bls operator key"))
	}

	return k
}
