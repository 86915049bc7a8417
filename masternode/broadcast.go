package masternode

import (
	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/base/key"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
)

// Broadcast announces masternode to the network. State and
// CollateralMinConfBlockHash are not sent; they are set while the broadcast
// is checked.
type Broadcast struct {
	Outpoint                   base.Outpoint
	Addr                       base.Service
	PubKeyCollateral           key.LegacyPublickey
	PubKeyMasternode           key.LegacyPublickey
	Sig                        key.Signature
	SigTime                    int64
	ProtocolVersion            int32
	LastPing                   Ping
	Recovery                   bool
	State                      ActiveState
	CollateralMinConfBlockHash base.Hash
}

func NewBroadcastFromMasternode(mn *Masternode) Broadcast {
	in := mn.GetInfo()

	mn.RLock()
	defer mn.RUnlock()

	return Broadcast{
		Outpoint:                   in.Outpoint,
		Addr:                       in.Addr,
		PubKeyCollateral:           in.PubKeyCollateral,
		PubKeyMasternode:           in.PubKeyMasternode,
		Sig:                        mn.sig,
		SigTime:                    in.SigTime,
		ProtocolVersion:            in.ProtocolVersion,
		LastPing:                   mn.lastPing,
		State:                      in.ActiveState,
		CollateralMinConfBlockHash: mn.collateralMinConfBlockHash,
	}
}

// CreateBroadcast makes the signed broadcast of the masternode with the
// signed ping. It should be relayed by the caller.
func CreateBroadcast(
	env *Env,
	outpoint base.Outpoint,
	addr base.Service,
	collateral, masternode key.LegacyPrivatekey,
) (Broadcast, error) {
	p, err := NewPing(outpoint, env)
	if err != nil {
		return Broadcast{}, InvalidBroadcastError.Wrap(err)
	}

	if err := p.Sign(masternode, env.now()); err != nil {
		return Broadcast{}, InvalidBroadcastError.Wrap(err)
	}

	mnb := Broadcast{
		Outpoint:         outpoint,
		Addr:             addr,
		PubKeyCollateral: collateral.LegacyPublickey(),
		PubKeyMasternode: masternode.LegacyPublickey(),
		ProtocolVersion:  env.Policy.ProtocolVersion,
		LastPing:         p,
	}

	if !IsValidNetAddr(env, addr) {
		return Broadcast{}, InvalidBroadcastError.Errorf("invalid ip address, %s", addr)
	}

	if err := mnb.Sign(collateral, env.now()); err != nil {
		return Broadcast{}, err
	}

	return mnb, nil
}

func (mnb Broadcast) KeyIDCollateral() base.KeyID {
	return mnb.PubKeyCollateral.KeyID()
}

func (mnb Broadcast) KeyIDMasternode() base.KeyID {
	return mnb.PubKeyMasternode.KeyID()
}

// Hash identifies the broadcast. It does not match the serialized form.
func (mnb Broadcast) Hash() base.Hash {
	hw := base.NewHashWriter()
	hw.LegacyOutpoint(mnb.Outpoint)
	hw.VarBytes(mnb.PubKeyCollateral.Bytes())
	hw.Int64(mnb.SigTime)

	return hw.Sum()
}

func (mnb Broadcast) SignatureHash() base.Hash {
	return base.SerializeHash(mnb)
}

// Sign signs the broadcast by the collateral key.
func (mnb *Broadcast) Sign(collateral key.LegacyPrivatekey, now int64) error {
	mnb.SigTime = now

	sig, err := collateral.SignHash(mnb.SignatureHash())
	if err != nil {
		return InvalidBroadcastError.Wrap(err)
	}

	mnb.Sig = sig

	if _, err := mnb.CheckSignature(); err != nil {
		return err
	}

	return nil
}

func (mnb Broadcast) CheckSignature() (int, error) {
	if err := key.VerifyHashWithKeyID(mnb.SignatureHash(), mnb.KeyIDCollateral(), mnb.Sig); err != nil {
		return 100, InvalidBroadcastError.Wrap(err)
	}

	return 0, nil
}

// SimpleCheck checks the broadcast without the masternode list. The broadcast
// without valid ping is marked as EXPIRED and the one with old protocol as
// UPDATE_REQUIRED; both are still accepted.
func (mnb *Broadcast) SimpleCheck(env *Env) (int, error) {
	if !IsValidNetAddr(env, mnb.Addr) {
		return 0, InvalidBroadcastError.Errorf("invalid addr, %s", mnb.Addr)
	}

	if now := env.now(); mnb.SigTime > now+MaxFutureSeconds {
		return 1, InvalidBroadcastError.Errorf("signature rejected, too far into the future; sig_time=%d now=%d", mnb.SigTime, now)
	}

	if mnb.LastPing.IsEmpty() {
		mnb.State = StateExpired
	} else if _, err := mnb.LastPing.SimpleCheck(env); err != nil {
		mnb.State = StateExpired
	}

	if mnb.ProtocolVersion < env.Policy.MinProtocolVersion {
		mnb.State = StateUpdateRequired
	}

	if err := mnb.PubKeyCollateral.IsValid(); err != nil {
		return 100, InvalidBroadcastError.Wrap(err)
	}

	if err := mnb.PubKeyMasternode.IsValid(); err != nil {
		return 100, InvalidBroadcastError.Wrap(err)
	}

	port := env.Policy.MainnetDefaultPort
	if env.isMainnet() {
		if mnb.Addr.Port != port {
			return 0, InvalidBroadcastError.Errorf("invalid port %d, only %d is supported on mainnet", mnb.Addr.Port, port)
		}
	} else if mnb.Addr.Port == port {
		return 0, InvalidBroadcastError.Errorf("invalid port %d, %d is only supported on mainnet", mnb.Addr.Port, port)
	}

	return 0, nil
}

// Update updates the known masternode with the broadcast. The broadcast
// received within MinMNBSeconds from the last one is checked, but does not
// update the masternode.
func (mnb Broadcast) Update(mn *Masternode, env *Env) (int, error) {
	current := mn.GetInfo()

	switch {
	case current.SigTime == mnb.SigTime && !mnb.Recovery:
		return 0, util.DuplicatedError.Errorf("same broadcast, %s", base.ShortOutpoint(mnb.Outpoint))
	case current.SigTime > mnb.SigTime:
		return 0, InvalidBroadcastError.Errorf("older than known one; sig_time=%d current=%d", mnb.SigTime, current.SigTime)
	}

	mn.Check(false)

	if mn.IsPoSeBanned() {
		return 0, InvalidBroadcastError.Errorf("banned by PoSe")
	}

	if dos, err := mn.checkNewBroadcast(mnb); err != nil {
		return dos, err
	}

	if mn.IsBroadcastedWithin(MinMNBSeconds) {
		return 0, nil
	}

	if _, err := mn.updateFromNewBroadcast(mnb); err == nil {
		mn.Check(false)
		mnb.Relay(env)
	}

	return 0, nil
}

// CheckOutpoint checks the collateral of the new masternode. Collateral
// without enough confirmations is RetryLaterError.
func (mnb *Broadcast) CheckOutpoint(env *Env) (int, error) {
	status, height := CheckCollateral(env.UTXO, mnb.Outpoint, mnb.KeyIDCollateral(), env.Policy.CollateralAmount)

	switch status {
	case CollateralOK:
	case CollateralUTXONotFound:
		return 0, InvalidCollateralError.Errorf("failed to find masternode utxo, %s", base.ShortOutpoint(mnb.Outpoint))
	default:
		return 33, InvalidCollateralError.Errorf("%s, %s", status, base.ShortOutpoint(mnb.Outpoint))
	}

	tip, found := env.tip()
	if !found || tip.Height-height+1 < env.Policy.MinConfirmations {
		return 0, util.RetryLaterError.Wrap(
			InvalidCollateralError.Errorf("masternode utxo must have at least %d confirmations", env.Policy.MinConfirmations))
	}

	conf, found := env.blockByHeight(height + env.Policy.MinConfirmations - 1)
	if !found {
		return 0, util.RetryLaterError.Wrap(
			InvalidCollateralError.Errorf("block not found, %d", height+env.Policy.MinConfirmations-1))
	}

	if conf.Time > mnb.SigTime {
		return 0, InvalidBroadcastError.Errorf(
			"bad sig_time %d for masternode %s, which is earlier than confirmed block time %d",
			mnb.SigTime, base.ShortOutpoint(mnb.Outpoint), conf.Time)
	}

	if dos, err := mnb.CheckSignature(); err != nil {
		return dos, err
	}

	mnb.CollateralMinConfBlockHash = conf.Hash

	return 0, nil
}

func (mnb Broadcast) Relay(env *Env) {
	env.relayBroadcast(mnb)
}

func (mnb Broadcast) EncodeBinary(w *binenc.Writer) {
	w.OutPoint(mnb.Outpoint)
	w.Encode(mnb.Addr)
	w.VarBytes(mnb.PubKeyCollateral.Bytes())
	w.VarBytes(mnb.PubKeyMasternode.Bytes())

	if !w.IsHashMode() {
		w.VarBytes(mnb.Sig)
	}

	w.Int64(mnb.SigTime)
	w.Int32(mnb.ProtocolVersion)

	if !w.IsHashMode() {
		w.Encode(mnb.LastPing)
	}
}

func (mnb *Broadcast) DecodeBinary(r *binenc.Reader) {
	mnb.Outpoint = r.OutPoint()
	r.Decode(&mnb.Addr)
	mnb.PubKeyCollateral = decodeLegacyPublickey(r, "collateral public key")
	mnb.PubKeyMasternode = decodeLegacyPublickey(r, "masternode public key")
	mnb.Sig = r.VarBytes("broadcast signature")
	mnb.SigTime = r.Int64()
	mnb.ProtocolVersion = r.Int32()
	r.Decode(&mnb.LastPing)
}
