package masternode

import (
	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/base/key"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
)

// Info is the snapshot of masternode. The legacy public keys are set only
// in the legacy list; the BLS operator key only in the deterministic list.
type Info struct {
	ActiveState         ActiveState
	ProtocolVersion     int32
	SigTime             int64
	Outpoint            base.Outpoint
	Addr                base.Service
	PubKeyCollateral    key.LegacyPublickey
	PubKeyMasternode    key.LegacyPublickey
	KeyIDCollateral     base.KeyID
	KeyIDOwner          base.KeyID
	LegacyKeyIDOperator base.KeyID
	BLSPubKeyOperator   key.BLSPublickey
	KeyIDVoting         base.KeyID
	LastDsq             int64
	TimeLastChecked     int64
	TimeLastPaid        int64
	TimeLastPing        int64
	InfoValid           bool
}

type infoJSONMarshaler struct {
	ActiveState         ActiveState `json:"active_state"`
	ProtocolVersion     int32       `json:"protocol_version"`
	SigTime             int64       `json:"sig_time"`
	Outpoint            string      `json:"outpoint"`
	Addr                string      `json:"addr"`
	PubKeyCollateral    string      `json:"pubkey_collateral,omitempty"`
	PubKeyMasternode    string      `json:"pubkey_masternode,omitempty"`
	KeyIDCollateral     string      `json:"keyid_collateral"`
	KeyIDOwner          string      `json:"keyid_owner"`
	LegacyKeyIDOperator string      `json:"legacy_keyid_operator,omitempty"`
	BLSPubKeyOperator   string      `json:"bls_pubkey_operator,omitempty"`
	KeyIDVoting         string      `json:"keyid_voting"`
	LastDsq             int64       `json:"last_dsq"`
	TimeLastChecked     int64       `json:"time_last_checked"`
	TimeLastPaid        int64       `json:"time_last_paid"`
	TimeLastPing        int64       `json:"time_last_ping"`
	InfoValid           bool        `json:"info_valid"`
}

func (in Info) MarshalJSON() ([]byte, error) {
	m := infoJSONMarshaler{
		ActiveState:      in.ActiveState,
		ProtocolVersion:  in.ProtocolVersion,
		SigTime:          in.SigTime,
		Outpoint:         base.ShortOutpoint(in.Outpoint),
		Addr:             in.Addr.String(),
		PubKeyCollateral: in.PubKeyCollateral.String(),
		PubKeyMasternode: in.PubKeyMasternode.String(),
		KeyIDCollateral:  in.KeyIDCollateral.String(),
		KeyIDOwner:       in.KeyIDOwner.String(),
		KeyIDVoting:      in.KeyIDVoting.String(),
		LastDsq:          in.LastDsq,
		TimeLastChecked:  in.TimeLastChecked,
		TimeLastPaid:     in.TimeLastPaid,
		TimeLastPing:     in.TimeLastPing,
		InfoValid:        in.InfoValid,
	}

	if !in.LegacyKeyIDOperator.IsEmpty() {
		m.LegacyKeyIDOperator = in.LegacyKeyIDOperator.String()
	}

	if !in.BLSPubKeyOperator.IsEmpty() {
		m.BLSPubKeyOperator = in.BLSPubKeyOperator.String()
	}

	return util.JSONMarshal(m)
}

func (in Info) String() string {
	return util.ToString(in)
}
