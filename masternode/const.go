package masternode

import "fmt"

const (
	CheckSeconds            int64 = 5
	MinMNBSeconds           int64 = 5 * 60
	MinMNPSeconds           int64 = 10 * 60
	SentinelPingMaxSeconds  int64 = 60 * 60
	ExpirationSeconds       int64 = 120 * 60
	NewStartRequiredSeconds int64 = 180 * 60

	PoSeBanMaxScore int32 = 5
	MaxMixingTxes   int32 = 5

	// DefaultSentinelVersion is the sentinel version of the pings made before
	// the version was added to the ping.
	DefaultSentinelVersion uint32 = 0x010001
	// DefaultDaemonVersion is the daemon version of the pings made before the
	// version was added to the ping.
	DefaultDaemonVersion uint32 = 120200

	// MaxFutureSeconds is how far ahead of the adjusted time the signing
	// time of ping and broadcast may be.
	MaxFutureSeconds int64 = 60 * 60
	// PingBlockDepth is the depth of the block referred by new ping.
	PingBlockDepth int32 = 12
	// MaxPingBlockAge is how many blocks behind the tip the block of ping may
	// be.
	MaxPingBlockAge int32 = 24
)

type ActiveState int32

const (
	StatePreEnabled ActiveState = iota
	StateEnabled
	StateExpired
	StateOutpointSpent
	StateUpdateRequired
	StateSentinelPingExpired
	StateNewStartRequired
	StatePoSeBan
)

func (s ActiveState) String() string {
	switch s {
	case StatePreEnabled:
		return "PRE_ENABLED"
	case StateEnabled:
		return "ENABLED"
	case StateExpired:
		return "EXPIRED"
	case StateOutpointSpent:
		return "OUTPOINT_SPENT"
	case StateUpdateRequired:
		return "UPDATE_REQUIRED"
	case StateSentinelPingExpired:
		return "SENTINEL_PING_EXPIRED"
	case StateNewStartRequired:
		return "NEW_START_REQUIRED"
	case StatePoSeBan:
		return "POSE_BAN"
	default:
		return "UNKNOWN"
	}
}

func (s ActiveState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsValidStateForAutoStart reports whether the masternode in this state can
// be started again by its owner without a new collateral.
func (s ActiveState) IsValidStateForAutoStart() bool {
	switch s {
	case StateEnabled, StatePreEnabled, StateExpired, StateSentinelPingExpired:
		return true
	default:
		return false
	}
}

type CollateralStatus int

const (
	CollateralOK CollateralStatus = iota
	CollateralUTXONotFound
	CollateralInvalidAmount
	CollateralInvalidPubkey
)

func (c CollateralStatus) String() string {
	switch c {
	case CollateralOK:
		return "ok"
	case CollateralUTXONotFound:
		return "utxo not found"
	case CollateralInvalidAmount:
		return "invalid amount"
	case CollateralInvalidPubkey:
		return "invalid pubkey"
	default:
		return fmt.Sprintf("<unknown collateral status: %d>", c)
	}
}
