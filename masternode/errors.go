package masternode

import "github.com/MNPJason/MNPCoin-PolisCore/util"

var (
	InvalidPingError         = util.NewError("invalid masternode ping")
	InvalidBroadcastError    = util.NewError("invalid masternode broadcast")
	InvalidVerificationError = util.NewError("invalid masternode verification")
	InvalidCollateralError   = util.NewError("invalid collateral")
	UnknownMasternodeError   = util.NewError("unknown masternode")
)
