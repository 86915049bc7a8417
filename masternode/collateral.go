package masternode

import "github.com/MNPJason/MNPCoin-PolisCore/base"

// CheckCollateral checks the collateral output of masternode. The height of
// the collateral is returned with CollateralOK.
func CheckCollateral(utxo UTXOView, outpoint base.Outpoint, keyID base.KeyID, amount int64) (CollateralStatus, int32) {
	if utxo == nil {
		return CollateralUTXONotFound, 0
	}

	coin, found := utxo.Coin(outpoint)

	switch {
	case !found:
		return CollateralUTXONotFound, 0
	case coin.Amount != amount:
		return CollateralInvalidAmount, 0
	case keyID.IsEmpty() || coin.KeyID != keyID:
		return CollateralInvalidPubkey, 0
	default:
		return CollateralOK, coin.Height
	}
}
