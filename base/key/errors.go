package key

import "github.com/MNPJason/MNPCoin-PolisCore/util"

var (
	InvalidKeyError                  = util.NewError("invalid key")
	SignatureVerificationFailedError = util.NewError("signature verification failed")
)
