package util

var (
	IgnoreError     = NewError("ignore")
	NotFoundError   = NewError("not found")
	DuplicatedError = NewError("duplicated")
	// RetryLaterError means the input can not be verified yet, for example
	// it refers to a block this node has not seen. The caller may try again
	// later; it is not a reason to penalize the peer.
	RetryLaterError = NewError("retry later")
)
