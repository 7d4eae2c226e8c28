package load

import "errors"

var (
	ErrLoadNotFound       = errors.New("load not found")
	ErrNotLoadOwner       = errors.New("caller does not own this load")
	ErrNotShipper         = errors.New("only shippers can post loads")
	ErrNotDraft           = errors.New("load is not a draft")
	ErrNotCancellable     = errors.New("load can no longer be cancelled")
	ErrDisclaimerRequired = errors.New("direct payment disclaimer must be accepted")
)
