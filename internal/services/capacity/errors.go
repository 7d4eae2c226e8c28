package capacity

import "errors"

var (
	ErrListingNotFound       = errors.New("truck availability not found")
	ErrNotListingOwner       = errors.New("caller does not own this listing")
	ErrAcceptedBookingExists = errors.New("listing has an accepted booking")
	ErrInvalidWindow         = errors.New("invalid availability window")
	ErrInvalidCapacity       = errors.New("invalid capacity")
)
