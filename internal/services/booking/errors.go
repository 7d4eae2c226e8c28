package booking

import "errors"

var (
	ErrLoadNotFound         = errors.New("load not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrLoadNotOpen          = errors.New("load is not published")
	ErrNotLoadOwner         = errors.New("caller does not own this load")
	ErrNotBookingHauler     = errors.New("caller is not the hauler for this booking")
	ErrNotRequested         = errors.New("booking is no longer requested")
	ErrAmbiguousBacking     = errors.New("booking cannot reference both an offer and a truck listing")
	ErrNoBacking            = errors.New("booking must reference an offer or a truck listing")
	ErrOfferNotPending      = errors.New("referenced offer is not pending")
	ErrOfferLoadMismatch    = errors.New("referenced offer belongs to a different load")
	ErrListingInactive      = errors.New("truck listing is not active")
	ErrTruckOnActiveTrip    = errors.New("truck already assigned to an active trip")
	ErrListingExclusive     = errors.New("truck listing does not allow shared bookings")
	ErrInsufficientCapacity = errors.New("insufficient remaining capacity")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidHeadcount     = errors.New("invalid headcount")
)
