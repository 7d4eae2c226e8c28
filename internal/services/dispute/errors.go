package dispute

import "errors"

var (
	ErrDisputeNotFound    = errors.New("dispute not found")
	ErrTripNotFound       = errors.New("trip not found")
	ErrNotTripParty       = errors.New("caller is not a party to this trip")
	ErrNotOpener          = errors.New("only the opener may cancel a dispute")
	ErrAdminOnly          = errors.New("administrator access required")
	ErrDirectTrip         = errors.New("disputes require an escrow trip")
	ErrEscrowNotFunded    = errors.New("escrow must be funded to dispute")
	ErrNotDelivered       = errors.New("trip has not been delivered")
	ErrDisputeExists      = errors.New("an active dispute already exists for this payment")
	ErrNotOpen            = errors.New("dispute is not open")
	ErrNotUnderReview     = errors.New("dispute is not under review")
	ErrInvalidReason      = errors.New("invalid dispute reason")
	ErrInvalidAction      = errors.New("invalid requested action")
	ErrInvalidRecipient   = errors.New("invalid message recipient")
	ErrSplitMismatch      = errors.New("split amounts must sum to the escrowed amount")
	ErrEmptyMessage       = errors.New("message body is required")
	ErrDescriptionMissing = errors.New("description is required")
)
