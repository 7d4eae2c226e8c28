package offer

import "errors"

var (
	ErrLoadNotFound         = errors.New("load not found")
	ErrOfferNotFound        = errors.New("offer not found")
	ErrLoadNotOpen          = errors.New("load is not published")
	ErrOwnLoad              = errors.New("cannot bid on your own load")
	ErrActiveOfferExists    = errors.New("offer already has an active bid")
	ErrNotPending           = errors.New("offer is no longer pending")
	ErrNotOfferOwner        = errors.New("caller does not own this offer")
	ErrNotLoadOwner         = errors.New("caller does not own this load")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrAwaitingReply        = errors.New("awaiting a reply from the shipper")
	ErrNotParticipant       = errors.New("caller is not part of this negotiation")
	ErrSubscriptionRequired = errors.New("hauler subscription or trial required")
)
