package trip

import "errors"

var (
	ErrTripNotFound            = errors.New("trip not found")
	ErrNotAuthorized           = errors.New("caller is not part of this trip")
	ErrNotStartable            = errors.New("trip cannot be started in its current state")
	ErrNotInProgress           = errors.New("trip is not in progress")
	ErrNotAwaitingConfirmation = errors.New("trip is not awaiting delivery confirmation")
	ErrAlreadyStarted          = errors.New("trip has already started")
	ErrEscrowNotFunded         = errors.New("escrow has not been funded")
	ErrNotTripHauler           = errors.New("caller is not the hauler for this trip")
	ErrNotLoadShipper          = errors.New("caller is not the shipper for this load")
)
