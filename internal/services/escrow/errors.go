package escrow

import "errors"

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrTripNotFound         = errors.New("trip not found")
	ErrEscrowDisabled       = errors.New("escrow disabled for direct trips")
	ErrPaymentModeImmutable = errors.New("payment mode immutable")
	ErrNotAwaitingFunding   = errors.New("payment is not awaiting funding")
	ErrNotFunded            = errors.New("payment is not escrow funded")
	ErrUnknownIntent        = errors.New("unknown payment intent")
	ErrDisputeBlocksRelease = errors.New("open dispute blocks release")
	ErrNotPayer             = errors.New("caller is not the payer for this trip")
	ErrAdminOnly            = errors.New("administrator access required")
)
