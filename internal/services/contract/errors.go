package contract

import "errors"

var (
	ErrLoadAlreadyBound = errors.New("load already has an accepted contract")
	ErrLoadNotOpen      = errors.New("load is not open for matching")
	ErrAmbiguousBacking = errors.New("booking references both an offer and a truck listing")
	ErrNoBacking        = errors.New("booking references neither an offer nor a truck listing")
)
