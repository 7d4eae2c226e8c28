package handlers

import (
	"errors"

	"drover/internal/services/booking"
	"drover/internal/services/capacity"
	"drover/internal/services/contract"
	"drover/internal/services/dispute"
	"drover/internal/services/escrow"
	"drover/internal/services/load"
	"drover/internal/services/offer"
	"drover/internal/services/trip"
	"drover/internal/utils/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// serviceError maps service sentinels onto HTTP statuses so handlers never
// inspect error strings. Anything unmapped is a 500.
func serviceError(c *fiber.Ctx, err error) error {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return response.BadRequest(c, verr.Error())
	}

	switch {
	case isAny(err,
		load.ErrLoadNotFound, offer.ErrLoadNotFound, offer.ErrOfferNotFound,
		booking.ErrLoadNotFound, booking.ErrBookingNotFound,
		capacity.ErrListingNotFound, trip.ErrTripNotFound,
		escrow.ErrTripNotFound, escrow.ErrPaymentNotFound,
		dispute.ErrDisputeNotFound, dispute.ErrTripNotFound):
		return response.NotFound(c, err.Error())

	case isAny(err,
		load.ErrNotLoadOwner, load.ErrNotShipper,
		offer.ErrNotOfferOwner, offer.ErrNotLoadOwner, offer.ErrNotParticipant, offer.ErrOwnLoad,
		booking.ErrNotLoadOwner, booking.ErrNotBookingHauler,
		capacity.ErrNotListingOwner,
		trip.ErrNotAuthorized, trip.ErrNotTripHauler, trip.ErrNotLoadShipper,
		escrow.ErrNotPayer, escrow.ErrAdminOnly,
		dispute.ErrNotTripParty, dispute.ErrNotOpener, dispute.ErrAdminOnly):
		return response.Forbidden(c, err.Error())

	case isAny(err,
		load.ErrNotDraft, load.ErrNotCancellable,
		offer.ErrLoadNotOpen, offer.ErrActiveOfferExists, offer.ErrNotPending,
		offer.ErrAwaitingReply, offer.ErrSubscriptionRequired,
		booking.ErrLoadNotOpen, booking.ErrNotRequested, booking.ErrOfferNotPending,
		booking.ErrListingInactive, booking.ErrTruckOnActiveTrip,
		booking.ErrListingExclusive, booking.ErrInsufficientCapacity,
		contract.ErrLoadAlreadyBound, contract.ErrLoadNotOpen,
		capacity.ErrAcceptedBookingExists,
		trip.ErrNotStartable, trip.ErrNotInProgress, trip.ErrNotAwaitingConfirmation,
		trip.ErrAlreadyStarted, trip.ErrEscrowNotFunded,
		escrow.ErrEscrowDisabled, escrow.ErrPaymentModeImmutable,
		escrow.ErrNotAwaitingFunding, escrow.ErrNotFunded, escrow.ErrDisputeBlocksRelease,
		dispute.ErrDirectTrip, dispute.ErrEscrowNotFunded, dispute.ErrNotDelivered,
		dispute.ErrDisputeExists, dispute.ErrNotOpen, dispute.ErrNotUnderReview):
		return response.Conflict(c, err.Error())

	case isAny(err,
		load.ErrDisclaimerRequired,
		offer.ErrInvalidAmount,
		booking.ErrInvalidAmount, booking.ErrInvalidHeadcount,
		booking.ErrAmbiguousBacking, booking.ErrNoBacking, booking.ErrOfferLoadMismatch,
		contract.ErrAmbiguousBacking, contract.ErrNoBacking,
		capacity.ErrInvalidWindow, capacity.ErrInvalidCapacity,
		escrow.ErrUnknownIntent,
		dispute.ErrInvalidReason, dispute.ErrInvalidAction, dispute.ErrInvalidRecipient,
		dispute.ErrSplitMismatch, dispute.ErrEmptyMessage, dispute.ErrDescriptionMissing):
		return response.BadRequest(c, err.Error())
	}

	return response.ServerError(c, "internal error")
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
