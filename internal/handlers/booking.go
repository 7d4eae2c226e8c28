package handlers

import (
	"drover/internal/services/booking"
	"drover/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	bookingService *booking.Service
}

func NewBookingHandler(bookingService *booking.Service) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var input struct {
		LoadID              uint  `json:"load_id"`
		OfferID             *uint `json:"offer_id"`
		TruckAvailabilityID *uint `json:"truck_availability_id"`
		Headcount           int   `json:"headcount"`
		WeightKg            int   `json:"weight_kg"`
		AmountCents         int64 `json:"amount_cents"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}

	created, err := h.bookingService.Create(c.Context(), actor, booking.CreateInput{
		LoadID:              input.LoadID,
		OfferID:             input.OfferID,
		TruckAvailabilityID: input.TruckAvailabilityID,
		Headcount:           input.Headcount,
		WeightKg:            input.WeightKg,
		AmountCents:         input.AmountCents,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Booking requested successfully", created)
}

// RespondBooking is the hauler's accept/reject. Accepting returns the trip.
func (h *BookingHandler) RespondBooking(c *fiber.Ctx) error {
	var input struct {
		Accept bool `json:"accept"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	bookingID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid booking ID")
	}

	trip, err := h.bookingService.Respond(c.Context(), actor, bookingID, input.Accept)
	if err != nil {
		return serviceError(c, err)
	}
	if !input.Accept {
		return response.Success(c, "Booking rejected successfully", nil)
	}
	return response.Success(c, "Booking accepted successfully", trip)
}

func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	bookingID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid booking ID")
	}

	if err := h.bookingService.Cancel(c.Context(), actor, bookingID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Booking cancelled successfully", nil)
}

func (h *BookingHandler) GetLoadBookings(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	loadID, err := paramID(c, "loadId")
	if err != nil {
		return response.BadRequest(c, "Invalid load ID")
	}

	bookings, err := h.bookingService.ListByLoad(c.Context(), actor, loadID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetMyBookings(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	bookings, err := h.bookingService.ListMine(c.Context(), actor)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Bookings retrieved successfully", bookings)
}
