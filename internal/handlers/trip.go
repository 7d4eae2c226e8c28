package handlers

import (
	"drover/internal/services/trip"
	"drover/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type TripHandler struct {
	tripService *trip.Service
}

func NewTripHandler(tripService *trip.Service) *TripHandler {
	return &TripHandler{tripService: tripService}
}

func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	found, err := h.tripService.Get(c.Context(), actor, tripID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Trip retrieved successfully", found)
}

func (h *TripHandler) GetMyTrips(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	trips, err := h.tripService.ListMine(c.Context(), actor)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Trips retrieved successfully", trips)
}

func (h *TripHandler) AssignDriver(c *fiber.Ctx) error {
	var input struct {
		DriverID   uint   `json:"driver_id"`
		VehicleRef string `json:"vehicle_ref"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.DriverID == 0 {
		return response.BadRequest(c, "Driver ID is required")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	updated, err := h.tripService.AssignDriver(c.Context(), actor, tripID, input.DriverID, input.VehicleRef)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Driver assigned successfully", updated)
}

func (h *TripHandler) StartTrip(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	started, err := h.tripService.Start(c.Context(), actor, tripID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Trip started successfully", started)
}

func (h *TripHandler) MarkDelivered(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	delivered, err := h.tripService.MarkDelivered(c.Context(), actor, tripID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Delivery recorded successfully", delivered)
}

func (h *TripHandler) ConfirmDelivery(c *fiber.Ctx) error {
	var input struct {
		ReceiptMethod    string `json:"receipt_method"`
		ReceiptReference string `json:"receipt_reference"`
	}
	// Body is optional: escrow confirmations carry nothing.
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	confirmed, err := h.tripService.ConfirmDelivery(c.Context(), actor, tripID, trip.ConfirmInput{
		ReceiptMethod:    input.ReceiptMethod,
		ReceiptReference: input.ReceiptReference,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Delivery confirmed successfully", confirmed)
}
