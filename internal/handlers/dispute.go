package handlers

import (
	"drover/internal/services/dispute"
	"drover/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DisputeHandler struct {
	disputeService *dispute.Service
}

func NewDisputeHandler(disputeService *dispute.Service) *DisputeHandler {
	return &DisputeHandler{disputeService: disputeService}
}

func (h *DisputeHandler) OpenDispute(c *fiber.Ctx) error {
	var input struct {
		TripID          uint   `json:"trip_id"`
		Reason          string `json:"reason"`
		Description     string `json:"description"`
		RequestedAction string `json:"requested_action"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}

	opened, err := h.disputeService.Open(c.Context(), actor, input.TripID, dispute.OpenInput{
		Reason:          input.Reason,
		Description:     input.Description,
		RequestedAction: input.RequestedAction,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Dispute opened successfully", opened)
}

func (h *DisputeHandler) GetDispute(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	disputeID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dispute ID")
	}

	found, err := h.disputeService.Get(c.Context(), actor, disputeID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Dispute retrieved successfully", found)
}

func (h *DisputeHandler) GetTripDisputes(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "tripId")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	disputes, err := h.disputeService.ListByTrip(c.Context(), actor, tripID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Disputes retrieved successfully", disputes)
}

func (h *DisputeHandler) CancelDispute(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	disputeID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dispute ID")
	}

	cancelled, err := h.disputeService.Cancel(c.Context(), actor, disputeID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Dispute cancelled successfully", cancelled)
}

func (h *DisputeHandler) AddMessage(c *fiber.Ctx) error {
	var input struct {
		Recipient string `json:"recipient"`
		Body      string `json:"body"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	disputeID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dispute ID")
	}

	msg, err := h.disputeService.AddMessage(c.Context(), actor, disputeID, input.Recipient, input.Body)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Message sent successfully", msg)
}

func (h *DisputeHandler) GetMessages(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	disputeID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dispute ID")
	}

	msgs, err := h.disputeService.ListMessages(c.Context(), actor, disputeID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Messages retrieved successfully", msgs)
}

// Admin operations

func (h *DisputeHandler) StartReview(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	disputeID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dispute ID")
	}

	reviewed, err := h.disputeService.StartReview(c.Context(), actor, disputeID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Dispute under review", reviewed)
}

// ResolveDispute settles the case: release, refund, or an exact split.
func (h *DisputeHandler) ResolveDispute(c *fiber.Ctx) error {
	var input struct {
		Outcome              string `json:"outcome"`
		AmountToHaulerCents  int64  `json:"amount_to_hauler_cents"`
		AmountToShipperCents int64  `json:"amount_to_shipper_cents"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	disputeID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dispute ID")
	}

	var resolved interface{}
	switch input.Outcome {
	case "release":
		resolved, err = h.disputeService.ResolveRelease(c.Context(), actor, disputeID)
	case "refund":
		resolved, err = h.disputeService.ResolveRefund(c.Context(), actor, disputeID)
	case "split":
		resolved, err = h.disputeService.ResolveSplit(c.Context(), actor, disputeID,
			input.AmountToHaulerCents, input.AmountToShipperCents)
	default:
		return response.BadRequest(c, "Outcome must be release, refund or split")
	}
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Dispute resolved successfully", resolved)
}
