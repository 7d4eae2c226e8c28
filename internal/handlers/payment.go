package handlers

import (
	"encoding/json"
	"time"

	"drover/internal/models"
	"drover/internal/services/escrow"
	"drover/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	escrowService *escrow.Service
}

func NewPaymentHandler(escrowService *escrow.Service) *PaymentHandler {
	return &PaymentHandler{escrowService: escrowService}
}

// AttachIntent creates (or returns) the provider payment-intent for a trip.
func (h *PaymentHandler) AttachIntent(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	payment, err := h.escrowService.AttachIntent(c.Context(), actor, tripID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Payment intent attached", payment)
}

func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	payment, err := h.escrowService.GetPayment(c.Context(), actor, tripID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Payment retrieved successfully", payment)
}

func (h *PaymentHandler) GetReceipt(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	receipt, err := h.escrowService.GetDirectReceipt(c.Context(), actor, tripID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Receipt retrieved successfully", receipt)
}

// ChangePaymentMode always answers with the dedicated conflict: the mode is
// fixed when the contract binds.
func (h *PaymentHandler) ChangePaymentMode(c *fiber.Ctx) error {
	var input struct {
		PaymentMode string `json:"payment_mode"`
	}
	if err := c.BodyParser(&input); err != nil {
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

	err = h.escrowService.ChangePaymentMode(c.Context(), actor, tripID, models.PaymentMode(input.PaymentMode))
	return serviceError(c, err)
}

// ProviderWebhook receives payment provider events. The endpoint is
// unauthenticated; validity comes from the intent lookup.
func (h *PaymentHandler) ProviderWebhook(c *fiber.Ctx) error {
	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID string `json:"id"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return response.BadRequest(c, "Invalid event payload")
	}
	if event.Data.Object.ID == "" {
		return response.BadRequest(c, "Missing intent ID")
	}

	if err := h.escrowService.HandleProviderEvent(c.Context(), event.Data.Object.ID, event.Type); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Event processed", nil)
}

// Admin operations

func (h *PaymentHandler) ScheduleRelease(c *fiber.Ctx) error {
	var input struct {
		ReleaseAt time.Time `json:"release_at"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.ReleaseAt.IsZero() {
		return response.BadRequest(c, "release_at is required")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	payment, err := h.escrowService.ScheduleRelease(c.Context(), actor, tripID, input.ReleaseAt)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Release scheduled", payment)
}

func (h *PaymentHandler) ClearRelease(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	if err := h.escrowService.ClearRelease(c.Context(), actor, tripID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Release cleared", nil)
}

func (h *PaymentHandler) ReleaseNow(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	tripID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid trip ID")
	}

	payment, err := h.escrowService.ReleaseNow(c.Context(), actor, tripID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Escrow released", payment)
}

// RunSweep triggers one auto-release pass on demand.
func (h *PaymentHandler) RunSweep(c *fiber.Ctx) error {
	released, err := h.escrowService.RunAutoReleaseSweep(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Sweep completed", fiber.Map{"released": released})
}
