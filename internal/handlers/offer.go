package handlers

import (
	"time"

	"drover/internal/services/offer"
	"drover/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type OfferHandler struct {
	offerService *offer.Service
}

func NewOfferHandler(offerService *offer.Service) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

func (h *OfferHandler) CreateOffer(c *fiber.Ctx) error {
	var input struct {
		LoadID      uint       `json:"load_id"`
		AmountCents int64      `json:"amount_cents"`
		Currency    string     `json:"currency"`
		Message     string     `json:"message"`
		ExpiresAt   *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}

	created, err := h.offerService.Create(c.Context(), actor, offer.CreateInput{
		LoadID:      input.LoadID,
		AmountCents: input.AmountCents,
		Currency:    input.Currency,
		Message:     input.Message,
		ExpiresAt:   input.ExpiresAt,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Offer created successfully", created)
}

func (h *OfferHandler) UpdateOffer(c *fiber.Ctx) error {
	var input struct {
		AmountCents *int64     `json:"amount_cents"`
		Message     *string    `json:"message"`
		ExpiresAt   *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	offerID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid offer ID")
	}

	updated, err := h.offerService.Update(c.Context(), actor, offerID, offer.UpdateInput{
		AmountCents: input.AmountCents,
		Message:     input.Message,
		ExpiresAt:   input.ExpiresAt,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Offer updated successfully", updated)
}

func (h *OfferHandler) WithdrawOffer(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	offerID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid offer ID")
	}

	if err := h.offerService.Withdraw(c.Context(), actor, offerID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Offer withdrawn successfully", nil)
}

func (h *OfferHandler) RejectOffer(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	offerID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid offer ID")
	}

	if err := h.offerService.Reject(c.Context(), actor, offerID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Offer rejected successfully", nil)
}

// AcceptOffer awards the load: the response carries the newly bound trip.
func (h *OfferHandler) AcceptOffer(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	offerID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid offer ID")
	}

	trip, err := h.offerService.Accept(c.Context(), actor, offerID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Offer accepted successfully", trip)
}

func (h *OfferHandler) SendMessage(c *fiber.Ctx) error {
	var input struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Body == "" {
		return response.BadRequest(c, "Message body is required")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	offerID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid offer ID")
	}

	msg, err := h.offerService.SendMessage(c.Context(), actor, offerID, input.Body)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Message sent successfully", msg)
}

func (h *OfferHandler) GetMessages(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	offerID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid offer ID")
	}

	msgs, err := h.offerService.ListMessages(c.Context(), actor, offerID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Messages retrieved successfully", msgs)
}

func (h *OfferHandler) GetLoadOffers(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	loadID, err := paramID(c, "loadId")
	if err != nil {
		return response.BadRequest(c, "Invalid load ID")
	}

	offers, err := h.offerService.ListByLoad(c.Context(), actor, loadID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Offers retrieved successfully", offers)
}

func (h *OfferHandler) GetMyOffers(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	offers, err := h.offerService.ListMine(c.Context(), actor)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Offers retrieved successfully", offers)
}
