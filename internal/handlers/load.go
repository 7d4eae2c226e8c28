package handlers

import (
	"time"

	"drover/internal/models"
	"drover/internal/services/load"
	"drover/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type LoadHandler struct {
	loadService *load.Service
}

func NewLoadHandler(loadService *load.Service) *LoadHandler {
	return &LoadHandler{loadService: loadService}
}

func (h *LoadHandler) CreateLoad(c *fiber.Ctx) error {
	var input struct {
		Origin             string     `json:"origin"`
		Destination        string     `json:"destination"`
		Headcount          int        `json:"headcount"`
		WeightKg           int        `json:"weight_kg"`
		StockType          string     `json:"stock_type"`
		PickupDate         *time.Time `json:"pickup_date"`
		AskingCents        int64      `json:"asking_cents"`
		Currency           string     `json:"currency"`
		PaymentMode        string     `json:"payment_mode"`
		DisclaimerAccepted bool       `json:"disclaimer_accepted"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}

	created, err := h.loadService.Create(c.Context(), actor, load.CreateInput{
		Origin:             input.Origin,
		Destination:        input.Destination,
		Headcount:          input.Headcount,
		WeightKg:           input.WeightKg,
		StockType:          input.StockType,
		PickupDate:         input.PickupDate,
		AskingCents:        input.AskingCents,
		Currency:           input.Currency,
		PaymentMode:        models.PaymentMode(input.PaymentMode),
		DisclaimerAccepted: input.DisclaimerAccepted,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Load created successfully", created)
}

func (h *LoadHandler) PublishLoad(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	loadID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid load ID")
	}

	published, err := h.loadService.Publish(c.Context(), actor, loadID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Load published successfully", published)
}

func (h *LoadHandler) CancelLoad(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	loadID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid load ID")
	}

	cancelled, err := h.loadService.Cancel(c.Context(), actor, loadID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Load cancelled successfully", cancelled)
}

func (h *LoadHandler) UpdateLoad(c *fiber.Ctx) error {
	var input struct {
		Origin      string     `json:"origin"`
		Destination string     `json:"destination"`
		Headcount   int        `json:"headcount"`
		WeightKg    int        `json:"weight_kg"`
		StockType   string     `json:"stock_type"`
		PickupDate  *time.Time `json:"pickup_date"`
		AskingCents int64      `json:"asking_cents"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	loadID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid load ID")
	}

	updated, err := h.loadService.Update(c.Context(), actor, loadID, load.UpdateInput{
		Origin:      input.Origin,
		Destination: input.Destination,
		Headcount:   input.Headcount,
		WeightKg:    input.WeightKg,
		StockType:   input.StockType,
		PickupDate:  input.PickupDate,
		AskingCents: input.AskingCents,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Load updated successfully", updated)
}

func (h *LoadHandler) GetLoad(c *fiber.Ctx) error {
	loadID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid load ID")
	}
	found, err := h.loadService.Get(c.Context(), loadID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Load retrieved successfully", found)
}

func (h *LoadHandler) GetMyLoads(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	loads, err := h.loadService.ListMine(c.Context(), actor)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Loads retrieved successfully", loads)
}

// GetOpenLoads is the hauler-facing load board with optional filters.
func (h *LoadHandler) GetOpenLoads(c *fiber.Ctx) error {
	loads, err := h.loadService.ListOpen(c.Context(),
		c.Query("origin"), c.Query("destination"), c.Query("stock_type"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Loads retrieved successfully", loads)
}
