package handlers

import (
	"time"

	"drover/internal/repositories"
	"drover/internal/services/capacity"
	"drover/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type TruckHandler struct {
	capacityService *capacity.Service
}

func NewTruckHandler(capacityService *capacity.Service) *TruckHandler {
	return &TruckHandler{capacityService: capacityService}
}

func (h *TruckHandler) CreateListing(c *fiber.Ctx) error {
	var input struct {
		TruckID           uint      `json:"truck_id"`
		Origin            string    `json:"origin"`
		Destination       string    `json:"destination"`
		OriginLat         *float64  `json:"origin_lat"`
		OriginLng         *float64  `json:"origin_lng"`
		DestinationLat    *float64  `json:"destination_lat"`
		DestinationLng    *float64  `json:"destination_lng"`
		AvailableFrom     time.Time `json:"available_from"`
		AvailableUntil    time.Time `json:"available_until"`
		CapacityHeadcount int       `json:"capacity_headcount"`
		CapacityWeightKg  int       `json:"capacity_weight_kg"`
		AllowShared       bool      `json:"allow_shared"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}

	listing, err := h.capacityService.CreateListing(c.Context(), actor, capacity.CreateListingInput{
		TruckID:           input.TruckID,
		Origin:            input.Origin,
		Destination:       input.Destination,
		OriginLat:         input.OriginLat,
		OriginLng:         input.OriginLng,
		DestinationLat:    input.DestinationLat,
		DestinationLng:    input.DestinationLng,
		AvailableFrom:     input.AvailableFrom,
		AvailableUntil:    input.AvailableUntil,
		CapacityHeadcount: input.CapacityHeadcount,
		CapacityWeightKg:  input.CapacityWeightKg,
		AllowShared:       input.AllowShared,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Listing created successfully", listing)
}

func (h *TruckHandler) DeactivateListing(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	listingID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID")
	}

	if err := h.capacityService.Deactivate(c.Context(), actor, listingID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Listing deactivated successfully", nil)
}

// SearchListings is the shipper-facing truck board.
func (h *TruckHandler) SearchListings(c *fiber.Ctx) error {
	q := repositories.AvailabilitySearch{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "Invalid date, expected RFC3339")
		}
		q.Date = &date
	}

	listings, err := h.capacityService.Search(c.Context(), q)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Listings retrieved successfully", listings)
}

func (h *TruckHandler) GetListing(c *fiber.Ctx) error {
	listingID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID")
	}
	listing, err := h.capacityService.GetListing(c.Context(), listingID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Listing retrieved successfully", listing)
}

func (h *TruckHandler) GetMyListings(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c)
	}
	listings, err := h.capacityService.ListForHauler(c.Context(), actor.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Listings retrieved successfully", listings)
}

// RecomputeListing force-refreshes the derived active flag (admin tooling).
func (h *TruckHandler) RecomputeListing(c *fiber.Ctx) error {
	listingID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID")
	}
	active, err := h.capacityService.Recompute(c.Context(), listingID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Listing recomputed", fiber.Map{"active": active})
}
