// Package handlers contains the HTTP boundary: request parsing, claims
// extraction, and translation of service results into JSON responses.
package handlers

import (
	"strconv"

	"drover/internal/models"

	"github.com/gofiber/fiber/v2"
)

func actorFromCtx(c *fiber.Ctx) (models.Actor, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return models.Actor{}, false
	}
	return claims.Actor(), true
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
