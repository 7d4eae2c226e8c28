package handlers

import (
	"drover/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewHealthHandler(db *gorm.DB, cacheSvc *cache.CacheService) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheSvc}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	database := "connected"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		database = "unreachable"
	}

	redis := "connected"
	if h.cache == nil || h.cache.HealthCheck(c.Context()) != nil {
		redis = "unreachable"
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"services": fiber.Map{
			"database": database,
			"redis":    redis,
		},
	})
}
