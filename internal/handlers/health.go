package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"paygrow/internal/repositories/cache"
	"paygrow/internal/utils"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewHealthHandler(db *gorm.DB, c *cache.CacheService) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		status["status"] = "degraded"
		status["database"] = "down"
	} else {
		status["database"] = "up"
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(c.Context()); err != nil {
			status["status"] = "degraded"
			status["redis"] = "down"
		} else {
			status["redis"] = "up"
		}
	}

	code := fiber.StatusOK
	if status["status"] != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return utils.Respond(c, code, status)
}
