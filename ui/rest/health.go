package rest

import (
	"context"
	"time"

	"github.com/AzielCF/az-press/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CachePinger is satisfied by every cache backend.
type CachePinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	Version string
	DB      *gorm.DB
	Cache   CachePinger
}

func InitRestHealth(app fiber.Router, version string, db *gorm.DB, cache CachePinger) Health {
	handler := Health{Version: version, DB: db, Cache: cache}
	app.Get("/health", handler.GetStatus)

	return handler
}

// GetStatus reports 503 only when the database is down. A cache outage
// degrades performance but every request is still served.
func (h *Health) GetStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if sqlDB, err := h.DB.DB(); err != nil {
		dbStatus = err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = err.Error()
	}

	cacheStatus := "ok"
	if err := h.Cache.Ping(ctx); err != nil {
		cacheStatus = "degraded: " + err.Error()
	}

	results := map[string]any{
		"version":  h.Version,
		"database": dbStatus,
		"cache":    cacheStatus,
	}
	if dbStatus != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.ResponseData{
			Status:  fiber.StatusServiceUnavailable,
			Code:    "SERVICE_UNAVAILABLE",
			Message: "Database unreachable",
			Results: results,
		})
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Health status retrieved",
		Results: results,
	})
}
