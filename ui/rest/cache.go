package rest

import (
	cacheApp "github.com/AzielCF/az-press/caching/application"
	cacheDomain "github.com/AzielCF/az-press/caching/domain"
	pkgError "github.com/AzielCF/az-press/pkg/error"
	"github.com/AzielCF/az-press/pkg/utils"
	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
)

type Cache struct {
	Service *cacheApp.Maintenance
}

func InitRestCache(app fiber.Router, guards Guards, service *cacheApp.Maintenance) Cache {
	rest := Cache{Service: service}
	admin := guards.Role("admin")
	app.Get("/cache/stats", guards.Auth, admin, rest.GetStats)
	app.Post("/cache/likes/clear", guards.Auth, admin, rest.ClearLikes)
	app.Delete("/cache/namespaces/:ns", guards.Auth, admin, rest.ClearNamespace)

	return rest
}

func (handler *Cache) GetStats(c *fiber.Ctx) error {
	stats := handler.Service.Stats(c.UserContext())
	if !stats.Healthy {
		return fiber.NewError(fiber.StatusServiceUnavailable, "cache backend "+stats.Backend+" is unreachable")
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache stats retrieved",
		Results: fiber.Map{
			"stats":         stats,
			"total_display": humanize.Comma(int64(stats.Total)),
		},
	})
}

func (handler *Cache) ClearLikes(c *fiber.Ctx) error {
	kinds, err := cacheApp.ParseLikeKinds(c.Query("target"))
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	removed, res := handler.Service.ClearLikes(c.UserContext(), kinds...)
	if res.Degraded() {
		return fiber.NewError(fiber.StatusServiceUnavailable, res.Err.Error())
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cleared " + humanize.Comma(removed) + " like sets",
		Results: fiber.Map{"removed": removed},
	})
}

func (handler *Cache) ClearNamespace(c *fiber.Ctx) error {
	ns := cacheDomain.Namespace(c.Params("ns"))
	if !cacheApp.KnownNamespace(ns) {
		return pkgError.ValidationError("unknown namespace " + string(ns))
	}

	removed, res := handler.Service.ClearNamespace(c.UserContext(), ns)
	if res.Degraded() {
		return fiber.NewError(fiber.StatusServiceUnavailable, res.Err.Error())
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Namespace " + string(ns) + " cleared",
		Results: fiber.Map{"removed": removed},
	})
}
