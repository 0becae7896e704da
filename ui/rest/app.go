package rest

import (
	authInfra "github.com/AzielCF/az-press/auth/infrastructure"
	"github.com/AzielCF/az-press/core/bootstrap"
	"github.com/AzielCF/az-press/core/config"
	"github.com/AzielCF/az-press/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type App struct{}

// Mount registers every API route of the blog on router.
func Mount(router fiber.Router, c *bootstrap.Container) {
	guards := Guards{
		Auth:     authInfra.NewAuthMiddleware(c.Auth),
		Optional: authInfra.NewOptionalAuthMiddleware(c.Auth),
		Role:     authInfra.RequireRole,
	}

	authInfra.NewAuthHandler(c.Auth).RegisterRoutes(router, guards.Auth)
	InitRestApp(router, guards)
	InitRestHealth(router, c.Config.App.Version, c.DB, c.CacheBackend)
	InitRestUser(router, guards, c.Users)
	InitRestArticle(router, guards, c.Articles)
	InitRestComment(router, guards, c.Comments)
	InitRestCache(router, guards, c.Maintenance)

	router.All("/*", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusNotFound).JSON(utils.ResponseData{
			Status:  fiber.StatusNotFound,
			Code:    "NOT_FOUND",
			Message: "API endpoint not found: " + ctx.Path(),
		})
	})
}

func InitRestApp(app fiber.Router, guards Guards) App {
	rest := App{}
	app.Get("/app/version", rest.GetVersion)
	app.Get("/app/settings", guards.Auth, guards.Role("admin"), rest.GetSettings)

	return rest
}

func (handler *App) GetVersion(c *fiber.Ctx) error {
	version := ""
	if config.Global != nil {
		version = config.Global.App.Version
	}
	return c.JSON(fiber.Map{"version": version})
}

func (handler *App) GetSettings(c *fiber.Ctx) error {
	return utils.Success(c, "Settings retrieved", config.GetAllSettings())
}
