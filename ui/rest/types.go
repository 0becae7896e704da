package rest

import (
	"strconv"

	pkgError "github.com/AzielCF/az-press/pkg/error"
	"github.com/gofiber/fiber/v2"
)

// Guards are the auth middlewares handlers attach per route. Groups sharing a
// prefix would stack their middleware in fiber, so routes carry their own.
type Guards struct {
	Auth     fiber.Handler
	Optional fiber.Handler
	Role     func(roles ...string) fiber.Handler
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgError.ValidationError("invalid " + name)
	}
	return id, nil
}

func bodyParse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return pkgError.ValidationError("invalid request body")
	}
	return nil
}
