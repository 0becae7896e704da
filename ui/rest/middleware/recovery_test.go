package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	commentDomain "github.com/AzielCF/az-press/comments/domain"
	pkgError "github.com/AzielCF/az-press/pkg/error"
	"github.com/AzielCF/az-press/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(Recovery())
	app.Get("/driver", func(c *fiber.Ctx) error {
		return errors.New(`pq: relation "comments" does not exist`)
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("nil map write in worker 3")
	})
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return pkgError.ValidationError("id must be a positive integer")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fmt.Errorf("%w: %d", commentDomain.ErrCommentNotFound, 4)
	})
	return app
}

func call(t *testing.T, app *fiber.App, path string) utils.ResponseData {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var res utils.ResponseData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	res.Status = resp.StatusCode
	return res
}

func TestErrorHandler_HidesUnclassifiedDetail(t *testing.T) {
	app := newApp()

	for _, path := range []string{"/driver", "/panic"} {
		res := call(t, app, path)
		assert.Equal(t, fiber.StatusInternalServerError, res.Status, path)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", res.Code, path)
		assert.Equal(t, "Internal server error", res.Message, path)
	}
}

func TestErrorHandler_KeepsClassifiedMessage(t *testing.T) {
	app := newApp()

	res := call(t, app, "/invalid")
	assert.Equal(t, fiber.StatusBadRequest, res.Status)
	assert.Equal(t, "VALIDATION_ERROR", res.Code)
	assert.Equal(t, "id must be a positive integer", res.Message)

	res = call(t, app, "/missing")
	assert.Equal(t, fiber.StatusNotFound, res.Status)
	assert.Equal(t, "NOT_FOUND_ERROR", res.Code)
}
