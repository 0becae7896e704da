package middleware

import (
	"github.com/AzielCF/az-press/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const internalMessage = "Internal server error"

func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			err := recover()
			if err != nil {
				res := render(err)
				if res.Status >= fiber.StatusInternalServerError {
					logrus.WithField("request_id", requestID(ctx)).Errorf("Panic recovered in middleware: %v", err)
				}
				_ = ctx.Status(res.Status).JSON(res)
			}
		}()

		return ctx.Next()
	}
}

// ErrorHandler renders errors returned by handlers with the same envelope as
// recovered panics.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	res := render(err)
	if res.Status >= fiber.StatusInternalServerError {
		logrus.WithError(err).WithField("request_id", requestID(ctx)).Error("[REST] Request failed")
	}
	return ctx.Status(res.Status).JSON(res)
}

// render builds the envelope for v. Unclassified failures get a generic
// message; the detail only goes to the log.
func render(v any) utils.ResponseData {
	res := utils.ResponseData{
		Status:  fiber.StatusInternalServerError,
		Code:    "INTERNAL_SERVER_ERROR",
		Message: internalMessage,
	}
	if err, ok := v.(error); ok {
		if known := Classify(err); known != nil {
			res.Status = known.StatusCode()
			res.Code = known.ErrCode()
			res.Message = known.Error()
		}
	}
	return res
}

// requestID returns the id set by the requestid middleware, or a fresh one.
func requestID(ctx *fiber.Ctx) string {
	if id, ok := ctx.Locals("requestid").(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
