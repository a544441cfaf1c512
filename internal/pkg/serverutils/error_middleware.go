package serverutils

import (
	"errors"

	"github.com/ponderrr/smartadvisor/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps application errors to HTTP responses.
// Upstream failure details are never forwarded to the client; only the
// AppError message (which carries no wrapped cause) is exposed.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "Something went wrong"

		switch apperror.KindOf(err) {
		case apperror.KindValidation:
			status = fiber.StatusBadRequest
			message = errMessage(err, "Invalid request")
		case apperror.KindUnauthorized:
			status = fiber.StatusUnauthorized
			message = errMessage(err, "Unauthorized")
		case apperror.KindForbidden:
			status = fiber.StatusForbidden
			message = errMessage(err, "Forbidden")
		case apperror.KindNotFound:
			status = fiber.StatusNotFound
			message = errMessage(err, "Not found")
		case apperror.KindConflict:
			status = fiber.StatusConflict
			message = errMessage(err, "Conflict")
		case apperror.KindUpstreamGeneration, apperror.KindTotalLoss:
			status = fiber.StatusBadGateway
			message = "Could not complete the recommendation request"
		case apperror.KindPersistence:
			status = fiber.StatusInternalServerError
			message = "Could not complete the request"
		}

		return ctx.Status(status).JSON(FailResponse(message))
	}
}

func errMessage(err error, fallback string) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
