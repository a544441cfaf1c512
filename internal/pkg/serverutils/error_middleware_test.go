package serverutils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/ponderrr/smartadvisor/internal/pkg/apperror"
)

func newErrorApp(err error) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return err
	})
	return app
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation",
			err:         apperror.Validation("field is required"),
			wantStatus:  fiber.StatusBadRequest,
			wantMessage: "field is required",
		},
		{
			name:        "unauthorized",
			err:         apperror.Unauthorized("invalid credentials"),
			wantStatus:  fiber.StatusUnauthorized,
			wantMessage: "invalid credentials",
		},
		{
			name:        "forbidden",
			err:         apperror.Forbidden("not your session"),
			wantStatus:  fiber.StatusForbidden,
			wantMessage: "not your session",
		},
		{
			name:        "not found",
			err:         apperror.NotFound("no such session"),
			wantStatus:  fiber.StatusNotFound,
			wantMessage: "no such session",
		},
		{
			name:        "conflict",
			err:         apperror.Conflict("wrong state"),
			wantStatus:  fiber.StatusConflict,
			wantMessage: "wrong state",
		},
		{
			name:        "upstream failure hides details",
			err:         apperror.UpstreamGeneration("question generation failed", errors.New("dial tcp: connection refused")),
			wantStatus:  fiber.StatusBadGateway,
			wantMessage: "Could not complete the recommendation request",
		},
		{
			name:        "total loss hides details",
			err:         apperror.TotalLoss("no usable candidates were generated"),
			wantStatus:  fiber.StatusBadGateway,
			wantMessage: "Could not complete the recommendation request",
		},
		{
			name:        "persistence hides details",
			err:         apperror.Persistence("could not commit", errors.New("pq: deadlock detected")),
			wantStatus:  fiber.StatusInternalServerError,
			wantMessage: "Could not complete the request",
		},
		{
			name:        "unclassified error",
			err:         errors.New("some programming mistake"),
			wantStatus:  fiber.StatusInternalServerError,
			wantMessage: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newErrorApp(tt.err)

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body Response[any]
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)

			// Wrapped causes never leak to the client.
			if tt.err != nil {
				var appErr *apperror.AppError
				if errors.As(tt.err, &appErr) && appErr.Err != nil {
					assert.NotContains(t, body.Message, appErr.Err.Error())
				}
			}
		})
	}
}

func TestErrorHandlerMiddlewarePassesThroughSuccess(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/ok", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("All good", fiber.Map{"value": 1}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
