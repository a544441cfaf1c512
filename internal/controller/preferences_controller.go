package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ponderrr/smartadvisor/internal/dto"
	"github.com/ponderrr/smartadvisor/internal/pkg/apperror"
	"github.com/ponderrr/smartadvisor/internal/pkg/serverutils"
	"github.com/ponderrr/smartadvisor/internal/service"
)

type IPreferencesController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type preferencesController struct {
	service service.IPreferencesService
}

func NewPreferencesController(service service.IPreferencesService) IPreferencesController {
	return &preferencesController{service: service}
}

func (c *preferencesController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/preferences/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.Show)
	h.Put("/", c.Update)
}

func (c *preferencesController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.Get(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get preferences", res))
}

func (c *preferencesController) Update(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.UpdatePreferencesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update preferences", res))
}
