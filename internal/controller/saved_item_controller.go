package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ponderrr/smartadvisor/internal/dto"
	"github.com/ponderrr/smartadvisor/internal/pkg/apperror"
	"github.com/ponderrr/smartadvisor/internal/pkg/serverutils"
	"github.com/ponderrr/smartadvisor/internal/service"
)

type ISavedItemController interface {
	RegisterRoutes(r fiber.Router)
	Save(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
}

type savedItemController struct {
	service service.ISavedItemService
}

func NewSavedItemController(service service.ISavedItemService) ISavedItemController {
	return &savedItemController{service: service}
}

func (c *savedItemController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/saved/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/", c.Save)
	h.Get("/", c.List)
	h.Delete("/:id", c.Remove)
}

func (c *savedItemController) Save(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SaveItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Save(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save item", res))
}

func (c *savedItemController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get saved items", res))
}

func (c *savedItemController) Remove(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid saved item id")
	}

	if err := c.service.Remove(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove saved item", nil))
}
