package controller

import (
	"math-mentor-be/internal/dto"
	"math-mentor-be/internal/pkg/serverutils"
	"math-mentor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMentorController interface {
	RegisterRoutes(r fiber.Router)
	Solve(ctx *fiber.Ctx) error
	ShowResult(ctx *fiber.Ctx) error
	Accept(ctx *fiber.Ctx) error
}

type mentorController struct {
	mentorService service.IMentorService
}

func NewMentorController(mentorService service.IMentorService) IMentorController {
	return &mentorController{
		mentorService: mentorService,
	}
}

func (c *mentorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/mentor/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("solve", c.Solve)
	h.Get("result/:id", c.ShowResult)
	h.Post("accept", c.Accept)
}

func (c *mentorController) Solve(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SolveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.mentorService.Solve(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Solve run finished", res))
}

func (c *mentorController) ShowResult(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid result ID"))
	}

	res, err := c.mentorService.GetResult(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Result details", res))
}

func (c *mentorController) Accept(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.AcceptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.mentorService.Accept(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Solution accepted", res))
}
