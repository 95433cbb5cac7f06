package controller

import (
	"io"

	"math-mentor-be/internal/pkg/serverutils"
	"math-mentor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IExtractController interface {
	RegisterRoutes(r fiber.Router)
	Image(ctx *fiber.Ctx) error
	Audio(ctx *fiber.Ctx) error
}

type extractController struct {
	extractService service.IExtractService
}

func NewExtractController(extractService service.IExtractService) IExtractController {
	return &extractController{
		extractService: extractService,
	}
}

func (c *extractController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/extract/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("image", c.Image)
	h.Post("audio", c.Audio)
}

func (c *extractController) Image(ctx *fiber.Ctx) error {
	payload, contentType, err := readUpload(ctx, "image")
	if err != nil {
		return err
	}

	res, err := c.extractService.ExtractImage(ctx.Context(), payload, contentType)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Text extracted from image", res))
}

func (c *extractController) Audio(ctx *fiber.Ctx) error {
	payload, contentType, err := readUpload(ctx, "audio")
	if err != nil {
		return err
	}

	res, err := c.extractService.ExtractAudio(ctx.Context(), payload, contentType)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Text extracted from audio", res))
}

func readUpload(ctx *fiber.Ctx, field string) ([]byte, string, error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "File field '"+field+"' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return payload, contentType, nil
}
