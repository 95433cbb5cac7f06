package service

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"math-mentor-be/internal/dto"
	"math-mentor-be/internal/pkg/logger"
	"math-mentor-be/pkg/extract"
)

type IExtractService interface {
	ExtractImage(ctx context.Context, payload []byte, contentType string) (*dto.ExtractResponse, error)
	ExtractAudio(ctx context.Context, payload []byte, contentType string) (*dto.ExtractResponse, error)
}

type extractService struct {
	ocrEngine extract.Engine
	asrEngine extract.Engine
	sysLogger logger.ILogger
}

func NewExtractService(ocrEngine, asrEngine extract.Engine, sysLogger logger.ILogger) IExtractService {
	return &extractService{
		ocrEngine: ocrEngine,
		asrEngine: asrEngine,
		sysLogger: sysLogger,
	}
}

func (s *extractService) ExtractImage(ctx context.Context, payload []byte, contentType string) (*dto.ExtractResponse, error) {
	return s.run(ctx, s.ocrEngine, "ocr", payload, contentType)
}

func (s *extractService) ExtractAudio(ctx context.Context, payload []byte, contentType string) (*dto.ExtractResponse, error) {
	return s.run(ctx, s.asrEngine, "asr", payload, contentType)
}

func (s *extractService) run(ctx context.Context, engine extract.Engine, kind string, payload []byte, contentType string) (*dto.ExtractResponse, error) {
	if engine == nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "Extraction engine not configured")
	}

	extraction, err := engine.Extract(ctx, payload, contentType)
	if err != nil {
		s.sysLogger.Error("extract", "Extraction request failed", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
		return nil, err
	}

	// An engine-declared error wins even if text came back alongside it.
	if extraction.Failed() {
		s.sysLogger.Warn("extract", "Engine rejected input", map[string]interface{}{
			"kind":  kind,
			"error": extraction.Error,
		})
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, extraction.Error)
	}

	return &dto.ExtractResponse{
		Text:       extraction.Text,
		Confidence: extraction.Confidence,
	}, nil
}
