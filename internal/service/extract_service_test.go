package service

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"math-mentor-be/pkg/extract"
)

type fakeEngine struct {
	extraction *extract.Extraction
	err        error
}

func (f *fakeEngine) Extract(ctx context.Context, payload []byte, contentType string) (*extract.Extraction, error) {
	return f.extraction, f.err
}

func TestExtractImageReturnsText(t *testing.T) {
	svc := NewExtractService(&fakeEngine{
		extraction: &extract.Extraction{Text: "Solve 2x = 4", Confidence: 0.91},
	}, nil, noopLogger{})

	res, err := svc.ExtractImage(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "Solve 2x = 4", res.Text)
	assert.Equal(t, 0.91, res.Confidence)
}

func TestExtractEngineErrorIsAuthoritative(t *testing.T) {
	// Text alongside a declared error must not leak through.
	svc := NewExtractService(&fakeEngine{
		extraction: &extract.Extraction{Text: "partial", Error: "image too blurry"},
	}, nil, noopLogger{})

	_, err := svc.ExtractImage(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberErr.Code)
	assert.Equal(t, "image too blurry", fiberErr.Message)
}

func TestExtractAudioWithoutEngine(t *testing.T) {
	svc := NewExtractService(nil, nil, noopLogger{})

	_, err := svc.ExtractAudio(context.Background(), []byte("wav"), "audio/wav")
	require.Error(t, err)
	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusServiceUnavailable, fiberErr.Code)
}
