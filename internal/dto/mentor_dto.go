package dto

import (
	"time"

	"github.com/google/uuid"

	"math-mentor-be/pkg/pipeline"
)

type SolveRequest struct {
	ProblemText string `json:"problem_text" validate:"required"`
}

// SolveResponse wraps one pipeline run. Which nested fields are populated
// depends on Outcome: a clarification outcome carries only the question,
// a failed verification carries the critique and any correction, and a
// success carries the full explanation with its citations.
type SolveResponse struct {
	ResultId  uuid.UUID        `json:"result_id"`
	Outcome   pipeline.Outcome `json:"outcome"`
	Result    *pipeline.Result `json:"result"`
	CreatedAt time.Time        `json:"created_at"`
}

type AcceptRequest struct {
	ResultId uuid.UUID `json:"result_id" validate:"required"`
}

type AcceptResponse struct {
	ResultId uuid.UUID `json:"result_id"`
	Learned  bool      `json:"learned"`
}
