package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"math-mentor-be/internal/dto"
	"math-mentor-be/internal/pkg/logger"
	"math-mentor-be/internal/repository/memory"
	"math-mentor-be/pkg/events"
	pktNats "math-mentor-be/pkg/nats"
	"math-mentor-be/pkg/pipeline"
)

type IMentorService interface {
	Solve(ctx context.Context, userId uuid.UUID, req *dto.SolveRequest) (*dto.SolveResponse, error)
	GetResult(ctx context.Context, userId uuid.UUID, resultId uuid.UUID) (*dto.SolveResponse, error)
	Accept(ctx context.Context, userId uuid.UUID, req *dto.AcceptRequest) (*dto.AcceptResponse, error)
}

// mentorService owns the request-scoped side of the pipeline: running it,
// keeping the result for later retrieval, and turning an explicit user
// acceptance into a learning event.
type mentorService struct {
	executor         *pipeline.Executor
	resultRepo       *memory.ResultRepository
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	sysLogger        logger.ILogger
}

func NewMentorService(
	executor *pipeline.Executor,
	resultRepo *memory.ResultRepository,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IMentorService {
	return &mentorService{
		executor:         executor,
		resultRepo:       resultRepo,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		sysLogger:        sysLogger,
	}
}

func (s *mentorService) Solve(ctx context.Context, userId uuid.UUID, req *dto.SolveRequest) (*dto.SolveResponse, error) {
	result, err := s.executor.Run(ctx, req.ProblemText)
	if err != nil {
		s.sysLogger.Error("mentor", "Pipeline run failed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return nil, err
	}

	res := &dto.SolveResponse{
		ResultId:  uuid.New(),
		Outcome:   result.Outcome,
		Result:    result,
		CreatedAt: time.Now(),
	}

	s.resultRepo.Save(&memory.StoredResult{
		Response: res,
		UserId:   userId,
	})

	s.sysLogger.Info("mentor", "Pipeline run stored", map[string]interface{}{
		"result_id": res.ResultId,
		"outcome":   result.Outcome,
	})

	return res, nil
}

func (s *mentorService) GetResult(ctx context.Context, userId uuid.UUID, resultId uuid.UUID) (*dto.SolveResponse, error) {
	stored, found := s.resultRepo.Get(resultId)
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "Result not found or expired")
	}
	if stored.UserId != userId {
		return nil, fiber.NewError(fiber.StatusForbidden, "Result belongs to another user")
	}
	return stored.Response, nil
}

// Accept records that the user wants this mentor answer remembered.
// Only verified successes are eligible; the actual memory write happens
// asynchronously on the learning bus.
func (s *mentorService) Accept(ctx context.Context, userId uuid.UUID, req *dto.AcceptRequest) (*dto.AcceptResponse, error) {
	stored, found := s.resultRepo.Get(req.ResultId)
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "Result not found or expired")
	}
	if stored.UserId != userId {
		return nil, fiber.NewError(fiber.StatusForbidden, "Result belongs to another user")
	}
	if stored.Response.Outcome != pipeline.OutcomeSuccess {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity,
			"Only successfully verified solutions can be accepted")
	}

	stored, transitioned := s.resultRepo.MarkAccepted(req.ResultId)
	if !transitioned {
		// Already accepted earlier; don't learn the same solution twice.
		return &dto.AcceptResponse{ResultId: req.ResultId, Learned: false}, nil
	}

	run := stored.Response.Result
	msgPayload := dto.PublishLearnMessage{
		ResultId: req.ResultId.String(),
		Problem:  run.Spec.ProblemText,
		Solution: run.Solve.Solution,
		Topic:    run.Spec.Topic,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, fmt.Errorf("failed to queue accepted solution: %w", err)
	}

	// Audit trail is auxiliary; the request does not fail on NATS errors.
	if s.eventPublisher != nil {
		evt := events.NewSolutionAccepted(req.ResultId.String(), run.Spec.Topic, run.Spec.ProblemText)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.sysLogger.Warn("mentor", "Failed to publish SOLUTION_ACCEPTED event", map[string]interface{}{
				"result_id": req.ResultId,
				"error":     err.Error(),
			})
		}
	}

	s.sysLogger.Info("mentor", "Solution accepted for learning", map[string]interface{}{
		"result_id": req.ResultId,
		"topic":     run.Spec.Topic,
	})

	return &dto.AcceptResponse{ResultId: req.ResultId, Learned: true}, nil
}
