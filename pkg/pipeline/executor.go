package pipeline

import (
	"context"
	"fmt"
	"log"

	"math-mentor-be/pkg/agents"
)

// Stage contracts, satisfied by the pkg/agents implementations and by test
// fakes. Each stage is synchronous; the executor never starts a stage before
// the previous one has fully returned.

type Parser interface {
	Parse(ctx context.Context, rawText string) *agents.ProblemSpec
}

type Router interface {
	Route(ctx context.Context, spec *agents.ProblemSpec) *agents.RoutingDecision
}

type Solver interface {
	Solve(ctx context.Context, spec *agents.ProblemSpec) (*agents.SolveResult, error)
}

type Verifier interface {
	Verify(ctx context.Context, problemText, solutionText string) (*agents.VerificationResult, error)
}

type Explainer interface {
	Explain(ctx context.Context, problemText, solutionText string, citations []string) (string, error)
}

// Outcome tags the three terminal shapes a run can produce.
type Outcome string

const (
	OutcomeSuccess             Outcome = "success"
	OutcomeClarificationNeeded Outcome = "clarification_needed"
	OutcomeVerificationFailed  Outcome = "verification_failed"
)

// ConfidenceThreshold is the gate: a solution is explained only when the
// verifier reports is_correct AND confidence at or above this value.
const ConfidenceThreshold = 0.8

// Result is the run outcome. Which fields are set depends on Outcome:
// clarification stops after parsing, verification failure stops before the
// explainer, success carries everything.
type Result struct {
	Outcome      Outcome                    `json:"outcome"`
	Spec         *agents.ProblemSpec        `json:"spec"`
	Routing      *agents.RoutingDecision    `json:"routing,omitempty"`
	Solve        *agents.SolveResult        `json:"solve,omitempty"`
	Verification *agents.VerificationResult `json:"verification,omitempty"`
	Explanation  string                     `json:"explanation,omitempty"`
}

// Executor sequences the five stages:
// Parsing → Routing → Solving → Verifying → (Gate) → Explaining
// with two early exits (clarification needed, verification failed). There is
// no automatic retry; a retry is a fresh run initiated by the caller.
type Executor struct {
	parser    Parser
	router    Router
	solver    Solver
	verifier  Verifier
	explainer Explainer
	logger    *log.Logger
}

func NewExecutor(
	parser Parser,
	router Router,
	solver Solver,
	verifier Verifier,
	explainer Explainer,
	logger *log.Logger,
) *Executor {
	return &Executor{
		parser:    parser,
		router:    router,
		solver:    solver,
		verifier:  verifier,
		explainer: explainer,
		logger:    logger,
	}
}

// Run executes one full pipeline pass over raw problem text.
// An error return means a stage failed unrecoverably (solver/verifier/
// explainer generation); content-driven stops (ambiguity, failed
// verification) are Results, not errors.
func (e *Executor) Run(ctx context.Context, rawText string) (*Result, error) {
	e.logger.Printf("[PIPELINE] Starting run for input: %s", truncate(rawText, 50))

	// ═══ STAGE 1: PARSING ═══
	e.logger.Printf("[PIPELINE] Parsing problem...")
	spec := e.parser.Parse(ctx, rawText)

	// Genuine ambiguity and parser degradation exit identically here.
	if spec.NeedsClarification {
		e.logger.Printf("[PIPELINE] Clarification needed, stopping before routing")
		return &Result{
			Outcome: OutcomeClarificationNeeded,
			Spec:    spec,
		}, nil
	}
	e.logger.Printf("[PIPELINE] Problem parsed (topic: %s)", spec.Topic)

	// ═══ STAGE 2: ROUTING (advisory) ═══
	e.logger.Printf("[PIPELINE] Routing...")
	routing := e.router.Route(ctx, spec)

	// ═══ STAGE 3: SOLVING ═══
	e.logger.Printf("[PIPELINE] Solving with retrieved context...")
	solve, err := e.solver.Solve(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("solving stage: %w", err)
	}

	// ═══ STAGE 4: VERIFYING ═══
	e.logger.Printf("[PIPELINE] Verifying...")
	verification, err := e.verifier.Verify(ctx, spec.ProblemText, solve.Solution)
	if err != nil {
		return nil, fmt.Errorf("verifying stage: %w", err)
	}

	// ═══ GATE ═══
	// Both conditions are independent; is_correct with low confidence fails.
	if !verification.IsCorrect || verification.Confidence < ConfidenceThreshold {
		e.logger.Printf("[PIPELINE] Gate failed (correct=%v confidence=%.2f), stopping before explanation",
			verification.IsCorrect, verification.Confidence)
		return &Result{
			Outcome:      OutcomeVerificationFailed,
			Spec:         spec,
			Routing:      routing,
			Solve:        solve,
			Verification: verification,
		}, nil
	}

	// ═══ STAGE 5: EXPLAINING ═══
	e.logger.Printf("[PIPELINE] Explaining verified solution...")
	explanation, err := e.explainer.Explain(ctx, spec.ProblemText, solve.Solution, solve.Citations)
	if err != nil {
		return nil, fmt.Errorf("explaining stage: %w", err)
	}

	e.logger.Printf("[PIPELINE] Run complete (%d citations)", len(solve.Citations))

	return &Result{
		Outcome:      OutcomeSuccess,
		Spec:         spec,
		Routing:      routing,
		Solve:        solve,
		Verification: verification,
		Explanation:  explanation,
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
