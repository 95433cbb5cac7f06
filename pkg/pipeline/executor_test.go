package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"math-mentor-be/pkg/agents"
)

// Stage fakes recording whether they ran.

type stubParser struct {
	spec   *agents.ProblemSpec
	called bool
}

func (s *stubParser) Parse(ctx context.Context, rawText string) *agents.ProblemSpec {
	s.called = true
	return s.spec
}

type stubRouter struct {
	called bool
}

func (s *stubRouter) Route(ctx context.Context, spec *agents.ProblemSpec) *agents.RoutingDecision {
	s.called = true
	return &agents.RoutingDecision{
		Category:         agents.CategoryAlgebra,
		Complexity:       agents.ComplexitySimple,
		RecommendedTools: []string{agents.ToolRAG},
	}
}

type stubSolver struct {
	result *agents.SolveResult
	err    error
	called bool
}

func (s *stubSolver) Solve(ctx context.Context, spec *agents.ProblemSpec) (*agents.SolveResult, error) {
	s.called = true
	return s.result, s.err
}

type stubVerifier struct {
	result *agents.VerificationResult
	err    error
	called bool
}

func (s *stubVerifier) Verify(ctx context.Context, problemText, solutionText string) (*agents.VerificationResult, error) {
	s.called = true
	return s.result, s.err
}

type stubExplainer struct {
	explanation string
	err         error
	called      bool
}

func (s *stubExplainer) Explain(ctx context.Context, problemText, solutionText string, citations []string) (string, error) {
	s.called = true
	return s.explanation, s.err
}

func cleanSpec() *agents.ProblemSpec {
	return &agents.ProblemSpec{
		ProblemText: "2x + 3 = 7, solve for x",
		Topic:       "Algebra",
	}
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newExecutorWith(p *stubParser, r *stubRouter, s *stubSolver, v *stubVerifier, e *stubExplainer) *Executor {
	return NewExecutor(p, r, s, v, e, testLogger())
}

func TestRunSuccess(t *testing.T) {
	parser := &stubParser{spec: cleanSpec()}
	router := &stubRouter{}
	solver := &stubSolver{result: &agents.SolveResult{Solution: "x = 2", Citations: []string{"algebra.md"}}}
	verifier := &stubVerifier{result: &agents.VerificationResult{IsCorrect: true, Confidence: 0.95, Critique: "ok"}}
	explainer := &stubExplainer{explanation: "We subtract 3 from both sides..."}

	result, err := newExecutorWith(parser, router, solver, verifier, explainer).
		Run(context.Background(), "2x + 3 = 7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %s, want success", result.Outcome)
	}
	if result.Explanation == "" || result.Solve == nil || result.Verification == nil || result.Routing == nil {
		t.Error("success result must carry all stage outputs")
	}
}

func TestRunStopsAtClarification(t *testing.T) {
	parser := &stubParser{spec: &agents.ProblemSpec{
		ProblemText:           "Solve for x",
		Topic:                 "Algebra",
		NeedsClarification:    true,
		ClarificationQuestion: "Which equation should be solved?",
	}}
	router := &stubRouter{}
	solver := &stubSolver{}
	verifier := &stubVerifier{}
	explainer := &stubExplainer{}

	result, err := newExecutorWith(parser, router, solver, verifier, explainer).
		Run(context.Background(), "Solve for x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != OutcomeClarificationNeeded {
		t.Fatalf("outcome = %s, want clarification_needed", result.Outcome)
	}
	if result.Spec.ClarificationQuestion == "" {
		t.Error("clarification result must carry the question")
	}
	if router.called || solver.called || verifier.called || explainer.called {
		t.Error("no downstream stage may run after a clarification stop")
	}
}

func TestGateBoundary(t *testing.T) {
	tests := []struct {
		name         string
		verification *agents.VerificationResult
		wantOutcome  Outcome
	}{
		{
			name:         "exactly at threshold passes",
			verification: &agents.VerificationResult{IsCorrect: true, Confidence: 0.8},
			wantOutcome:  OutcomeSuccess,
		},
		{
			name:         "just below threshold fails",
			verification: &agents.VerificationResult{IsCorrect: true, Confidence: 0.7999},
			wantOutcome:  OutcomeVerificationFailed,
		},
		{
			name:         "incorrect fails at any confidence",
			verification: &agents.VerificationResult{IsCorrect: false, Confidence: 0.99},
			wantOutcome:  OutcomeVerificationFailed,
		},
		{
			name:         "correct but unconfident fails",
			verification: &agents.VerificationResult{IsCorrect: true, Confidence: 0.5},
			wantOutcome:  OutcomeVerificationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explainer := &stubExplainer{explanation: "because"}
			result, err := newExecutorWith(
				&stubParser{spec: cleanSpec()},
				&stubRouter{},
				&stubSolver{result: &agents.SolveResult{Solution: "x = 2"}},
				&stubVerifier{result: tt.verification},
				explainer,
			).Run(context.Background(), "2x + 3 = 7")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Outcome != tt.wantOutcome {
				t.Fatalf("outcome = %s, want %s", result.Outcome, tt.wantOutcome)
			}
			if tt.wantOutcome == OutcomeVerificationFailed && explainer.called {
				t.Error("explainer must not run when the gate fails")
			}
		})
	}
}

func TestVerificationFailureCarriesJudgmentVerbatim(t *testing.T) {
	verification := &agents.VerificationResult{
		IsCorrect:  true,
		Confidence: 0.55,
		Critique:   "minor sign error",
		Correction: "x=-2",
	}

	result, err := newExecutorWith(
		&stubParser{spec: cleanSpec()},
		&stubRouter{},
		&stubSolver{result: &agents.SolveResult{Solution: "x = 2"}},
		&stubVerifier{result: verification},
		&stubExplainer{},
	).Run(context.Background(), "2x + 3 = 7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != OutcomeVerificationFailed {
		t.Fatalf("outcome = %s", result.Outcome)
	}
	if result.Verification.Critique != "minor sign error" || result.Verification.Correction != "x=-2" {
		t.Errorf("verification not carried verbatim: %+v", result.Verification)
	}
	if result.Solve.Solution != "x = 2" {
		t.Error("failed result must still carry the proposed solution")
	}
}

func TestRunPropagatesStageErrors(t *testing.T) {
	t.Run("solver failure", func(t *testing.T) {
		_, err := newExecutorWith(
			&stubParser{spec: cleanSpec()},
			&stubRouter{},
			&stubSolver{err: errors.New("backend down")},
			&stubVerifier{},
			&stubExplainer{},
		).Run(context.Background(), "2x + 3 = 7")
		if err == nil {
			t.Fatal("solver error must propagate")
		}
	})

	t.Run("verifier failure", func(t *testing.T) {
		verifier := &stubVerifier{err: agents.ErrVerifierOutput}
		explainer := &stubExplainer{}
		_, err := newExecutorWith(
			&stubParser{spec: cleanSpec()},
			&stubRouter{},
			&stubSolver{result: &agents.SolveResult{Solution: "x = 2"}},
			verifier,
			explainer,
		).Run(context.Background(), "2x + 3 = 7")
		if !errors.Is(err, agents.ErrVerifierOutput) {
			t.Fatalf("err = %v, want ErrVerifierOutput", err)
		}
		if explainer.called {
			t.Error("explainer must not run after a verifier failure")
		}
	})
}
