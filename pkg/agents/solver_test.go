package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"math-mentor-be/pkg/ragstore"
)

func TestSolverMergesMemoryAndKnowledge(t *testing.T) {
	store := &fakeStore{
		knowledge: []ragstore.Chunk{
			{Text: "The quadratic formula is ...", Source: "algebra.md"},
			{Text: "Factoring patterns ...", Source: "factoring.md"},
		},
		memory: []ragstore.MemoryRecord{
			{Text: "Problem: 3x+1=10\nSolution: x=3", Topic: "Algebra", Source: "user_memory"},
		},
	}
	provider := &fakeLLM{responses: []string{"Step 1 ... x = 2"}}

	solver := NewSolverAgent(provider, store, discardLogger())
	result, err := solver.Solve(context.Background(), &ProblemSpec{
		ProblemText: "2x + 3 = 7, solve for x",
		Topic:       "Algebra",
		Constraints: []string{"x is real"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Retrieval query is "{topic}: {problem_text}"
	if store.knowledgeQuery != "Algebra: 2x + 3 = 7, solve for x" {
		t.Errorf("knowledge query = %q", store.knowledgeQuery)
	}
	if store.memoryQuery != store.knowledgeQuery {
		t.Errorf("memory query = %q, want same as knowledge query", store.memoryQuery)
	}

	// The two context sections must stay distinguishable
	if !strings.Contains(result.ContextUsed, "[SIMILAR PAST PROBLEM]") {
		t.Error("context is missing the memory section")
	}
	if !strings.Contains(result.ContextUsed, "[KNOWLEDGE BASE]") {
		t.Error("context is missing the knowledge section")
	}
	if !strings.Contains(result.ContextUsed, "x=3") {
		t.Error("context is missing the past case text")
	}

	// Citations come from knowledge sources only
	if len(result.Citations) != 2 {
		t.Fatalf("citations = %v, want 2 entries", result.Citations)
	}
	for _, c := range result.Citations {
		if c == "user_memory" {
			t.Error("memory-derived identifier leaked into citations")
		}
	}

	if result.Solution != "Step 1 ... x = 2" {
		t.Errorf("solution = %q", result.Solution)
	}
}

func TestSolverWithEmptyCollections(t *testing.T) {
	store := &fakeStore{} // both collections empty, no errors
	provider := &fakeLLM{responses: []string{"x = 2"}}

	solver := NewSolverAgent(provider, store, discardLogger())
	result, err := solver.Solve(context.Background(), specFor("2x + 3 = 7, solve for x"))
	if err != nil {
		t.Fatalf("empty collections must not fail the solve: %v", err)
	}

	if !strings.Contains(result.ContextUsed, noContextPlaceholder) {
		t.Errorf("context should carry the placeholder, got %q", result.ContextUsed)
	}
	if len(result.Citations) != 0 {
		t.Errorf("citations = %v, want empty", result.Citations)
	}
	if strings.Contains(result.ContextUsed, "[SIMILAR PAST PROBLEM]") {
		t.Error("no memory section expected when memory is empty")
	}
}

func TestSolverSurvivesRetrievalFailures(t *testing.T) {
	store := &fakeStore{
		knowledgeErr: errors.New("collection offline"),
		memoryErr:    errors.New("collection offline"),
	}
	provider := &fakeLLM{responses: []string{"x = 2"}}

	solver := NewSolverAgent(provider, store, discardLogger())
	result, err := solver.Solve(context.Background(), specFor("2x + 3 = 7"))
	if err != nil {
		t.Fatalf("retrieval failures must degrade, not propagate: %v", err)
	}

	if !strings.Contains(result.ContextUsed, noContextPlaceholder) {
		t.Error("degraded context should use the placeholder")
	}
	if len(result.Citations) != 0 {
		t.Errorf("citations = %v, want empty on retrieval failure", result.Citations)
	}
}

func TestSolverPropagatesGenerationFailure(t *testing.T) {
	store := &fakeStore{}
	provider := &fakeLLM{errs: []error{errors.New("backend down")}}

	solver := NewSolverAgent(provider, store, discardLogger())
	if _, err := solver.Solve(context.Background(), specFor("2x + 3 = 7")); err == nil {
		t.Fatal("generation failure must surface as an error")
	}
}

func TestSolverLearn(t *testing.T) {
	store := &fakeStore{}
	solver := NewSolverAgent(&fakeLLM{}, store, discardLogger())

	ok := solver.Learn(context.Background(), "2x+3=7", "x=2", "Algebra")
	if !ok {
		t.Fatal("learn should succeed")
	}
	if len(store.learned) != 1 {
		t.Fatalf("learned records = %d, want 1", len(store.learned))
	}
	if store.learned[0] != [3]string{"2x+3=7", "x=2", "Algebra"} {
		t.Errorf("learned record = %v", store.learned[0])
	}
}

func TestSolverLearnReportsStorageFailure(t *testing.T) {
	store := &fakeStore{addMemoryErr: errors.New("disk full")}
	solver := NewSolverAgent(&fakeLLM{}, store, discardLogger())

	if solver.Learn(context.Background(), "p", "s", "t") {
		t.Fatal("learn must return false on storage failure")
	}
}
