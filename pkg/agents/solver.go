package agents

import (
	"context"
	"fmt"
	"log"
	"strings"

	"math-mentor-be/pkg/llm"
	"math-mentor-be/pkg/ragstore"
)

// SolverStore is the slice of the dual-collection store the solver needs.
// *ragstore.Store satisfies it; tests substitute fakes.
type SolverStore interface {
	RetrieveKnowledge(ctx context.Context, query string, k int) ([]ragstore.Chunk, error)
	RetrieveMemory(ctx context.Context, query string, k int) ([]ragstore.MemoryRecord, error)
	AddMemory(ctx context.Context, problemText, solutionText, topic string) error
}

const (
	knowledgeTopK = 2
	memoryTopK    = 1

	noContextPlaceholder = "No context available (Retrieval Error)."
)

// SolverAgent generates the technical step-by-step solution, conditioned on
// evidence from both collections. Retrieval is fail-soft: a broken or empty
// store degrades the context, it never stops the solve.
type SolverAgent struct {
	llmProvider llm.LLMProvider
	store       SolverStore
	logger      *log.Logger
}

func NewSolverAgent(llmProvider llm.LLMProvider, store SolverStore, logger *log.Logger) *SolverAgent {
	return &SolverAgent{
		llmProvider: llmProvider,
		store:       store,
		logger:      logger,
	}
}

func (a *SolverAgent) Solve(ctx context.Context, spec *ProblemSpec) (*SolveResult, error) {
	query := fmt.Sprintf("%s: %s", spec.Topic, spec.ProblemText)

	// Past cases first. Absence of memory is the normal cold-start state.
	memoryContext := ""
	memRecords, err := a.store.RetrieveMemory(ctx, query, memoryTopK)
	if err != nil {
		a.logger.Printf("[SOLVER] Memory retrieval failed (continuing without): %v", err)
	} else if len(memRecords) > 0 {
		memoryContext = fmt.Sprintf("\n[SIMILAR PAST PROBLEM]:\n%s\n", memRecords[0].Text)
	}

	knowledgeContext := ""
	var citations []string
	chunks, err := a.store.RetrieveKnowledge(ctx, query, knowledgeTopK)
	if err != nil {
		a.logger.Printf("[SOLVER] Knowledge retrieval failed (using placeholder): %v", err)
		knowledgeContext = noContextPlaceholder
		citations = []string{}
	} else {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Text
			citations = append(citations, chunk.Source)
		}
		knowledgeContext = strings.Join(texts, "\n\n")
		if knowledgeContext == "" {
			knowledgeContext = noContextPlaceholder
		}
	}

	// The two sections stay labeled: the prompt instructions treat a past
	// case differently from reference formulas.
	fullContext := fmt.Sprintf("%s\n\n[KNOWLEDGE BASE]:\n%s", memoryContext, knowledgeContext)

	prompt := a.buildPrompt(fullContext, spec)
	solution, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("solver generation failed: %w", err)
	}

	a.logger.Printf("[SOLVER] Solution generated (%d citations)", len(citations))

	return &SolveResult{
		Solution:    solution,
		ContextUsed: fullContext,
		Citations:   citations,
	}, nil
}

func (a *SolverAgent) buildPrompt(context string, spec *ProblemSpec) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an expert math solver. Solve the given problem step-by-step.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<context>\n")
	prompt.WriteString("Use the following retrieved context (formulas/examples) to ensure accuracy.\n")
	prompt.WriteString("A [SIMILAR PAST PROBLEM] section, if present, is a previously accepted solution to a related problem.\n")
	prompt.WriteString("The [KNOWLEDGE BASE] section contains reference formulas and worked examples.\n")
	prompt.WriteString(context)
	prompt.WriteString("\n</context>\n\n")

	prompt.WriteString("<problem>\n")
	prompt.WriteString(spec.ProblemText)
	prompt.WriteString("\n</problem>\n\n")

	prompt.WriteString("<constraints>\n")
	prompt.WriteString(strings.Join(spec.Constraints, ", "))
	prompt.WriteString("\n</constraints>\n\n")

	prompt.WriteString("<instructions>\n")
	prompt.WriteString("1. State the relevant formula(s) from context.\n")
	prompt.WriteString("2. Show detailed steps.\n")
	prompt.WriteString("3. State the final answer clearly.\n")
	prompt.WriteString("</instructions>")

	return prompt.String()
}

// Learn commits an accepted solution to the memory collection. This is the
// only mutation path into memory and runs only on explicit user acceptance.
// Storage failure is logged and reported as false, never raised.
func (a *SolverAgent) Learn(ctx context.Context, problemText, solutionText, topic string) bool {
	if err := a.store.AddMemory(ctx, problemText, solutionText, topic); err != nil {
		a.logger.Printf("[SOLVER] Memory write failed: %v", err)
		return false
	}
	a.logger.Printf("[SOLVER] Learned solved problem (topic: %s): %s", topic, truncate(problemText, 50))
	return true
}
