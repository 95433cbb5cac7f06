package agents

import (
	"context"
	"fmt"
	"log"
	"strings"

	"math-mentor-be/pkg/llm"
)

// ExplainerAgent turns a verified technical solution into learner-facing
// prose. It runs only after the gate passes and does no correctness checking
// of its own.
type ExplainerAgent struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewExplainerAgent(llmProvider llm.LLMProvider, logger *log.Logger) *ExplainerAgent {
	return &ExplainerAgent{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (a *ExplainerAgent) Explain(ctx context.Context, problemText, solutionText string, citations []string) (string, error) {
	prompt := a.buildPrompt(problemText, solutionText, citations)

	explanation, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return "", fmt.Errorf("explainer generation failed: %w", err)
	}

	a.logger.Printf("[EXPLAINER] Explanation generated (%d chars)", len(explanation))
	return explanation, nil
}

func (a *ExplainerAgent) buildPrompt(problemText, solutionText string, citations []string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a kind and patient math tutor. Explain the solution to a student clearly.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<problem>\n")
	prompt.WriteString(problemText)
	prompt.WriteString("\n</problem>\n\n")

	prompt.WriteString("<technical_solution>\n")
	prompt.WriteString(solutionText)
	prompt.WriteString("\n</technical_solution>\n\n")

	if len(citations) > 0 {
		prompt.WriteString("<sources>\n")
		prompt.WriteString(strings.Join(citations, ", "))
		prompt.WriteString("\n</sources>\n\n")
	}

	prompt.WriteString("<instructions>\n")
	prompt.WriteString("1. Break down the logic in simple terms.\n")
	prompt.WriteString("2. Explain WHY each step was taken.\n")
	prompt.WriteString("3. Mention any formulas used.\n")
	prompt.WriteString("4. Be encouraging.\n")
	if len(citations) > 0 {
		prompt.WriteString("5. Mention the sources briefly as \"Reference\".\n")
	}
	prompt.WriteString("</instructions>")

	return prompt.String()
}
