package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"math-mentor-be/pkg/llm"
)

// RouterAgent classifies the parsed problem into a strategy triple. The
// decision is advisory: it is surfaced to the caller but does not alter how
// the solver or verifier behave.
type RouterAgent struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewRouterAgent(llmProvider llm.LLMProvider, logger *log.Logger) *RouterAgent {
	return &RouterAgent{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Route never fails the run: classification is cosmetic, so a generation or
// parsing failure falls back to a default decision.
func (a *RouterAgent) Route(ctx context.Context, spec *ProblemSpec) *RoutingDecision {
	prompt := a.buildPrompt(spec)

	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		a.logger.Printf("[ROUTER] Generation failed, using fallback: %v", err)
		return a.fallbackDecision()
	}

	decision, err := a.parseDecision(response)
	if err != nil {
		a.logger.Printf("[ROUTER] Output parsing failed, using fallback: %v", err)
		return a.fallbackDecision()
	}

	a.logger.Printf("[ROUTER] Strategy: %s (%s), tools: %v",
		decision.Category, decision.Complexity, decision.RecommendedTools)
	return decision
}

func (a *RouterAgent) buildPrompt(spec *ProblemSpec) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an expert math tutor router.\n")
	prompt.WriteString("Analyze the parsed problem and decide the best strategy.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<problem>\n")
	prompt.WriteString(fmt.Sprintf("Topic: %s\n", spec.Topic))
	prompt.WriteString(fmt.Sprintf("Text: %s\n", spec.ProblemText))
	prompt.WriteString("</problem>\n\n")

	prompt.WriteString("<instructions>\n")
	prompt.WriteString("Determine:\n")
	prompt.WriteString("1. Broad category: algebra, calculus, probability, linear_algebra or other.\n")
	prompt.WriteString("2. Complexity: simple (single calculation), medium, complex (multi-step reasoning).\n")
	prompt.WriteString("3. Recommended tools. Always include 'rag' for formula retrieval.\n")
	prompt.WriteString("   Add 'calculator' or 'python_repl' for heavy calculation.\n")
	prompt.WriteString("</instructions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"category\": \"algebra\",\n")
	prompt.WriteString("  \"complexity\": \"medium\",\n")
	prompt.WriteString("  \"recommended_tools\": [\"rag\"]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func (a *RouterAgent) parseDecision(response string) (*RoutingDecision, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var decision RoutingDecision
	if err := json.Unmarshal([]byte(jsonContent), &decision); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	decision.Category = normalizeCategory(decision.Category)
	decision.Complexity = normalizeComplexity(decision.Complexity)
	decision.RecommendedTools = ensureRAG(decision.RecommendedTools)

	return &decision, nil
}

func (a *RouterAgent) fallbackDecision() *RoutingDecision {
	return &RoutingDecision{
		Category:         CategoryOther,
		Complexity:       ComplexityMedium,
		RecommendedTools: []string{ToolRAG},
	}
}

func normalizeCategory(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case CategoryAlgebra:
		return CategoryAlgebra
	case CategoryCalculus:
		return CategoryCalculus
	case CategoryProbability:
		return CategoryProbability
	case CategoryLinearAlgebra, "linear algebra":
		return CategoryLinearAlgebra
	default:
		return CategoryOther
	}
}

func normalizeComplexity(complexity string) string {
	switch strings.ToLower(strings.TrimSpace(complexity)) {
	case ComplexitySimple:
		return ComplexitySimple
	case ComplexityComplex:
		return ComplexityComplex
	default:
		return ComplexityMedium
	}
}

// ensureRAG guarantees the "rag" tool survives whatever the model emitted.
func ensureRAG(tools []string) []string {
	for _, tool := range tools {
		if tool == ToolRAG {
			return tools
		}
	}
	return append(tools, ToolRAG)
}
