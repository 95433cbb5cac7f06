package agents

import "strings"

// ProblemSpec is the normalized problem produced by the parser. It is created
// once per run and never mutated afterwards.
type ProblemSpec struct {
	ProblemText           string   `json:"problem_text"`
	Topic                 string   `json:"topic"`
	Subtopic              string   `json:"subtopic,omitempty"`
	Variables             []string `json:"variables"`
	Constraints           []string `json:"constraints"`
	NeedsClarification    bool     `json:"needs_clarification"`
	ClarificationQuestion string   `json:"clarification_question,omitempty"`
}

// Category constants
const (
	CategoryAlgebra       = "algebra"
	CategoryCalculus      = "calculus"
	CategoryProbability   = "probability"
	CategoryLinearAlgebra = "linear_algebra"
	CategoryOther         = "other"
)

// Complexity constants
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

// ToolRAG must always be present in RecommendedTools.
const ToolRAG = "rag"

// RoutingDecision is advisory strategy classification. It is computed and
// displayed but not enforced downstream.
type RoutingDecision struct {
	Category         string   `json:"category"`
	Complexity       string   `json:"complexity"`
	RecommendedTools []string `json:"recommended_tools"`
}

// SolveResult is the technical solution plus the evidence that produced it.
type SolveResult struct {
	Solution    string   `json:"solution"`
	ContextUsed string   `json:"context_used"` // full merged context, kept for audit
	Citations   []string `json:"citations"`    // knowledge sources only, never memory
}

// VerificationResult is the gate judgment. Correction is meaningful only
// when IsCorrect is false.
type VerificationResult struct {
	IsCorrect  bool    `json:"is_correct"`
	Confidence float64 `json:"confidence"`
	Critique   string  `json:"critique"`
	Correction string  `json:"correction"`
}

// extractJSON slices the first balanced-looking JSON object out of a model
// response that may be wrapped in prose or a markdown fence.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

// truncate shortens a string for log lines.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
