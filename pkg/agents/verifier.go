package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"math-mentor-be/pkg/llm"
)

// ErrVerifierOutput means the verifier could not produce a well-formed
// judgment even after the stricter retry. Unlike the parser there is no
// degraded fallback here: an unverifiable solution must not be shown.
var ErrVerifierOutput = errors.New("verifier produced no well-formed judgment")

// VerifierAgent re-examines problem and solution and returns the gate
// judgment. The gate rule itself (confidence threshold) belongs to the
// pipeline, not to this agent.
type VerifierAgent struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewVerifierAgent(llmProvider llm.LLMProvider, logger *log.Logger) *VerifierAgent {
	return &VerifierAgent{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (a *VerifierAgent) Verify(ctx context.Context, problemText, solutionText string) (*VerificationResult, error) {
	prompt := a.buildPrompt(problemText, solutionText, false)

	result, firstErr := a.generateAndParse(ctx, prompt)
	if firstErr == nil {
		a.logger.Printf("[VERIFIER] Judgment: correct=%v confidence=%.2f", result.IsCorrect, result.Confidence)
		return result, nil
	}

	// One retry with a stricter JSON-only instruction before giving up.
	a.logger.Printf("[VERIFIER] Malformed judgment, retrying strictly: %v", firstErr)
	strictPrompt := a.buildPrompt(problemText, solutionText, true)

	result, retryErr := a.generateAndParse(ctx, strictPrompt)
	if retryErr != nil {
		a.logger.Printf("[VERIFIER] Strict retry failed: %v", retryErr)
		return nil, fmt.Errorf("%w: %v", ErrVerifierOutput, retryErr)
	}

	a.logger.Printf("[VERIFIER] Judgment (after retry): correct=%v confidence=%.2f", result.IsCorrect, result.Confidence)
	return result, nil
}

func (a *VerifierAgent) generateAndParse(ctx context.Context, prompt string) (*VerificationResult, error) {
	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var result VerificationResult
	if err := json.Unmarshal([]byte(jsonContent), &result); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	// Confidence must land in [0,1] whatever the model emitted
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	return &result, nil
}

func (a *VerifierAgent) buildPrompt(problemText, solutionText string, strict bool) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a strict math verifier. Review the problem and the proposed solution.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<problem>\n")
	prompt.WriteString(problemText)
	prompt.WriteString("\n</problem>\n\n")

	prompt.WriteString("<proposed_solution>\n")
	prompt.WriteString(solutionText)
	prompt.WriteString("\n</proposed_solution>\n\n")

	prompt.WriteString("<instructions>\n")
	prompt.WriteString("Check for:\n")
	prompt.WriteString("1. Logical errors.\n")
	prompt.WriteString("2. Calculation mistakes.\n")
	prompt.WriteString("3. Unit consistency.\n")
	prompt.WriteString("4. Constraint violations.\n")
	prompt.WriteString("</instructions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"is_correct\": true,\n")
	prompt.WriteString("  \"confidence\": 0.95,\n")
	prompt.WriteString("  \"critique\": \"explanation of errors, or confirmation of correctness\",\n")
	prompt.WriteString("  \"correction\": \"corrected final answer or step, when is_correct is false\"\n")
	prompt.WriteString("}\n")
	if strict {
		prompt.WriteString("Output the JSON object and NOTHING else. No prose, no markdown fences.\n")
	}
	prompt.WriteString("</output_format>")

	return prompt.String()
}
