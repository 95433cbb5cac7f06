package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"math-mentor-be/pkg/llm"
)

// ParserAgent converts raw text (possibly OCR/ASR output) into a structured
// ProblemSpec. It never returns an error: any failure in the structuring call
// degrades into a spec asking for clarification, which the pipeline treats
// the same as model-detected ambiguity.
type ParserAgent struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewParserAgent(llmProvider llm.LLMProvider, logger *log.Logger) *ParserAgent {
	return &ParserAgent{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (a *ParserAgent) Parse(ctx context.Context, rawText string) *ProblemSpec {
	prompt := a.buildPrompt(rawText)

	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		a.logger.Printf("[PARSER] Generation failed: %v", err)
		return a.degradedSpec(rawText, err)
	}

	spec, err := a.parseSpec(response)
	if err != nil {
		a.logger.Printf("[PARSER] Output parsing failed: %v", err)
		return a.degradedSpec(rawText, err)
	}

	a.logger.Printf("[PARSER] Parsed problem (topic: %s, clarification: %v)",
		spec.Topic, spec.NeedsClarification)
	return spec
}

func (a *ParserAgent) buildPrompt(rawText string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a rigorous math problem parser.\n")
	prompt.WriteString("You convert raw, potentially messy text (from OCR or speech transcription) into a structured math problem object.\n")
	prompt.WriteString("You do NOT solve anything.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<input_text>\n")
	prompt.WriteString(rawText)
	prompt.WriteString("\n</input_text>\n\n")

	prompt.WriteString("<instructions>\n")
	prompt.WriteString("Analyze the input for:\n")
	prompt.WriteString("1. The core problem statement (clean up OCR typos).\n")
	prompt.WriteString("2. The mathematical topic (Algebra, Calculus, Probability, Linear Algebra) and subtopic if clear.\n")
	prompt.WriteString("3. Variables and explicit or implicit constraints (e.g. x > 0).\n")
	prompt.WriteString("4. AMBIGUITY: if the problem is ambiguous or incomplete (e.g. 'Solve for x' with no equation,\n")
	prompt.WriteString("   or 'Find the limit' with no function), set needs_clarification to true and write a\n")
	prompt.WriteString("   specific question the student should answer.\n")
	prompt.WriteString("</instructions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"problem_text\": \"cleaned problem statement\",\n")
	prompt.WriteString("  \"topic\": \"Algebra\",\n")
	prompt.WriteString("  \"subtopic\": \"optional subtopic\",\n")
	prompt.WriteString("  \"variables\": [\"x\"],\n")
	prompt.WriteString("  \"constraints\": [\"x > 0\"],\n")
	prompt.WriteString("  \"needs_clarification\": false,\n")
	prompt.WriteString("  \"clarification_question\": \"only when needs_clarification is true\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func (a *ParserAgent) parseSpec(response string) (*ProblemSpec, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var spec ProblemSpec
	if err := json.Unmarshal([]byte(jsonContent), &spec); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	// Normalize so downstream stages can rely on the invariants
	if spec.ProblemText == "" {
		spec.ProblemText = strings.TrimSpace(response)
	}
	if spec.Topic == "" {
		spec.Topic = "Unknown"
	}
	if spec.NeedsClarification && spec.ClarificationQuestion == "" {
		spec.ClarificationQuestion = "The problem statement is ambiguous. Please restate it with all given values."
	}

	return &spec, nil
}

// degradedSpec is the parser's fail-soft outcome. It is a first-class result
// carrying the failure as a clarification question, not an error channel.
func (a *ParserAgent) degradedSpec(rawText string, cause error) *ProblemSpec {
	return &ProblemSpec{
		ProblemText:           rawText,
		Topic:                 "Unknown",
		Variables:             []string{},
		Constraints:           []string{},
		NeedsClarification:    true,
		ClarificationQuestion: fmt.Sprintf("Parsing failed. Error: %v. Please clean up the text.", cause),
	}
}
