package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestVerifierParsesJudgment(t *testing.T) {
	provider := &fakeLLM{responses: []string{`{
  "is_correct": true,
  "confidence": 0.92,
  "critique": "All steps check out.",
  "correction": ""
}`}}

	verifier := NewVerifierAgent(provider, discardLogger())
	result, err := verifier.Verify(context.Background(), "2x+3=7", "x=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsCorrect {
		t.Error("is_correct should be true")
	}
	if result.Confidence != 0.92 {
		t.Errorf("confidence = %v", result.Confidence)
	}
	if result.Critique != "All steps check out." {
		t.Errorf("critique = %q", result.Critique)
	}
}

func TestVerifierRetriesOnceWithStrictPrompt(t *testing.T) {
	provider := &fakeLLM{responses: []string{
		"Sure! The solution looks fine to me.", // no JSON
		`{"is_correct": false, "confidence": 0.7, "critique": "sign error", "correction": "x=-2"}`,
	}}

	verifier := NewVerifierAgent(provider, discardLogger())
	result, err := verifier.Verify(context.Background(), "2x+3=7", "x=-2")
	if err != nil {
		t.Fatalf("retry should have recovered: %v", err)
	}

	if provider.calls != 2 {
		t.Errorf("calls = %d, want 2", provider.calls)
	}
	if !strings.Contains(provider.prompts[1], "NOTHING else") {
		t.Error("second attempt should use the stricter instruction")
	}
	if result.IsCorrect || result.Correction != "x=-2" {
		t.Errorf("result = %+v", result)
	}
}

func TestVerifierFailsAfterStrictRetry(t *testing.T) {
	provider := &fakeLLM{responses: []string{"garbage", "more garbage"}}

	verifier := NewVerifierAgent(provider, discardLogger())
	_, err := verifier.Verify(context.Background(), "p", "s")

	if !errors.Is(err, ErrVerifierOutput) {
		t.Fatalf("err = %v, want ErrVerifierOutput", err)
	}
	if provider.calls != 2 {
		t.Errorf("calls = %d, want exactly one retry", provider.calls)
	}
}

func TestVerifierClampsConfidence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"above one", `{"is_correct": true, "confidence": 1.4, "critique": "ok"}`, 1.0},
		{"negative", `{"is_correct": false, "confidence": -0.2, "critique": "bad"}`, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeLLM{responses: []string{tt.raw}}
			verifier := NewVerifierAgent(provider, discardLogger())

			result, err := verifier.Verify(context.Background(), "p", "s")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Confidence != tt.want {
				t.Errorf("confidence = %v, want %v", result.Confidence, tt.want)
			}
		})
	}
}
