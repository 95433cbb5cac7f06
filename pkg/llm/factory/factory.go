package factory

import (
	"errors"
	"strings"

	"math-mentor-be/pkg/llm"
	"math-mentor-be/pkg/llm/gemini"
	"math-mentor-be/pkg/llm/groq"
	"math-mentor-be/pkg/llm/openai"
)

// ErrNoProvider is a fatal configuration error: there is no mock fallback,
// the process must not start without a usable backend.
var ErrNoProvider = errors.New("no LLM provider credential configured (set GROQ_API_KEY, OPENAI_API_KEY or GOOGLE_GEMINI_API_KEY)")

// Credentials holds the typed credential set resolved once at startup.
type Credentials struct {
	GroqAPIKey   string
	OpenAIAPIKey string
	GeminiAPIKey string
}

// NewLLMProvider selects the chat backend in fixed priority order:
// Groq, then OpenAI (key must be well-formed), then Gemini.
// The returned name is the selected backend identifier, for logging.
func NewLLMProvider(creds Credentials) (llm.LLMProvider, string, error) {
	switch {
	case creds.GroqAPIKey != "":
		return groq.NewGroqProvider(creds.GroqAPIKey), "groq", nil
	case creds.OpenAIAPIKey != "" && strings.HasPrefix(creds.OpenAIAPIKey, "sk-"):
		return openai.NewOpenAIProvider(creds.OpenAIAPIKey), "openai", nil
	case creds.GeminiAPIKey != "":
		return gemini.NewGeminiProvider(creds.GeminiAPIKey), "gemini", nil
	default:
		return nil, "", ErrNoProvider
	}
}
