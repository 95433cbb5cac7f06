package embedding

import "errors"

// Both backends are requested at the same width so the two vector
// collections stay interchangeable regardless of which credential is set.
const Dimensions = 768

// Task types passed through to backends that distinguish them (Gemini does,
// OpenAI ignores the hint).
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// ErrNoEmbeddingProvider is a fatal configuration error, mirrored on the
// chat-provider side by factory.ErrNoProvider.
var ErrNoEmbeddingProvider = errors.New("no embedding provider credential configured (set OPENAI_API_KEY or GOOGLE_GEMINI_API_KEY)")

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

// Credentials holds the embedding credential set, resolved once at startup.
type Credentials struct {
	OpenAIAPIKey string
	GeminiAPIKey string
}

// NewProvider selects the embedding backend: OpenAI first, then Gemini.
// The priority is independent from chat-provider selection.
func NewProvider(creds Credentials) (EmbeddingProvider, string, error) {
	switch {
	case creds.OpenAIAPIKey != "":
		return NewOpenAIProvider(creds.OpenAIAPIKey), "openai", nil
	case creds.GeminiAPIKey != "":
		return NewGeminiProvider(creds.GeminiAPIKey), "gemini", nil
	default:
		return nil, "", ErrNoEmbeddingProvider
	}
}
