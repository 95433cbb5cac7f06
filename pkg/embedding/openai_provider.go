package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type OpenAIProvider struct {
	ApiKey string
	client *http.Client
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		ApiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type openaiEmbeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	// text-embedding-3-small natively emits 1536 values; we request 768 so
	// the stored vectors match the Gemini backend's width.
	Dimensions int `json:"dimensions"`
}

type openaiEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// taskType is a Gemini concept; OpenAI has no equivalent parameter.
	_ = taskType

	openaiReq := openaiEmbeddingRequest{
		Model:      "text-embedding-3-small",
		Input:      text,
		Dimensions: Dimensions,
	}
	openaiReqJson, err := json.Marshal(openaiReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(
		"POST",
		"https://api.openai.com/v1/embeddings",
		bytes.NewBuffer(openaiReqJson),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from openai response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var openaiRes openaiEmbeddingResponse
	if err := json.Unmarshal(resByte, &openaiRes); err != nil {
		return nil, err
	}
	if len(openaiRes.Data) == 0 {
		return nil, fmt.Errorf("openai returned no embedding data")
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: openaiRes.Data[0].Embedding,
		},
	}, nil
}
