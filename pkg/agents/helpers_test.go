package agents

import (
	"context"
	"io"
	"log"

	"math-mentor-be/pkg/llm"
	"math-mentor-be/pkg/ragstore"
)

// fakeLLM replays canned responses in order; the last one repeats.
type fakeLLM struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	return f.next(prompt)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.next(prompt)
}

func (f *fakeLLM) next(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++

	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

// fakeStore serves canned retrieval results and records memory writes.
type fakeStore struct {
	knowledge    []ragstore.Chunk
	knowledgeErr error
	memory       []ragstore.MemoryRecord
	memoryErr    error

	addMemoryErr error
	learned      [][3]string

	knowledgeQuery string
	memoryQuery    string
}

func (f *fakeStore) RetrieveKnowledge(ctx context.Context, query string, k int) ([]ragstore.Chunk, error) {
	f.knowledgeQuery = query
	if f.knowledgeErr != nil {
		return nil, f.knowledgeErr
	}
	if k < len(f.knowledge) {
		return f.knowledge[:k], nil
	}
	return f.knowledge, nil
}

func (f *fakeStore) RetrieveMemory(ctx context.Context, query string, k int) ([]ragstore.MemoryRecord, error) {
	f.memoryQuery = query
	if f.memoryErr != nil {
		return nil, f.memoryErr
	}
	if k < len(f.memory) {
		return f.memory[:k], nil
	}
	return f.memory, nil
}

func (f *fakeStore) AddMemory(ctx context.Context, problemText, solutionText, topic string) error {
	if f.addMemoryErr != nil {
		return f.addMemoryErr
	}
	f.learned = append(f.learned, [3]string{problemText, solutionText, topic})
	return nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
