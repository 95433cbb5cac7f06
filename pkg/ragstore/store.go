package ragstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"math-mentor-be/internal/model"
	"math-mentor-be/pkg/embedding"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Chunk is one retrievable unit of the static knowledge corpus.
type Chunk struct {
	Text     string
	Source   string // originating filename
	Metadata map[string]string
}

// MemoryRecord is one episodic case retrieved from the memory collection.
type MemoryRecord struct {
	Text   string // "Problem: ...\nSolution: ..."
	Topic  string
	Source string
}

// Store addresses the two similarity collections ("math_knowledge",
// "math_memory") that share one persistence root and one embedding provider.
// The collections are independently lifecycled: knowledge is populated by
// offline ingestion, memory grows at runtime through the learn entry point.
type Store struct {
	db       *gorm.DB
	embedder embedding.EmbeddingProvider
	logger   *log.Logger
}

func NewStore(db *gorm.DB, embedder embedding.EmbeddingProvider, logger *log.Logger) *Store {
	return &Store{
		db:       db,
		embedder: embedder,
		logger:   logger,
	}
}

// AddKnowledge appends chunks to the knowledge collection. Re-ingesting the
// same file duplicates rows; retrieval ranking tolerates duplicates so no
// dedup pass is done here.
func (s *Store) AddKnowledge(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*model.KnowledgeEmbedding, 0, len(chunks))
	for _, chunk := range chunks {
		res, err := s.embedder.Generate(chunk.Text, embedding.TaskRetrievalDocument)
		if err != nil {
			return fmt.Errorf("embed knowledge chunk from %s: %w", chunk.Source, err)
		}

		var meta datatypes.JSON
		if len(chunk.Metadata) > 0 {
			raw, err := json.Marshal(chunk.Metadata)
			if err != nil {
				return fmt.Errorf("marshal chunk metadata: %w", err)
			}
			meta = datatypes.JSON(raw)
		}

		models = append(models, &model.KnowledgeEmbedding{
			Document:       chunk.Text,
			EmbeddingValue: pgvector.NewVector(res.Embedding.Values),
			Source:         chunk.Source,
			Metadata:       meta,
		})
	}

	if err := s.db.WithContext(ctx).Create(models).Error; err != nil {
		return fmt.Errorf("insert knowledge chunks: %w", err)
	}

	s.logger.Printf("[STORE] Added %d knowledge chunks", len(models))
	return nil
}

// RetrieveKnowledge returns up to k chunks ranked by cosine similarity.
// An empty collection yields an empty slice, not an error.
func (s *Store) RetrieveKnowledge(ctx context.Context, query string, k int) ([]Chunk, error) {
	if k <= 0 {
		k = 2
	}

	res, err := s.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed knowledge query: %w", err)
	}

	var models []*model.KnowledgeEmbedding
	err = s.db.WithContext(ctx).
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(res.Embedding.Values))).
		Limit(k).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("search knowledge collection: %w", err)
	}

	chunks := make([]Chunk, len(models))
	for i, m := range models {
		var meta map[string]string
		if len(m.Metadata) > 0 {
			// Metadata is display-only; a corrupt row should not break retrieval
			_ = json.Unmarshal(m.Metadata, &meta)
		}
		chunks[i] = Chunk{
			Text:     m.Document,
			Source:   m.Source,
			Metadata: meta,
		}
	}
	return chunks, nil
}

// memorySource tags every episodic row; knowledge rows carry filenames.
const memorySource = "user_memory"

// memoryDocument composes the canonical embedded form of a solved case.
func memoryDocument(problemText, solutionText string) string {
	return fmt.Sprintf("Problem: %s\nSolution: %s", problemText, solutionText)
}

// AddMemory appends one solved case to the memory collection. The insert is
// synchronous, so the record is visible to the next RetrieveMemory call.
func (s *Store) AddMemory(ctx context.Context, problemText, solutionText, topic string) error {
	document := memoryDocument(problemText, solutionText)

	res, err := s.embedder.Generate(document, embedding.TaskRetrievalDocument)
	if err != nil {
		return fmt.Errorf("embed memory record: %w", err)
	}

	m := &model.MemoryEmbedding{
		Document:       document,
		EmbeddingValue: pgvector.NewVector(res.Embedding.Values),
		Topic:          topic,
		Source:         memorySource,
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert memory record: %w", err)
	}

	s.logger.Printf("[STORE] Added memory record (topic: %s)", topic)
	return nil
}

// RetrieveMemory returns up to k past cases ranked by cosine similarity.
func (s *Store) RetrieveMemory(ctx context.Context, query string, k int) ([]MemoryRecord, error) {
	if k <= 0 {
		k = 1
	}

	res, err := s.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed memory query: %w", err)
	}

	var models []*model.MemoryEmbedding
	err = s.db.WithContext(ctx).
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(res.Embedding.Values))).
		Limit(k).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("search memory collection: %w", err)
	}

	records := make([]MemoryRecord, len(models))
	for i, m := range models {
		records[i] = MemoryRecord{
			Text:   m.Document,
			Topic:  m.Topic,
			Source: m.Source,
		}
	}
	return records, nil
}
