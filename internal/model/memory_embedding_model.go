package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// MemoryEmbedding is one episodic case: a previously solved and explicitly
// accepted problem. Append-only; rows are never updated or deleted.
type MemoryEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Document       string          `gorm:"type:text"` // "Problem: ...\nSolution: ..."
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	Topic          string          `gorm:"type:varchar(255);index"`
	Source         string          `gorm:"type:varchar(64);default:user_memory"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (MemoryEmbedding) TableName() string {
	return "math_memory"
}
