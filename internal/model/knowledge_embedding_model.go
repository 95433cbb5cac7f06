package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// KnowledgeEmbedding is one chunk of the static reference corpus. Rows are
// written by the offline ingestion command and read-only at pipeline runtime.
type KnowledgeEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // shared width across both embedding backends
	Source         string          `gorm:"type:varchar(255);index"`
	Metadata       datatypes.JSON  // header hierarchy from the markdown splitter
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (KnowledgeEmbedding) TableName() string {
	return "math_knowledge"
}
