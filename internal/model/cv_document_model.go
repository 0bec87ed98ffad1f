package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type CVDocument struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidateID   uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	FileName      string    `gorm:"type:varchar(255)" json:"file_name"`
	FilePath      string    `gorm:"type:text" json:"file_path"`
	ExtractedText string    `gorm:"type:text" json:"extracted_text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (d *CVDocument) TableName() string {
	return "cv_documents"
}

// CVEmbedding keeps the latest CV embedding of a candidate for reuse.
type CVEmbedding struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidateID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"candidate_id"`
	Embedding   pgvector.Vector `gorm:"type:vector" json:"-"`
	Model       string          `gorm:"type:varchar(100)" json:"model"`
	GeneratedAt time.Time       `json:"generated_at"`
}

func (e *CVEmbedding) TableName() string {
	return "cv_embeddings"
}
