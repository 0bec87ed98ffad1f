package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const (
	OfferStatusActive = "active"
	OfferStatusClosed = "closed"
)

type JobOffer struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CompanyID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"company_id"`
	Company      *Company         `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Title        string           `gorm:"type:varchar(255);not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	Requirements string           `gorm:"type:text" json:"requirements"`
	Location     string           `gorm:"type:varchar(255)" json:"location"`
	Status       string           `gorm:"type:varchar(50);default:'active'" json:"status"`
	PublishedAt  time.Time        `json:"published_at"`
	Embedding    *pgvector.Vector `gorm:"type:vector" json:"-"` // cached embedding of ComparisonText
	// EmbeddingModel names the model that produced Embedding.
	EmbeddingModel string    `gorm:"type:varchar(100)" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (j *JobOffer) TableName() string {
	return "job_offers"
}

// CachedEmbedding returns the stored vector when it was produced by
// embedModel, nil otherwise.
func (j *JobOffer) CachedEmbedding(embedModel string) []float32 {
	if j.Embedding == nil || j.EmbeddingModel != embedModel {
		return nil
	}
	return j.Embedding.Slice()
}

// ComparisonText is the text CVs are scored against. The description is
// preferred; title and requirements stand in when it is empty.
func (j *JobOffer) ComparisonText() string {
	if d := strings.TrimSpace(j.Description); d != "" {
		return d
	}
	parts := make([]string, 0, 2)
	for _, s := range []string{j.Title, j.Requirements} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}
