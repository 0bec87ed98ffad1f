package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fadilmartias/hiring-assistant/internal/model"
)

type embeddingRepository struct {
	db *gorm.DB
}

func NewEmbeddingRepository(db *gorm.DB) EmbeddingRepository {
	return &embeddingRepository{db}
}

// Upsert keeps one embedding per candidate; the newest CV wins.
func (r *embeddingRepository) Upsert(ctx context.Context, embedding *model.CVEmbedding) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding", "model", "generated_at"}),
	}).Create(embedding).Error
}

func (r *embeddingRepository) FindByCandidate(ctx context.Context, candidateID uuid.UUID) (*model.CVEmbedding, error) {
	var e model.CVEmbedding
	if err := r.db.WithContext(ctx).First(&e, "candidate_id = ?", candidateID).Error; err != nil {
		return nil, notFound(err, "cv embedding")
	}
	return &e, nil
}

// List returns the newest embeddings first. A limit <= 0 returns all rows.
func (r *embeddingRepository) List(ctx context.Context, limit int) ([]model.CVEmbedding, error) {
	var embeddings []model.CVEmbedding
	q := r.db.WithContext(ctx).Order("generated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&embeddings).Error
	return embeddings, err
}

func (r *embeddingRepository) SearchNearest(ctx context.Context, query pgvector.Vector, embedModel string, limit int) ([]EmbeddingMatch, error) {
	var matches []EmbeddingMatch

	// <=> is pgvector's cosine distance; it fails on mixed dimensions
	err := r.db.WithContext(ctx).Raw(`
        SELECT candidate_id, embedding <=> ? AS distance
        FROM cv_embeddings
        WHERE model = ? AND vector_dims(embedding) = ?
        ORDER BY embedding <=> ?
        LIMIT ?
    `, query, embedModel, len(query.Slice()), query, limit).Scan(&matches).Error

	return matches, err
}
