package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/fadilmartias/hiring-assistant/internal/config"
	"github.com/fadilmartias/hiring-assistant/internal/repository"
)

// Match is a candidate close to a query vector. Similarity is the cosine
// similarity in [-1, 1].
type Match struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Similarity  float64   `json:"similarity"`
}

type CandidateIndex interface {
	Upsert(ctx context.Context, candidateID uuid.UUID, vector []float32) error
	Search(ctx context.Context, vector []float32, limit int) ([]Match, error)
	Name() string
}

// NewCandidateIndex returns the index selected by cfg.Store.
// embedModel restricts the pgvector index to rows from the active model.
func NewCandidateIndex(ctx context.Context, cfg *config.VectorConfig, embeddings repository.EmbeddingRepository, embedModel string, log *zap.Logger) (CandidateIndex, error) {
	switch cfg.Store {
	case config.VectorStorePgvector, "":
		return NewPgvectorIndex(embeddings, embedModel), nil
	case config.VectorStoreQdrant:
		idx, err := NewQdrantIndex(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := idx.InitCollection(ctx); err != nil {
			return nil, err
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("unknown vector store %q", cfg.Store)
	}
}

// pgvectorIndex reads the cv_embeddings table directly. Rows are written by
// the processing pipeline inside its transaction, so Upsert has nothing to do.
type pgvectorIndex struct {
	embeddings repository.EmbeddingRepository
	embedModel string
}

func NewPgvectorIndex(embeddings repository.EmbeddingRepository, embedModel string) CandidateIndex {
	return &pgvectorIndex{embeddings: embeddings, embedModel: embedModel}
}

func (i *pgvectorIndex) Name() string { return config.VectorStorePgvector }

func (i *pgvectorIndex) Upsert(context.Context, uuid.UUID, []float32) error {
	return nil
}

func (i *pgvectorIndex) Search(ctx context.Context, vector []float32, limit int) ([]Match, error) {
	rows, err := i.embeddings.SearchNearest(ctx, pgvector.NewVector(vector), i.embedModel, limit)
	if err != nil {
		return nil, fmt.Errorf("pgvector search: %w", err)
	}
	matches := make([]Match, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, Match{CandidateID: r.CandidateID, Similarity: 1 - r.Distance})
	}
	return matches, nil
}
