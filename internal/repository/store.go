package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store is the gorm backed Registry.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Companies() CompanyRepository {
	return NewCompanyRepository(s.db)
}

func (s *Store) Offers() JobOfferRepository {
	return NewJobOfferRepository(s.db)
}

func (s *Store) Candidates() CandidateRepository {
	return NewCandidateRepository(s.db)
}

func (s *Store) Documents() DocumentRepository {
	return NewDocumentRepository(s.db)
}

func (s *Store) Applications() ApplicationRepository {
	return NewApplicationRepository(s.db)
}

func (s *Store) Embeddings() EmbeddingRepository {
	return NewEmbeddingRepository(s.db)
}

func (s *Store) Transaction(ctx context.Context, fn func(tx Registry) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
