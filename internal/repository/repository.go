package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/fadilmartias/hiring-assistant/internal/model"
)

var ErrNotFound = errors.New("record not found")

// Page selects a window of a listing. Number starts at 1.
type Page struct {
	Number int
	Size   int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}

type OfferFilter struct {
	CompanyID *uuid.UUID
	Status    string
}

// RankedApplication is one row of an offer's ranking board.
type RankedApplication struct {
	ApplicationID uuid.UUID
	CandidateID   uuid.UUID
	FullName      string
	Email         string
	Score         float64
	SemanticScore float64
	Notes         string
}

type EmbeddingMatch struct {
	CandidateID uuid.UUID
	Distance    float64
}

type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	List(ctx context.Context, page Page) ([]model.Company, int64, error)
}

type JobOfferRepository interface {
	Create(ctx context.Context, offer *model.JobOffer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.JobOffer, error)
	List(ctx context.Context, filter OfferFilter, page Page) ([]model.JobOffer, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector, embedModel string) error
	// ListMissingEmbedding returns offers with no vector from embedModel.
	ListMissingEmbedding(ctx context.Context, embedModel string, limit int) ([]model.JobOffer, error)
}

type CandidateRepository interface {
	Create(ctx context.Context, candidate *model.Candidate) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Candidate, error)
	List(ctx context.Context, page Page) ([]model.Candidate, int64, error)
	Update(ctx context.Context, candidate *model.Candidate) error
	AddExperiences(ctx context.Context, experiences []model.CVExperience) error
	AddEducations(ctx context.Context, educations []model.CVEducation) error
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.CVDocument) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CVDocument, error)
	List(ctx context.Context, candidateID *uuid.UUID, page Page) ([]model.CVDocument, int64, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	CreateRanking(ctx context.Context, ranking *model.Ranking) error
	FindRankingByApplication(ctx context.Context, applicationID uuid.UUID) (*model.Ranking, error)
	RankingByOffer(ctx context.Context, offerID uuid.UUID, limit int) ([]RankedApplication, error)
	CreatePreInterview(ctx context.Context, interview *model.PreInterview) error
	FindPreInterviewByApplication(ctx context.Context, applicationID uuid.UUID) (*model.PreInterview, error)
	FindQuestion(ctx context.Context, id uuid.UUID) (*model.PreInterviewQuestion, error)
	// SaveAnswer writes the answer, feedback, rating and answered_at columns.
	SaveAnswer(ctx context.Context, question *model.PreInterviewQuestion) error
}

type EmbeddingRepository interface {
	Upsert(ctx context.Context, embedding *model.CVEmbedding) error
	FindByCandidate(ctx context.Context, candidateID uuid.UUID) (*model.CVEmbedding, error)
	List(ctx context.Context, limit int) ([]model.CVEmbedding, error)
	// SearchNearest only considers rows produced by embedModel with the
	// query's dimensionality.
	SearchNearest(ctx context.Context, query pgvector.Vector, embedModel string, limit int) ([]EmbeddingMatch, error)
}

// Registry groups the repositories that share one connection or transaction.
type Registry interface {
	Companies() CompanyRepository
	Offers() JobOfferRepository
	Candidates() CandidateRepository
	Documents() DocumentRepository
	Applications() ApplicationRepository
	Embeddings() EmbeddingRepository
	// Transaction runs fn against repositories bound to a single database
	// transaction. It commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Registry) error) error
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", what, err)
}
