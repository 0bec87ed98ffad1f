package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	TaxID       string `json:"tax_id" validate:"max=20"`
	Description string `json:"description"`
}

type CreateOfferRequest struct {
	CompanyID    uuid.UUID  `json:"company_id" validate:"required"`
	Title        string     `json:"title" validate:"required,max=255"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	Location     string     `json:"location" validate:"max=255"`
	PublishedAt  *time.Time `json:"published_at"`
}

type CreateCandidateRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Phone    string `json:"phone" validate:"max=50"`
	LinkedIn string `json:"linkedin" validate:"max=255"`
}

type RankingDTO struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	Score         float64   `json:"score"`
	SemanticScore float64   `json:"semantic_score"`
	Level         string    `json:"level"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

type RankedCandidateDTO struct {
	Position      int       `json:"position"`
	ApplicationID uuid.UUID `json:"application_id"`
	CandidateID   uuid.UUID `json:"candidate_id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Score         float64   `json:"score"`
	SemanticScore float64   `json:"semantic_score"`
	Level         string    `json:"level"`
	Notes         string    `json:"notes"`
}
