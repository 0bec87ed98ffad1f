package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fadilmartias/hiring-assistant/internal/dto"
	"github.com/fadilmartias/hiring-assistant/internal/model"
	"github.com/fadilmartias/hiring-assistant/internal/repository"
	"github.com/fadilmartias/hiring-assistant/internal/response"
	"github.com/fadilmartias/hiring-assistant/internal/scoring"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

const defaultRankingLimit = 50

type CatalogUsecase struct {
	store repository.Registry
}

func NewCatalogUsecase(store repository.Registry) *CatalogUsecase {
	return &CatalogUsecase{store: store}
}

func (uc *CatalogUsecase) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*model.Company, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.TaxID = strings.TrimSpace(req.TaxID)
	if err := util.ValidateStruct("invalid company", req); err != nil {
		return nil, err
	}

	company := &model.Company{
		Name:        req.Name,
		TaxID:       req.TaxID,
		Description: req.Description,
	}
	if err := uc.store.Companies().Create(ctx, company); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return company, nil
}

func (uc *CatalogUsecase) ListCompanies(ctx context.Context, page repository.Page) ([]model.Company, *response.Pagination, error) {
	page = page.Normalize()
	companies, total, err := uc.store.Companies().List(ctx, page)
	if err != nil {
		return nil, nil, err
	}
	return companies, response.NewPagination(page.Number, page.Size, total), nil
}

func (uc *CatalogUsecase) GetCompany(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	company, err := uc.store.Companies().FindByID(ctx, id)
	return company, lookupErr(err)
}

func (uc *CatalogUsecase) CreateOffer(ctx context.Context, req dto.CreateOfferRequest) (*model.JobOffer, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	if err := util.ValidateStruct("invalid job offer", req); err != nil {
		return nil, err
	}

	if _, err := uc.store.Companies().FindByID(ctx, req.CompanyID); err != nil {
		return nil, lookupErr(err)
	}

	published := time.Now()
	if req.PublishedAt != nil {
		published = *req.PublishedAt
	}
	offer := &model.JobOffer{
		CompanyID:    req.CompanyID,
		Title:        req.Title,
		Description:  util.NormalizeText(req.Description),
		Requirements: util.NormalizeText(req.Requirements),
		Location:     req.Location,
		Status:       model.OfferStatusActive,
		PublishedAt:  published,
	}
	if err := uc.store.Offers().Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("create job offer: %w", err)
	}
	return offer, nil
}

func (uc *CatalogUsecase) ListOffers(ctx context.Context, filter repository.OfferFilter, page repository.Page) ([]model.JobOffer, *response.Pagination, error) {
	statuses := "omitempty,oneof=" + model.OfferStatusActive + " " + model.OfferStatusClosed
	if err := util.ValidateVar("invalid filter", "status", filter.Status, statuses); err != nil {
		return nil, nil, err
	}
	page = page.Normalize()
	offers, total, err := uc.store.Offers().List(ctx, filter, page)
	if err != nil {
		return nil, nil, err
	}
	return offers, response.NewPagination(page.Number, page.Size, total), nil
}

func (uc *CatalogUsecase) GetOffer(ctx context.Context, id uuid.UUID) (*model.JobOffer, error) {
	offer, err := uc.store.Offers().FindByID(ctx, id)
	return offer, lookupErr(err)
}

func (uc *CatalogUsecase) CloseOffer(ctx context.Context, id uuid.UUID) (*model.JobOffer, error) {
	if err := uc.store.Offers().UpdateStatus(ctx, id, model.OfferStatusClosed); err != nil {
		return nil, lookupErr(err)
	}
	return uc.GetOffer(ctx, id)
}

func (uc *CatalogUsecase) CreateCandidate(ctx context.Context, req dto.CreateCandidateRequest) (*model.Candidate, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.LinkedIn = strings.TrimSpace(req.LinkedIn)
	if err := util.ValidateStruct("invalid candidate", req); err != nil {
		return nil, err
	}

	candidate := &model.Candidate{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		LinkedIn: req.LinkedIn,
	}
	if err := uc.store.Candidates().Create(ctx, candidate); err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}
	return candidate, nil
}

func (uc *CatalogUsecase) ListCandidates(ctx context.Context, page repository.Page) ([]model.Candidate, *response.Pagination, error) {
	page = page.Normalize()
	candidates, total, err := uc.store.Candidates().List(ctx, page)
	if err != nil {
		return nil, nil, err
	}
	return candidates, response.NewPagination(page.Number, page.Size, total), nil
}

func (uc *CatalogUsecase) GetCandidate(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	candidate, err := uc.store.Candidates().FindByID(ctx, id)
	return candidate, lookupErr(err)
}

func (uc *CatalogUsecase) ListDocuments(ctx context.Context, candidateID *uuid.UUID, page repository.Page) ([]model.CVDocument, *response.Pagination, error) {
	page = page.Normalize()
	docs, total, err := uc.store.Documents().List(ctx, candidateID, page)
	if err != nil {
		return nil, nil, err
	}
	return docs, response.NewPagination(page.Number, page.Size, total), nil
}

func (uc *CatalogUsecase) GetDocument(ctx context.Context, id uuid.UUID) (*model.CVDocument, error) {
	doc, err := uc.store.Documents().FindByID(ctx, id)
	return doc, lookupErr(err)
}

func (uc *CatalogUsecase) GetRanking(ctx context.Context, applicationID uuid.UUID) (*dto.RankingDTO, error) {
	r, err := uc.store.Applications().FindRankingByApplication(ctx, applicationID)
	if err != nil {
		return nil, lookupErr(err)
	}
	return &dto.RankingDTO{
		ID:            r.ID,
		ApplicationID: r.ApplicationID,
		Score:         r.Score,
		SemanticScore: r.SemanticScore,
		Level:         scoring.Level(r.Score),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}, nil
}

// OfferRanking lists the offer's applications best score first.
func (uc *CatalogUsecase) OfferRanking(ctx context.Context, offerID uuid.UUID, limit int) ([]dto.RankedCandidateDTO, error) {
	if _, err := uc.store.Offers().FindByID(ctx, offerID); err != nil {
		return nil, lookupErr(err)
	}
	if limit <= 0 {
		limit = defaultRankingLimit
	}

	rows, err := uc.store.Applications().RankingByOffer(ctx, offerID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RankedCandidateDTO, 0, len(rows))
	for i, r := range rows {
		out = append(out, dto.RankedCandidateDTO{
			Position:      i + 1,
			ApplicationID: r.ApplicationID,
			CandidateID:   r.CandidateID,
			FullName:      r.FullName,
			Email:         r.Email,
			Score:         r.Score,
			SemanticScore: r.SemanticScore,
			Level:         scoring.Level(r.Score),
			Notes:         r.Notes,
		})
	}
	return out, nil
}

func (uc *CatalogUsecase) GetPreInterview(ctx context.Context, applicationID uuid.UUID) (*model.PreInterview, error) {
	interview, err := uc.store.Applications().FindPreInterviewByApplication(ctx, applicationID)
	return interview, lookupErr(err)
}
