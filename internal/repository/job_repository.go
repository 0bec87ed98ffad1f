package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/fadilmartias/hiring-assistant/internal/model"
)

type jobOfferRepository struct {
	db *gorm.DB
}

func NewJobOfferRepository(db *gorm.DB) JobOfferRepository {
	return &jobOfferRepository{db}
}

func (r *jobOfferRepository) Create(ctx context.Context, offer *model.JobOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *jobOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.JobOffer, error) {
	var j model.JobOffer
	if err := r.db.WithContext(ctx).Preload("Company").First(&j, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "job offer")
	}
	return &j, nil
}

func (r *jobOfferRepository) List(ctx context.Context, filter OfferFilter, page Page) ([]model.JobOffer, int64, error) {
	page = page.Normalize()
	var (
		offers []model.JobOffer
		total  int64
	)
	q := r.db.WithContext(ctx).Model(&model.JobOffer{})
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Company").
		Order("published_at DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&offers).Error
	return offers, total, err
}

func (r *jobOfferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&model.JobOffer{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "job offer")
	}
	return nil
}

func (r *jobOfferRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector, embedModel string) error {
	return r.db.WithContext(ctx).Model(&model.JobOffer{}).
		Where("id = ?", id).
		Updates(map[string]any{"embedding": embedding, "embedding_model": embedModel}).Error
}

func (r *jobOfferRepository) ListMissingEmbedding(ctx context.Context, embedModel string, limit int) ([]model.JobOffer, error) {
	var offers []model.JobOffer
	err := r.db.WithContext(ctx).
		Where("embedding IS NULL OR embedding_model IS DISTINCT FROM ?", embedModel).
		Order("created_at ASC").
		Limit(limit).
		Find(&offers).Error
	return offers, err
}
