package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadilmartias/hiring-assistant/internal/model"
)

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.CVDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CVDocument, error) {
	var d model.CVDocument
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "cv document")
	}
	return &d, nil
}

func (r *documentRepository) List(ctx context.Context, candidateID *uuid.UUID, page Page) ([]model.CVDocument, int64, error) {
	page = page.Normalize()
	var (
		docs  []model.CVDocument
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.CVDocument{})
	if candidateID != nil {
		q = q.Where("candidate_id = ?", *candidateID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.Size).Find(&docs).Error
	return docs, total, err
}
