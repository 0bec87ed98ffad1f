package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadilmartias/hiring-assistant/internal/model"
)

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db}
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *companyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var c model.Company
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "company")
	}
	return &c, nil
}

func (r *companyRepository) List(ctx context.Context, page Page) ([]model.Company, int64, error) {
	page = page.Normalize()
	var (
		companies []model.Company
		total     int64
	)
	q := r.db.WithContext(ctx).Model(&model.Company{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.Size).Find(&companies).Error
	return companies, total, err
}
