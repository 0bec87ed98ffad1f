package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fadilmartias/hiring-assistant/internal/model"
)

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db}
}

func (r *candidateRepository) Create(ctx context.Context, candidate *model.Candidate) error {
	return r.db.WithContext(ctx).Create(candidate).Error
}

func (r *candidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.WithContext(ctx).
		Preload("Experiences").
		Preload("Educations").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "candidate")
	}
	return &c, nil
}

func (r *candidateRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Candidate, error) {
	var candidates []model.Candidate
	if len(ids) == 0 {
		return candidates, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&candidates).Error
	return candidates, err
}

func (r *candidateRepository) List(ctx context.Context, page Page) ([]model.Candidate, int64, error) {
	page = page.Normalize()
	var (
		candidates []model.Candidate
		total      int64
	)
	q := r.db.WithContext(ctx).Model(&model.Candidate{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.Size).Find(&candidates).Error
	return candidates, total, err
}

func (r *candidateRepository) Update(ctx context.Context, candidate *model.Candidate) error {
	return r.db.WithContext(ctx).
		Model(candidate).
		Select("full_name", "email", "phone", "linkedin", "updated_at").
		Omit(clause.Associations).
		Updates(candidate).Error
}

func (r *candidateRepository) AddExperiences(ctx context.Context, experiences []model.CVExperience) error {
	if len(experiences) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&experiences).Error
}

func (r *candidateRepository) AddEducations(ctx context.Context, educations []model.CVEducation) error {
	if len(educations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&educations).Error
}
