package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadilmartias/hiring-assistant/internal/model"
)

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepository) CreateRanking(ctx context.Context, ranking *model.Ranking) error {
	return r.db.WithContext(ctx).Create(ranking).Error
}

func (r *applicationRepository) FindRankingByApplication(ctx context.Context, applicationID uuid.UUID) (*model.Ranking, error) {
	var ranking model.Ranking
	if err := r.db.WithContext(ctx).First(&ranking, "application_id = ?", applicationID).Error; err != nil {
		return nil, notFound(err, "ranking")
	}
	return &ranking, nil
}

func (r *applicationRepository) RankingByOffer(ctx context.Context, offerID uuid.UUID, limit int) ([]RankedApplication, error) {
	var rows []RankedApplication
	err := r.db.WithContext(ctx).Raw(`
        SELECT a.id AS application_id, c.id AS candidate_id, c.full_name, c.email,
               r.score, r.semantic_score, r.notes
        FROM applications a
        JOIN rankings r ON r.application_id = a.id
        JOIN candidates c ON c.id = a.candidate_id
        WHERE a.job_offer_id = ?
        ORDER BY r.score DESC, a.applied_at ASC
        LIMIT ?
    `, offerID, limit).Scan(&rows).Error
	return rows, err
}

func (r *applicationRepository) CreatePreInterview(ctx context.Context, interview *model.PreInterview) error {
	return r.db.WithContext(ctx).Create(interview).Error
}

func (r *applicationRepository) FindPreInterviewByApplication(ctx context.Context, applicationID uuid.UUID) (*model.PreInterview, error) {
	var interview model.PreInterview
	err := r.db.WithContext(ctx).
		Preload("Questions").
		Order("created_at DESC").
		First(&interview, "application_id = ?", applicationID).Error
	if err != nil {
		return nil, notFound(err, "pre-interview")
	}
	return &interview, nil
}

func (r *applicationRepository) FindQuestion(ctx context.Context, id uuid.UUID) (*model.PreInterviewQuestion, error) {
	var q model.PreInterviewQuestion
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "pre-interview question")
	}
	return &q, nil
}

func (r *applicationRepository) SaveAnswer(ctx context.Context, question *model.PreInterviewQuestion) error {
	res := r.db.WithContext(ctx).Model(question).
		Select("answer", "feedback", "rating", "answered_at").
		Updates(question)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
