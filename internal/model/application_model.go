package model

import (
	"time"

	"github.com/google/uuid"
)

type Application struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidateID uuid.UUID  `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Candidate   *Candidate `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	JobOfferID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"job_offer_id"`
	JobOffer    *JobOffer  `gorm:"foreignKey:JobOfferID" json:"job_offer,omitempty"`
	Ranking     *Ranking   `gorm:"foreignKey:ApplicationID" json:"ranking,omitempty"`
	AppliedAt   time.Time  `json:"applied_at"`
}

func (a *Application) TableName() string {
	return "applications"
}

type Ranking struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`
	Score         float64   `gorm:"type:float" json:"score"`          // 0-100
	SemanticScore float64   `gorm:"type:float" json:"semantic_score"` // raw similarity, 0-1
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r *Ranking) TableName() string {
	return "rankings"
}

type PreInterview struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ApplicationID uuid.UUID              `gorm:"type:uuid;not null;index" json:"application_id"`
	Summary       string                 `gorm:"type:text" json:"summary"`
	Score         *float64               `gorm:"type:float" json:"score,omitempty"`
	Questions     []PreInterviewQuestion `gorm:"foreignKey:PreInterviewID" json:"questions"`
	CreatedAt     time.Time              `json:"created_at"`
}

func (p *PreInterview) TableName() string {
	return "pre_interviews"
}

type PreInterviewQuestion struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PreInterviewID uuid.UUID  `gorm:"type:uuid;not null;index" json:"pre_interview_id"`
	Question       string     `gorm:"type:text" json:"question"`
	Answer         string     `gorm:"type:text" json:"answer"`
	Feedback       string     `gorm:"type:text" json:"feedback"`
	Rating         *float64   `gorm:"type:float" json:"rating,omitempty"` // mean of the 1-5 ratings
	AnsweredAt     *time.Time `json:"answered_at,omitempty"`
}

func (q *PreInterviewQuestion) TableName() string {
	return "pre_interview_questions"
}
