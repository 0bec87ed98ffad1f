package model

import (
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FullName    string         `gorm:"type:varchar(255)" json:"full_name"`
	Email       string         `gorm:"type:varchar(255);index" json:"email"`
	Phone       string         `gorm:"type:varchar(50)" json:"phone"`
	LinkedIn    string         `gorm:"type:varchar(255)" json:"linkedin"`
	Documents   []CVDocument   `gorm:"foreignKey:CandidateID" json:"-"`
	Experiences []CVExperience `gorm:"foreignKey:CandidateID" json:"experiences,omitempty"`
	Educations  []CVEducation  `gorm:"foreignKey:CandidateID" json:"educations,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}

type CVExperience struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Company     string    `gorm:"type:varchar(255)" json:"company"`
	Position    string    `gorm:"type:varchar(255)" json:"position"`
	Description string    `gorm:"type:text" json:"description"`
	Period      string    `gorm:"type:varchar(100)" json:"period"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *CVExperience) TableName() string {
	return "cv_experiences"
}

type CVEducation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Institution string    `gorm:"type:varchar(255)" json:"institution"`
	Degree      string    `gorm:"type:varchar(255)" json:"degree"`
	Period      string    `gorm:"type:varchar(100)" json:"period"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *CVEducation) TableName() string {
	return "cv_educations"
}
