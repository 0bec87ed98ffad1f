package model

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	TaxID       string     `gorm:"type:varchar(20)" json:"tax_id"`
	Description string     `gorm:"type:text" json:"description"`
	Offers      []JobOffer `gorm:"foreignKey:CompanyID" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *Company) TableName() string {
	return "companies"
}
