package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultMinimumStock is the advisory reorder threshold for new products
const DefaultMinimumStock = 5

// Stock holds the available quantity of one product
type Stock struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	Available int       `gorm:"not null;default:0" json:"available"`
	Minimum   int       `gorm:"not null;default:5" json:"minimum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID and applies the default minimum
func (s *Stock) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Minimum == 0 {
		s.Minimum = DefaultMinimumStock
	}
	return nil
}

// TableName returns the table name for the Stock model
func (Stock) TableName() string {
	return "stocks"
}

// IsLow reports whether available quantity is at or below the minimum
func (s *Stock) IsLow() bool {
	return s.Available <= s.Minimum
}
