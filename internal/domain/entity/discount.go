package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Discount is a time-bounded percentage-off applied to a whole sale
type Discount struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name       string         `gorm:"size:100;not null" json:"name"`
	Percentage float64        `gorm:"not null" json:"percentage"`
	StartsAt   time.Time      `gorm:"not null" json:"starts_at"`
	EndsAt     time.Time      `gorm:"not null" json:"ends_at"`
	Active     bool           `gorm:"not null" json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new discount
func (d *Discount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Discount model
func (Discount) TableName() string {
	return "discounts"
}

// InWindow reports whether at falls inside [StartsAt, EndsAt]
func (d *Discount) InWindow(at time.Time) bool {
	return !at.Before(d.StartsAt) && !at.After(d.EndsAt)
}
