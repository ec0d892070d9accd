package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer is the buyer of a sale. Phone may be blank.
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:100;not null;index" json:"name"`
	Phone     string         `gorm:"size:20" json:"phone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// Location is a delivery location for a sale
type Location struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Name      string            `gorm:"size:100;not null;index" json:"name"`
	Address   string            `gorm:"size:200" json:"address"`
	Phone     string            `gorm:"size:20" json:"phone"`
	Kind      enum.LocationKind `gorm:"size:50;default:home" json:"kind"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new location
func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Kind == "" {
		l.Kind = enum.LocationKindHome
	}
	return nil
}

// TableName returns the table name for the Location model
func (Location) TableName() string {
	return "locations"
}
