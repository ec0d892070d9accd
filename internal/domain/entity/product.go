package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/pkg/money"
	"gorm.io/gorm"
)

// Product represents a catalog item. Prices are stored in cents.
type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID  *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name        string         `gorm:"size:100;not null;index" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	SalePrice   int64          `gorm:"not null" json:"-"`
	CostPrice   int64          `gorm:"not null" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Stock    *Stock    `gorm:"foreignKey:ProductID" json:"stock,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// UnitMargin is the current sale price minus cost price, in cents
func (p *Product) UnitMargin() int64 {
	return p.SalePrice - p.CostPrice
}

// MarginPercent is the unit margin over cost price, as a percentage
func (p *Product) MarginPercent() float64 {
	return money.Percent(p.UnitMargin(), p.CostPrice)
}

// MarshalJSON converts cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SalePrice     float64 `json:"sale_price"`
		CostPrice     float64 `json:"cost_price"`
		UnitMargin    float64 `json:"unit_margin"`
		MarginPercent float64 `json:"margin_percent"`
	}{
		Alias:         Alias(p),
		SalePrice:     money.ToFloat(p.SalePrice),
		CostPrice:     money.ToFloat(p.CostPrice),
		UnitMargin:    money.ToFloat(p.UnitMargin()),
		MarginPercent: p.MarginPercent(),
	})
}

// Category represents a product category
type Category struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:50;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
