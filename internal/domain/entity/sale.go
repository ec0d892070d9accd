package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/enum"
	"github.com/sangkips/salesledger/pkg/money"
	"gorm.io/gorm"
)

// Sale is a committed multi-line sale. Amounts are stored in cents.
type Sale struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SoldAt          time.Time       `gorm:"not null;index" json:"sold_at"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	LocationID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"location_id"`
	SellerID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"seller_id"`
	Status          enum.SaleStatus `gorm:"size:20;not null;index" json:"status"`
	DiscountID      *uuid.UUID      `gorm:"type:uuid;index" json:"discount_id,omitempty"`
	DiscountPercent float64         `gorm:"not null;default:0" json:"discount_percent"`
	SubTotal        int64           `gorm:"not null;default:0" json:"-"`
	Total           int64           `gorm:"not null;default:0" json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Location *Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Seller   *Seller    `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Discount *Discount  `gorm:"foreignKey:DiscountID" json:"discount,omitempty"`
	Lines    []SaleLine `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(s),
		SubTotal: money.ToFloat(s.SubTotal),
		Total:    money.ToFloat(s.Total),
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleLine is one product line of a sale, priced at the moment of sale
type SaleLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sale_line_product" json:"sale_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sale_line_product;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// LineTotal is unit price times quantity, in cents
func (l *SaleLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (l SaleLine) MarshalJSON() ([]byte, error) {
	type Alias SaleLine
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(l),
		UnitPrice: money.ToFloat(l.UnitPrice),
		LineTotal: money.ToFloat(l.LineTotal()),
	})
}

// BeforeCreate generates a UUID before creating a new sale line
func (l *SaleLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleLine model
func (SaleLine) TableName() string {
	return "sale_lines"
}
