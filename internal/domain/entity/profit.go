package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/pkg/money"
	"gorm.io/gorm"
)

// ProfitRecord is an immutable snapshot of the profit earned by one sale line.
// Prices are captured at sale time so later catalog edits never change it.
type ProfitRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	SaleID       uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	QuantitySold int       `gorm:"not null" json:"quantity_sold"`
	SalePrice    int64     `gorm:"not null" json:"-"`
	CostPrice    int64     `gorm:"not null" json:"-"`
	UnitProfit   int64     `gorm:"not null" json:"-"`
	LineProfit   int64     `gorm:"not null" json:"-"`
	RecordedAt   time.Time `gorm:"not null;index" json:"recorded_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// NewProfitRecord snapshots prices and derives unit and line profit
func NewProfitRecord(saleID, productID uuid.UUID, quantity int, salePrice, costPrice int64, at time.Time) *ProfitRecord {
	unit := salePrice - costPrice
	return &ProfitRecord{
		ProductID:    productID,
		SaleID:       saleID,
		QuantitySold: quantity,
		SalePrice:    salePrice,
		CostPrice:    costPrice,
		UnitProfit:   unit,
		LineProfit:   unit * int64(quantity),
		RecordedAt:   at,
	}
}

// BeforeCreate generates a UUID before creating a new profit record
func (p *ProfitRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProfitRecord model
func (ProfitRecord) TableName() string {
	return "profit_records"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p ProfitRecord) MarshalJSON() ([]byte, error) {
	type Alias ProfitRecord
	return json.Marshal(&struct {
		Alias
		SalePrice  float64 `json:"sale_price"`
		CostPrice  float64 `json:"cost_price"`
		UnitProfit float64 `json:"unit_profit"`
		LineProfit float64 `json:"line_profit"`
	}{
		Alias:      Alias(p),
		SalePrice:  money.ToFloat(p.SalePrice),
		CostPrice:  money.ToFloat(p.CostPrice),
		UnitProfit: money.ToFloat(p.UnitProfit),
		LineProfit: money.ToFloat(p.LineProfit),
	})
}
