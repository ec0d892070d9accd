package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
)

// ProfitTotals aggregates the whole ledger
type ProfitTotals struct {
	TotalProfit int64
	SaleCount   int64
}

// ProductProfitResult aggregates the ledger for one product
type ProductProfitResult struct {
	ProductID     uuid.UUID
	ProductName   string
	TotalProfit   int64
	QuantitySold  int64
	UnitProfitSum int64
	RecordCount   int64
	CurrentSale   int64
	CurrentCost   int64
}

// ProfitPoint is the minimal projection used for time series
type ProfitPoint struct {
	RecordedAt time.Time
	LineProfit int64
}

// ProfitRepository is the append-only profit ledger. Every read excludes
// records with a zero quantity.
type ProfitRepository interface {
	Create(ctx context.Context, record *entity.ProfitRecord) error
	Totals(ctx context.Context) (*ProfitTotals, error)
	ByProduct(ctx context.Context) ([]ProductProfitResult, error)
	// ListByProduct returns a product's records, newest first
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.ProfitRecord, error)
	// Recent returns the newest records with their product
	Recent(ctx context.Context, limit int) ([]entity.ProfitRecord, error)
	Points(ctx context.Context) ([]ProfitPoint, error)
	// ListBetween returns records with from <= recorded_at < to, oldest first
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.ProfitRecord, error)
	// SumBySale returns total line profit per sale id
	SumBySale(ctx context.Context, saleIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}
