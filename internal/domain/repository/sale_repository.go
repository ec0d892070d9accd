package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/enum"
	"github.com/sangkips/salesledger/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetWithDetails preloads parties, discount and lines with their products
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	UpdateTotals(ctx context.Context, sale *entity.Sale) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// ListForExport returns every sale with customer, location and seller, newest first
	ListForExport(ctx context.Context) ([]entity.Sale, error)
	Count(ctx context.Context) (int64, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.SaleStatus
	CustomerID *uuid.UUID
	SellerID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortOrder  string
}
