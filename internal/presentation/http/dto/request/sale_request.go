package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/enum"
)

// CreateSaleRequest represents a sale creation request. SellerID defaults
// to the authenticated seller.
type CreateSaleRequest struct {
	CustomerID uuid.UUID         `json:"customer_id" binding:"required"`
	LocationID uuid.UUID         `json:"location_id" binding:"required"`
	SellerID   *uuid.UUID        `json:"seller_id"`
	Status     enum.SaleStatus   `json:"status" binding:"required"`
	DiscountID *uuid.UUID        `json:"discount_id"`
	Lines      []SaleLineRequest `json:"lines" binding:"dive"`
}

// SaleLineRequest is one requested cart line. Quantity is validated per
// line by the sale processor, not by binding.
type SaleLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

// UpdateSaleStatusRequest represents a sale status change
type UpdateSaleStatusRequest struct {
	Status enum.SaleStatus `json:"status" binding:"required"`
}

// SaleFilterRequest represents sale filter parameters. Dates use YYYY-MM-DD.
type SaleFilterRequest struct {
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	SellerID   string `form:"seller_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// DiscountRequest represents a discount create or update request
type DiscountRequest struct {
	Name       string    `json:"name" binding:"required,min=2,max=255"`
	Percentage float64   `json:"percentage" binding:"min=0,max=100"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
	Active     *bool     `json:"active"`
}
