package request

import "github.com/google/uuid"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	Name         string     `json:"name" binding:"required,min=2,max=255"`
	Description  string     `json:"description" binding:"max=1000"`
	SalePrice    float64    `json:"sale_price" binding:"required,gt=0"`
	CostPrice    float64    `json:"cost_price" binding:"required,gt=0"`
	InitialStock int        `json:"initial_stock" binding:"min=0"`
	MinimumStock int        `json:"minimum_stock" binding:"min=0"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        string     `json:"name" binding:"required,min=2,max=255"`
	Description string     `json:"description" binding:"max=1000"`
	SalePrice   float64    `json:"sale_price" binding:"required,gt=0"`
	CostPrice   float64    `json:"cost_price" binding:"required,gt=0"`
}

// AdjustStockRequest adds delta units to a product's stock. A negative
// delta records a correction.
type AdjustStockRequest struct {
	Delta   int  `json:"delta"`
	Minimum *int `json:"minimum" binding:"omitempty,min=0"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// CategoryRequest represents a category create or update request
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Description string `json:"description" binding:"max=1000"`
}
