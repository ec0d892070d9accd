package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
)

// StockRepository is the inventory ledger
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	GetByProductID(ctx context.Context, productID uuid.UUID) (*entity.Stock, error)
	// ReserveAndDecrement subtracts quantity in a single conditional update.
	// It returns apperror.ErrInsufficientStock when fewer than quantity units
	// are available; stock is never decremented partially.
	ReserveAndDecrement(ctx context.Context, productID uuid.UUID, quantity int) error
	// Adjust adds delta (which may be negative) to the available quantity.
	// It refuses to go below zero with apperror.ErrInsufficientStock.
	Adjust(ctx context.Context, productID uuid.UUID, delta int) (*entity.Stock, error)
	SetMinimum(ctx context.Context, productID uuid.UUID, minimum int) error
}
