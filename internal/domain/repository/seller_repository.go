package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
)

// SellerRepository defines the interface for seller data operations
type SellerRepository interface {
	Create(ctx context.Context, seller *entity.Seller) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Seller, error)
	GetByUsername(ctx context.Context, username string) (*entity.Seller, error)
	GetByEmail(ctx context.Context, email string) (*entity.Seller, error)
	List(ctx context.Context) ([]entity.Seller, error)
	Count(ctx context.Context) (int64, error)
}
