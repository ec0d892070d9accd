package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and seller
	GetByKey(ctx context.Context, key string, sellerID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create fails when the seller already holds the key
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Complete stores the response of a pending key
	Complete(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Delete releases a key so the request can be retried
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes expired idempotency keys
	DeleteExpired(ctx context.Context) error
}
