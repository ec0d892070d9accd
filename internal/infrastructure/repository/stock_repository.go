package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	domainRepo "github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/pkg/apperror"
	"gorm.io/gorm"
)

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new inventory ledger backed by the stocks table
func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

func (r *stockRepository) GetByProductID(ctx context.Context, productID uuid.UUID) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).First(&stock, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &stock, err
}

// ReserveAndDecrement performs the check and the decrement in one statement,
// so concurrent sales of the same product cannot oversell.
func (r *stockRepository) ReserveAndDecrement(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return apperror.NewInvalidInputError("quantity must be positive")
	}
	result := r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("product_id = ? AND available >= ?", productID, quantity).
		Updates(map[string]interface{}{
			"available":  gorm.Expr("available - ?", quantity),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrInsufficientStock
	}
	return nil
}

func (r *stockRepository) Adjust(ctx context.Context, productID uuid.UUID, delta int) (*entity.Stock, error) {
	result := r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("product_id = ? AND available + ? >= 0", productID, delta).
		Updates(map[string]interface{}{
			"available":  gorm.Expr("available + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	stock, err := r.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, apperror.NewNotFoundError("Stock")
	}
	if result.RowsAffected == 0 {
		return nil, apperror.ErrInsufficientStock
	}
	return stock, nil
}

func (r *stockRepository) SetMinimum(ctx context.Context, productID uuid.UUID, minimum int) error {
	return r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"minimum":    minimum,
			"updated_at": time.Now().UTC(),
		}).Error
}
