package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/enum"
	domainRepo "github.com/sangkips/salesledger/internal/domain/repository"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Omit("Customer", "Location", "Seller", "Discount", "Lines").Create(sale).Error
}

func (r *saleRepository) CreateLine(ctx context.Context, line *entity.SaleLine) error {
	return r.db.WithContext(ctx).Omit("Product").Create(line).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer", unscoped).Preload("Location", unscoped).Preload("Seller", unscoped).Preload("Discount", unscoped).
		Preload("Lines.Product", unscoped).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

// UpdateTotals persists the amounts computed after all lines were committed
func (r *saleRepository) UpdateTotals(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]interface{}{
			"sub_total":        sale.SubTotal,
			"total":            sale.Total,
			"discount_id":      sale.DiscountID,
			"discount_percent": sale.DiscountPercent,
			"updated_at":       time.Now().UTC(),
		}).Error
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}
	if params.StartDate != nil {
		query = query.Where("sold_at >= ?", params.StartDate.UTC())
	}
	if params.EndDate != nil {
		query = query.Where("sold_at < ?", params.EndDate.UTC())
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Customer").Preload("Location").Preload("Seller").
		Order("sold_at " + sortOrder(params.SortOrder)).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) ListForExport(ctx context.Context) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer", unscoped).Preload("Location", unscoped).Preload("Seller", unscoped).
		Order("sold_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).Count(&count).Error
	return count, err
}

// unscoped lets preloads resolve soft-deleted parties of historical sales
func unscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
