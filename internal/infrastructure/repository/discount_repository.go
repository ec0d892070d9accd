package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	domainRepo "github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/pkg/pagination"
	"gorm.io/gorm"
)

type discountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db *gorm.DB) domainRepo.DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(ctx context.Context, discount *entity.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *discountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error) {
	var discount entity.Discount
	err := r.db.WithContext(ctx).First(&discount, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &discount, err
}

func (r *discountRepository) Update(ctx context.Context, discount *entity.Discount) error {
	return r.db.WithContext(ctx).Save(discount).Error
}

func (r *discountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Discount{}, "id = ?", id).Error
}

func (r *discountRepository) List(ctx context.Context, params *pagination.PaginationParams, activeOnly bool) ([]entity.Discount, int64, error) {
	var discounts []entity.Discount
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Discount{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).Order("starts_at DESC").Find(&discounts).Error
	return discounts, total, err
}
