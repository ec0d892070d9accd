package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	domainRepo "github.com/sangkips/salesledger/internal/domain/repository"
	"gorm.io/gorm"
)

type sellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository creates a new seller repository
func NewSellerRepository(db *gorm.DB) domainRepo.SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Create(ctx context.Context, seller *entity.Seller) error {
	return r.db.WithContext(ctx).Create(seller).Error
}

func (r *sellerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Seller, error) {
	var seller entity.Seller
	err := r.db.WithContext(ctx).First(&seller, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &seller, err
}

func (r *sellerRepository) GetByUsername(ctx context.Context, username string) (*entity.Seller, error) {
	var seller entity.Seller
	err := r.db.WithContext(ctx).First(&seller, "username = ?", strings.TrimSpace(username)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &seller, err
}

func (r *sellerRepository) GetByEmail(ctx context.Context, email string) (*entity.Seller, error) {
	var seller entity.Seller
	clause, arg := nameEquals("email", email)
	err := r.db.WithContext(ctx).Where(clause, arg).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &seller, err
}

func (r *sellerRepository) List(ctx context.Context) ([]entity.Seller, error) {
	var sellers []entity.Seller
	err := r.db.WithContext(ctx).Order("username ASC").Find(&sellers).Error
	return sellers, err
}

func (r *sellerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Seller{}).Count(&count).Error
	return count, err
}
