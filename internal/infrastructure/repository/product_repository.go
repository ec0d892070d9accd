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

var productSortColumns = map[string]string{
	"name":       "products.name",
	"created_at": "products.created_at",
	"sale_price": "products.sale_price",
	"cost_price": "products.cost_price",
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Stock").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	var product entity.Product
	clause, arg := nameEquals("name", name)
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where(clause, arg).
		Order("created_at ASC").
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Stock").Save(product).Error
}

// Delete soft-deletes the product. Its profit history is kept.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Scopes(SearchScope(params.Search, "products.name", "products.description"))

	if params.CategoryID != nil {
		query = query.Where("products.category_id = ?", *params.CategoryID)
	}

	if params.LowStock {
		query = query.Joins("JOIN stocks ON stocks.product_id = products.id").
			Where("stocks.available <= stocks.minimum")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy, ok := productSortColumns[params.SortBy]
	if !ok {
		sortBy = "products.created_at"
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Category").Preload("Stock").
		Order(sortBy + " " + sortOrder(params.SortOrder)).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN stocks ON stocks.product_id = products.id").
		Where("stocks.available <= stocks.minimum").
		Preload("Category").Preload("Stock").
		Order("stocks.available ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&count).Error
	return count, err
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error) {
	var categories []entity.Category
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Category{}).Scopes(SearchScope(search, "name"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).Order("name ASC").Find(&categories).Error
	return categories, total, err
}
