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

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByName(ctx context.Context, name string) (*entity.Customer, error) {
	var customer entity.Customer
	clause, arg := nameEquals("name", name)
	err := r.db.WithContext(ctx).Where(clause, arg).Order("created_at ASC").First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).Scopes(SearchScope(search, "name", "phone"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).Order("name ASC").Find(&customers).Error
	return customers, total, err
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Count(&count).Error
	return count, err
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new delivery location repository
func NewLocationRepository(db *gorm.DB) domainRepo.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, location *entity.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *locationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	var location entity.Location
	err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &location, err
}

func (r *locationRepository) GetByName(ctx context.Context, name string) (*entity.Location, error) {
	var location entity.Location
	clause, arg := nameEquals("name", name)
	err := r.db.WithContext(ctx).Where(clause, arg).Order("created_at ASC").First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &location, err
}

func (r *locationRepository) Update(ctx context.Context, location *entity.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *locationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Location{}, "id = ?", id).Error
}

func (r *locationRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Location, int64, error) {
	var locations []entity.Location
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Location{}).Scopes(SearchScope(search, "name", "address"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).Order("name ASC").Find(&locations).Error
	return locations, total, err
}

func (r *locationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Location{}).Count(&count).Error
	return count, err
}
