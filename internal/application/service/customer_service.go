package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/enum"
	"github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/pkg/apperror"
	"github.com/sangkips/salesledger/pkg/pagination"
)

// CustomerService handles customers and delivery locations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	locationRepo repository.LocationRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, locationRepo repository.LocationRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		locationRepo: locationRepo,
	}
}

// CustomerInput carries the editable customer fields
type CustomerInput struct {
	Name  string
	Phone string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{Name: input.Name, Phone: input.Phone}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(customers, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = input.Name
	customer.Phone = input.Phone
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer soft-deletes a customer. Past sales keep referencing it.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

// LocationInput carries the editable location fields
type LocationInput struct {
	Name    string
	Address string
	Phone   string
	Kind    string
}

// CreateLocation creates a new delivery location
func (s *CustomerService) CreateLocation(ctx context.Context, input *LocationInput) (*entity.Location, error) {
	location := &entity.Location{
		Name:    input.Name,
		Address: input.Address,
		Phone:   input.Phone,
		Kind:    enum.ParseLocationKind(input.Kind),
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// GetLocation retrieves a delivery location by ID
func (s *CustomerService) GetLocation(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, apperror.NewNotFoundError("Location")
	}
	return location, nil
}

// ListLocations lists delivery locations
func (s *CustomerService) ListLocations(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Location], error) {
	locations, total, err := s.locationRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(locations, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateLocation updates a delivery location
func (s *CustomerService) UpdateLocation(ctx context.Context, id uuid.UUID, input *LocationInput) (*entity.Location, error) {
	location, err := s.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	location.Name = input.Name
	location.Address = input.Address
	location.Phone = input.Phone
	location.Kind = enum.ParseLocationKind(input.Kind)
	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// DeleteLocation soft-deletes a delivery location
func (s *CustomerService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetLocation(ctx, id); err != nil {
		return err
	}
	return s.locationRepo.Delete(ctx, id)
}
