package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/pkg/apperror"
	"github.com/sangkips/salesledger/pkg/pagination"
)

// DiscountService manages discounts and decides whether one applies to a sale
type DiscountService struct {
	discountRepo  repository.DiscountRepository
	enforceWindow bool
}

// NewDiscountService creates a new discount service. With enforceWindow
// false only the active flag is checked.
func NewDiscountService(discountRepo repository.DiscountRepository, enforceWindow bool) *DiscountService {
	return &DiscountService{
		discountRepo:  discountRepo,
		enforceWindow: enforceWindow,
	}
}

// IsApplicable reports whether d may be applied to a sale made at the given time
func (s *DiscountService) IsApplicable(d *entity.Discount, at time.Time) bool {
	if d == nil || !d.Active {
		return false
	}
	if s.enforceWindow && !d.InWindow(at) {
		return false
	}
	return true
}

// Resolve looks the discount up and reports whether it applies at the given time.
// A missing discount yields (nil, false, nil).
func (s *DiscountService) Resolve(ctx context.Context, id uuid.UUID, at time.Time) (*entity.Discount, bool, error) {
	return s.ResolveIn(ctx, s.discountRepo, id, at)
}

// ResolveIn is Resolve against a transaction-bound repository
func (s *DiscountService) ResolveIn(ctx context.Context, repo repository.DiscountRepository, id uuid.UUID, at time.Time) (*entity.Discount, bool, error) {
	discount, err := repo.GetByID(ctx, id)
	if err != nil || discount == nil {
		return nil, false, err
	}
	return discount, s.IsApplicable(discount, at), nil
}

// DiscountInput carries the editable discount fields
type DiscountInput struct {
	Name       string
	Percentage float64
	StartsAt   time.Time
	EndsAt     time.Time
	Active     bool
}

func (in *DiscountInput) validate() error {
	var fieldErrors []apperror.FieldError
	if in.Percentage < 0 || in.Percentage > 100 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "percentage", Message: "must be between 0 and 100"})
	}
	if in.EndsAt.Before(in.StartsAt) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "ends_at", Message: "must not be before starts_at"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// Create creates a new discount
func (s *DiscountService) Create(ctx context.Context, input *DiscountInput) (*entity.Discount, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	discount := &entity.Discount{
		Name:       input.Name,
		Percentage: input.Percentage,
		StartsAt:   input.StartsAt.UTC(),
		EndsAt:     input.EndsAt.UTC(),
		Active:     input.Active,
	}
	if err := s.discountRepo.Create(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// GetByID retrieves a discount by ID
func (s *DiscountService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error) {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, apperror.NewNotFoundError("Discount")
	}
	return discount, nil
}

// Update replaces the editable fields of a discount
func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, input *DiscountInput) (*entity.Discount, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	discount, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	discount.Name = input.Name
	discount.Percentage = input.Percentage
	discount.StartsAt = input.StartsAt.UTC()
	discount.EndsAt = input.EndsAt.UTC()
	discount.Active = input.Active
	if err := s.discountRepo.Update(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// Delete removes a discount. Sales keep their applied percentage.
func (s *DiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.discountRepo.Delete(ctx, id)
}

// List lists discounts, optionally only the active ones
func (s *DiscountService) List(ctx context.Context, params *pagination.PaginationParams, activeOnly bool) (*pagination.PaginatedResult[entity.Discount], error) {
	discounts, total, err := s.discountRepo.List(ctx, params, activeOnly)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(discounts, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
