package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/pkg/apperror"
	"github.com/sangkips/salesledger/pkg/money"
	"github.com/sangkips/salesledger/pkg/pagination"
)

// ProductService handles the catalog and restocking
type ProductService struct {
	uow          repository.UnitOfWork
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockRepo    repository.StockRepository
}

// NewProductService creates a new product service
func NewProductService(
	uow repository.UnitOfWork,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	stockRepo repository.StockRepository,
) *ProductService {
	return &ProductService{
		uow:          uow,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockRepo:    stockRepo,
	}
}

// ProductInput carries the editable product fields. Prices are decimals.
type ProductInput struct {
	CategoryID  *uuid.UUID
	Name        string
	Description string
	SalePrice   float64
	CostPrice   float64
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	ProductInput
	InitialStock int
	MinimumStock int
}

// validate checks prices, the category and that no other product holds the
// name. Imports resolve products by name.
func (s *ProductService) validate(ctx context.Context, id uuid.UUID, input *ProductInput) error {
	var fieldErrors []apperror.FieldError
	if input.SalePrice <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "sale_price", Message: "must be greater than zero"})
	}
	if input.CostPrice <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "cost_price", Message: "must be greater than zero"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return apperror.NewNotFoundError("Category")
		}
	}

	existing, err := s.productRepo.GetByName(ctx, input.Name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != id {
		return apperror.NewConflictError("A product with this name already exists")
	}
	return nil
}

// CreateProduct creates a product together with its stock row
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if err := s.validate(ctx, uuid.Nil, &input.ProductInput); err != nil {
		return nil, err
	}
	if input.InitialStock < 0 {
		return nil, apperror.NewInvalidInputError("Initial stock cannot be negative")
	}

	product := &entity.Product{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		SalePrice:   money.FromFloat(input.SalePrice),
		CostPrice:   money.FromFloat(input.CostPrice),
	}

	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		return repos.Stocks.Create(ctx, &entity.Stock{
			ProductID: product.ID,
			Available: input.InitialStock,
			Minimum:   input.MinimumStock,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetProductByID(ctx, product.ID)
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProduct changes catalog data. Recorded sales and profit keep the
// prices they were made at.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	if err := s.validate(ctx, id, input); err != nil {
		return nil, err
	}
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.Name = input.Name
	product.Description = input.Description
	product.SalePrice = money.FromFloat(input.SalePrice)
	product.CostPrice = money.FromFloat(input.CostPrice)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.GetProductByID(ctx, id)
}

// DeleteProduct soft-deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProductByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// AdjustStockInput represents a restock or correction
type AdjustStockInput struct {
	Delta   int
	Minimum *int
}

// AdjustStock adds delta to the available quantity and optionally changes the minimum
func (s *ProductService) AdjustStock(ctx context.Context, productID uuid.UUID, input *AdjustStockInput) (*entity.Stock, error) {
	if _, err := s.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}
	if input.Minimum != nil && *input.Minimum < 0 {
		return nil, apperror.NewInvalidInputError("Minimum stock cannot be negative")
	}

	var stock *entity.Stock
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		if input.Minimum != nil {
			if err := repos.Stocks.SetMinimum(ctx, productID, *input.Minimum); err != nil {
				return err
			}
		}
		var err error
		stock, err = repos.Stocks.Adjust(ctx, productID, input.Delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stock, nil
}

// GetLowStock lists products at or below their minimum stock
func (s *ProductService) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}
