package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/enum"
	"github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/pkg/apperror"
	"github.com/sangkips/salesledger/pkg/metrics"
	"github.com/sangkips/salesledger/pkg/money"
	"github.com/sangkips/salesledger/pkg/pagination"
)

// LineOutcome values reported for each requested cart line
const (
	LineCommitted         = "committed"
	LineProductNotFound   = "product_not_found"
	LineInsufficientStock = "insufficient_stock"
	LineInvalidQuantity   = "invalid_quantity"
	LineDuplicateProduct  = "duplicate_product"
)

// SalesPolicy holds the configurable sale processing rules
type SalesPolicy struct {
	// RejectEmpty fails a sale whose lines were all skipped
	RejectEmpty bool
}

// SaleService is the sale transaction processor
type SaleService struct {
	uow       repository.UnitOfWork
	saleRepo  repository.SaleRepository
	discounts *DiscountService
	policy    SalesPolicy
	now       func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(
	uow repository.UnitOfWork,
	saleRepo repository.SaleRepository,
	discounts *DiscountService,
	policy SalesPolicy,
) *SaleService {
	return &SaleService{
		uow:       uow,
		saleRepo:  saleRepo,
		discounts: discounts,
		policy:    policy,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to stamp sales
func (s *SaleService) WithClock(now func() time.Time) *SaleService {
	s.now = now
	return s
}

// SaleLineInput is one requested cart line
type SaleLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	CustomerID uuid.UUID
	LocationID uuid.UUID
	SellerID   uuid.UUID
	Status     enum.SaleStatus
	DiscountID *uuid.UUID
	Lines      []SaleLineInput
}

// LineOutcome tells the caller what happened to one requested line
type LineOutcome struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Outcome   string    `json:"outcome"`
}

// SaleResult is the committed sale plus the fate of every requested line
type SaleResult struct {
	Sale  *entity.Sale  `json:"sale"`
	Lines []LineOutcome `json:"lines"`
}

// Committed counts the lines that made it into the sale
func (r *SaleResult) Committed() int {
	return countCommitted(r.Lines)
}

// CreateSale validates the parties, commits every line that has stock,
// applies the discount and writes one profit record per committed line.
// All writes happen in one unit of work.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*SaleResult, error) {
	if !input.Status.IsValid() {
		return nil, apperror.NewInvalidInputError("Invalid sale status")
	}

	soldAt := s.now().UTC()
	var saleID uuid.UUID
	var outcomes []LineOutcome

	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		if err := requireParties(ctx, repos, input.CustomerID, input.LocationID, input.SellerID); err != nil {
			return err
		}

		sale := &entity.Sale{
			SoldAt:     soldAt,
			CustomerID: input.CustomerID,
			LocationID: input.LocationID,
			SellerID:   input.SellerID,
			Status:     input.Status,
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		var err error
		outcomes, err = commitLines(ctx, repos, sale, input.Lines)
		if err != nil {
			return err
		}

		if s.policy.RejectEmpty && countCommitted(outcomes) == 0 {
			return apperror.NewInvalidInputError("No line of the sale could be committed")
		}

		sale.Total = sale.SubTotal
		if input.DiscountID != nil {
			discount, applicable, err := s.discounts.ResolveIn(ctx, repos.Discounts, *input.DiscountID, soldAt)
			if err != nil {
				return err
			}
			if discount != nil {
				sale.DiscountID = &discount.ID
			}
			if applicable {
				sale.DiscountPercent = discount.Percentage
				sale.Total = money.ApplyPercentOff(sale.SubTotal, discount.Percentage)
			}
		}

		saleID = sale.ID
		return repos.Sales.UpdateTotals(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	recordLineMetrics(metrics.SourceAPI, outcomes)

	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().
		Str("sale_id", saleID.String()).
		Int("committed", countCommitted(outcomes)).
		Int("requested", len(outcomes)).
		Msg("sale committed")

	return &SaleResult{Sale: sale, Lines: outcomes}, nil
}

// requireParties checks customer, location and seller before any stock moves
func requireParties(ctx context.Context, repos *repository.Repositories, customerID, locationID, sellerID uuid.UUID) error {
	customer, err := repos.Customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	location, err := repos.Locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return apperror.NewNotFoundError("Location")
	}

	seller, err := repos.Sellers.GetByID(ctx, sellerID)
	if err != nil {
		return err
	}
	if seller == nil {
		return apperror.NewNotFoundError("Seller")
	}
	return nil
}

// commitLines processes each requested line independently. Skipped lines
// leave no trace; committed lines add to sale.SubTotal.
func commitLines(ctx context.Context, repos *repository.Repositories, sale *entity.Sale, lines []SaleLineInput) ([]LineOutcome, error) {
	outcomes := make([]LineOutcome, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))

	for _, line := range lines {
		outcome := LineOutcome{ProductID: line.ProductID, Quantity: line.Quantity}

		switch {
		case line.Quantity <= 0:
			outcome.Outcome = LineInvalidQuantity
		case seen[line.ProductID]:
			outcome.Outcome = LineDuplicateProduct
		default:
			seen[line.ProductID] = true
			result, err := commitLine(ctx, repos, sale, line)
			if err != nil {
				return nil, err
			}
			outcome.Outcome = result
		}

		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func commitLine(ctx context.Context, repos *repository.Repositories, sale *entity.Sale, line SaleLineInput) (string, error) {
	product, err := repos.Products.GetByID(ctx, line.ProductID)
	if err != nil {
		return "", err
	}
	if product == nil {
		return LineProductNotFound, nil
	}

	err = repos.Stocks.ReserveAndDecrement(ctx, product.ID, line.Quantity)
	if errors.Is(err, apperror.ErrInsufficientStock) {
		return LineInsufficientStock, nil
	}
	if err != nil {
		return "", err
	}

	saleLine := &entity.SaleLine{
		SaleID:    sale.ID,
		ProductID: product.ID,
		Quantity:  line.Quantity,
		UnitPrice: product.SalePrice,
	}
	if err := repos.Sales.CreateLine(ctx, saleLine); err != nil {
		return "", err
	}

	record := entity.NewProfitRecord(sale.ID, product.ID, line.Quantity, product.SalePrice, product.CostPrice, sale.SoldAt)
	if err := repos.Profits.Create(ctx, record); err != nil {
		return "", err
	}

	sale.SubTotal += saleLine.LineTotal()
	return LineCommitted, nil
}

func countCommitted(outcomes []LineOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Outcome == LineCommitted {
			n++
		}
	}
	return n
}

func recordLineMetrics(source string, outcomes []LineOutcome) {
	metrics.SalesCommitted.WithLabelValues(source).Inc()
	for _, o := range outcomes {
		if o.Outcome != LineCommitted {
			metrics.LinesSkipped.WithLabelValues(o.Outcome).Inc()
		}
	}
}

// GetSale retrieves a sale with its parties and lines
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales matching the filters
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(sales, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// UpdateStatus changes the status only. Totals and ledger entries are immutable.
func (s *SaleService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) (*entity.Sale, error) {
	if !status.IsValid() {
		return nil, apperror.NewInvalidInputError("Invalid sale status")
	}
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if err := s.saleRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.GetSale(ctx, id)
}
