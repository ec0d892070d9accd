package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/enum"
	"github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/pkg/apperror"
	"github.com/sangkips/salesledger/pkg/metrics"
)

// Row error codes reported by the import reconciler
const (
	RowInvalidInput      = "InvalidInput"
	RowProductNotFound   = "ProductNotFound"
	RowInsufficientStock = "InsufficientStock"
	RowSellerNotFound    = "SellerNotFound"
	RowInternal          = "Internal"

	rowImported = "imported"
)

// ImportService replays spreadsheet rows through the sale ledger, one
// transaction per row
type ImportService struct {
	uow          repository.UnitOfWork
	locationName string
}

// NewImportService creates a new import service. Imported sales are
// delivered to the location named locationName, created on first use.
func NewImportService(uow repository.UnitOfWork, locationName string) *ImportService {
	if strings.TrimSpace(locationName) == "" {
		locationName = "Imported"
	}
	return &ImportService{uow: uow, locationName: locationName}
}

// ImportRow is one raw spreadsheet row. Row is the 1-based spreadsheet row
// number; when zero it is derived from the position in the batch.
type ImportRow struct {
	Row          int
	Date         string
	CustomerName string
	ProductName  string
	Quantity     string
	Price        string
	SellerName   string
}

// ImportResult contains the result of a sales import
type ImportResult struct {
	TotalRows int              `json:"total_rows"`
	Imported  int              `json:"imported"`
	Failed    int              `json:"failed"`
	Errors    []ImportRowError `json:"errors"`
}

// ImportRowError describes why a specific row was not imported
type ImportRowError struct {
	Row     int    `json:"row"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ImportRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

type parsedRow struct {
	soldAt   time.Time
	customer string
	product  string
	quantity int
	price    int64
	seller   string
}

// ImportRows processes every row independently. A failing row rolls back
// only its own writes and never aborts the batch.
func (s *ImportService) ImportRows(ctx context.Context, rows []ImportRow) *ImportResult {
	result := &ImportResult{TotalRows: len(rows), Errors: []ImportRowError{}}

	for i, row := range rows {
		if row.Row == 0 {
			row.Row = i + 2 // row 1 is the header
		}

		rowErr := s.importRow(ctx, row)
		if rowErr == nil {
			result.Imported++
			metrics.ImportRows.WithLabelValues(rowImported).Inc()
			continue
		}

		result.Failed++
		result.Errors = append(result.Errors, *rowErr)
		metrics.ImportRows.WithLabelValues(rowErr.Code).Inc()
	}

	log.Ctx(ctx).Info().
		Int("total", result.TotalRows).
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Msg("sales import finished")
	return result
}

func (s *ImportService) importRow(ctx context.Context, row ImportRow) *ImportRowError {
	parsed, rowErr := parseImportRow(row)
	if rowErr != nil {
		return rowErr
	}

	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		return s.commitRow(ctx, repos, row.Row, parsed)
	})
	if err == nil {
		return nil
	}

	var failure *ImportRowError
	if errors.As(err, &failure) {
		return failure
	}
	log.Ctx(ctx).Error().Err(err).Int("row", row.Row).Msg("import row failed")
	return &ImportRowError{Row: row.Row, Code: RowInternal, Message: err.Error()}
}

func (s *ImportService) commitRow(ctx context.Context, repos *repository.Repositories, rowNum int, row *parsedRow) error {
	customer, err := repos.Customers.GetByName(ctx, row.customer)
	if err != nil {
		return err
	}
	if customer == nil {
		customer = &entity.Customer{Name: row.customer}
		if err := repos.Customers.Create(ctx, customer); err != nil {
			return err
		}
	}

	product, err := repos.Products.GetByName(ctx, row.product)
	if err != nil {
		return err
	}
	if product == nil {
		return &ImportRowError{Row: rowNum, Code: RowProductNotFound, Field: "product", Message: fmt.Sprintf("Product '%s' not found", row.product)}
	}

	if product.Stock == nil || product.Stock.Available < row.quantity {
		return insufficientStock(rowNum, product)
	}

	seller, err := repos.Sellers.GetByUsername(ctx, row.seller)
	if err != nil {
		return err
	}
	if seller == nil {
		return &ImportRowError{Row: rowNum, Code: RowSellerNotFound, Field: "seller", Message: fmt.Sprintf("Seller '%s' not found", row.seller)}
	}

	location, err := s.importLocation(ctx, repos)
	if err != nil {
		return err
	}

	amount := row.price * int64(row.quantity)
	sale := &entity.Sale{
		SoldAt:     row.soldAt,
		CustomerID: customer.ID,
		LocationID: location.ID,
		SellerID:   seller.ID,
		Status:     enum.SaleStatusOnDelivery,
		SubTotal:   amount,
		Total:      amount,
	}
	if err := repos.Sales.Create(ctx, sale); err != nil {
		return err
	}

	line := &entity.SaleLine{SaleID: sale.ID, ProductID: product.ID, Quantity: row.quantity, UnitPrice: row.price}
	if err := repos.Sales.CreateLine(ctx, line); err != nil {
		return err
	}

	record := entity.NewProfitRecord(sale.ID, product.ID, row.quantity, row.price, product.CostPrice, row.soldAt)
	if err := repos.Profits.Create(ctx, record); err != nil {
		return err
	}

	err = repos.Stocks.ReserveAndDecrement(ctx, product.ID, row.quantity)
	if errors.Is(err, apperror.ErrInsufficientStock) {
		return insufficientStock(rowNum, product)
	}
	if err != nil {
		return err
	}

	metrics.SalesCommitted.WithLabelValues(metrics.SourceImport).Inc()
	return nil
}

func (s *ImportService) importLocation(ctx context.Context, repos *repository.Repositories) (*entity.Location, error) {
	location, err := repos.Locations.GetByName(ctx, s.locationName)
	if err != nil || location != nil {
		return location, err
	}
	location = &entity.Location{Name: s.locationName, Kind: enum.LocationKindOther}
	if err := repos.Locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func insufficientStock(rowNum int, product *entity.Product) *ImportRowError {
	return &ImportRowError{
		Row:     rowNum,
		Code:    RowInsufficientStock,
		Field:   "quantity",
		Message: fmt.Sprintf("Insufficient stock for '%s'", product.Name),
	}
}

func parseImportRow(row ImportRow) (*parsedRow, *ImportRowError) {
	invalid := func(field, message string) *ImportRowError {
		return &ImportRowError{Row: row.Row, Code: RowInvalidInput, Field: field, Message: message}
	}

	soldAt, err := ParseImportDate(row.Date)
	if err != nil {
		return nil, invalid("date", fmt.Sprintf("Invalid date '%s'", row.Date))
	}

	p := &parsedRow{
		soldAt:   soldAt,
		customer: strings.TrimSpace(row.CustomerName),
		product:  strings.TrimSpace(row.ProductName),
		seller:   strings.TrimSpace(row.SellerName),
	}
	if p.customer == "" {
		return nil, invalid("customer", "Customer is required")
	}
	if p.product == "" {
		return nil, invalid("product", "Product is required")
	}
	if p.seller == "" {
		return nil, invalid("seller", "Seller is required")
	}

	quantity, err := parseImportQuantity(row.Quantity)
	if err != nil || quantity <= 0 {
		return nil, invalid("quantity", fmt.Sprintf("Invalid quantity '%s'", row.Quantity))
	}
	p.quantity = quantity

	price, err := parseImportPrice(row.Price)
	if err != nil || price < 0 {
		return nil, invalid("price", fmt.Sprintf("Invalid price '%s'", row.Price))
	}
	p.price = price

	return p, nil
}
