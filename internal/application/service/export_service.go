package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/pkg/money"
	"github.com/sangkips/salesledger/pkg/spreadsheet"
)

const (
	exportSheet      = "Sales Report"
	exportDateLayout = "02/01/2006 15:04"
)

var exportHeaders = []string{
	"Sale ID", "Date", "Customer", "Delivery Location", "Seller", "Status", "Total", "Total Profit",
}

// ExportService renders the flat sales report
type ExportService struct {
	saleRepo   repository.SaleRepository
	profitRepo repository.ProfitRepository
}

// NewExportService creates a new export service
func NewExportService(saleRepo repository.SaleRepository, profitRepo repository.ProfitRepository) *ExportService {
	return &ExportService{saleRepo: saleRepo, profitRepo: profitRepo}
}

// BuildReport returns one row per sale, newest first. Total Profit is the
// sum of the sale's ledger entries.
func (s *ExportService) BuildReport(ctx context.Context) (*spreadsheet.Table, error) {
	sales, err := s.saleRepo.ListForExport(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(sales))
	for i := range sales {
		ids[i] = sales[i].ID
	}
	profits, err := s.profitRepo.SumBySale(ctx, ids)
	if err != nil {
		return nil, err
	}

	table := &spreadsheet.Table{Sheet: exportSheet, Headers: exportHeaders, Rows: make([][]any, 0, len(sales))}
	for _, sale := range sales {
		var customer, location, seller string
		if sale.Customer != nil {
			customer = sale.Customer.Name
		}
		if sale.Location != nil {
			location = sale.Location.Name
		}
		if sale.Seller != nil {
			seller = sale.Seller.Username
		}
		table.Rows = append(table.Rows, []any{
			sale.ID.String(),
			sale.SoldAt.Format(exportDateLayout),
			customer,
			location,
			seller,
			sale.Status.Title(),
			money.ToFloat(sale.Total),
			money.ToFloat(profits[sale.ID]),
		})
	}
	return table, nil
}
