package service

import (
	"context"

	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/repository"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	locationRepo repository.LocationRepository
	sellerRepo   repository.SellerRepository
	saleRepo     repository.SaleRepository
	profits      *ProfitService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	locationRepo repository.LocationRepository,
	sellerRepo repository.SellerRepository,
	saleRepo repository.SaleRepository,
	profits *ProfitService,
) *DashboardService {
	return &DashboardService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		locationRepo: locationRepo,
		sellerRepo:   sellerRepo,
		saleRepo:     saleRepo,
		profits:      profits,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalProducts  int64                 `json:"total_products"`
	TotalCustomers int64                 `json:"total_customers"`
	TotalLocations int64                 `json:"total_locations"`
	TotalSellers   int64                 `json:"total_sellers"`
	TotalSales     int64                 `json:"total_sales"`
	LowStockCount  int64                 `json:"low_stock_count"`
	Profit         *ProfitSummary        `json:"profit"`
	RecentProfits  []entity.ProfitRecord `json:"recent_profits"`
}

// GetDashboardStats returns dashboard statistics. Profit figures come from
// the same reporting service as the profit endpoints.
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCustomers, err = s.customerRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalLocations, err = s.locationRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSellers, err = s.sellerRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSales, err = s.saleRepo.Count(ctx); err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = int64(len(lowStock))

	if stats.Profit, err = s.profits.Summary(ctx); err != nil {
		return nil, err
	}
	if stats.RecentProfits, err = s.profits.Recent(ctx, DefaultRecentLimit); err != nil {
		return nil, err
	}

	return stats, nil
}
