package service

import (
	"context"
	"testing"

	"github.com/sangkips/salesledger/internal/infrastructure/repository"
	"github.com/sangkips/salesledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)
	mug := testutil.CreateProduct(t, f.db, "Mug", 2550, 1000, 10)
	testutil.CreateProduct(t, f.db, "Lamp", 1000, 700, 1)

	_, err := f.sales.CreateSale(context.Background(), f.input(SaleLineInput{ProductID: mug.ID, Quantity: 2}))
	require.NoError(t, err)

	svc := NewDashboardService(
		repository.NewProductRepository(f.db),
		repository.NewCustomerRepository(f.db),
		repository.NewLocationRepository(f.db),
		repository.NewSellerRepository(f.db),
		repository.NewSaleRepository(f.db),
		f.profits,
	)
	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.TotalLocations)
	assert.Equal(t, int64(1), stats.TotalSellers)
	assert.Equal(t, int64(1), stats.TotalSales)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.InDelta(t, 31.0, stats.Profit.TotalProfit, 0.001)
	assert.Len(t, stats.RecentProfits, 1)
}
