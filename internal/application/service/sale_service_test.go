package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/enum"
	"github.com/sangkips/salesledger/internal/testutil"
	"github.com/sangkips/salesledger/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSale_CommitsLineAndProfitRecord(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)
	product := testutil.CreateProduct(t, f.db, "Mug", 2550, 1000, 5)

	result, err := f.sales.CreateSale(context.Background(), f.input(SaleLineInput{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, err)

	assert.Equal(t, int64(5100), result.Sale.Total)
	assert.Equal(t, int64(5100), result.Sale.SubTotal)
	require.Len(t, result.Sale.Lines, 1)
	assert.Equal(t, int64(2550), result.Sale.Lines[0].UnitPrice)
	assert.Equal(t, []LineOutcome{{ProductID: product.ID, Quantity: 2, Outcome: LineCommitted}}, result.Lines)
	assert.Equal(t, 3, testutil.Available(t, f.db, product))

	var records []entity.ProfitRecord
	require.NoError(t, f.db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1550), records[0].UnitProfit)
	assert.Equal(t, int64(3100), records[0].LineProfit)
	assert.Equal(t, result.Sale.ID, records[0].SaleID)
	assert.True(t, records[0].RecordedAt.Equal(saleTime))
}

func TestCreateSale_SkipsLineWithoutStock(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)
	product := testutil.CreateProduct(t, f.db, "Mug", 2550, 1000, 1)

	result, err := f.sales.CreateSale(context.Background(), f.input(SaleLineInput{ProductID: product.ID, Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, LineInsufficientStock, result.Lines[0].Outcome)
	assert.Zero(t, result.Committed())
	assert.Equal(t, int64(0), result.Sale.Total)
	assert.Empty(t, result.Sale.Lines)
	assert.Equal(t, 1, testutil.Available(t, f.db, product))

	var count int64
	require.NoError(t, f.db.Model(&entity.ProfitRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSale_RejectEmptyPolicy(t *testing.T) {
	f := newFixture(t, SalesPolicy{RejectEmpty: true}, true)
	product := testutil.CreateProduct(t, f.db, "Mug", 2550, 1000, 1)

	_, err := f.sales.CreateSale(context.Background(), f.input(SaleLineInput{ProductID: product.ID, Quantity: 3}))
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))

	var count int64
	require.NoError(t, f.db.Model(&entity.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSale_AppliesDiscountInWindow(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)
	product := testutil.CreateProduct(t, f.db, "Lamp", 10000, 6000, 5)
	discount := testutil.CreateDiscount(t, f.db, 10, saleTime.Add(-time.Hour), 2*time.Hour)

	in := f.input(SaleLineInput{ProductID: product.ID, Quantity: 1})
	in.DiscountID = &discount.ID
	result, err := f.sales.CreateSale(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), result.Sale.SubTotal)
	assert.Equal(t, int64(9000), result.Sale.Total)
	assert.Equal(t, 10.0, result.Sale.DiscountPercent)
	require.NotNil(t, result.Sale.DiscountID)
	assert.Equal(t, discount.ID, *result.Sale.DiscountID)
}

func TestCreateSale_DiscountOutsideWindow(t *testing.T) {
	expired := func(t *testing.T, f *fixture) *entity.Discount {
		return testutil.CreateDiscount(t, f.db, 10, saleTime.Add(-72*time.Hour), 24*time.Hour)
	}

	t.Run("enforced window ignores it", func(t *testing.T) {
		f := newFixture(t, SalesPolicy{}, true)
		product := testutil.CreateProduct(t, f.db, "Lamp", 10000, 6000, 5)
		in := f.input(SaleLineInput{ProductID: product.ID, Quantity: 1})
		id := expired(t, f).ID
		in.DiscountID = &id

		result, err := f.sales.CreateSale(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), result.Sale.Total)
		assert.Zero(t, result.Sale.DiscountPercent)
	})

	t.Run("active flag only applies it", func(t *testing.T) {
		f := newFixture(t, SalesPolicy{}, false)
		product := testutil.CreateProduct(t, f.db, "Lamp", 10000, 6000, 5)
		in := f.input(SaleLineInput{ProductID: product.ID, Quantity: 1})
		id := expired(t, f).ID
		in.DiscountID = &id

		result, err := f.sales.CreateSale(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, int64(9000), result.Sale.Total)
	})
}

func TestCreateSale_UnknownDiscountIsIgnored(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)
	product := testutil.CreateProduct(t, f.db, "Lamp", 10000, 6000, 5)
	in := f.input(SaleLineInput{ProductID: product.ID, Quantity: 1})
	missing := uuid.New()
	in.DiscountID = &missing

	result, err := f.sales.CreateSale(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), result.Sale.Total)
	assert.Nil(t, result.Sale.DiscountID)
}

func TestCreateSale_MissingPartyAbortsBeforeStockMoves(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)
	product := testutil.CreateProduct(t, f.db, "Mug", 2550, 1000, 5)

	in := f.input(SaleLineInput{ProductID: product.ID, Quantity: 2})
	in.CustomerID = uuid.New()
	_, err := f.sales.CreateSale(context.Background(), in)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	in = f.input(SaleLineInput{ProductID: product.ID, Quantity: 2})
	in.SellerID = uuid.New()
	_, err = f.sales.CreateSale(context.Background(), in)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	assert.Equal(t, 5, testutil.Available(t, f.db, product))
	var count int64
	require.NoError(t, f.db.Model(&entity.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSale_RejectsUnknownStatus(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)
	in := f.input()
	in.Status = enum.SaleStatus("shipped")

	_, err := f.sales.CreateSale(context.Background(), in)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}

func TestCreateSale_MixedCartTotalsAndConservesStock(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)
	mug := testutil.CreateProduct(t, f.db, "Mug", 2550, 1000, 5)
	lamp := testutil.CreateProduct(t, f.db, "Lamp", 1999, 1500, 2)
	scarce := testutil.CreateProduct(t, f.db, "Scarce", 500, 100, 1)
	discount := testutil.CreateDiscount(t, f.db, 15, saleTime.Add(-time.Hour), 2*time.Hour)

	in := f.input(
		SaleLineInput{ProductID: mug.ID, Quantity: 3},
		SaleLineInput{ProductID: lamp.ID, Quantity: 2},
		SaleLineInput{ProductID: scarce.ID, Quantity: 2},
		SaleLineInput{ProductID: mug.ID, Quantity: 1},
		SaleLineInput{ProductID: uuid.New(), Quantity: 1},
		SaleLineInput{ProductID: lamp.ID, Quantity: 0},
	)
	in.DiscountID = &discount.ID

	result, err := f.sales.CreateSale(context.Background(), in)
	require.NoError(t, err)

	outcomes := make([]string, len(result.Lines))
	for i, l := range result.Lines {
		outcomes[i] = l.Outcome
	}
	assert.Equal(t, []string{
		LineCommitted, LineCommitted, LineInsufficientStock,
		LineDuplicateProduct, LineProductNotFound, LineInvalidQuantity,
	}, outcomes)

	subTotal := int64(2550*3 + 1999*2)
	assert.Equal(t, subTotal, result.Sale.SubTotal)
	// 116.48 * 0.85 = 99.008
	assert.Equal(t, int64(9901), result.Sale.Total)

	assert.Equal(t, 2, testutil.Available(t, f.db, mug))
	assert.Equal(t, 0, testutil.Available(t, f.db, lamp))
	assert.Equal(t, 1, testutil.Available(t, f.db, scarce))

	var lineQty int64
	require.NoError(t, f.db.Model(&entity.SaleLine{}).Select("COALESCE(SUM(quantity), 0)").Scan(&lineQty).Error)
	assert.Equal(t, int64(5), lineQty)
}

// The test database has one connection, so these sales queue for it and run
// one transaction at a time. Overlapping transactions are covered by the
// stock repository tests on a file database.
func TestCreateSale_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)
	product := testutil.CreateProduct(t, f.db, "Mug", 2550, 1000, 5)

	const buyers = 12
	var wg sync.WaitGroup
	results := make(chan *SaleResult, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.sales.CreateSale(context.Background(), f.input(SaleLineInput{ProductID: product.ID, Quantity: 1}))
			if assert.NoError(t, err) {
				results <- result
			}
		}()
	}
	wg.Wait()
	close(results)

	committed := 0
	for r := range results {
		committed += r.Committed()
	}
	assert.Equal(t, 5, committed)
	assert.Equal(t, 0, testutil.Available(t, f.db, product))
}

func TestUpdateStatus_KeepsTotals(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)
	product := testutil.CreateProduct(t, f.db, "Mug", 2550, 1000, 5)
	result, err := f.sales.CreateSale(context.Background(), f.input(SaleLineInput{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)

	sale, err := f.sales.UpdateStatus(context.Background(), result.Sale.ID, enum.SaleStatusPaidInAdvance)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusPaidInAdvance, sale.Status)
	assert.Equal(t, int64(2550), sale.Total)

	_, err = f.sales.UpdateStatus(context.Background(), uuid.New(), enum.SaleStatusCancelled)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
