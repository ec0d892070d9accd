package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfitRepository_ExcludesZeroQuantity(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfitRepository(db)
	ctx := context.Background()
	product := testutil.CreateProduct(t, db, "Mug", 2550, 1000, 10)
	saleA, saleB := uuid.New(), uuid.New()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, entity.NewProfitRecord(saleA, product.ID, 2, 2550, 1000, at)))
	require.NoError(t, repo.Create(ctx, entity.NewProfitRecord(saleB, product.ID, 1, 2550, 1000, at.Add(time.Hour))))
	// A zero-quantity row carrying a bogus profit must be invisible
	ghost := entity.NewProfitRecord(uuid.New(), product.ID, 0, 2550, 1000, at)
	ghost.LineProfit = 99999
	require.NoError(t, repo.Create(ctx, ghost))

	totals, err := repo.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4650), totals.TotalProfit)
	assert.Equal(t, int64(2), totals.SaleCount)

	byProduct, err := repo.ByProduct(ctx)
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.Equal(t, "Mug", byProduct[0].ProductName)
	assert.Equal(t, int64(4650), byProduct[0].TotalProfit)
	assert.Equal(t, int64(3), byProduct[0].QuantitySold)
	assert.Equal(t, int64(2), byProduct[0].RecordCount)

	points, err := repo.Points(ctx)
	require.NoError(t, err)
	assert.Len(t, points, 2)

	sums, err := repo.SumBySale(ctx, []uuid.UUID{saleA, saleB, ghost.SaleID})
	require.NoError(t, err)
	assert.Equal(t, int64(3100), sums[saleA])
	assert.Equal(t, int64(1550), sums[saleB])
	_, ok := sums[ghost.SaleID]
	assert.False(t, ok)
}

func TestProfitRepository_ListBetweenAndRecent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfitRepository(db)
	ctx := context.Background()
	product := testutil.CreateProduct(t, db, "Mug", 2550, 1000, 10)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, hour := range []int{1, 13, 25} {
		rec := entity.NewProfitRecord(uuid.New(), product.ID, i+1, 2550, 1000, day.Add(time.Duration(hour)*time.Hour))
		require.NoError(t, repo.Create(ctx, rec))
	}

	records, err := repo.ListBetween(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].RecordedAt.Before(records[1].RecordedAt))
	require.NotNil(t, records[0].Product)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].QuantitySold)
}

func TestProfitRepository_KeepsHistoryOfDeletedProducts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfitRepository(db)
	ctx := context.Background()
	product := testutil.CreateProduct(t, db, "Gone", 500, 200, 1)
	require.NoError(t, repo.Create(ctx, entity.NewProfitRecord(uuid.New(), product.ID, 1, 500, 200, time.Now().UTC())))

	require.NoError(t, NewProductRepository(db).Delete(ctx, product.ID))

	byProduct, err := repo.ByProduct(ctx)
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.Equal(t, int64(300), byProduct[0].TotalProfit)
}

func TestProfitRepository_SumBySaleInBatches(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfitRepository(db)
	ctx := context.Background()
	product := testutil.CreateProduct(t, db, "Mug", 2550, 1000, 10)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	previous := sumBySaleBatch
	sumBySaleBatch = 2
	t.Cleanup(func() { sumBySaleBatch = previous })

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, repo.Create(ctx, entity.NewProfitRecord(ids[i], product.ID, i+1, 2550, 1000, at)))
	}

	sums, err := repo.SumBySale(ctx, ids)
	require.NoError(t, err)
	require.Len(t, sums, 5)
	for i, id := range ids {
		assert.Equal(t, int64(1550*(i+1)), sums[id])
	}

	sums, err = repo.SumBySale(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, sums)
}
