package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/testutil"
	"github.com/sangkips/salesledger/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	*fixture
	mug  *entity.Product
	lamp *entity.Product
}

// newLedgerFixture records three sales:
//
//	03-01 10:00 UTC  2 mugs           31.00
//	03-02 03:00 UTC  1 lamp            3.00
//	03-02 06:00 UTC  1 mug + 2 lamps  21.50
func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	f := newFixture(t, SalesPolicy{}, true)
	lf := &ledgerFixture{
		fixture: f,
		mug:     testutil.CreateProduct(t, f.db, "Mug", 2550, 1000, 20),
		lamp:    testutil.CreateProduct(t, f.db, "Lamp", 1000, 700, 20),
	}

	sell := func(at time.Time, lines ...SaleLineInput) {
		f.at(at)
		_, err := f.sales.CreateSale(context.Background(), f.input(lines...))
		require.NoError(t, err)
	}
	sell(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), SaleLineInput{ProductID: lf.mug.ID, Quantity: 2})
	sell(time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC), SaleLineInput{ProductID: lf.lamp.ID, Quantity: 1})
	sell(time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC),
		SaleLineInput{ProductID: lf.mug.ID, Quantity: 1},
		SaleLineInput{ProductID: lf.lamp.ID, Quantity: 2},
	)
	return lf
}

func TestProfitSummary(t *testing.T) {
	lf := newLedgerFixture(t)

	summary, err := lf.profits.Summary(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 55.50, summary.TotalProfit, 0.001)
	assert.Equal(t, int64(3), summary.SaleCount)
	assert.InDelta(t, 18.50, summary.AveragePerSale, 0.001)

	again, err := lf.profits.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, summary, again)
}

func TestProfitSummary_EmptyLedger(t *testing.T) {
	f := newFixture(t, SalesPolicy{}, true)

	summary, err := f.profits.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalProfit)
	assert.Zero(t, summary.AveragePerSale)
}

func TestProfitByProduct_MatchesSummary(t *testing.T) {
	lf := newLedgerFixture(t)

	rows, err := lf.profits.ByProduct(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := make(map[uuid.UUID]ProductProfit)
	var sum float64
	for _, row := range rows {
		byID[row.ProductID] = row
		sum += row.TotalProfit
	}
	assert.InDelta(t, 55.50, sum, 0.001)

	mug := byID[lf.mug.ID]
	assert.Equal(t, "Mug", mug.ProductName)
	assert.InDelta(t, 46.50, mug.TotalProfit, 0.001)
	assert.Equal(t, int64(3), mug.QuantitySold)
	assert.InDelta(t, 15.50, mug.AverageUnitProfit, 0.001)

	lamp := byID[lf.lamp.ID]
	assert.InDelta(t, 9.00, lamp.TotalProfit, 0.001)
	assert.Equal(t, int64(3), lamp.QuantitySold)
}

func TestProfitByProduct_PriceEditKeepsHistory(t *testing.T) {
	lf := newLedgerFixture(t)
	require.NoError(t, lf.db.Model(&entity.Product{}).Where("id = ?", lf.mug.ID).Update("sale_price", 3000).Error)

	rows, err := lf.profits.ByProduct(context.Background())
	require.NoError(t, err)
	for _, row := range rows {
		if row.ProductID == lf.mug.ID {
			assert.InDelta(t, 46.50, row.TotalProfit, 0.001)
			assert.InDelta(t, 20.00, row.CurrentUnitMargin, 0.001)
		}
	}
}

func TestProfitProductDetail(t *testing.T) {
	lf := newLedgerFixture(t)

	detail, err := lf.profits.ProductDetail(context.Background(), lf.lamp.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Records, 2)
	assert.InDelta(t, 9.00, detail.TotalProfit, 0.001)
	assert.Equal(t, int64(3), detail.TotalSold)
	assert.InDelta(t, 42.857, detail.MarginPercent, 0.001)

	_, err = lf.profits.ProductDetail(context.Background(), uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestProfitRecent(t *testing.T) {
	lf := newLedgerFixture(t)

	recent, err := lf.profits.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	for _, r := range recent {
		assert.True(t, r.RecordedAt.Equal(time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC)))
		require.NotNil(t, r.Product)
	}

	all, err := lf.profits.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestProfitDailySeries_ShiftsByOffset(t *testing.T) {
	lf := newLedgerFixture(t)

	series, err := lf.profits.DailySeries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []DailyProfit{
		{Date: "2024-03-01", Profit: 34.00},
		{Date: "2024-03-02", Profit: 21.50},
	}, series)

	var sum float64
	for _, day := range series {
		sum += day.Profit
	}
	summary, err := lf.profits.Summary(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, summary.TotalProfit, sum, 0.001)
}

func TestProfitTodayFeed_RunningTotal(t *testing.T) {
	lf := newLedgerFixture(t)

	feed, err := lf.profits.TodayFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 3)

	assert.Equal(t, "Lamp", feed[0].ProductName)
	assert.InDelta(t, 3.00, feed[0].LineProfit, 0.001)
	assert.InDelta(t, 3.00, feed[0].Cumulative, 0.001)
	assert.InDelta(t, 24.50, feed[2].Cumulative, 0.001)
	for i := 1; i < len(feed); i++ {
		assert.InDelta(t, feed[i-1].Cumulative+feed[i].LineProfit, feed[i].Cumulative, 0.001)
	}
}

func TestProfitTodayFeed_UsesServerLocalDate(t *testing.T) {
	lf := newLedgerFixture(t)
	// 02:00 UTC on 03-02 is still 03-01 five hours west
	west := time.FixedZone("UTC-5", -5*60*60)
	lf.profits.WithClock(testutil.FixedClock(time.Date(2024, 3, 2, 2, 0, 0, 0, time.UTC)), west)

	feed, err := lf.profits.TodayFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Mug", feed[0].ProductName)
	assert.InDelta(t, 31.00, feed[0].Cumulative, 0.001)
}
