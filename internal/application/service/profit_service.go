package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/pkg/apperror"
	"github.com/sangkips/salesledger/pkg/money"
)

const (
	// DefaultRecentLimit is the size of the recent profit list
	DefaultRecentLimit = 10
	dayLayout          = "2006-01-02"
)

// ProfitService is the reporting engine over the profit ledger. Every
// figure is recomputed from the ledger on each call.
type ProfitService struct {
	profitRepo  repository.ProfitRepository
	productRepo repository.ProductRepository
	dayOffset   time.Duration
	now         func() time.Time
	location    *time.Location
}

// NewProfitService creates a new profit service. dayOffset shifts UTC
// timestamps back before bucketing them into days.
func NewProfitService(
	profitRepo repository.ProfitRepository,
	productRepo repository.ProductRepository,
	dayOffset time.Duration,
) *ProfitService {
	return &ProfitService{
		profitRepo:  profitRepo,
		productRepo: productRepo,
		dayOffset:   dayOffset,
		now:         time.Now,
		location:    time.Local,
	}
}

// WithClock replaces the server clock and its time zone
func (s *ProfitService) WithClock(now func() time.Time, location *time.Location) *ProfitService {
	s.now = now
	s.location = location
	return s
}

// ProfitSummary is the headline profit figure set
type ProfitSummary struct {
	TotalProfit    float64 `json:"total_profit"`
	SaleCount      int64   `json:"sale_count"`
	AveragePerSale float64 `json:"average_per_sale"`
}

// ProductProfit aggregates the ledger for one product
type ProductProfit struct {
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	TotalProfit       float64   `json:"total_profit"`
	QuantitySold      int64     `json:"quantity_sold"`
	AverageUnitProfit float64   `json:"average_unit_profit"`
	CurrentUnitMargin float64   `json:"current_unit_margin"`
}

// ProductProfitDetail is the ledger history of one product
type ProductProfitDetail struct {
	Product       *entity.Product       `json:"product"`
	Records       []entity.ProfitRecord `json:"records"`
	TotalProfit   float64               `json:"total_profit"`
	TotalSold     int64                 `json:"total_sold"`
	MarginPercent float64               `json:"margin_percent"`
}

// DailyProfit is one point of the daily series
type DailyProfit struct {
	Date   string  `json:"date"`
	Profit float64 `json:"profit"`
}

// FeedEntry is one record of today's feed with the running total
type FeedEntry struct {
	RecordedAt   time.Time `json:"recorded_at"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	SaleID       uuid.UUID `json:"sale_id"`
	QuantitySold int       `json:"quantity_sold"`
	LineProfit   float64   `json:"line_profit"`
	Cumulative   float64   `json:"cumulative_profit"`
}

// Summary returns total profit, the number of distinct sales in the ledger
// and the average profit per sale
func (s *ProfitService) Summary(ctx context.Context) (*ProfitSummary, error) {
	totals, err := s.profitRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &ProfitSummary{
		TotalProfit:    money.ToFloat(totals.TotalProfit),
		SaleCount:      totals.SaleCount,
		AveragePerSale: money.Average(totals.TotalProfit, totals.SaleCount),
	}, nil
}

// ByProduct aggregates profit per product. The current margin is taken from
// today's catalog prices, not from the ledger.
func (s *ProfitService) ByProduct(ctx context.Context) ([]ProductProfit, error) {
	rows, err := s.profitRepo.ByProduct(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ProductProfit, 0, len(rows))
	for _, row := range rows {
		results = append(results, ProductProfit{
			ProductID:         row.ProductID,
			ProductName:       row.ProductName,
			TotalProfit:       money.ToFloat(row.TotalProfit),
			QuantitySold:      row.QuantitySold,
			AverageUnitProfit: money.Average(row.UnitProfitSum, row.RecordCount),
			CurrentUnitMargin: money.ToFloat(row.CurrentSale - row.CurrentCost),
		})
	}
	return results, nil
}

// ProductDetail returns one product's ledger, newest first
func (s *ProfitService) ProductDetail(ctx context.Context, productID uuid.UUID) (*ProductProfitDetail, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	records, err := s.profitRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var totalProfit, totalSold int64
	for _, r := range records {
		totalProfit += r.LineProfit
		totalSold += int64(r.QuantitySold)
	}

	return &ProductProfitDetail{
		Product:       product,
		Records:       records,
		TotalProfit:   money.ToFloat(totalProfit),
		TotalSold:     totalSold,
		MarginPercent: product.MarginPercent(),
	}, nil
}

// Recent returns the newest ledger records
func (s *ProfitService) Recent(ctx context.Context, limit int) ([]entity.ProfitRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.profitRepo.Recent(ctx, limit)
}

// DailySeries buckets line profit by the calendar date of the UTC
// timestamp shifted back by the configured offset, ascending by date
func (s *ProfitService) DailySeries(ctx context.Context) ([]DailyProfit, error) {
	points, err := s.profitRepo.Points(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]int64)
	for _, p := range points {
		day := p.RecordedAt.UTC().Add(-s.dayOffset).Format(dayLayout)
		buckets[day] += p.LineProfit
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]DailyProfit, 0, len(days))
	for _, day := range days {
		series = append(series, DailyProfit{Date: day, Profit: money.ToFloat(buckets[day])})
	}
	return series, nil
}

// TodayFeed lists records whose UTC timestamp falls on the server's current
// local calendar date, oldest first, with a running cumulative profit. The
// comparison mixes the two zones, so near midnight it can
// disagree with DailySeries.
func (s *ProfitService) TodayFeed(ctx context.Context) ([]FeedEntry, error) {
	today := s.now().In(s.location).Format(dayLayout)
	start, err := time.ParseInLocation(dayLayout, today, time.UTC)
	if err != nil {
		return nil, err
	}

	records, err := s.profitRepo.ListBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	feed := make([]FeedEntry, 0, len(records))
	var running int64
	for _, r := range records {
		if r.RecordedAt.UTC().Format(dayLayout) != today {
			continue
		}
		running += r.LineProfit
		entry := FeedEntry{
			RecordedAt:   r.RecordedAt,
			ProductID:    r.ProductID,
			SaleID:       r.SaleID,
			QuantitySold: r.QuantitySold,
			LineProfit:   money.ToFloat(r.LineProfit),
			Cumulative:   money.ToFloat(running),
		}
		if r.Product != nil {
			entry.ProductName = r.Product.Name
		}
		feed = append(feed, entry)
	}
	return feed, nil
}
