package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salesledger/internal/domain/entity"
	domainRepo "github.com/sangkips/salesledger/internal/domain/repository"
	"gorm.io/gorm"
)

type profitRepository struct {
	db *gorm.DB
}

// NewProfitRepository creates a new profit ledger repository
func NewProfitRepository(db *gorm.DB) domainRepo.ProfitRepository {
	return &profitRepository{db: db}
}

// Create appends a record. Records are never updated afterwards.
func (r *profitRepository) Create(ctx context.Context, record *entity.ProfitRecord) error {
	return r.db.WithContext(ctx).Omit("Product").Create(record).Error
}

func (r *profitRepository) sold(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&entity.ProfitRecord{}).Scopes(SoldRecordsScope("profit_records"))
}

func (r *profitRepository) Totals(ctx context.Context) (*domainRepo.ProfitTotals, error) {
	var totals domainRepo.ProfitTotals
	err := r.sold(ctx).
		Select(`CAST(COALESCE(SUM(profit_records.line_profit), 0) AS BIGINT) AS total_profit,
			COUNT(DISTINCT profit_records.sale_id) AS sale_count`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *profitRepository) ByProduct(ctx context.Context) ([]domainRepo.ProductProfitResult, error) {
	var results []domainRepo.ProductProfitResult
	err := r.sold(ctx).
		Select(`profit_records.product_id AS product_id,
			products.name AS product_name,
			CAST(SUM(profit_records.line_profit) AS BIGINT) AS total_profit,
			CAST(SUM(profit_records.quantity_sold) AS BIGINT) AS quantity_sold,
			CAST(SUM(profit_records.unit_profit) AS BIGINT) AS unit_profit_sum,
			COUNT(*) AS record_count,
			products.sale_price AS current_sale,
			products.cost_price AS current_cost`).
		Joins("JOIN products ON products.id = profit_records.product_id").
		Group("profit_records.product_id, products.name, products.sale_price, products.cost_price").
		Order("total_profit DESC").
		Scan(&results).Error
	return results, err
}

func (r *profitRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.ProfitRecord, error) {
	var records []entity.ProfitRecord
	err := r.sold(ctx).
		Where("profit_records.product_id = ?", productID).
		Order("profit_records.recorded_at DESC").
		Find(&records).Error
	return records, err
}

func (r *profitRepository) Recent(ctx context.Context, limit int) ([]entity.ProfitRecord, error) {
	var records []entity.ProfitRecord
	err := r.sold(ctx).
		Preload("Product", unscoped).
		Order("profit_records.recorded_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *profitRepository) Points(ctx context.Context) ([]domainRepo.ProfitPoint, error) {
	var points []domainRepo.ProfitPoint
	err := r.sold(ctx).
		Select("profit_records.recorded_at AS recorded_at, profit_records.line_profit AS line_profit").
		Order("profit_records.recorded_at ASC").
		Scan(&points).Error
	return points, err
}

func (r *profitRepository) ListBetween(ctx context.Context, from, to time.Time) ([]entity.ProfitRecord, error) {
	var records []entity.ProfitRecord
	err := r.sold(ctx).
		Preload("Product", unscoped).
		Where("profit_records.recorded_at >= ? AND profit_records.recorded_at < ?", from.UTC(), to.UTC()).
		Order("profit_records.recorded_at ASC").
		Find(&records).Error
	return records, err
}

// sumBySaleBatch keeps each IN list well under the bind parameter limits of
// SQLite and PostgreSQL
var sumBySaleBatch = 500

func (r *profitRepository) SumBySale(ctx context.Context, saleIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	sums := make(map[uuid.UUID]int64, len(saleIDs))
	for start := 0; start < len(saleIDs); start += sumBySaleBatch {
		end := min(start+sumBySaleBatch, len(saleIDs))

		var rows []struct {
			SaleID uuid.UUID
			Total  int64
		}
		err := r.sold(ctx).
			Select("profit_records.sale_id AS sale_id, CAST(SUM(profit_records.line_profit) AS BIGINT) AS total").
			Where("profit_records.sale_id IN ?", saleIDs[start:end]).
			Group("profit_records.sale_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			sums[row.SaleID] = row.Total
		}
	}
	return sums, nil
}
