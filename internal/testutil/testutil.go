// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/infrastructure/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database. It holds a single
// connection, so code under test must not use the root handle while a
// transaction is open.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// NewFileTestDB returns a migrated SQLite database in a temporary file with
// a connection pool, so transactions from different goroutines really
// overlap. Writers wait on each other through the busy timeout.
func NewFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := database.Open(sqlite.Open(dsn), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateProduct inserts a product priced in cents with the given stock
func CreateProduct(t *testing.T, db *gorm.DB, name string, salePrice, costPrice int64, available int) *entity.Product {
	t.Helper()
	product := &entity.Product{Name: name, SalePrice: salePrice, CostPrice: costPrice}
	require.NoError(t, db.Create(product).Error)
	stock := &entity.Stock{ProductID: product.ID, Available: available}
	require.NoError(t, db.Create(stock).Error)
	product.Stock = stock
	return product
}

func CreateCustomer(t *testing.T, db *gorm.DB, name string) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{Name: name, Phone: "555-0100"}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func CreateLocation(t *testing.T, db *gorm.DB, name string) *entity.Location {
	t.Helper()
	location := &entity.Location{Name: name, Address: "Main St 1"}
	require.NoError(t, db.Create(location).Error)
	return location
}

func CreateSeller(t *testing.T, db *gorm.DB, username string) *entity.Seller {
	t.Helper()
	seller := &entity.Seller{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(seller).Error)
	return seller
}

// CreateDiscount inserts an active discount valid from start for the given span
func CreateDiscount(t *testing.T, db *gorm.DB, percentage float64, start time.Time, span time.Duration) *entity.Discount {
	t.Helper()
	discount := &entity.Discount{
		Name:       "promo",
		Percentage: percentage,
		StartsAt:   start,
		EndsAt:     start.Add(span),
		Active:     true,
	}
	require.NoError(t, db.Create(discount).Error)
	return discount
}

// Available reads the current stock of a product
func Available(t *testing.T, db *gorm.DB, product *entity.Product) int {
	t.Helper()
	var stock entity.Stock
	require.NoError(t, db.WithContext(context.Background()).First(&stock, "product_id = ?", product.ID).Error)
	return stock.Available
}

// FixedClock returns a clock function pinned to at
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
