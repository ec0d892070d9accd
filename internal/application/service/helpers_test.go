package service

import (
	"testing"
	"time"

	"github.com/sangkips/salesledger/internal/domain/entity"
	"github.com/sangkips/salesledger/internal/infrastructure/repository"
	"github.com/sangkips/salesledger/internal/testutil"
	"gorm.io/gorm"
)

var saleTime = time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	sales    *SaleService
	profits  *ProfitService
	customer *entity.Customer
	location *entity.Location
	seller   *entity.Seller
}

func newFixture(t *testing.T, policy SalesPolicy, enforceWindow bool) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)

	discounts := NewDiscountService(repository.NewDiscountRepository(db), enforceWindow)
	sales := NewSaleService(repository.NewUnitOfWork(db), repository.NewSaleRepository(db), discounts, policy).
		WithClock(testutil.FixedClock(saleTime))
	profits := NewProfitService(repository.NewProfitRepository(db), repository.NewProductRepository(db), 5*time.Hour).
		WithClock(testutil.FixedClock(saleTime), time.UTC)

	return &fixture{
		db:       db,
		sales:    sales,
		profits:  profits,
		customer: testutil.CreateCustomer(t, db, "Maria"),
		location: testutil.CreateLocation(t, db, "Home"),
		seller:   testutil.CreateSeller(t, db, "Alonso"),
	}
}

func (f *fixture) input(lines ...SaleLineInput) *CreateSaleInput {
	return &CreateSaleInput{
		CustomerID: f.customer.ID,
		LocationID: f.location.ID,
		SellerID:   f.seller.ID,
		Status:     "on-delivery",
		Lines:      lines,
	}
}

func (f *fixture) at(at time.Time) {
	f.sales.WithClock(testutil.FixedClock(at))
}
