package repository

import "context"

// Repositories bundles the repositories bound to one transaction
type Repositories struct {
	Products  ProductRepository
	Stocks    StockRepository
	Customers CustomerRepository
	Locations LocationRepository
	Sellers   SellerRepository
	Discounts DiscountRepository
	Sales     SaleRepository
	Profits   ProfitRepository
}

// UnitOfWork runs fn inside a single transaction. All writes made through
// repos commit together when fn returns nil and roll back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}
