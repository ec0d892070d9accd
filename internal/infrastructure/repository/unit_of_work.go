package repository

import (
	"context"

	domainRepo "github.com/sangkips/salesledger/internal/domain/repository"
	"gorm.io/gorm"
)

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work that opens one database transaction per Do call
func NewUnitOfWork(db *gorm.DB) domainRepo.UnitOfWork {
	return &unitOfWork{db: db}
}

// NewRepositories binds every ledger repository to the same handle
func NewRepositories(db *gorm.DB) *domainRepo.Repositories {
	return &domainRepo.Repositories{
		Products:  NewProductRepository(db),
		Stocks:    NewStockRepository(db),
		Customers: NewCustomerRepository(db),
		Locations: NewLocationRepository(db),
		Sellers:   NewSellerRepository(db),
		Discounts: NewDiscountRepository(db),
		Sales:     NewSaleRepository(db),
		Profits:   NewProfitRepository(db),
	}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(repos *domainRepo.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
