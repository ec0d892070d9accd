package repository

import (
	"strings"

	"github.com/sangkips/salesledger/pkg/pagination"
	"gorm.io/gorm"
)

// SoldRecordsScope restricts profit ledger queries to records that carry a
// positive quantity. Zero-quantity rows must never reach an aggregate.
func SoldRecordsScope(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table + ".quantity_sold > 0")
	}
}

// SearchScope matches any of the columns case-insensitively. It avoids
// ILIKE so the same query runs on PostgreSQL and SQLite.
func SearchScope(search string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(search) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// Paginate applies offset and limit from validated pagination params
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			params = pagination.DefaultPagination()
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// sortOrder normalizes a user supplied direction, defaulting to DESC
func sortOrder(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}

// nameEquals matches a name case-insensitively after trimming
func nameEquals(column, name string) (string, string) {
	return "LOWER(" + column + ") = ?", strings.ToLower(strings.TrimSpace(name))
}
