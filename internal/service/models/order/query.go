package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// QueryOrdersModel represents filter parameters for querying orders.
//
// Order-level and line-level fields are pushed down to storage.
// SectionID is evaluated over hydrated orders after the storage query.
type QueryOrdersModel struct {
	IDs       []int64
	ClientIDs []int64
	Status    string
	StartDate *time.Time
	EndDate   *time.Time

	CategoryName string
	SectionName  string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	Available    *bool

	SectionID *int64

	// AfterID restricts the result to orders with a greater id.
	AfterID int64

	Limit  int
	Offset int
}

// HasLineFilter reports whether any filter applies to the lines' products.
func (q *QueryOrdersModel) HasLineFilter() bool {
	return q.CategoryName != "" ||
		q.SectionName != "" ||
		q.PriceMin != nil ||
		q.PriceMax != nil ||
		q.Available != nil
}
