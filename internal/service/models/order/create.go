package order

import "github.com/shopspring/decimal"

// CreateLineModel is one requested line of a new order.
type CreateLineModel struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderModel carries validated input for order creation.
type CreateOrderModel struct {
	ClientID int64
	Status   *string
	Lines    []CreateLineModel
}

// UpdateOrderModel is a partial update: nil fields are left untouched.
// A non-nil Lines replaces the whole line set.
type UpdateOrderModel struct {
	ClientID *int64
	Status   *string
	Lines    *[]CreateLineModel
	// Version, when set, must match the stored version for the update to apply.
	Version *int64
}

// IsEmpty reports whether the update carries no changes.
func (m UpdateOrderModel) IsEmpty() bool {
	return m.ClientID == nil && m.Status == nil && m.Lines == nil
}
