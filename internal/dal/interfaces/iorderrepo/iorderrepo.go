package iorder

import (
	"context"

	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
)

// IOrderRepository is an interface for order postgres repository.
type IOrderRepository interface {
	// Insert stores the order row and returns it with generated id, version and timestamps.
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	// Get returns the order row without lines; fails with apperr.ErrNotFound when absent.
	Get(ctx context.Context, id int64) (order.Order, error)
	// GetForUpdate is Get holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (order.Order, error)
	// GetHydrated returns the order with its client and lines with products in one round trip.
	GetHydrated(ctx context.Context, id int64) (order.Order, error)
	// Update applies the partial update, bumps the version and refreshes updated_at.
	Update(ctx context.Context, id int64, upd order.UpdateOrderModel) (order.Order, error)
	// Delete removes the order; lines go with it by cascade.
	Delete(ctx context.Context, id int64) error
	// Query returns order rows matching the pushed-down filters.
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}
