package iorderline

import (
	"context"

	"github.com/corray333/backend-labs/commerce/internal/service/models/orderline"
)

// IOrderLineRepository is an interface for order line postgres repository.
type IOrderLineRepository interface {
	BulkInsert(ctx context.Context, lines []orderline.OrderLine) ([]orderline.OrderLine, error)
	DeleteByOrderID(ctx context.Context, orderID int64) (int64, error)
	// ListByOrderIDs returns lines of the given orders with their products attached.
	ListByOrderIDs(ctx context.Context, orderIDs []int64) ([]orderline.OrderLine, error)
	Get(ctx context.Context, id int64) (orderline.OrderLine, error)
}
