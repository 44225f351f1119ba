package orderline

import (
	"github.com/corray333/backend-labs/commerce/internal/service/models/product"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderLine represents one product entry within an order.
type OrderLine struct {
	ID        int64            `json:"id"`
	OrderID   int64            `json:"order_id"`
	ProductID int64            `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Product   *product.Product `json:"product,omitempty"`
}
