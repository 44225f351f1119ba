// Package converters holds request shapes shared by the order handlers.
package converters

import (
	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/shopspring/decimal"
)

// LineRequest is one requested order line.
type LineRequest struct {
	ProductID int64           `json:"product_id" validate:"gt=0"                  example:"1"`
	Quantity  int             `json:"quantity"   validate:"gt=0,max=2147483647"   example:"2"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gt=0,max_scale=2"      example:"20.0" swaggertype:"number"`
}

// LinesToModels converts requested lines to service input.
func LinesToModels(lines []LineRequest) []order.CreateLineModel {
	models := make([]order.CreateLineModel, len(lines))
	for i, l := range lines {
		models[i] = order.CreateLineModel{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}

	return models
}

// PickLines returns products, falling back to the lines alias when products is absent.
func PickLines[T any](products, lines *T) *T {
	if products != nil {
		return products
	}

	return lines
}
