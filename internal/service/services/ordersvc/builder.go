package ordersvc

import (
	"fmt"
	"math"

	"github.com/corray333/backend-labs/commerce/internal/service/apperr"
	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/service/models/orderline"
)

const (
	// maxQuantity and priceScale mirror the order_lines quantity and unit_price columns.
	maxQuantity = math.MaxInt32
	priceScale  = 2
)

// BuildOrder turns validated creation input into an unsaved order aggregate.
// Line fields are copied as given; positivity of quantity is left to storage,
// whose violations the coordinator reports as domain errors.
func BuildOrder(model order.CreateOrderModel) order.Order {
	status := order.DefaultStatus
	if model.Status != nil {
		status = *model.Status
	}

	return order.Order{
		ClientID: model.ClientID,
		Status:   status,
		Lines:    buildLines(0, model.Lines),
	}
}

// buildLines creates unsaved lines stamped with orderID.
func buildLines(orderID int64, models []order.CreateLineModel) []orderline.OrderLine {
	lines := make([]orderline.OrderLine, 0, len(models))
	for _, m := range models {
		lines = append(lines, orderline.OrderLine{
			OrderID:   orderID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			UnitPrice: m.UnitPrice,
		})
	}

	return lines
}

func stampLines(orderID int64, lines []orderline.OrderLine) []orderline.OrderLine {
	stamped := make([]orderline.OrderLine, len(lines))
	for i, l := range lines {
		l.ID = 0
		l.OrderID = orderID
		stamped[i] = l
	}

	return stamped
}

// checkLines rejects line values the order_lines columns cannot hold as given.
// Non-positive quantities are still reported by the storage check constraint.
func checkLines(lines []orderline.OrderLine) error {
	for i, l := range lines {
		if l.Quantity > maxQuantity {
			return apperr.Validation(
				fmt.Sprintf("line %d: quantity %d exceeds %d", i, l.Quantity, maxQuantity), nil,
			)
		}
		if !l.UnitPrice.Equal(l.UnitPrice.Round(priceScale)) {
			return apperr.Validation(
				fmt.Sprintf("line %d: unit_price %s has more than %d decimal places", i, l.UnitPrice, priceScale), nil,
			)
		}
	}

	return nil
}
