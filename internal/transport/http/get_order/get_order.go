package getorder

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/transport/http/response"
)

type service interface {
	Get(ctx context.Context, id int64) (order.Order, error)
}

// GetOrder returns one hydrated order.
//
// @Summary get order
// @Tags orders
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} order.Order
// @Failure 400 {object} response.ErrorResponse "invalid id"
// @Failure 404 {object} response.ErrorResponse "order not found"
// @Security BearerAuth
// @Router /orders/{id} [get]
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := response.PathID(r, "id")
	if !ok {
		response.BadRequest(w, r, "invalid order id")

		return
	}

	o, err := service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, r, http.StatusOK, o)
}
