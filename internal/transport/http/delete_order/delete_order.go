package deleteorder

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/commerce/internal/transport/http/response"
)

type service interface {
	Delete(ctx context.Context, id int64) error
}

// DeleteOrder removes an order with its lines.
//
// @Summary delete order
// @Tags orders
// @Param id path int true "order id"
// @Success 204
// @Failure 403 {object} response.ErrorResponse "admin privileges required"
// @Failure 404 {object} response.ErrorResponse "order not found"
// @Security BearerAuth
// @Router /orders/{id} [delete]
func DeleteOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := response.PathID(r, "id")
	if !ok {
		response.BadRequest(w, r, "invalid order id")

		return
	}

	if err := service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
