package updateorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/transport/http/converters"
	"github.com/corray333/backend-labs/commerce/internal/transport/http/response"
)

type service interface {
	Update(ctx context.Context, id int64, upd order.UpdateOrderModel) (order.Order, error)
}

// updateOrderRequest is a partial update: absent fields are left untouched,
// present products replace the whole line set.
type updateOrderRequest struct {
	ClientID *int64                    `json:"client_id,omitempty" validate:"omitempty,gt=0"             example:"2"`
	Status   *string                   `json:"status,omitempty"    validate:"omitempty,min=1,max=50"     example:"shipped"`
	Products *[]converters.LineRequest `json:"products,omitempty"  validate:"omitempty,min=1,dive"`
	Lines    *[]converters.LineRequest `json:"lines,omitempty"     swaggerignore:"true"`
	Version  *int64                    `json:"version,omitempty"   validate:"omitempty,gt=0"             example:"3"`
}

func (r *updateOrderRequest) Validate() error {
	r.Products = converters.PickLines(r.Products, r.Lines)

	return response.Validator().Struct(r)
}

func (r *updateOrderRequest) toModel() order.UpdateOrderModel {
	upd := order.UpdateOrderModel{
		ClientID: r.ClientID,
		Status:   r.Status,
		Version:  r.Version,
	}
	if r.Products != nil {
		lines := converters.LinesToModels(*r.Products)
		upd.Lines = &lines
	}

	return upd
}

// UpdateOrder applies a partial update to an order.
//
// @Summary update order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "order id"
// @Param order body updateOrderRequest true "fields to change"
// @Success 200 {object} order.Order
// @Failure 400 {object} response.ErrorResponse "validation, reference or version conflict"
// @Failure 404 {object} response.ErrorResponse "order not found"
// @Security BearerAuth
// @Router /orders/{id} [put]
func UpdateOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := response.PathID(r, "id")
	if !ok {
		response.BadRequest(w, r, "invalid order id")

		return
	}

	req := updateOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body: "+err.Error())
		slog.DebugContext(r.Context(), "Error decoding request body for order update", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(w, r, err.Error())
		slog.DebugContext(r.Context(), "Error validating request body for order update", "error", err)

		return
	}

	updated, err := service.Update(r.Context(), id, req.toModel())
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, r, http.StatusOK, updated)
}
