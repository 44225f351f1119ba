package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/transport/http/converters"
	"github.com/corray333/backend-labs/commerce/internal/transport/http/response"
)

// service is an interface for the service layer.
type service interface {
	Create(ctx context.Context, model order.CreateOrderModel) (order.Order, error)
}

// createOrderRequest represents a create order request.
// "lines" is accepted as an alias of "products".
type createOrderRequest struct {
	ClientID int64                     `json:"client_id"          validate:"gt=0"                     example:"1"`
	Status   *string                   `json:"status,omitempty"   validate:"omitempty,min=1,max=50"   example:"pending"`
	Products *[]converters.LineRequest `json:"products,omitempty" validate:"required,min=1,dive"`
	Lines    *[]converters.LineRequest `json:"lines,omitempty"    swaggerignore:"true"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	r.Products = converters.PickLines(r.Products, r.Lines)

	return response.Validator().Struct(r)
}

func (r *createOrderRequest) toModel() order.CreateOrderModel {
	return order.CreateOrderModel{
		ClientID: r.ClientID,
		Status:   r.Status,
		Lines:    converters.LinesToModels(*r.Products),
	}
}

// CreateOrder handles order creation.
//
// @Summary create order
// @Tags orders
// @Accept json
// @Produce json
// @Param order body createOrderRequest true "order with its lines"
// @Success 201 {object} order.Order
// @Failure 400 {object} response.ErrorResponse "validation or reference error"
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /orders/ [post]
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body: "+err.Error())
		slog.DebugContext(r.Context(), "Error decoding request body for order creation", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(w, r, err.Error())
		slog.DebugContext(r.Context(), "Error validating request body for order creation", "error", err)

		return
	}

	created, err := service.Create(r.Context(), req.toModel())
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, r, http.StatusCreated, created)
}
