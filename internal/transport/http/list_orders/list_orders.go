package listorders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/transport/http/response"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

type service interface {
	List(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

type queryOrdersRequest struct {
	OrderID      *int64 `schema:"order_id"      validate:"omitempty,gt=0"`
	ClientID     *int64 `schema:"client_id"     validate:"omitempty,gt=0"`
	Status       string `schema:"status"`
	StartDate    string `schema:"start_date"`
	EndDate      string `schema:"end_date"`
	CategoryName string `schema:"category_name"`
	SectionName  string `schema:"section_name"`
	SectionID    *int64 `schema:"section_id"    validate:"omitempty,gt=0"`
	PriceMin     string `schema:"price_min"`
	PriceMax     string `schema:"price_max"`
	Available    *bool  `schema:"available"`
	Skip         int    `schema:"skip"          validate:"gte=0"`
	Limit        *int   `schema:"limit"         validate:"omitempty,min=1,max=100"`
}

func (q *queryOrdersRequest) ToModel() (order.QueryOrdersModel, error) {
	model := order.QueryOrdersModel{
		Status:       q.Status,
		CategoryName: q.CategoryName,
		SectionName:  q.SectionName,
		SectionID:    q.SectionID,
		Available:    q.Available,
		Offset:       q.Skip,
	}

	if q.OrderID != nil {
		model.IDs = []int64{*q.OrderID}
	}
	if q.ClientID != nil {
		model.ClientIDs = []int64{*q.ClientID}
	}
	if q.Limit != nil {
		model.Limit = *q.Limit
	}

	var err error
	if model.PriceMin, err = parsePrice("price_min", q.PriceMin); err != nil {
		return order.QueryOrdersModel{}, err
	}
	if model.PriceMax, err = parsePrice("price_max", q.PriceMax); err != nil {
		return order.QueryOrdersModel{}, err
	}
	if model.StartDate, err = parseDate("start_date", q.StartDate, false); err != nil {
		return order.QueryOrdersModel{}, err
	}
	if model.EndDate, err = parseDate("end_date", q.EndDate, true); err != nil {
		return order.QueryOrdersModel{}, err
	}

	if model.PriceMin != nil && model.PriceMax != nil && model.PriceMin.GreaterThan(*model.PriceMax) {
		return order.QueryOrdersModel{}, errors.New("price_min must not exceed price_max")
	}

	return model, nil
}

func parsePrice(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("%s must be a non-negative number", name)
	}

	return &d, nil
}

// parseDate accepts RFC 3339 timestamps or plain dates. A plain end date covers the whole day.
func parseDate(name, raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD) or an RFC 3339 timestamp", name)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}

	return &t, nil
}

// ListOrders returns a filtered page of hydrated orders.
//
// @Summary list orders
// @Tags orders
// @Produce json
// @Param category_name query string false "category name substring, case-insensitive"
// @Param section_name query string false "section name substring, case-insensitive"
// @Param section_id query int false "keep orders with at least one line in the section"
// @Param price_min query number false "inclusive lower bound on product selling price"
// @Param price_max query number false "inclusive upper bound on product selling price"
// @Param available query bool false "product availability"
// @Param order_id query int false "order id"
// @Param client_id query int false "client id"
// @Param status query string false "order status"
// @Param start_date query string false "created at or after"
// @Param end_date query string false "created at or before"
// @Param skip query int false "offset" default(0)
// @Param limit query int false "page size" default(10) minimum(1) maximum(100)
// @Success 200 {array} order.Order
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /orders/ [get]
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		response.BadRequest(w, r, err.Error())
		slog.DebugContext(r.Context(), "Error decoding request", "error", err)

		return
	}

	if err := response.Validator().Struct(query); err != nil {
		response.BadRequest(w, r, err.Error())

		return
	}

	filter, err := query.ToModel()
	if err != nil {
		response.BadRequest(w, r, err.Error())

		return
	}

	orders, err := service.List(r.Context(), filter)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, r, http.StatusOK, orders)
}
