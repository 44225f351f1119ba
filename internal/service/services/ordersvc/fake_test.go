package ordersvc

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/corray333/backend-labs/commerce/internal/dal/interfaces/ilookuprepo"
	iorder "github.com/corray333/backend-labs/commerce/internal/dal/interfaces/iorderrepo"
	iorderline "github.com/corray333/backend-labs/commerce/internal/dal/interfaces/iorderlinerepo"
	"github.com/corray333/backend-labs/commerce/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/commerce/internal/service/apperr"
	"github.com/corray333/backend-labs/commerce/internal/service/models/client"
	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/service/models/orderline"
	"github.com/corray333/backend-labs/commerce/internal/service/models/outbox"
	"github.com/corray333/backend-labs/commerce/internal/service/models/product"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is an in-memory database with the constraints of the real schema.
type memStore struct {
	clients  map[int64]client.Client
	products map[int64]product.Product
	orders   map[int64]order.Order
	lines    map[int64]orderline.OrderLine
	outbox   []outbox.OutboxMessage
	queries  []order.QueryOrdersModel

	nextOrderID int64
	nextLineID  int64
}

func newMemStore() *memStore {
	return &memStore{
		clients:  map[int64]client.Client{},
		products: map[int64]product.Product{},
		orders:   map[int64]order.Order{},
		lines:    map[int64]orderline.OrderLine{},
	}
}

func (s *memStore) clone() *memStore {
	return &memStore{
		clients:     maps.Clone(s.clients),
		products:    maps.Clone(s.products),
		orders:      maps.Clone(s.orders),
		lines:       maps.Clone(s.lines),
		outbox:      slices.Clone(s.outbox),
		queries:     slices.Clone(s.queries),
		nextOrderID: s.nextOrderID,
		nextLineID:  s.nextLineID,
	}
}

func (s *memStore) linesOf(orderID int64) []orderline.OrderLine {
	var result []orderline.OrderLine
	for _, l := range s.lines {
		if l.OrderID == orderID {
			if p, ok := s.products[l.ProductID]; ok {
				l.Product = &p
			}
			result = append(result, l)
		}
	}
	slices.SortFunc(result, func(a, b orderline.OrderLine) int { return int(a.ID - b.ID) })

	return result
}

func fkViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint, Message: "violates foreign key constraint"}
}

// fakeUOW stages writes on a copy of the store and publishes them on commit.
type fakeUOW struct {
	base  *memStore
	state *memStore
	inTx  bool

	failCommit error
}

func newFakeUOW(base *memStore) *fakeUOW {
	return &fakeUOW{base: base, state: base}
}

func (u *fakeUOW) Begin(context.Context) error {
	if u.inTx {
		return errors.New("transaction already started")
	}
	u.state = u.base.clone()
	u.inTx = true

	return nil
}

func (u *fakeUOW) Commit(context.Context) error {
	if !u.inTx {
		return nil
	}
	if u.failCommit != nil {
		return u.failCommit
	}
	*u.base = *u.state
	u.state = u.base
	u.inTx = false

	return nil
}

func (u *fakeUOW) Rollback(context.Context) error {
	u.state = u.base
	u.inTx = false

	return nil
}

func (u *fakeUOW) OrderRepository() iorder.IOrderRepository             { return fakeOrderRepo{u} }
func (u *fakeUOW) OrderLineRepository() iorderline.IOrderLineRepository { return fakeLineRepo{u} }
func (u *fakeUOW) OutboxRepository() ioutboxrepo.IOutboxRepository      { return fakeOutboxRepo{u} }

func (u *fakeUOW) ClientRepository() ilookuprepo.IClientRepository {
	return fakeLookup[client.Client]{records: func() map[int64]client.Client { return u.state.clients }}
}

func (u *fakeUOW) ProductRepository() ilookuprepo.IProductRepository {
	return fakeLookup[product.Product]{records: func() map[int64]product.Product { return u.state.products }}
}

type fakeOrderRepo struct{ u *fakeUOW }

func (r fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	st := r.u.state
	if _, ok := st.clients[o.ClientID]; !ok {
		return order.Order{}, fkViolation("orders_client_id_fkey")
	}

	st.nextOrderID++
	now := time.Now()
	row := order.Order{
		ID:        st.nextOrderID,
		ClientID:  o.ClientID,
		Status:    o.Status,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.orders[row.ID] = row

	return row, nil
}

func (r fakeOrderRepo) Get(_ context.Context, id int64) (order.Order, error) {
	o, ok := r.u.state.orders[id]
	if !ok {
		return order.Order{}, apperr.NotFound("order not found")
	}

	return o, nil
}

func (r fakeOrderRepo) GetForUpdate(ctx context.Context, id int64) (order.Order, error) {
	return r.Get(ctx, id)
}

func (r fakeOrderRepo) GetHydrated(ctx context.Context, id int64) (order.Order, error) {
	o, err := r.Get(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	c := r.u.state.clients[o.ClientID]
	o.Client = &c
	o.Lines = r.u.state.linesOf(id)
	if o.Lines == nil {
		o.Lines = []orderline.OrderLine{}
	}

	return o, nil
}

func (r fakeOrderRepo) Update(_ context.Context, id int64, upd order.UpdateOrderModel) (order.Order, error) {
	st := r.u.state
	o, ok := st.orders[id]
	if !ok {
		return order.Order{}, apperr.NotFound("order not found")
	}
	if upd.Version != nil && *upd.Version != o.Version {
		return order.Order{}, apperr.Conflict("order version is stale", nil)
	}
	if upd.ClientID != nil {
		if _, ok := st.clients[*upd.ClientID]; !ok {
			return order.Order{}, fkViolation("orders_client_id_fkey")
		}
		o.ClientID = *upd.ClientID
	}
	if upd.Status != nil {
		o.Status = *upd.Status
	}
	o.Version++
	o.UpdatedAt = time.Now()
	st.orders[id] = o

	return o, nil
}

func (r fakeOrderRepo) Delete(_ context.Context, id int64) error {
	st := r.u.state
	if _, ok := st.orders[id]; !ok {
		return apperr.NotFound("order not found")
	}
	delete(st.orders, id)
	maps.DeleteFunc(st.lines, func(_ int64, l orderline.OrderLine) bool { return l.OrderID == id })

	return nil
}

func (r fakeOrderRepo) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	st := r.u.state
	st.queries = append(st.queries, *filter)

	var result []order.Order
	for _, id := range slices.Sorted(maps.Keys(st.orders)) {
		o := st.orders[id]
		if o.ID <= filter.AfterID {
			continue
		}
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, o.ID) {
			continue
		}
		if len(filter.ClientIDs) > 0 && !slices.Contains(filter.ClientIDs, o.ClientID) {
			continue
		}
		if filter.Status != "" && filter.Status != o.Status {
			continue
		}
		if filter.HasLineFilter() && !slices.ContainsFunc(st.linesOf(o.ID), func(l orderline.OrderLine) bool {
			return lineMatches(filter, l.Product)
		}) {
			continue
		}
		result = append(result, o)
	}

	if filter.Offset > 0 {
		result = result[min(filter.Offset, len(result)):]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

func lineMatches(filter *order.QueryOrdersModel, p *product.Product) bool {
	if p == nil {
		return false
	}
	contains := func(name, sub string) bool {
		return strings.Contains(strings.ToLower(name), strings.ToLower(sub))
	}
	if filter.CategoryName != "" && !contains(p.Category.Name, filter.CategoryName) {
		return false
	}
	if filter.SectionName != "" && !contains(p.Section.Name, filter.SectionName) {
		return false
	}
	if filter.PriceMin != nil && p.SellingPrice.LessThan(*filter.PriceMin) {
		return false
	}
	if filter.PriceMax != nil && p.SellingPrice.GreaterThan(*filter.PriceMax) {
		return false
	}
	if filter.Available != nil && p.Availability != *filter.Available {
		return false
	}

	return true
}

type fakeLineRepo struct{ u *fakeUOW }

func (r fakeLineRepo) BulkInsert(_ context.Context, lines []orderline.OrderLine) ([]orderline.OrderLine, error) {
	st := r.u.state
	result := make([]orderline.OrderLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, &pgconn.PgError{Code: "23514", ConstraintName: "check_quantity_positive"}
		}
		if _, ok := st.orders[l.OrderID]; !ok {
			return nil, fkViolation("order_lines_order_id_fkey")
		}
		if _, ok := st.products[l.ProductID]; !ok {
			return nil, fkViolation("order_lines_product_id_fkey")
		}
		st.nextLineID++
		l.ID = st.nextLineID
		st.lines[l.ID] = l
		result = append(result, l)
	}

	return result, nil
}

func (r fakeLineRepo) DeleteByOrderID(_ context.Context, orderID int64) (int64, error) {
	before := len(r.u.state.lines)
	maps.DeleteFunc(r.u.state.lines, func(_ int64, l orderline.OrderLine) bool { return l.OrderID == orderID })

	return int64(before - len(r.u.state.lines)), nil
}

func (r fakeLineRepo) ListByOrderIDs(_ context.Context, orderIDs []int64) ([]orderline.OrderLine, error) {
	var result []orderline.OrderLine
	for _, id := range orderIDs {
		result = append(result, r.u.state.linesOf(id)...)
	}

	return result, nil
}

func (r fakeLineRepo) Get(_ context.Context, id int64) (orderline.OrderLine, error) {
	l, ok := r.u.state.lines[id]
	if !ok {
		return orderline.OrderLine{}, apperr.NotFound("order line not found")
	}

	return l, nil
}

type fakeLookup[T any] struct {
	records func() map[int64]T
}

func (r fakeLookup[T]) Get(_ context.Context, id int64) (T, error) {
	rec, ok := r.records()[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound("record not found")
	}

	return rec, nil
}

func (r fakeLookup[T]) GetMany(_ context.Context, ids []int64) (map[int64]T, error) {
	result := make(map[int64]T, len(ids))
	for _, id := range ids {
		if rec, ok := r.records()[id]; ok {
			result[id] = rec
		}
	}

	return result, nil
}

func (r fakeLookup[T]) List(_ context.Context, limit, offset int) ([]T, error) {
	records := r.records()
	var result []T
	for _, id := range slices.Sorted(maps.Keys(records)) {
		result = append(result, records[id])
	}
	result = result[min(offset, len(result)):]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

type fakeOutboxRepo struct{ u *fakeUOW }

func (r fakeOutboxRepo) Insert(_ context.Context, msg outbox.OutboxMessage) error {
	r.u.state.outbox = append(r.u.state.outbox, msg)

	return nil
}

func (r fakeOutboxRepo) GetPendingMessages(context.Context, int) ([]outbox.OutboxMessage, error) {
	return slices.Clone(r.u.state.outbox), nil
}

func (r fakeOutboxRepo) Delete(context.Context, int64) error { return nil }

func (r fakeOutboxRepo) UpdateRetry(context.Context, int64, int, string, time.Time) error { return nil }
