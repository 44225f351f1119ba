package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/commerce/internal/dal/interfaces/ilookuprepo"
	iorder "github.com/corray333/backend-labs/commerce/internal/dal/interfaces/iorderrepo"
	iorderline "github.com/corray333/backend-labs/commerce/internal/dal/interfaces/iorderlinerepo"
	"github.com/corray333/backend-labs/commerce/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/commerce/internal/dal/postgres"
	"github.com/corray333/backend-labs/commerce/internal/dal/uow"
	"github.com/corray333/backend-labs/commerce/internal/metrics"
	"github.com/corray333/backend-labs/commerce/internal/service/apperr"
	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/service/models/orderline"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

var tracer = otel.Tracer("commerce-svc/ordersvc")

// OrderService is a service for managing orders.
type OrderService struct {
	newUOW  func() unitOfWork
	metrics *metrics.Metrics
	outbox  *outboxConfig

	defaultLimit int
	maxLimit     int
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorder.IOrderRepository
	OrderLineRepository() iorderline.IOrderLineRepository
	ClientRepository() ilookuprepo.IClientRepository
	ProductRepository() ilookuprepo.IProductRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// Option configures the OrderService.
type Option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...Option) *OrderService {
	s := &OrderService{
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("ordersvc: postgres client is required")
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
func WithPostgresClient(pgClient *postgres.Client) Option {
	return func(s *OrderService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithMetrics sets the collectors order operations are reported to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *OrderService) {
		s.metrics = m
	}
}

// WithPageLimits overrides the default and maximum page size of List.
func WithPageLimits(defaultLimit, maxLimit int) Option {
	return func(s *OrderService) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

// Create persists a new order with its lines in one transaction
// and returns it hydrated with client and products.
func (s *OrderService) Create(ctx context.Context, model order.CreateOrderModel) (result order.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderService.Create")
	defer s.observe(span, "create", time.Now(), &err)

	aggregate := BuildOrder(model)
	if err := checkLines(aggregate.Lines); err != nil {
		return order.Order{}, err
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer rollback(ctx, work)

	if err := checkReferences(ctx, work, &aggregate.ClientID, aggregate.Lines); err != nil {
		return order.Order{}, err
	}

	created, err := work.OrderRepository().Insert(ctx, aggregate)
	if err != nil {
		return order.Order{}, postgres.TranslateError(err)
	}

	if _, err := work.OrderLineRepository().BulkInsert(ctx, stampLines(created.ID, aggregate.Lines)); err != nil {
		return order.Order{}, postgres.TranslateError(err)
	}

	hydrated, err := work.OrderRepository().GetHydrated(ctx, created.ID)
	if err != nil {
		return order.Order{}, err
	}

	if err := s.enqueue(ctx, work, EventOrderCreated, hydrated.ID, &hydrated); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, postgres.TranslateError(err)
	}

	span.SetAttributes(attribute.Int64("order.id", hydrated.ID), attribute.Int("order.lines", len(hydrated.Lines)))
	slog.InfoContext(ctx, "Order created", "order_id", hydrated.ID, "lines", len(hydrated.Lines))

	return hydrated, nil
}

// Get returns the order hydrated with its client and its lines with products.
func (s *OrderService) Get(ctx context.Context, id int64) (result order.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer s.observe(span, "get", time.Now(), &err)

	return s.newUOW().OrderRepository().GetHydrated(ctx, id)
}

// Update applies a partial update. When upd.Lines is set the line set is replaced
// wholesale; the old lines are restored if anything in the transaction fails.
func (s *OrderService) Update(
	ctx context.Context,
	id int64,
	upd order.UpdateOrderModel,
) (result order.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderService.Update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer s.observe(span, "update", time.Now(), &err)

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer rollback(ctx, work)

	current, err := work.OrderRepository().GetForUpdate(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	if upd.Version != nil && *upd.Version != current.Version {
		return order.Order{}, apperr.Conflict(
			fmt.Sprintf("order version %d is stale, current version is %d", *upd.Version, current.Version), nil,
		)
	}

	if upd.IsEmpty() {
		return work.OrderRepository().GetHydrated(ctx, id)
	}

	var lines []orderline.OrderLine
	if upd.Lines != nil {
		lines = buildLines(id, *upd.Lines)
		if err := checkLines(lines); err != nil {
			return order.Order{}, err
		}
	}

	if err := checkReferences(ctx, work, upd.ClientID, lines); err != nil {
		return order.Order{}, err
	}

	if upd.Lines != nil {
		if _, err := work.OrderLineRepository().DeleteByOrderID(ctx, id); err != nil {
			return order.Order{}, postgres.TranslateError(err)
		}

		if _, err := work.OrderLineRepository().BulkInsert(ctx, lines); err != nil {
			return order.Order{}, postgres.TranslateError(err)
		}
	}

	if _, err := work.OrderRepository().Update(ctx, id, upd); err != nil {
		return order.Order{}, postgres.TranslateError(err)
	}

	hydrated, err := work.OrderRepository().GetHydrated(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	if err := s.enqueue(ctx, work, EventOrderUpdated, id, &hydrated); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, postgres.TranslateError(err)
	}

	slog.InfoContext(ctx, "Order updated",
		"order_id", id,
		"version", hydrated.Version,
		"lines_replaced", upd.Lines != nil,
	)

	return hydrated, nil
}

// Delete removes the order and its lines. A missing order fails with apperr.ErrNotFound.
func (s *OrderService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer s.observe(span, "delete", time.Now(), &err)

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer rollback(ctx, work)

	if err := work.OrderRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := s.enqueue(ctx, work, EventOrderDeleted, id, nil); err != nil {
		return err
	}

	if err := work.Commit(ctx); err != nil {
		return postgres.TranslateError(err)
	}

	slog.InfoContext(ctx, "Order deleted", "order_id", id)

	return nil
}

// checkReferences reports unknown clients and products as reference errors
// before any row is written. Storage foreign keys still back this up.
func checkReferences(ctx context.Context, work unitOfWork, clientID *int64, lines []orderline.OrderLine) error {
	if clientID != nil {
		if _, err := work.ClientRepository().Get(ctx, *clientID); err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return apperr.Reference(fmt.Sprintf("client %d does not exist", *clientID), nil)
			}

			return err
		}
	}

	if len(lines) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}

	found, err := work.ProductRepository().GetMany(ctx, ids)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return apperr.Reference(fmt.Sprintf("product %d does not exist", id), nil)
		}
	}

	return nil
}

// rollback is deferred after Begin; it does nothing once the transaction is committed.
func rollback(ctx context.Context, work unitOfWork) {
	if err := work.Rollback(context.WithoutCancel(ctx)); err != nil {
		slog.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
	}
}

func (s *OrderService) observe(span trace.Span, operation string, start time.Time, errp *error) {
	result := "ok"
	if err := *errp; err != nil {
		kind := apperr.KindOf(err)
		result = kind.String()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if kind == apperr.KindInternal {
			slog.Error("Order operation failed", "operation", operation, "error", err)
		}
	}

	s.metrics.ObserveOrderOperation(operation, result, time.Since(start))
	span.End()
}
