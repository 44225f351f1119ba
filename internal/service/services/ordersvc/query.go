package ordersvc

import (
	"context"
	"fmt"
	"time"

	"github.com/corray333/backend-labs/commerce/internal/service/models/client"
	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/service/models/orderline"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// List returns a page of hydrated orders matching filter.
//
// Every filter except SectionID is pushed down to storage together with the page bounds.
// SectionID keeps orders with at least one line in the section; it is checked against
// hydrated orders, which are read in id order in batches of the maximum page size
// until the requested page is filled.
func (s *OrderService) List(ctx context.Context, filter order.QueryOrdersModel) (result []order.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderService.List")
	defer s.observe(span, "list", time.Now(), &err)

	s.normalizePage(&filter)

	work := s.newUOW()

	var orders []order.Order
	if filter.SectionID != nil {
		orders, err = s.listInSection(ctx, work, filter)
	} else {
		orders, err = work.OrderRepository().Query(ctx, &filter)
		if err == nil {
			err = hydrate(ctx, work, orders)
		}
	}
	if err != nil {
		return nil, err
	}

	if orders == nil {
		orders = []order.Order{}
	}

	span.SetAttributes(attribute.Int("orders.count", len(orders)))

	return orders, nil
}

// listInSection scans matching orders with a keyset over the id and keeps those
// with a line in filter.SectionID, skipping filter.Offset of them first.
func (s *OrderService) listInSection(
	ctx context.Context,
	work unitOfWork,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	sectionID := *filter.SectionID

	batch := filter
	batch.SectionID = nil
	batch.Offset = 0
	batch.Limit = s.maxLimit

	skip := filter.Offset
	result := make([]order.Order, 0, filter.Limit)
	for {
		orders, err := work.OrderRepository().Query(ctx, &batch)
		if err != nil {
			return nil, err
		}
		if err := hydrate(ctx, work, orders); err != nil {
			return nil, err
		}

		for _, o := range inSection(orders, sectionID) {
			if skip > 0 {
				skip--

				continue
			}
			result = append(result, o)
			if len(result) == filter.Limit {
				return result, nil
			}
		}

		if len(orders) < batch.Limit {
			return result, nil
		}
		batch.AfterID = orders[len(orders)-1].ID
	}
}

func (s *OrderService) normalizePage(filter *order.QueryOrdersModel) {
	if filter.Limit <= 0 {
		filter.Limit = s.defaultLimit
	}
	if filter.Limit > s.maxLimit {
		filter.Limit = s.maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
}

// hydrate attaches lines with products and clients to orders.
// Both lookups run concurrently on the pool.
func hydrate(ctx context.Context, work unitOfWork, orders []order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := make([]int64, 0, len(orders))
	clientIDs := make([]int64, 0, len(orders))
	seen := make(map[int64]struct{}, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
		if _, ok := seen[o.ClientID]; !ok {
			seen[o.ClientID] = struct{}{}
			clientIDs = append(clientIDs, o.ClientID)
		}
	}

	var (
		lines   []orderline.OrderLine
		clients map[int64]client.Client
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = work.OrderLineRepository().ListByOrderIDs(gctx, orderIDs)
		if err != nil {
			return fmt.Errorf("failed to load order lines: %w", err)
		}

		return nil
	})
	g.Go(func() error {
		var err error
		clients, err = work.ClientRepository().GetMany(gctx, clientIDs)
		if err != nil {
			return fmt.Errorf("failed to load clients: %w", err)
		}

		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	byOrder := make(map[int64][]orderline.OrderLine, len(orders))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}

	for i := range orders {
		orders[i].Lines = byOrder[orders[i].ID]
		if orders[i].Lines == nil {
			orders[i].Lines = []orderline.OrderLine{}
		}
		if c, ok := clients[orders[i].ClientID]; ok {
			orders[i].Client = &c
		}
	}

	return nil
}

func inSection(orders []order.Order, sectionID int64) []order.Order {
	filtered := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if o.HasLineInSection(sectionID) {
			filtered = append(filtered, o)
		}
	}

	return filtered
}
