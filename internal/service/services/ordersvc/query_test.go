package ordersvc

import (
	"context"
	"testing"

	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(orders []order.Order) []int64 {
	result := make([]int64, 0, len(orders))
	for _, o := range orders {
		result = append(result, o.ID)
	}

	return result
}

func TestListPagination(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	for range 15 {
		mustCreate(t, s, 1, line(colaID, 1, "5"))
	}

	first, err := s.List(ctx, order.QueryOrdersModel{Offset: 0, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, first, 10)

	rest, err := s.List(ctx, order.QueryOrdersModel{Offset: 10, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rest, 5)
	assert.NotContains(t, ids(first), rest[0].ID)

	defaulted, err := s.List(ctx, order.QueryOrdersModel{})
	require.NoError(t, err)
	assert.Len(t, defaulted, defaultLimit)
}

func TestNormalizePage(t *testing.T) {
	s, _ := newTestService(t, WithPageLimits(20, 50))

	tests := []struct {
		name       string
		in         order.QueryOrdersModel
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", in: order.QueryOrdersModel{}, wantLimit: 20},
		{name: "capped", in: order.QueryOrdersModel{Limit: 1000, Offset: 3}, wantLimit: 50, wantOffset: 3},
		{name: "negative offset", in: order.QueryOrdersModel{Limit: 5, Offset: -1}, wantLimit: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := tt.in
			s.normalizePage(&filter)

			assert.Equal(t, tt.wantLimit, filter.Limit)
			assert.Equal(t, tt.wantOffset, filter.Offset)
		})
	}
}

func TestListHydratesOrders(t *testing.T) {
	s, _ := newTestService(t)
	mustCreate(t, s, 1, line(colaID, 1, "5"), line(chipsID, 2, "50"))
	mustCreate(t, s, 2)

	orders, err := s.List(context.Background(), order.QueryOrdersModel{})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	require.NotNil(t, orders[0].Client)
	assert.Equal(t, "Ana", orders[0].Client.Name)
	require.Len(t, orders[0].Lines, 2)
	assert.NotNil(t, orders[0].Lines[0].Product)

	require.NotNil(t, orders[1].Client)
	assert.Equal(t, "Bruno", orders[1].Client.Name)
	assert.NotNil(t, orders[1].Lines)
	assert.Empty(t, orders[1].Lines)
}

func TestListFilterComposition(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	cheap := mustCreate(t, s, 1, line(colaID, 1, "5"))
	expensive := mustCreate(t, s, 1, line(chipsID, 1, "50"))
	mixed := mustCreate(t, s, 2, line(colaID, 1, "5"), line(chipsID, 1, "50"))

	priceMin := decimal.NewFromInt(10)
	byPrice, err := s.List(ctx, order.QueryOrdersModel{PriceMin: &priceMin})
	require.NoError(t, err)
	assert.Equal(t, []int64{expensive.ID, mixed.ID}, ids(byPrice))

	byCategory, err := s.List(ctx, order.QueryOrdersModel{CategoryName: "Bever"})
	require.NoError(t, err)
	assert.Equal(t, []int64{cheap.ID, mixed.ID}, ids(byCategory))

	// both bounds must hold on the same line
	priceMax := decimal.NewFromInt(10)
	none, err := s.List(ctx, order.QueryOrdersModel{CategoryName: "snack", PriceMax: &priceMax})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListSectionPostFilter(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	var coldOrders []int64
	for i := range 6 {
		if i%2 == 0 {
			coldOrders = append(coldOrders, mustCreate(t, s, 1, line(juiceID, 1, "20"), line(colaID, 1, "5")).ID)
		} else {
			mustCreate(t, s, 1, line(chipsID, 1, "50"))
		}
	}

	coldSection := int64(1)

	all, err := s.List(ctx, order.QueryOrdersModel{SectionID: &coldSection})
	require.NoError(t, err)
	assert.Equal(t, coldOrders, ids(all))

	paged, err := s.List(ctx, order.QueryOrdersModel{SectionID: &coldSection, Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, coldOrders[1:2], ids(paged))

	beyond, err := s.List(ctx, order.QueryOrdersModel{SectionID: &coldSection, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.NotNil(t, beyond)
}

func TestListSectionScansInBatches(t *testing.T) {
	s, st := newTestService(t, WithPageLimits(2, 3))
	ctx := context.Background()

	for range 7 {
		mustCreate(t, s, 1, line(chipsID, 1, "50"))
	}
	var coldOrders []int64
	for range 3 {
		coldOrders = append(coldOrders, mustCreate(t, s, 2, line(colaID, 1, "5")).ID)
	}
	coldSection := int64(1)

	st.queries = nil
	first, err := s.List(ctx, order.QueryOrdersModel{SectionID: &coldSection})
	require.NoError(t, err)
	assert.Equal(t, coldOrders[:2], ids(first))

	require.Len(t, st.queries, 3, "scan stops once the page is full")
	for i, q := range st.queries {
		assert.Equal(t, 3, q.Limit)
		assert.Zero(t, q.Offset)
		assert.Nil(t, q.SectionID)
		if i > 0 {
			assert.Greater(t, q.AfterID, st.queries[i-1].AfterID)
		}
	}

	st.queries = nil
	rest, err := s.List(ctx, order.QueryOrdersModel{SectionID: &coldSection, Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, coldOrders[2:], ids(rest))
	assert.Len(t, st.queries, 4)
}
