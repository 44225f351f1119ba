package postgresrepo

import (
	"strings"
	"testing"
	"time"

	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery_NoFilters(t *testing.T) {
	repo := NewPostgresOrderRepository(nil)

	sql, args, err := repo.buildQuery(&order.QueryOrdersModel{Limit: 10}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT o.id, o.client_id, o.status, o.version, o.created_at, o.updated_at "+
			"FROM orders o ORDER BY o.id LIMIT 10",
		sql,
	)
	assert.Empty(t, args)
}

func TestBuildQuery_LineFiltersUseSingleExists(t *testing.T) {
	repo := NewPostgresOrderRepository(nil)
	priceMin := decimal.NewFromInt(10)
	priceMax := decimal.RequireFromString("99.90")
	available := true

	sql, args, err := repo.buildQuery(&order.QueryOrdersModel{
		Status:       "pending",
		CategoryName: "Bever",
		SectionName:  "Cold",
		PriceMin:     &priceMin,
		PriceMax:     &priceMax,
		Available:    &available,
		Limit:        10,
		Offset:       10,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE o.status = $1 AND EXISTS (SELECT 1 FROM order_lines ol")
	assert.Contains(t, sql, "JOIN product_categories c ON c.id = p.category_id")
	assert.Contains(t, sql, "JOIN product_sections s ON s.id = p.section_id")
	assert.Contains(t, sql, "ol.order_id = o.id")
	assert.Contains(t, sql, "c.name ILIKE $2")
	assert.Contains(t, sql, "s.name ILIKE $3")
	assert.Contains(t, sql, "p.selling_price >= $4")
	assert.Contains(t, sql, "p.selling_price <= $5")
	assert.Contains(t, sql, "p.availability = $6")
	assert.Contains(t, sql, "ORDER BY o.id LIMIT 10 OFFSET 10")
	assert.Equal(t, 1, strings.Count(sql, "EXISTS"))

	assert.Equal(t, []any{"pending", "%Bever%", "%Cold%", "10", "99.9", true}, args)
}

func TestBuildQuery_OrderLevelFilters(t *testing.T) {
	repo := NewPostgresOrderRepository(nil)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	sql, args, err := repo.buildQuery(&order.QueryOrdersModel{
		IDs:       []int64{1, 2},
		ClientIDs: []int64{7},
		StartDate: &start,
		EndDate:   &end,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "o.id IN ($1,$2)")
	assert.Contains(t, sql, "o.client_id IN ($3)")
	assert.Contains(t, sql, "o.created_at >= $4")
	assert.Contains(t, sql, "o.created_at <= $5")
	assert.NotContains(t, sql, "EXISTS")
	assert.NotContains(t, sql, "LIMIT")
	assert.Equal(t, []any{int64(1), int64(2), int64(7), start, end}, args)
}

func TestBuildQuery_AfterIDContinuesKeyset(t *testing.T) {
	repo := NewPostgresOrderRepository(nil)

	sql, args, err := repo.buildQuery(&order.QueryOrdersModel{
		CategoryName: "Bever",
		AfterID:      40,
		Limit:        100,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "o.id > $2 ORDER BY o.id LIMIT 100")
	assert.NotContains(t, sql, "OFFSET")
	assert.Equal(t, []any{"%Bever%", int64(40)}, args)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%Bever%", containsPattern("Bever"))
	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
}
