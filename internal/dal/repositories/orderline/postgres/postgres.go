package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/commerce/internal/dal/dalmodels"
	"github.com/corray333/backend-labs/commerce/internal/dal/postgres"
	"github.com/corray333/backend-labs/commerce/internal/service/apperr"
	"github.com/corray333/backend-labs/commerce/internal/service/models/orderline"
	"github.com/jackc/pgx/v5"
)

// PostgresOrderLineRepository represents a Postgres order line repository.
type PostgresOrderLineRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderLineRepository creates a new Postgres order line repository.
func NewPostgresOrderLineRepository(conn postgres.GenericConn) *PostgresOrderLineRepository {
	return &PostgresOrderLineRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts multiple order lines in one statement and returns them with IDs.
// Lines keep the input order. Constraint violations surface as *pgconn.PgError.
func (r *PostgresOrderLineRepository) BulkInsert(
	ctx context.Context,
	lines []orderline.OrderLine,
) ([]orderline.OrderLine, error) {
	if len(lines) == 0 {
		return []orderline.OrderLine{}, nil
	}

	orderIDs := make([]int64, len(lines))
	productIDs := make([]int64, len(lines))
	quantities := make([]int64, len(lines))
	unitPrices := make([]string, len(lines))

	for i, l := range lines {
		orderIDs[i] = l.OrderID
		productIDs[i] = l.ProductID
		quantities[i] = int64(l.Quantity)
		unitPrices[i] = l.UnitPrice.String()
	}

	// Prices are sent as text and cast in SQL to keep decimal precision.
	// Quantities are sent as bigint so values outside the integer column fail with 22003 instead of wrapping.
	sql := `
		INSERT INTO order_lines (order_id, product_id, quantity, unit_price)
		SELECT order_id, product_id, quantity, unit_price::numeric
		FROM unnest($1::bigint[], $2::bigint[], $3::bigint[], $4::text[]) WITH ORDINALITY
		AS t(order_id, product_id, quantity, unit_price, ord)
		ORDER BY ord
		RETURNING id, order_id, product_id, quantity, unit_price
	`

	rows, err := r.conn.Query(ctx, sql, orderIDs, productIDs, quantities, unitPrices)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order lines: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (orderline.OrderLine, error) {
		var dal dalmodels.OrderLineDal
		if err := row.Scan(dal.Targets()...); err != nil {
			return orderline.OrderLine{}, err
		}

		return dal.ToModel(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order lines: %w", err)
	}

	return result, nil
}

// DeleteByOrderID removes every line of the order and returns how many were removed.
func (r *PostgresOrderLineRepository) DeleteByOrderID(ctx context.Context, orderID int64) (int64, error) {
	sql, args, err := r.sb.
		Delete("order_lines").
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete order lines: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListByOrderIDs retrieves lines of the given orders with their products, categories and sections.
func (r *PostgresOrderLineRepository) ListByOrderIDs(
	ctx context.Context,
	orderIDs []int64,
) ([]orderline.OrderLine, error) {
	if len(orderIDs) == 0 {
		return []orderline.OrderLine{}, nil
	}

	sql, args, err := r.hydratedQuery().
		Where(sq.Eq{"ol.order_id": orderIDs}).
		OrderBy("ol.order_id", "ol.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}

	result, err := pgx.CollectRows(rows, scanHydrated)
	if err != nil {
		return nil, fmt.Errorf("failed to scan order lines: %w", err)
	}

	return result, nil
}

// Get retrieves a single line with its product.
func (r *PostgresOrderLineRepository) Get(ctx context.Context, id int64) (orderline.OrderLine, error) {
	sql, args, err := r.hydratedQuery().
		Where(sq.Eq{"ol.id": id}).
		ToSql()
	if err != nil {
		return orderline.OrderLine{}, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return orderline.OrderLine{}, fmt.Errorf("failed to query order line: %w", err)
	}

	line, err := pgx.CollectExactlyOneRow(rows, scanHydrated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return orderline.OrderLine{}, apperr.NotFound("order line not found")
		}

		return orderline.OrderLine{}, fmt.Errorf("failed to scan order line: %w", err)
	}

	return line, nil
}

func (r *PostgresOrderLineRepository) hydratedQuery() sq.SelectBuilder {
	return r.sb.
		Select(dalmodels.HydratedLineColumns()...).
		From(dalmodels.OrderLinesTable).
		Join("products p ON p.id = ol.product_id").
		Join("product_categories c ON c.id = p.category_id").
		Join("product_sections s ON s.id = p.section_id")
}

func scanHydrated(row pgx.CollectableRow) (orderline.OrderLine, error) {
	var dal dalmodels.HydratedLineDal
	if err := row.Scan(dal.Targets()...); err != nil {
		return orderline.OrderLine{}, err
	}

	return dal.ToModel(), nil
}
