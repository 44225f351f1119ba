package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/commerce/internal/dal/dalmodels"
	"github.com/corray333/backend-labs/commerce/internal/dal/postgres"
	"github.com/corray333/backend-labs/commerce/internal/service/apperr"
	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/service/models/orderline"
	"github.com/jackc/pgx/v5"
)

const orderNotFound = "order not found"

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert inserts the order row. Timestamps and version are assigned by storage.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	sql, args, err := r.sb.
		Insert("orders").
		Columns("client_id", "status").
		Values(o.ClientID, o.Status).
		Suffix("RETURNING id, client_id, status, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal dalmodels.OrderDal
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(dal.Targets()...); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return dal.ToModel(), nil
}

// Get retrieves the order row without lines.
func (r *PostgresOrderRepository) Get(ctx context.Context, id int64) (order.Order, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate retrieves the order row and locks it for the rest of the transaction.
func (r *PostgresOrderRepository) GetForUpdate(ctx context.Context, id int64) (order.Order, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *PostgresOrderRepository) get(ctx context.Context, id int64, suffix string) (order.Order, error) {
	query := r.sb.
		Select(dalmodels.OrderColumns...).
		From(dalmodels.OrdersTable).
		Where(sq.Eq{"o.id": id})
	if suffix != "" {
		query = query.Suffix(suffix)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build query: %w", err)
	}

	var dal dalmodels.OrderDal
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(dal.Targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, apperr.NotFound(orderNotFound)
		}

		return order.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return dal.ToModel(), nil
}

// GetHydrated retrieves the order with its client and its lines with products.
// The three statements are sent as one batch, so the lookup costs a single round trip.
func (r *PostgresOrderRepository) GetHydrated(ctx context.Context, id int64) (order.Order, error) {
	orderSQL, orderArgs, err := r.sb.
		Select(dalmodels.OrderColumns...).
		From(dalmodels.OrdersTable).
		Where(sq.Eq{"o.id": id}).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build order query: %w", err)
	}

	clientSQL, clientArgs, err := r.sb.
		Select(dalmodels.ClientColumns...).
		From(dalmodels.ClientsTable).
		Join("orders o ON o.client_id = cl.id").
		Where(sq.Eq{"o.id": id}).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build client query: %w", err)
	}

	linesSQL, linesArgs, err := r.sb.
		Select(dalmodels.HydratedLineColumns()...).
		From(dalmodels.OrderLinesTable).
		Join("products p ON p.id = ol.product_id").
		Join("product_categories c ON c.id = p.category_id").
		Join("product_sections s ON s.id = p.section_id").
		Where(sq.Eq{"ol.order_id": id}).
		OrderBy("ol.id").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build lines query: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(orderSQL, orderArgs...)
	batch.Queue(clientSQL, clientArgs...)
	batch.Queue(linesSQL, linesArgs...)

	results := r.conn.SendBatch(ctx, batch)
	defer results.Close()

	var orderDal dalmodels.OrderDal
	if err := results.QueryRow().Scan(orderDal.Targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, apperr.NotFound(orderNotFound)
		}

		return order.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	result := orderDal.ToModel()

	var clientDal dalmodels.ClientDal
	if err := results.QueryRow().Scan(clientDal.Targets()...); err != nil {
		return order.Order{}, fmt.Errorf("failed to get order client: %w", err)
	}
	c := clientDal.ToModel()
	result.Client = &c

	rows, err := results.Query()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to query order lines: %w", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (orderline.OrderLine, error) {
		var dal dalmodels.HydratedLineDal
		if err := row.Scan(dal.Targets()...); err != nil {
			return orderline.OrderLine{}, err
		}

		return dal.ToModel(), nil
	})
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to scan order lines: %w", err)
	}
	result.Lines = lines

	return result, nil
}

// Update applies the non-nil scalar fields of upd, bumps the version and refreshes updated_at.
// When upd.Version is set, the row is only updated if the stored version matches.
func (r *PostgresOrderRepository) Update(
	ctx context.Context,
	id int64,
	upd order.UpdateOrderModel,
) (order.Order, error) {
	query := r.sb.
		Update("orders").
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, client_id, status, version, created_at, updated_at")

	if upd.ClientID != nil {
		query = query.Set("client_id", *upd.ClientID)
	}
	if upd.Status != nil {
		query = query.Set("status", *upd.Status)
	}
	if upd.Version != nil {
		query = query.Where(sq.Eq{"version": *upd.Version})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build update query: %w", err)
	}

	var dal dalmodels.OrderDal
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(dal.Targets()...); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, fmt.Errorf("failed to update order: %w", err)
		}
		if upd.Version != nil {
			if _, getErr := r.Get(ctx, id); getErr == nil {
				return order.Order{}, apperr.Conflict(
					fmt.Sprintf("order version %d is stale", *upd.Version), nil,
				)
			}
		}

		return order.Order{}, apperr.NotFound(orderNotFound)
	}

	return dal.ToModel(), nil
}

// Delete removes the order row. Lines are removed by the ON DELETE CASCADE foreign key.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.
		Delete("orders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(orderNotFound)
	}

	return nil
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	sql, args, err := r.buildQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Order, error) {
		var dal dalmodels.OrderDal
		if err := row.Scan(dal.Targets()...); err != nil {
			return order.Order{}, err
		}

		return dal.ToModel(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan orders: %w", err)
	}

	return result, nil
}

// buildQuery composes the order listing statement.
// Line-level filters are expressed as a correlated EXISTS over a single line,
// so an order matches when at least one of its lines satisfies all of them
// and is never repeated when several lines do.
func (r *PostgresOrderRepository) buildQuery(filter *order.QueryOrdersModel) sq.SelectBuilder {
	query := r.sb.
		Select(dalmodels.OrderColumns...).
		From(dalmodels.OrdersTable).
		OrderBy("o.id")

	if len(filter.IDs) > 0 {
		query = query.Where(sq.Eq{"o.id": filter.IDs})
	}

	if len(filter.ClientIDs) > 0 {
		query = query.Where(sq.Eq{"o.client_id": filter.ClientIDs})
	}

	if filter.Status != "" {
		query = query.Where(sq.Eq{"o.status": filter.Status})
	}

	if filter.StartDate != nil {
		query = query.Where(sq.GtOrEq{"o.created_at": *filter.StartDate})
	}

	if filter.EndDate != nil {
		query = query.Where(sq.LtOrEq{"o.created_at": *filter.EndDate})
	}

	if filter.HasLineFilter() {
		query = query.Where(sq.Expr("EXISTS (?)", lineFilter(filter)))
	}

	if filter.AfterID > 0 {
		query = query.Where(sq.Gt{"o.id": filter.AfterID})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	return query
}

func lineFilter(filter *order.QueryOrdersModel) sq.SelectBuilder {
	sub := sq.Select("1").
		From(dalmodels.OrderLinesTable).
		Join("products p ON p.id = ol.product_id").
		Where("ol.order_id = o.id")

	if filter.CategoryName != "" {
		sub = sub.
			Join("product_categories c ON c.id = p.category_id").
			Where(sq.ILike{"c.name": containsPattern(filter.CategoryName)})
	}

	if filter.SectionName != "" {
		sub = sub.
			Join("product_sections s ON s.id = p.section_id").
			Where(sq.ILike{"s.name": containsPattern(filter.SectionName)})
	}

	// Prices travel as text so the numeric comparison happens in Postgres without float rounding.
	if filter.PriceMin != nil {
		sub = sub.Where(sq.GtOrEq{"p.selling_price": filter.PriceMin.String()})
	}

	if filter.PriceMax != nil {
		sub = sub.Where(sq.LtOrEq{"p.selling_price": filter.PriceMax.String()})
	}

	if filter.Available != nil {
		sub = sub.Where(sq.Eq{"p.availability": *filter.Available})
	}

	return sub
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
