package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/commerce/internal/dal/dalmodels"
	"github.com/corray333/backend-labs/commerce/internal/dal/postgres"
	"github.com/corray333/backend-labs/commerce/internal/service/apperr"
	"github.com/corray333/backend-labs/commerce/internal/service/models/client"
	"github.com/corray333/backend-labs/commerce/internal/service/models/product"
	"github.com/jackc/pgx/v5"
)

// entity describes how one referenced table is read.
type entity[T any] struct {
	name     string
	from     string
	idColumn string
	columns  []string
	scan     func(row pgx.CollectableRow) (T, error)
	id       func(T) int64
}

// PostgresLookupRepository is a read-only repository over a referenced entity.
type PostgresLookupRepository[T any] struct {
	conn   postgres.GenericConn
	sb     sq.StatementBuilderType
	entity entity[T]
}

// NewClientRepository creates a lookup repository for clients.
func NewClientRepository(conn postgres.GenericConn) *PostgresLookupRepository[client.Client] {
	return newRepository(conn, entity[client.Client]{
		name:     "client",
		from:     dalmodels.ClientsTable,
		idColumn: "cl.id",
		columns:  dalmodels.ClientColumns,
		scan: func(row pgx.CollectableRow) (client.Client, error) {
			var dal dalmodels.ClientDal
			if err := row.Scan(dal.Targets()...); err != nil {
				return client.Client{}, err
			}

			return dal.ToModel(), nil
		},
		id: func(c client.Client) int64 { return c.ID },
	})
}

// NewProductRepository creates a lookup repository for products with category and section.
func NewProductRepository(conn postgres.GenericConn) *PostgresLookupRepository[product.Product] {
	return newRepository(conn, entity[product.Product]{
		name:     "product",
		from:     dalmodels.ProductsTable,
		idColumn: "p.id",
		columns:  dalmodels.ProductColumns,
		scan: func(row pgx.CollectableRow) (product.Product, error) {
			var dal dalmodels.ProductDal
			if err := row.Scan(dal.Targets()...); err != nil {
				return product.Product{}, err
			}

			return dal.ToModel(), nil
		},
		id: func(p product.Product) int64 { return p.ID },
	})
}

func newRepository[T any](conn postgres.GenericConn, e entity[T]) *PostgresLookupRepository[T] {
	return &PostgresLookupRepository[T]{
		conn:   conn,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		entity: e,
	}
}

func (r *PostgresLookupRepository[T]) selectQuery() sq.SelectBuilder {
	return r.sb.
		Select(r.entity.columns...).
		From(r.entity.from)
}

// Get retrieves a record by id.
func (r *PostgresLookupRepository[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T

	sql, args, err := r.selectQuery().
		Where(sq.Eq{r.entity.idColumn: id}).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return zero, fmt.Errorf("failed to query %s: %w", r.entity.name, err)
	}

	record, err := pgx.CollectExactlyOneRow(rows, r.entity.scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, apperr.NotFound(r.entity.name + " not found")
		}

		return zero, fmt.Errorf("failed to scan %s: %w", r.entity.name, err)
	}

	return record, nil
}

// GetMany retrieves records by ids. Missing ids are absent from the result.
func (r *PostgresLookupRepository[T]) GetMany(ctx context.Context, ids []int64) (map[int64]T, error) {
	if len(ids) == 0 {
		return map[int64]T{}, nil
	}

	sql, args, err := r.selectQuery().
		Where(fmt.Sprintf("%s = ANY(?)", r.entity.idColumn), ids).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", r.entity.name, err)
	}

	records, err := pgx.CollectRows(rows, r.entity.scan)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s records: %w", r.entity.name, err)
	}

	result := make(map[int64]T, len(records))
	for _, rec := range records {
		result[r.entity.id(rec)] = rec
	}

	return result, nil
}

// List retrieves a page of records ordered by id.
func (r *PostgresLookupRepository[T]) List(ctx context.Context, limit, offset int) ([]T, error) {
	query := r.selectQuery().OrderBy(r.entity.idColumn)
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", r.entity.name, err)
	}

	records, err := pgx.CollectRows(rows, r.entity.scan)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s records: %w", r.entity.name, err)
	}

	return records, nil
}
