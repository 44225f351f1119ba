package uow

import (
	"context"
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/commerce/internal/dal/interfaces/ilookuprepo"
	iorder "github.com/corray333/backend-labs/commerce/internal/dal/interfaces/iorderrepo"
	iorderline "github.com/corray333/backend-labs/commerce/internal/dal/interfaces/iorderlinerepo"
	"github.com/corray333/backend-labs/commerce/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/commerce/internal/dal/postgres"
	lookuprepo "github.com/corray333/backend-labs/commerce/internal/dal/repositories/lookup/postgres"
	orderrepo "github.com/corray333/backend-labs/commerce/internal/dal/repositories/order/postgres"
	orderlinerepo "github.com/corray333/backend-labs/commerce/internal/dal/repositories/orderline/postgres"
	outboxrepo "github.com/corray333/backend-labs/commerce/internal/dal/repositories/outbox/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWork groups the repositories of one request.
// Before Begin they run on the pool; after Begin they share one transaction.
type UnitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	orderRepo     iorder.IOrderRepository
	orderLineRepo iorderline.IOrderLineRepository
	clientRepo    ilookuprepo.IClientRepository
	productRepo   ilookuprepo.IProductRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

// NewUnitOfWork creates a unit of work bound to the client's pool.
func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	u := &UnitOfWork{pool: client.Pool()}
	u.bind(client.Pool())

	return u
}

func (u *UnitOfWork) bind(conn postgres.GenericConn) {
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderLineRepo = orderlinerepo.NewPostgresOrderLineRepository(conn)
	u.clientRepo = lookuprepo.NewClientRepository(conn)
	u.productRepo = lookuprepo.NewProductRepository(conn)
	u.outboxRepo = outboxrepo.NewOutboxRepository(conn)
}

func (u *UnitOfWork) OrderRepository() iorder.IOrderRepository {
	return u.orderRepo
}

func (u *UnitOfWork) OrderLineRepository() iorderline.IOrderLineRepository {
	return u.orderLineRepo
}

func (u *UnitOfWork) ClientRepository() ilookuprepo.IClientRepository {
	return u.clientRepo
}

func (u *UnitOfWork) ProductRepository() ilookuprepo.IProductRepository {
	return u.productRepo
}

func (u *UnitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

// Begin opens a transaction and rebinds every repository to it.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errors.New("transaction already started")
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	defer u.reset()

	return u.tx.Commit(ctx)
}

// Rollback is a no-op after Commit, so it can be deferred unconditionally.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	defer u.reset()

	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}

	return nil
}

func (u *UnitOfWork) reset() {
	u.tx = nil
	u.bind(u.pool)
}
