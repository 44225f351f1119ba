// Package catalogsvc exposes clients and products read-only.
package catalogsvc

import (
	"context"

	"github.com/corray333/backend-labs/commerce/internal/dal/interfaces/ilookuprepo"
	"github.com/corray333/backend-labs/commerce/internal/dal/postgres"
	lookuprepo "github.com/corray333/backend-labs/commerce/internal/dal/repositories/lookup/postgres"
	"github.com/corray333/backend-labs/commerce/internal/service/models/client"
	"github.com/corray333/backend-labs/commerce/internal/service/models/product"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("commerce-svc/catalogsvc")

// CatalogService resolves client and product identifiers.
type CatalogService struct {
	clients  ilookuprepo.IClientRepository
	products ilookuprepo.IProductRepository
}

type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.clients == nil || s.products == nil {
		panic("catalogsvc: repositories are required")
	}

	return s
}

// WithPostgresClient backs the service with Postgres lookup repositories.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CatalogService) {
		s.clients = lookuprepo.NewClientRepository(pgClient.Pool())
		s.products = lookuprepo.NewProductRepository(pgClient.Pool())
	}
}

// WithRepositories sets the lookup repositories directly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(clients ilookuprepo.IClientRepository, products ilookuprepo.IProductRepository) option {
	return func(s *CatalogService) {
		s.clients = clients
		s.products = products
	}
}

// GetClient fails with apperr.ErrNotFound when the client does not exist.
func (s *CatalogService) GetClient(ctx context.Context, id int64) (client.Client, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.GetClient", trace.WithAttributes(attribute.Int64("client.id", id)))
	defer span.End()

	return s.clients.Get(ctx, id)
}

// GetProduct returns the product with its category and section.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (product.Product, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	return s.products.Get(ctx, id)
}
