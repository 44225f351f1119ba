package ilookuprepo

import (
	"context"

	"github.com/corray333/backend-labs/commerce/internal/service/models/client"
	"github.com/corray333/backend-labs/commerce/internal/service/models/product"
)

// IRepository resolves identifiers of a referenced entity to stored records.
type IRepository[T any] interface {
	// Get fails with apperr.ErrNotFound when the record is absent.
	Get(ctx context.Context, id int64) (T, error)
	// GetMany returns found records keyed by id; absent ids are simply missing from the map.
	GetMany(ctx context.Context, ids []int64) (map[int64]T, error)
	List(ctx context.Context, limit, offset int) ([]T, error)
}

// IClientRepository looks up clients.
type IClientRepository = IRepository[client.Client]

// IProductRepository looks up products with their category and section.
type IProductRepository = IRepository[product.Product]
