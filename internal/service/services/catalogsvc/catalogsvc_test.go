package catalogsvc

import (
	"context"
	"testing"

	"github.com/corray333/backend-labs/commerce/internal/service/apperr"
	"github.com/corray333/backend-labs/commerce/internal/service/models/client"
	"github.com/corray333/backend-labs/commerce/internal/service/models/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapRepo[T any] map[int64]T

func (r mapRepo[T]) Get(_ context.Context, id int64) (T, error) {
	rec, ok := r[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound("record not found")
	}

	return rec, nil
}

func (r mapRepo[T]) GetMany(_ context.Context, ids []int64) (map[int64]T, error) {
	result := map[int64]T{}
	for _, id := range ids {
		if rec, ok := r[id]; ok {
			result[id] = rec
		}
	}

	return result, nil
}

func (r mapRepo[T]) List(context.Context, int, int) ([]T, error) {
	return nil, nil
}

func TestCatalogService(t *testing.T) {
	s := MustNewCatalogService(WithRepositories(
		mapRepo[client.Client]{1: {ID: 1, Name: "Ana"}},
		mapRepo[product.Product]{5: {ID: 5, Name: "Cola", Section: &product.Section{ID: 2, Name: "Cold"}}},
	))
	ctx := context.Background()

	c, err := s.GetClient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)

	p, err := s.GetProduct(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Cold", p.Section.Name)

	_, err = s.GetClient(ctx, 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.GetProduct(ctx, 6)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMustNewCatalogServiceRequiresRepositories(t *testing.T) {
	assert.Panics(t, func() { MustNewCatalogService() })
}
