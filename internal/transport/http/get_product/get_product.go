package getproduct

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/commerce/internal/service/models/product"
	"github.com/corray333/backend-labs/commerce/internal/transport/http/response"
)

type service interface {
	GetProduct(ctx context.Context, id int64) (product.Product, error)
}

// GetProduct returns one product with its category and section.
//
// @Summary get product
// @Tags catalog
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} product.Product
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{id} [get]
func GetProduct(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := response.PathID(r, "id")
	if !ok {
		response.BadRequest(w, r, "invalid product id")

		return
	}

	p, err := service.GetProduct(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, r, http.StatusOK, p)
}
