package getclient

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/commerce/internal/service/models/client"
	"github.com/corray333/backend-labs/commerce/internal/transport/http/response"
)

type service interface {
	GetClient(ctx context.Context, id int64) (client.Client, error)
}

// GetClient returns one client.
//
// @Summary get client
// @Tags catalog
// @Produce json
// @Param id path int true "client id"
// @Success 200 {object} client.Client
// @Failure 404 {object} response.ErrorResponse
// @Router /clients/{id} [get]
func GetClient(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := response.PathID(r, "id")
	if !ok {
		response.BadRequest(w, r, "invalid client id")

		return
	}

	c, err := service.GetClient(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, r, http.StatusOK, c)
}
