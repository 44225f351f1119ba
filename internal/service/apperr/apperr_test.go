package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("quantity must be positive", nil), KindValidation},
		{"wrapped reference", fmt.Errorf("create order: %w", Reference("unknown client", nil)), KindReference},
		{"not found", NotFound("order not found"), KindNotFound},
		{"conflict", Conflict("version mismatch", nil), KindConflict},
		{"plain", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorIsSentinel(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("order not found"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New(`violates foreign key constraint "orders_client_id_fkey"`)
	err := Reference("client does not exist", cause)

	assert.Equal(t, `client does not exist: violates foreign key constraint "orders_client_id_fkey"`, err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "order not found", MessageOf(NotFound("order not found")))
	assert.Equal(t, "internal server error", MessageOf(errors.New("connection reset")))
}
