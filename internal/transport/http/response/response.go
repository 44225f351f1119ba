// Package response writes JSON bodies and maps service errors to status codes.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"sync"

	"github.com/corray333/backend-labs/commerce/internal/service/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Error sending response", "error", err)
	}
}

// BadRequest writes a 400 with detail.
func BadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	JSON(w, r, http.StatusBadRequest, ErrorResponse{Detail: detail})
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindReference, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status of its kind. Unclassified errors are logged
// and answered with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Error handling request",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	JSON(w, r, status, ErrorResponse{Detail: apperr.MessageOf(err)})
}

// PathID parses the named chi URL parameter as a positive id.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared request validator. Decimal fields are validated as numbers.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()

				return f
			}

			return nil
		}, decimal.Decimal{})

		if err := validate.RegisterValidation("max_scale", maxScale); err != nil {
			panic(err)
		}
	})

	return validate
}

// maxScale limits the number of decimal places, e.g. `validate:"max_scale=2"`.
// Decimals reach it already converted to float64 by the custom type func.
func maxScale(fl validator.FieldLevel) bool {
	places, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	var d decimal.Decimal
	switch field := fl.Field(); field.Kind() {
	case reflect.Float32, reflect.Float64:
		d = decimal.NewFromFloat(field.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}

	return d.Equal(d.Round(int32(places)))
}
