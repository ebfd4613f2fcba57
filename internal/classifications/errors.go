package classifications

import (
	"errors"
	"net/http"

	"github.com/wayfound/atlas/internal/models"
)

// Domain errors for classification operations.
var (
	ErrNotFound        = errors.New("classification not found")
	ErrDuplicate       = errors.New("classification already exists")
	ErrEmptyText       = errors.New("input text is empty")
	ErrInvalidRequest  = errors.New("invalid classification request")
	ErrEmptyBatch      = errors.New("batch contains no items")
	ErrBatchTooLarge   = errors.New("batch exceeds maximum size")
	ErrInvalidRange    = errors.New("invalid confidence range")
	ErrEmptyCorrection = errors.New("corrected categories are empty")
)

// MapHTTPStatus maps classification domain errors to HTTP status codes.
// Model errors defer to the models package mapping.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyText),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrEmptyBatch),
		errors.Is(err, ErrBatchTooLarge),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrEmptyCorrection):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownModelType),
		errors.Is(err, models.ErrModelUnavailable):
		return models.MapHTTPStatus(err)
	default:
		return http.StatusInternalServerError
	}
}
