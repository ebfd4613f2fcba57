package models

import (
	"errors"
	"net/http"
)

// Domain errors for model operations.
var (
	// ErrUnknownModelType indicates a model type token outside the
	// configured set. This is a request validation failure.
	ErrUnknownModelType = errors.New("unknown model type")
	// ErrInvalidRequest indicates a malformed training request body.
	ErrInvalidRequest = errors.New("invalid training request")
	// ErrModelUnavailable indicates a recognized model type that has never
	// been trained.
	ErrModelUnavailable = errors.New("model not trained")
	// ErrInsufficientData indicates a training request that cannot produce
	// a model: too few examples, fewer than two distinct labels, or blank
	// inputs.
	ErrInsufficientData = errors.New("insufficient training data")
)

// MapHTTPStatus maps model domain errors to HTTP status codes. Unknown
// tokens are bad input, untrained models are not found, and training
// failures are server errors.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownModelType), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrModelUnavailable):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientData):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
