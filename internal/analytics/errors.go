package analytics

import (
	"errors"
	"net/http"
)

// Domain errors for analytics operations.
var (
	// ErrInvalidTimeframe indicates a timeframe token outside the
	// <integer><h|d|w> grammar. Malformed timeframes are rejected, never
	// silently defaulted.
	ErrInvalidTimeframe = errors.New("invalid timeframe")
	// ErrInvalidLimit indicates a non-numeric trending limit.
	ErrInvalidLimit = errors.New("invalid limit")
)

// MapHTTPStatus maps analytics domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidTimeframe) || errors.Is(err, ErrInvalidLimit) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
