package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-qna-api/internal/domain"
)

// writeServiceError maps domain errors onto HTTP responses. Rate-limit errors
// carry a machine-readable code so clients can tell which budget they hit.
func writeServiceError(w http.ResponseWriter, err error) {
	var rle *domain.RateLimitError
	if errors.As(err, &rle) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded", Code: rle.Code})
		return
	}
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCode), errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDelivery):
		writeError(w, http.StatusBadGateway, "could not deliver email")
	default:
		slog.Error("unhandled service error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
