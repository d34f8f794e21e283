package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	jwtinfra "github.com/go-qna-api/internal/infrastructure/jwt"
	"github.com/go-qna-api/internal/transport/http/middleware"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type listResponse struct {
	Items      interface{} `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response body", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// mustClaims extracts JWT claims or writes a 401 and reports failure.
func mustClaims(w http.ResponseWriter, r *http.Request) (*jwtinfra.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return claims, ok
}
