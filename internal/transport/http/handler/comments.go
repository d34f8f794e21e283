package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/go-qna-api/internal/application/comment"
	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/pkg/validate"
)

type CommentHandler struct {
	svc comment.Service
}

func NewCommentHandler(svc comment.Service) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	var req domain.CreateCommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CommentHandler) ListByParent(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.ListByParent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: comments})
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Role); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "comment deleted"})
}
