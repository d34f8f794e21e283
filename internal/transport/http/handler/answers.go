package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/go-qna-api/internal/application/answer"
	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/pkg/validate"
)

type AnswerHandler struct {
	svc answer.Service
}

func NewAnswerHandler(svc answer.Service) *AnswerHandler {
	return &AnswerHandler{svc: svc}
}

func (h *AnswerHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	var req domain.CreateAnswerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.svc.Create(r.Context(), chi.URLParam(r, "id"), claims.UserID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AnswerHandler) ListByQuestion(w http.ResponseWriter, r *http.Request) {
	answers, err := h.svc.ListByQuestion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: answers})
}

func (h *AnswerHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	var req domain.UpdateAnswerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), claims.UserID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AnswerHandler) Accept(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if err := h.svc.Accept(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "answer accepted"})
}

func (h *AnswerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Role); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "answer deleted"})
}
