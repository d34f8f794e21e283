package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/go-qna-api/internal/application/account"
	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/pkg/validate"
)

type AccountHandler struct {
	svc account.Service
}

func NewAccountHandler(svc account.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

type emailValidationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h *AccountHandler) RequestEmailValidation(w http.ResponseWriter, r *http.Request) {
	var req emailValidationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.RequestEmailValidation(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, messageResponse{Message: "validation code sent"})
}

func (h *AccountHandler) VerifyEmailValidation(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.VerifyEmailValidation(r.Context(), req.Email, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "email verified"})
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if claims.UserID != userID && claims.Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	u, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")
	users, next, err := h.svc.List(r.Context(), limit, cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: users, NextCursor: next})
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if claims.UserID != userID && claims.Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	var req domain.UpdateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Update(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "password changed"})
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if claims.UserID != userID && claims.Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if err := h.svc.Delete(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "account deleted"})
}
