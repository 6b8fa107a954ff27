package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusclub/clubhub/internal/mapper"
	"github.com/campusclub/clubhub/internal/model"
)

// RegisterStudent handles POST /student/register.
func (h *Handler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	ctx := r.Context()
	student := model.NewStudent(req.Name, req.Email, string(hash))
	u := h.unit()
	u.RegisterNew(student)
	if err := u.Commit(ctx); err != nil {
		if errors.Is(err, mapper.ErrDuplicate) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"studentID": student.ID()})
}

// LoginStudent handles POST /student/login.
func (h *Handler) LoginStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx := r.Context()
	student, err := h.reg.Students.FindByEmail(ctx, req.Email)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	hash, err := student.PasswordHash(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()
	if err := h.reg.Tokens.InsertToken(ctx, student.ID(), token, model.UserKindStudent); err != nil {
		h.writeFailure(w, err)
		return
	}

	name, err := student.Name(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"studentID": student.ID(),
		"name":      name,
		"email":     req.Email,
	})
}

// LogoutStudent handles POST /student/logout. The token to invalidate comes
// from the Authorization header.
func (h *Handler) LogoutStudent(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing token")
		return
	}

	ctx := r.Context()
	if _, err := h.reg.Tokens.FindUserIDByToken(ctx, token); err != nil {
		if errors.Is(err, mapper.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "unknown token")
			return
		}
		h.writeFailure(w, err)
		return
	}
	if err := h.reg.Tokens.DeleteToken(ctx, token); err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
