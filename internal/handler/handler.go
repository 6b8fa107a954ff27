// Package handler contains the chi HTTP handlers. Handlers resolve the
// caller from an opaque token, run privileged work behind the enforcer
// gate, register changes with a per-request unit of work and commit once.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusclub/clubhub/internal/auth"
	"github.com/campusclub/clubhub/internal/mapper"
	"github.com/campusclub/clubhub/internal/uow"
)

// errUnauthorized marks a missing or unknown token; handlers answer 401.
var errUnauthorized = errors.New("unauthorized")

// Handler holds the shared wiring behind every endpoint.
type Handler struct {
	reg      *mapper.Registry
	enforcer *auth.Enforcer
	log      zerolog.Logger
	now      func() time.Time
}

// New constructs the handler set.
func New(reg *mapper.Registry, enforcer *auth.Enforcer, log zerolog.Logger) *Handler {
	return &Handler{reg: reg, enforcer: enforcer, log: log, now: time.Now}
}

// unit builds the request-scoped unit of work.
func (h *Handler) unit() *uow.UnitOfWork {
	return uow.New(h.reg, h.log)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	return json.NewDecoder(r.Body).Decode(dst)
}

// bearerToken pulls the token from the Authorization header, if present.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// subjectFor resolves the acting user from a token carried either in the
// request body or in the Authorization header.
func (h *Handler) subjectFor(r *http.Request, bodyToken string) (*auth.Subject, error) {
	token := bodyToken
	if token == "" {
		token = bearerToken(r)
	}
	if token == "" {
		return nil, errUnauthorized
	}
	id, kind, err := h.reg.Tokens.FindUser(r.Context(), token)
	if errors.Is(err, mapper.ErrNotFound) {
		return nil, errUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return auth.NewSubject(auth.UserRef{Kind: kind, ID: id}), nil
}

// writeFailure maps the typed errors every mutating endpoint can surface.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid or missing token")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "not permitted")
	case errors.Is(err, mapper.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, mapper.ErrDuplicate):
		writeError(w, http.StatusConflict, "already exists")
	default:
		h.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
