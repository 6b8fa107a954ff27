package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/campusclub/clubhub/internal/auth"
	"github.com/campusclub/clubhub/internal/mapper"
	"github.com/campusclub/clubhub/internal/model"
)

// LoginFaculty handles POST /facultyAdmin/login. Faculty accounts are
// provisioned with verbatim passwords, so the comparison is plain.
func (h *Handler) LoginFaculty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx := r.Context()
	faculty, err := h.reg.Faculty.FindByEmail(ctx, req.Email)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if faculty.Password() != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()
	if err := h.reg.Tokens.InsertToken(ctx, faculty.ID(), token, model.UserKindFaculty); err != nil {
		h.writeFailure(w, err)
		return
	}

	name, err := faculty.Name(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"facultyID": faculty.ID(),
		"name":      name,
		"email":     req.Email,
	})
}

// ReviewFunding handles POST /facultyAdmin/reviewFunding: the caller picks
// the application up, moving it to IN_REVIEW.
func (h *Handler) ReviewFunding(w http.ResponseWriter, r *http.Request) {
	h.transitionFunding(w, r, model.FundingInReview, auth.ActionViewFunding)
}

// ApproveFunding handles POST /facultyAdmin/approveFunding.
func (h *Handler) ApproveFunding(w http.ResponseWriter, r *http.Request) {
	h.transitionFunding(w, r, model.FundingApproved, auth.ActionApproveFunding)
}

// RejectFunding handles POST /facultyAdmin/rejectFunding.
func (h *Handler) RejectFunding(w http.ResponseWriter, r *http.Request) {
	h.transitionFunding(w, r, model.FundingRejected, auth.ActionRejectFunding)
}

func (h *Handler) transitionFunding(w http.ResponseWriter, r *http.Request, target model.FundingStatus, action auth.Action) {
	var req struct {
		ApplicationID int64  `json:"applicationId"`
		Token         string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	subject, err := h.subjectFor(r, req.Token)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	ctx := r.Context()
	app, err := h.reg.Funding.Find(ctx, req.ApplicationID)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "no such application")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	current, err := app.State(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if !current.CanTransitionTo(target) {
		writeError(w, http.StatusBadRequest, "application is "+string(current))
		return
	}

	rctx := auth.RequestContext{
		Subject:    subject,
		Permission: auth.Permission{Action: action, Scope: auth.AnyClub()},
	}
	err = auth.Authorize(ctx, h.enforcer, rctx, func(ctx context.Context) error {
		app.SetState(target)
		app.SetReviewer(subject.User.ID)
		u := h.unit()
		u.RegisterDirty(app)
		return u.Commit(ctx)
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	view, err := h.fundingView(ctx, app, false)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ListAllFunding handles POST /facultyAdmin/listAllFunding: every club's
// applications, club names included.
func (h *Handler) ListAllFunding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	subject, err := h.subjectFor(r, req.Token)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	ctx := r.Context()
	var views []fundingView
	rctx := auth.RequestContext{
		Subject:    subject,
		Permission: auth.Permission{Action: auth.ActionViewFunding, Scope: auth.AnyClub()},
	}
	err = auth.Authorize(ctx, h.enforcer, rctx, func(ctx context.Context) error {
		apps, err := h.reg.Funding.FindAll(ctx)
		if err != nil {
			return err
		}
		views, err = h.fundingViews(ctx, apps, true)
		return err
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if views == nil {
		views = []fundingView{}
	}
	writeJSON(w, http.StatusOK, views)
}
