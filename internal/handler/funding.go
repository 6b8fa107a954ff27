package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campusclub/clubhub/internal/mapper"
	"github.com/campusclub/clubhub/internal/model"
)

// CreateFunding handles POST /fundingApplication/createFunding. A club may
// hold at most one live application per semester bucket.
func (h *Handler) CreateFunding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClubID  int64 `json:"clubId"`
		Funding struct {
			Amount      float64 `json:"amount"`
			Description string  `json:"description"`
		} `json:"funding"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Funding.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	ctx := r.Context()
	if _, err := h.reg.Clubs.Find(ctx, req.ClubID); err != nil {
		if errors.Is(err, mapper.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "no such club")
			return
		}
		h.writeFailure(w, err)
		return
	}

	semester := model.SemesterAt(h.now())
	exists, err := h.reg.Funding.LiveExistsForSemester(ctx, req.ClubID, semester)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if exists {
		writeError(w, http.StatusBadRequest, "club already has an application this semester")
		return
	}

	app := model.NewFundingApplication(req.Funding.Description, req.Funding.Amount, model.FundingSubmitted, semester, req.ClubID)
	u := h.unit()
	u.RegisterNew(app)
	if err := u.Commit(ctx); err != nil {
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

// UpdateFunding handles POST /fundingApplication/updateFunding. Only
// applications still in flight (submitted or in review) can change.
func (h *Handler) UpdateFunding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ApplicationID int64   `json:"applicationId"`
		Description   string  `json:"description"`
		Amount        float64 `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
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

	status, err := app.State(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if status != model.FundingSubmitted && status != model.FundingInReview {
		writeError(w, http.StatusBadRequest, "application is "+string(status))
		return
	}

	app.SetDescription(req.Description)
	app.SetAmount(req.Amount)
	u := h.unit()
	u.RegisterDirty(app)
	if err := u.Commit(ctx); err != nil {
		if errors.Is(err, mapper.ErrConcurrent) {
			writeError(w, http.StatusConflict, "application was modified concurrently")
			return
		}
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

// CancelFunding handles POST /fundingApplication/cancelFunding.
func (h *Handler) CancelFunding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ApplicationID int64 `json:"applicationId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
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

	status, err := app.State(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if !status.CanTransitionTo(model.FundingCancelled) {
		writeError(w, http.StatusBadRequest, "application is "+string(status))
		return
	}

	app.SetState(model.FundingCancelled)
	u := h.unit()
	u.RegisterDirty(app)
	if err := u.Commit(ctx); err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"applicationId": app.ID(), "status": string(model.FundingCancelled)})
}

// ListFunding handles GET /fundingApplication/listFunding?clubId=.
func (h *Handler) ListFunding(w http.ResponseWriter, r *http.Request) {
	clubID, err := strconv.ParseInt(r.URL.Query().Get("clubId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clubId")
		return
	}

	ctx := r.Context()
	apps, err := h.reg.Funding.FindByClub(ctx, clubID)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	views, err := h.fundingViews(ctx, apps, false)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
