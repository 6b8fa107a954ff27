package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campusclub/clubhub/internal/auth"
	"github.com/campusclub/clubhub/internal/mapper"
	"github.com/campusclub/clubhub/internal/model"
)

type venuePayload struct {
	Kind     string `json:"kind"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity"`
}

type eventPayload struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	StartsAt    int64        `json:"startsAt"`
	Venue       venuePayload `json:"venue"`
}

// ListEvents handles GET /events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	events, err := h.reg.Events.FindAll(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	views, err := h.eventViews(ctx, events)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// GetEvent handles GET /events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	ctx := r.Context()
	event, err := h.reg.Events.Find(ctx, id)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	view, err := h.eventView(ctx, event)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// EventsByStudent handles GET /events/student?studentID=: the events of
// every club the student administrates.
func (h *Handler) EventsByStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(r.URL.Query().Get("studentID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid studentID")
		return
	}

	ctx := r.Context()
	events, err := h.reg.Events.FindByStudent(ctx, studentID)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	views, err := h.eventViews(ctx, events)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// SearchEvents handles POST /events/search: case-insensitive title lookup.
func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx := r.Context()
	events, err := h.reg.Events.Search(ctx, req.Term)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	views, err := h.eventViews(ctx, events)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// CreateEvent handles POST /events/create_event. A fresh venue row is
// always inserted alongside the event.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Event  eventPayload `json:"event"`
		ClubID int64        `json:"clubId"`
		Token  string       `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Event.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Event.Venue.Capacity <= 0 {
		writeError(w, http.StatusBadRequest, "capacity must be positive")
		return
	}

	subject, err := h.subjectFor(r, req.Token)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	ctx := r.Context()
	venue := model.NewVenue(model.ParseVenueKind(req.Event.Venue.Kind), req.Event.Venue.Address, req.Event.Venue.Capacity)
	event := model.NewEvent(req.Event.Title, req.Event.Description, 0, req.Event.StartsAt, false)
	event.SetVenue(venue)
	event.SetClub(model.ClubRef(req.ClubID, h.reg))

	rctx := auth.RequestContext{
		Subject:    subject,
		Permission: auth.Permission{Action: auth.ActionCreateEvent, Scope: auth.ClubScope(req.ClubID)},
	}
	err = auth.Authorize(ctx, h.enforcer, rctx, func(ctx context.Context) error {
		u := h.unit()
		u.RegisterNew(venue)
		u.RegisterNew(event)
		return u.Commit(ctx)
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	view, err := h.eventView(ctx, event)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ModifyEvent handles POST /events/modify_event. The update is optimistic:
// a concurrent writer since the event was loaded surfaces as a conflict.
func (h *Handler) ModifyEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    int64        `json:"id"`
		Event eventPayload `json:"event"`
		Token string       `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Event.Venue.Capacity <= 0 {
		writeError(w, http.StatusBadRequest, "capacity must be positive")
		return
	}

	subject, err := h.subjectFor(r, req.Token)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	ctx := r.Context()
	event, err := h.reg.Events.Find(ctx, req.ID)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	attendees, err := event.Attendees(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if req.Event.Venue.Capacity < attendees {
		writeError(w, http.StatusUnprocessableEntity, "capacity below current attendee count")
		return
	}

	club, err := event.Club(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	venue := model.NewVenue(model.ParseVenueKind(req.Event.Venue.Kind), req.Event.Venue.Address, req.Event.Venue.Capacity)
	rctx := auth.RequestContext{
		Subject:    subject,
		Permission: auth.Permission{Action: auth.ActionModifyEvent, Scope: auth.ClubScope(club.ID())},
	}
	err = auth.Authorize(ctx, h.enforcer, rctx, func(ctx context.Context) error {
		if req.Event.Title != "" {
			event.SetTitle(req.Event.Title)
		}
		if req.Event.Description != "" {
			event.SetDescription(req.Event.Description)
		}
		if req.Event.StartsAt != 0 {
			event.SetStartsAt(req.Event.StartsAt)
		}
		event.SetVenue(venue)

		u := h.unit()
		u.RegisterNew(venue)
		u.RegisterDirty(event)
		return u.Commit(ctx)
	})
	if err != nil {
		if errors.Is(err, mapper.ErrConcurrent) {
			writeError(w, http.StatusConflict, "event was modified concurrently")
			return
		}
		h.writeFailure(w, err)
		return
	}

	view, err := h.eventView(ctx, event)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CancelEvent handles DELETE /eventCancel/cancelEvent.
func (h *Handler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    int64  `json:"id"`
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
	event, err := h.reg.Events.Find(ctx, req.ID)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	club, err := event.Club(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	rctx := auth.RequestContext{
		Subject:    subject,
		Permission: auth.Permission{Action: auth.ActionDeleteEvent, Scope: auth.ClubScope(club.ID())},
	}
	err = auth.Authorize(ctx, h.enforcer, rctx, func(ctx context.Context) error {
		u := h.unit()
		u.RegisterDeleted(event)
		return u.Commit(ctx)
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeText(w, http.StatusOK, "event cancelled")
}
