package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campusclub/clubhub/internal/mapper"
	"github.com/campusclub/clubhub/internal/model"
)

// collectGuests resolves the four optional guest email slots to students.
func (h *Handler) collectGuests(r *http.Request, emails ...string) ([]*model.Student, error) {
	var guests []*model.Student
	for _, email := range emails {
		if email == "" {
			continue
		}
		guest, err := h.reg.Students.FindByEmail(r.Context(), email)
		if err != nil {
			return nil, err
		}
		guests = append(guests, guest)
	}
	return guests, nil
}

// CreateRsvp handles POST /rsvp/create. One reservation per student per
// event; up to four guest tickets ride along. The event's attendee count is
// recomputed from reservations and tickets afterwards.
func (h *Handler) CreateRsvp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventID  int64 `json:"eventID"`
		RSVPData struct {
			Rsvp struct {
				Email string `json:"email"`
			} `json:"rsvp"`
			Email1 string `json:"email1"`
			Email2 string `json:"email2"`
			Email3 string `json:"email3"`
			Email4 string `json:"email4"`
		} `json:"RSVPData"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx := r.Context()
	event, err := h.reg.Events.Find(ctx, req.EventID)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "event not found")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	student, err := h.reg.Students.FindByEmail(ctx, req.RSVPData.Rsvp.Email)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "no student with that email")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	if _, err := h.reg.Rsvps.FindLiveByEventAndStudent(ctx, event.ID(), student.ID()); err == nil {
		writeError(w, http.StatusBadRequest, "duplicate RSVP")
		return
	} else if !errors.Is(err, mapper.ErrNotFound) {
		h.writeFailure(w, err)
		return
	}

	guests, err := h.collectGuests(r, req.RSVPData.Email1, req.RSVPData.Email2, req.RSVPData.Email3, req.RSVPData.Email4)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "guest email is not a registered student")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	venue, err := event.Venue(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	capacity, err := venue.Capacity(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	liveRsvps, err := h.reg.Rsvps.CountLiveByEvent(ctx, event.ID())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	ticketCount, err := h.reg.Tickets.CountByEvent(ctx, event.ID())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	projected := liveRsvps + 1 + ticketCount + len(guests)
	if projected > capacity {
		writeError(w, http.StatusBadRequest, "event is full")
		return
	}

	// The tickets need the reservation's id, so the rsvp commits first.
	rsvp := model.NewRsvp(student.ID(), event.ID(), h.now().Unix(), false)
	u := h.unit()
	u.RegisterNew(rsvp)
	if err := u.Commit(ctx); err != nil {
		if errors.Is(err, mapper.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "duplicate RSVP")
			return
		}
		h.writeFailure(w, err)
		return
	}

	u = h.unit()
	for _, guest := range guests {
		u.RegisterNew(model.NewTicket(rsvp.ID(), event.ID(), guest.ID()))
	}
	event.SetAttendees(projected)
	u.RegisterDirty(event)
	if err := u.Commit(ctx); err != nil {
		if errors.Is(err, mapper.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "duplicate guest ticket")
			return
		}
		h.writeFailure(w, err)
		return
	}

	view, err := h.rsvpView(ctx, rsvp, true)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CancelRsvp handles POST /rsvp/cancel. Named guest tickets are released;
// once no tickets remain the reservation itself is cancelled. Rejected when
// the event has already started.
func (h *Handler) CancelRsvp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RsvpID int64  `json:"rsvpID"`
		Email1 string `json:"email1"`
		Email2 string `json:"email2"`
		Email3 string `json:"email3"`
		Email4 string `json:"email4"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx := r.Context()
	rsvp, err := h.reg.Rsvps.Find(ctx, req.RsvpID)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "reservation not found")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	event, err := rsvp.Event(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	startsAt, err := event.StartsAt(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if h.now().UnixMilli() >= startsAt {
		writeError(w, http.StatusBadRequest, "event has already started")
		return
	}

	guests, err := h.collectGuests(r, req.Email1, req.Email2, req.Email3, req.Email4)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "guest email is not a registered student")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	u := h.unit()
	released := 0
	for _, guest := range guests {
		ticket, err := h.reg.Tickets.FindByRsvpAndStudent(ctx, rsvp.ID(), guest.ID())
		if errors.Is(err, mapper.ErrNotFound) {
			continue
		}
		if err != nil {
			h.writeFailure(w, err)
			return
		}
		u.RegisterDeleted(ticket)
		released++
	}

	tickets, err := rsvp.Tickets(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	cancelling := released >= len(tickets)
	if cancelling {
		rsvp.SetCancelled(true)
		u.RegisterDirty(rsvp)
	}
	if err := u.Commit(ctx); err != nil {
		h.writeFailure(w, err)
		return
	}

	// Recompute the attendee count from what actually remains.
	liveRsvps, err := h.reg.Rsvps.CountLiveByEvent(ctx, event.ID())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	ticketCount, err := h.reg.Tickets.CountByEvent(ctx, event.ID())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	event.SetAttendees(liveRsvps + ticketCount)
	u = h.unit()
	u.RegisterDirty(event)
	if err := u.Commit(ctx); err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"rsvpId": rsvp.ID(), "cancelled": cancelling, "ticketsReleased": released})
}

// MyRsvps handles GET /rsvp/myRSVPs?email=.
func (h *Handler) MyRsvps(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	ctx := r.Context()
	student, err := h.reg.Students.FindByEmail(ctx, email)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "no student with that email")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	rsvps, err := h.reg.Rsvps.FindByStudent(ctx, student.ID())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	views := make([]rsvpView, 0, len(rsvps))
	for _, rs := range rsvps {
		v, err := h.rsvpView(ctx, rs, false)
		if err != nil {
			h.writeFailure(w, err)
			return
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

// RsvpDetails handles GET /rsvp/details?rsvpId=.
func (h *Handler) RsvpDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("rsvpId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rsvpId")
		return
	}

	ctx := r.Context()
	rsvp, err := h.reg.Rsvps.Find(ctx, id)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "reservation not found")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	view, err := h.rsvpView(ctx, rsvp, true)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
