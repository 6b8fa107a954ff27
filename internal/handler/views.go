package handler

import (
	"context"

	"github.com/campusclub/clubhub/internal/model"
)

// JSON view shapes. Builders take a context because reading an attribute
// may hydrate it from the store.

type venueView struct {
	ID       int64  `json:"id"`
	Kind     string `json:"kind"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity"`
}

type eventView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Attendees   int       `json:"attendees"`
	StartsAt    int64     `json:"startsAt"`
	Cancelled   bool      `json:"cancelled"`
	ClubID      int64     `json:"clubId"`
	Venue       venueView `json:"venue"`
}

func (h *Handler) eventView(ctx context.Context, e *model.Event) (eventView, error) {
	var v eventView
	var err error

	v.ID = e.ID()
	if v.Title, err = e.Title(ctx); err != nil {
		return v, err
	}
	if v.Description, err = e.Description(ctx); err != nil {
		return v, err
	}
	if v.Attendees, err = e.Attendees(ctx); err != nil {
		return v, err
	}
	if v.StartsAt, err = e.StartsAt(ctx); err != nil {
		return v, err
	}
	if v.Cancelled, err = e.Cancelled(ctx); err != nil {
		return v, err
	}
	club, err := e.Club(ctx)
	if err != nil {
		return v, err
	}
	if club != nil {
		v.ClubID = club.ID()
	}
	venue, err := e.Venue(ctx)
	if err != nil {
		return v, err
	}
	if venue != nil {
		v.Venue.ID = venue.ID()
		kind, err := venue.Kind(ctx)
		if err != nil {
			return v, err
		}
		v.Venue.Kind = string(kind)
		if v.Venue.Address, err = venue.Address(ctx); err != nil {
			return v, err
		}
		if v.Venue.Capacity, err = venue.Capacity(ctx); err != nil {
			return v, err
		}
	}
	return v, nil
}

func (h *Handler) eventViews(ctx context.Context, events []*model.Event) ([]eventView, error) {
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		v, err := h.eventView(ctx, e)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

type fundingView struct {
	ApplicationID int64   `json:"applicationId"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	Semester      int     `json:"semester"`
	ClubID        int64   `json:"clubId"`
	ClubName      string  `json:"clubName,omitempty"`
}

func (h *Handler) fundingView(ctx context.Context, f *model.FundingApplication, withClubName bool) (fundingView, error) {
	var v fundingView
	var err error

	v.ApplicationID = f.ID()
	if v.Description, err = f.Description(ctx); err != nil {
		return v, err
	}
	if v.Amount, err = f.Amount(ctx); err != nil {
		return v, err
	}
	status, err := f.State(ctx)
	if err != nil {
		return v, err
	}
	v.Status = string(status)
	if v.Semester, err = f.Semester(ctx); err != nil {
		return v, err
	}
	club, err := f.Club(ctx)
	if err != nil {
		return v, err
	}
	if club != nil {
		v.ClubID = club.ID()
		if withClubName {
			if v.ClubName, err = club.Name(ctx); err != nil {
				return v, err
			}
		}
	}
	return v, nil
}

func (h *Handler) fundingViews(ctx context.Context, apps []*model.FundingApplication, withClubName bool) ([]fundingView, error) {
	views := make([]fundingView, 0, len(apps))
	for _, f := range apps {
		v, err := h.fundingView(ctx, f, withClubName)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

type guestView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type rsvpView struct {
	RsvpID     int64       `json:"rsvpId"`
	EventID    int64       `json:"eventId"`
	EventTitle string      `json:"eventTitle"`
	StartsAt   int64       `json:"startsAt"`
	IssuedAt   int64       `json:"issuedAt"`
	Cancelled  bool        `json:"cancelled"`
	Guests     []guestView `json:"guests,omitempty"`
}

func (h *Handler) rsvpView(ctx context.Context, r *model.Rsvp, withGuests bool) (rsvpView, error) {
	var v rsvpView
	var err error

	v.RsvpID = r.ID()
	if v.IssuedAt, err = r.IssuedAt(ctx); err != nil {
		return v, err
	}
	if v.Cancelled, err = r.Cancelled(ctx); err != nil {
		return v, err
	}
	event, err := r.Event(ctx)
	if err != nil {
		return v, err
	}
	if event != nil {
		v.EventID = event.ID()
		if v.EventTitle, err = event.Title(ctx); err != nil {
			return v, err
		}
		if v.StartsAt, err = event.StartsAt(ctx); err != nil {
			return v, err
		}
	}
	if !withGuests {
		return v, nil
	}

	tickets, err := r.Tickets(ctx)
	if err != nil {
		return v, err
	}
	for _, t := range tickets {
		studentID, err := t.StudentID(ctx)
		if err != nil {
			return v, err
		}
		guest, err := h.reg.Students.Find(ctx, studentID)
		if err != nil {
			return v, err
		}
		name, err := guest.Name(ctx)
		if err != nil {
			return v, err
		}
		email, err := guest.Email(ctx)
		if err != nil {
			return v, err
		}
		v.Guests = append(v.Guests, guestView{Name: name, Email: email})
	}
	return v, nil
}

type clubView struct {
	ClubID   int64  `json:"clubId"`
	ClubName string `json:"clubName"`
}

type adminView struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
