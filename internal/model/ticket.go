package model

import "context"

// Ticket is a single admission slot issued under an rsvp.
type Ticket struct {
	record
	loader Loader

	rsvpID    *int64
	eventID   *int64
	studentID *int64
}

// NewTicket builds a ticket that has not been persisted yet.
func NewTicket(rsvpID, eventID, studentID int64) *Ticket {
	return &Ticket{rsvpID: &rsvpID, eventID: &eventID, studentID: &studentID}
}

// TicketRef builds a stub whose attributes hydrate on first access.
func TicketRef(id int64, loader Loader) *Ticket {
	t := &Ticket{loader: loader}
	t.SetID(id)
	return t
}

func (t *Ticket) RsvpID(ctx context.Context) (int64, error) {
	if t.rsvpID == nil && t.loader != nil {
		v, err := t.loader.TicketRsvpID(ctx, t.ID())
		if err != nil {
			return 0, err
		}
		t.rsvpID = &v
	}
	if t.rsvpID == nil {
		return 0, nil
	}
	return *t.rsvpID, nil
}

func (t *Ticket) EventID(ctx context.Context) (int64, error) {
	if t.eventID == nil && t.loader != nil {
		v, err := t.loader.TicketEventID(ctx, t.ID())
		if err != nil {
			return 0, err
		}
		t.eventID = &v
	}
	if t.eventID == nil {
		return 0, nil
	}
	return *t.eventID, nil
}

func (t *Ticket) StudentID(ctx context.Context) (int64, error) {
	if t.studentID == nil && t.loader != nil {
		v, err := t.loader.TicketStudentID(ctx, t.ID())
		if err != nil {
			return 0, err
		}
		t.studentID = &v
	}
	if t.studentID == nil {
		return 0, nil
	}
	return *t.studentID, nil
}
