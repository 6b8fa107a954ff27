package model

import "context"

// Rsvp records a student's registration for an event. IssuedAt is epoch
// seconds of registration time.
type Rsvp struct {
	record
	loader Loader

	studentID *int64
	eventID   *int64
	issuedAt  *int64
	cancelled *bool
	tickets   []*Ticket
}

// NewRsvp builds an rsvp that has not been persisted yet.
func NewRsvp(studentID, eventID, issuedAt int64, cancelled bool) *Rsvp {
	return &Rsvp{studentID: &studentID, eventID: &eventID, issuedAt: &issuedAt, cancelled: &cancelled}
}

// RsvpRef builds a stub whose attributes hydrate on first access.
func RsvpRef(id int64, loader Loader) *Rsvp {
	r := &Rsvp{loader: loader}
	r.SetID(id)
	return r
}

func (r *Rsvp) Student(ctx context.Context) (*Student, error) {
	if r.studentID == nil && r.loader != nil {
		id, err := r.loader.RsvpStudentID(ctx, r.ID())
		if err != nil {
			return nil, err
		}
		r.studentID = &id
	}
	if r.studentID == nil {
		return nil, nil
	}
	return StudentRef(*r.studentID, r.loader), nil
}

func (r *Rsvp) SetStudentID(id int64) { r.studentID = &id }

func (r *Rsvp) Event(ctx context.Context) (*Event, error) {
	if r.eventID == nil && r.loader != nil {
		id, err := r.loader.RsvpEventID(ctx, r.ID())
		if err != nil {
			return nil, err
		}
		r.eventID = &id
	}
	if r.eventID == nil {
		return nil, nil
	}
	return EventRef(*r.eventID, r.loader), nil
}

func (r *Rsvp) SetEventID(id int64) { r.eventID = &id }

func (r *Rsvp) IssuedAt(ctx context.Context) (int64, error) {
	if r.issuedAt == nil && r.loader != nil {
		v, err := r.loader.RsvpIssuedAt(ctx, r.ID())
		if err != nil {
			return 0, err
		}
		r.issuedAt = &v
	}
	if r.issuedAt == nil {
		return 0, nil
	}
	return *r.issuedAt, nil
}

func (r *Rsvp) SetIssuedAt(epochSeconds int64) { r.issuedAt = &epochSeconds }

func (r *Rsvp) Cancelled(ctx context.Context) (bool, error) {
	if r.cancelled == nil && r.loader != nil {
		v, err := r.loader.RsvpCancelled(ctx, r.ID())
		if err != nil {
			return false, err
		}
		r.cancelled = &v
	}
	if r.cancelled == nil {
		return false, nil
	}
	return *r.cancelled, nil
}

func (r *Rsvp) SetCancelled(cancelled bool) { r.cancelled = &cancelled }

func (r *Rsvp) Tickets(ctx context.Context) ([]*Ticket, error) {
	if r.tickets == nil && r.loader != nil {
		tickets, err := r.loader.RsvpTickets(ctx, r.ID())
		if err != nil {
			return nil, err
		}
		r.tickets = tickets
	}
	return r.tickets, nil
}
