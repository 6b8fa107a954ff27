package model

import "context"

// Event is a club-run happening at a venue. Events carry a version column
// for optimistic offline locking; the version must be loaded before an
// update can run.
type Event struct {
	record
	loader Loader

	title       *string
	description *string
	attendees   *int
	startsAt    *int64 // epoch millis
	cancelled   *bool
	venue       *Venue
	club        *StudentClub
	version     *int
	rsvps       []*Rsvp
}

// NewEvent builds an event that has not been persisted yet.
func NewEvent(title, description string, attendees int, startsAt int64, cancelled bool) *Event {
	return &Event{
		title:       &title,
		description: &description,
		attendees:   &attendees,
		startsAt:    &startsAt,
		cancelled:   &cancelled,
	}
}

// EventRef builds a stub whose attributes hydrate on first access.
func EventRef(id int64, loader Loader) *Event {
	e := &Event{loader: loader}
	e.SetID(id)
	return e
}

// EventRefVersion builds a stub with the version pre-loaded, as returned
// by finders on versioned tables.
func EventRefVersion(id int64, version int, loader Loader) *Event {
	e := EventRef(id, loader)
	e.version = &version
	return e
}

func (e *Event) Title(ctx context.Context) (string, error) {
	if e.title == nil && e.loader != nil {
		v, err := e.loader.EventTitle(ctx, e.ID())
		if err != nil {
			return "", err
		}
		e.title = &v
	}
	if e.title == nil {
		return "", nil
	}
	return *e.title, nil
}

func (e *Event) SetTitle(title string) { e.title = &title }

func (e *Event) Description(ctx context.Context) (string, error) {
	if e.description == nil && e.loader != nil {
		v, err := e.loader.EventDescription(ctx, e.ID())
		if err != nil {
			return "", err
		}
		e.description = &v
	}
	if e.description == nil {
		return "", nil
	}
	return *e.description, nil
}

func (e *Event) SetDescription(description string) { e.description = &description }

func (e *Event) Attendees(ctx context.Context) (int, error) {
	if e.attendees == nil && e.loader != nil {
		v, err := e.loader.EventAttendees(ctx, e.ID())
		if err != nil {
			return 0, err
		}
		e.attendees = &v
	}
	if e.attendees == nil {
		return 0, nil
	}
	return *e.attendees, nil
}

func (e *Event) SetAttendees(n int) { e.attendees = &n }

// StartsAt returns the scheduled instant in epoch millis.
func (e *Event) StartsAt(ctx context.Context) (int64, error) {
	if e.startsAt == nil && e.loader != nil {
		v, err := e.loader.EventStartsAt(ctx, e.ID())
		if err != nil {
			return 0, err
		}
		e.startsAt = &v
	}
	if e.startsAt == nil {
		return 0, nil
	}
	return *e.startsAt, nil
}

func (e *Event) SetStartsAt(millis int64) { e.startsAt = &millis }

func (e *Event) Cancelled(ctx context.Context) (bool, error) {
	if e.cancelled == nil && e.loader != nil {
		v, err := e.loader.EventCancelled(ctx, e.ID())
		if err != nil {
			return false, err
		}
		e.cancelled = &v
	}
	if e.cancelled == nil {
		return false, nil
	}
	return *e.cancelled, nil
}

func (e *Event) SetCancelled(cancelled bool) { e.cancelled = &cancelled }

// Venue returns the exclusively-owned venue, as a stub when it has not
// been loaded yet.
func (e *Event) Venue(ctx context.Context) (*Venue, error) {
	if e.venue == nil && e.loader != nil {
		id, err := e.loader.EventVenueID(ctx, e.ID())
		if err != nil {
			return nil, err
		}
		e.venue = VenueRef(id, e.loader)
	}
	return e.venue, nil
}

func (e *Event) SetVenue(v *Venue) { e.venue = v }

func (e *Event) Club(ctx context.Context) (*StudentClub, error) {
	if e.club == nil && e.loader != nil {
		id, err := e.loader.EventClubID(ctx, e.ID())
		if err != nil {
			return nil, err
		}
		e.club = ClubRef(id, e.loader)
	}
	return e.club, nil
}

func (e *Event) SetClub(c *StudentClub) { e.club = c }

func (e *Event) Version(ctx context.Context) (int, error) {
	if e.version == nil && e.loader != nil {
		v, err := e.loader.EventVersion(ctx, e.ID())
		if err != nil {
			return 0, err
		}
		e.version = &v
	}
	if e.version == nil {
		return 0, nil
	}
	return *e.version, nil
}

func (e *Event) SetVersion(version int) { e.version = &version }

func (e *Event) Rsvps(ctx context.Context) ([]*Rsvp, error) {
	if e.rsvps == nil && e.loader != nil {
		rsvps, err := e.loader.EventRsvps(ctx, e.ID())
		if err != nil {
			return nil, err
		}
		e.rsvps = rsvps
	}
	return e.rsvps, nil
}
