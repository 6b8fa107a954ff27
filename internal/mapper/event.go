package mapper

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campusclub/clubhub/internal/model"
)

const eventColumns = "event_id, title, description, attendees, venue_id, starts_at, club_id, cancelled, version"

// EventMapper persists events. Events are versioned; Update detects
// concurrent writers through the version column.
type EventMapper struct {
	reg *Registry
}

func (m *EventMapper) scan(row pgx.Row) (*model.Event, error) {
	var (
		id, venueID, clubID int64
		title, description  string
		attendees, version  int
		startsAt            time.Time
		cancelled           bool
	)
	err := row.Scan(&id, &title, &description, &attendees, &venueID, &startsAt, &clubID, &cancelled, &version)
	if err != nil {
		return nil, wrap(err)
	}
	e := model.EventRef(id, m.reg)
	e.SetTitle(title)
	e.SetDescription(description)
	e.SetAttendees(attendees)
	e.SetStartsAt(startsAt.UnixMilli())
	e.SetCancelled(cancelled)
	e.SetVersion(version)
	e.SetVenue(model.VenueRef(venueID, m.reg))
	e.SetClub(model.ClubRef(clubID, m.reg))
	return e, nil
}

func (m *EventMapper) query(ctx context.Context, query string, args ...any) ([]*model.Event, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := m.scan(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Insert writes a new event. The venue must already carry a persisted id,
// which the unit of work guarantees by flushing inserts in registration
// order.
func (m *EventMapper) Insert(ctx context.Context, e *model.Event) error {
	title, err := e.Title(ctx)
	if err != nil {
		return err
	}
	description, err := e.Description(ctx)
	if err != nil {
		return err
	}
	attendees, err := e.Attendees(ctx)
	if err != nil {
		return err
	}
	startsAt, err := e.StartsAt(ctx)
	if err != nil {
		return err
	}
	cancelled, err := e.Cancelled(ctx)
	if err != nil {
		return err
	}
	venue, err := e.Venue(ctx)
	if err != nil {
		return err
	}
	club, err := e.Club(ctx)
	if err != nil {
		return err
	}
	if venue == nil || venue.ID() == 0 {
		return fmt.Errorf("event %q has no persisted venue", title)
	}
	if club == nil || club.ID() == 0 {
		return fmt.Errorf("event %q has no club", title)
	}

	id, err := m.reg.insertReturning(ctx,
		`INSERT INTO events (title, description, attendees, venue_id, starts_at, club_id, cancelled)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING event_id`,
		title, description, attendees, venue.ID(), time.UnixMilli(startsAt), club.ID(), cancelled)
	if err != nil {
		return err
	}
	e.SetID(id)
	e.SetVersion(0)
	return nil
}

// Update writes all columns under an optimistic version check and bumps
// the entity's version on success.
func (m *EventMapper) Update(ctx context.Context, e *model.Event) error {
	title, err := e.Title(ctx)
	if err != nil {
		return err
	}
	description, err := e.Description(ctx)
	if err != nil {
		return err
	}
	attendees, err := e.Attendees(ctx)
	if err != nil {
		return err
	}
	startsAt, err := e.StartsAt(ctx)
	if err != nil {
		return err
	}
	cancelled, err := e.Cancelled(ctx)
	if err != nil {
		return err
	}
	venue, err := e.Venue(ctx)
	if err != nil {
		return err
	}
	version, err := e.Version(ctx)
	if err != nil {
		return err
	}
	if venue == nil || venue.ID() == 0 {
		return fmt.Errorf("event %d has no persisted venue", e.ID())
	}

	err = m.reg.updateVersioned(ctx, "events", "event_id", e.ID(), version, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`UPDATE events
			 SET title = $1, description = $2, attendees = $3, venue_id = $4,
			     starts_at = $5, cancelled = $6, version = $7
			 WHERE event_id = $8`,
			title, description, attendees, venue.ID(), time.UnixMilli(startsAt), cancelled, version+1, e.ID())
		return err
	})
	if err != nil {
		return err
	}
	e.SetVersion(version + 1)
	return nil
}

// Delete removes the event row unconditionally.
func (m *EventMapper) Delete(ctx context.Context, e *model.Event) error {
	return m.reg.exec(ctx, "DELETE FROM events WHERE event_id = $1", e.ID())
}

// Find returns the event with the given id fully materialized, with venue
// and club left as lazy refs.
func (m *EventMapper) Find(ctx context.Context, id int64) (*model.Event, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	return m.scan(conn.QueryRow(ctx, "SELECT "+eventColumns+" FROM events WHERE event_id = $1", id))
}

func (m *EventMapper) FindAll(ctx context.Context) ([]*model.Event, error) {
	return m.query(ctx, "SELECT "+eventColumns+" FROM events ORDER BY starts_at")
}

func (m *EventMapper) FindByClub(ctx context.Context, clubID int64) ([]*model.Event, error) {
	return m.query(ctx, "SELECT "+eventColumns+" FROM events WHERE club_id = $1 ORDER BY starts_at", clubID)
}

// FindByStudent returns the events of every club the student administrates.
func (m *EventMapper) FindByStudent(ctx context.Context, studentID int64) ([]*model.Event, error) {
	return m.query(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE club_id IN (SELECT club_id FROM memberships WHERE student_id = $1)
		 ORDER BY starts_at`, studentID)
}

// Search matches event titles case-insensitively against a substring.
func (m *EventMapper) Search(ctx context.Context, term string) ([]*model.Event, error) {
	return m.query(ctx,
		"SELECT "+eventColumns+" FROM events WHERE title ILIKE '%' || $1 || '%' ORDER BY starts_at", term)
}
