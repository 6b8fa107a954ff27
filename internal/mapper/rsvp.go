package mapper

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campusclub/clubhub/internal/model"
)

const rsvpColumns = "rsvp_id, student_id, event_id, issue_date, cancelled"

// RsvpMapper persists reservations. A partial unique index on
// (student_id, event_id) over live rows turns a second reservation into
// ErrDuplicate at insert time.
type RsvpMapper struct {
	reg *Registry
}

func (m *RsvpMapper) scan(row pgx.Row) (*model.Rsvp, error) {
	var (
		id, studentID, eventID int64
		issuedAt               time.Time
		cancelled              bool
	)
	if err := row.Scan(&id, &studentID, &eventID, &issuedAt, &cancelled); err != nil {
		return nil, wrap(err)
	}
	r := model.RsvpRef(id, m.reg)
	r.SetStudentID(studentID)
	r.SetEventID(eventID)
	r.SetIssuedAt(issuedAt.Unix())
	r.SetCancelled(cancelled)
	return r, nil
}

func (m *RsvpMapper) Insert(ctx context.Context, r *model.Rsvp) error {
	student, err := r.Student(ctx)
	if err != nil {
		return err
	}
	event, err := r.Event(ctx)
	if err != nil {
		return err
	}
	issuedAt, err := r.IssuedAt(ctx)
	if err != nil {
		return err
	}
	cancelled, err := r.Cancelled(ctx)
	if err != nil {
		return err
	}

	id, err := m.reg.insertReturning(ctx,
		`INSERT INTO rsvps (student_id, event_id, issue_date, cancelled)
		 VALUES ($1, $2, $3, $4) RETURNING rsvp_id`,
		student.ID(), event.ID(), time.Unix(issuedAt, 0), cancelled)
	if err != nil {
		return err
	}
	r.SetID(id)
	return nil
}

func (m *RsvpMapper) Update(ctx context.Context, r *model.Rsvp) error {
	cancelled, err := r.Cancelled(ctx)
	if err != nil {
		return err
	}
	return m.reg.exec(ctx, "UPDATE rsvps SET cancelled = $1 WHERE rsvp_id = $2", cancelled, r.ID())
}

func (m *RsvpMapper) Delete(ctx context.Context, r *model.Rsvp) error {
	return m.reg.exec(ctx, "DELETE FROM rsvps WHERE rsvp_id = $1", r.ID())
}

func (m *RsvpMapper) Find(ctx context.Context, id int64) (*model.Rsvp, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	return m.scan(conn.QueryRow(ctx, "SELECT "+rsvpColumns+" FROM rsvps WHERE rsvp_id = $1", id))
}

// FindLiveByEventAndStudent returns the single non-cancelled reservation a
// student holds for an event, or ErrNotFound.
func (m *RsvpMapper) FindLiveByEventAndStudent(ctx context.Context, eventID, studentID int64) (*model.Rsvp, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	return m.scan(conn.QueryRow(ctx,
		"SELECT "+rsvpColumns+" FROM rsvps WHERE event_id = $1 AND student_id = $2 AND NOT cancelled",
		eventID, studentID))
}

func (m *RsvpMapper) FindByStudent(ctx context.Context, studentID int64) ([]*model.Rsvp, error) {
	return m.query(ctx,
		"SELECT "+rsvpColumns+" FROM rsvps WHERE student_id = $1 ORDER BY issue_date", studentID)
}

func (m *RsvpMapper) FindByEvent(ctx context.Context, eventID int64) ([]*model.Rsvp, error) {
	return m.query(ctx,
		"SELECT "+rsvpColumns+" FROM rsvps WHERE event_id = $1 ORDER BY issue_date", eventID)
}

// CountLiveByEvent counts non-cancelled reservations for an event.
func (m *RsvpMapper) CountLiveByEvent(ctx context.Context, eventID int64) (int, error) {
	return scalar[int](ctx, m.reg,
		"SELECT count(*) FROM rsvps WHERE event_id = $1 AND NOT cancelled", eventID)
}

func (m *RsvpMapper) query(ctx context.Context, query string, args ...any) ([]*model.Rsvp, error) {
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

	var rsvps []*model.Rsvp
	for rows.Next() {
		r, err := m.scan(rows)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, r)
	}
	return rsvps, rows.Err()
}
