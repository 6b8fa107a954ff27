package mapper

import (
	"context"

	"github.com/campusclub/clubhub/internal/model"
)

// TicketMapper persists guest tickets. The (rsvp_id, student_id) unique
// constraint makes a repeated guest slot an ErrDuplicate.
type TicketMapper struct {
	reg *Registry
}

func (m *TicketMapper) Insert(ctx context.Context, t *model.Ticket) error {
	rsvpID, err := t.RsvpID(ctx)
	if err != nil {
		return err
	}
	eventID, err := t.EventID(ctx)
	if err != nil {
		return err
	}
	studentID, err := t.StudentID(ctx)
	if err != nil {
		return err
	}

	id, err := m.reg.insertReturning(ctx,
		"INSERT INTO tickets (rsvp_id, event_id, student_id) VALUES ($1, $2, $3) RETURNING ticket_id",
		rsvpID, eventID, studentID)
	if err != nil {
		return err
	}
	t.SetID(id)
	return nil
}

func (m *TicketMapper) Delete(ctx context.Context, t *model.Ticket) error {
	return m.reg.exec(ctx, "DELETE FROM tickets WHERE ticket_id = $1", t.ID())
}

func (m *TicketMapper) FindByRsvp(ctx context.Context, rsvpID int64) ([]*model.Ticket, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	rows, err := conn.Query(ctx,
		"SELECT ticket_id, rsvp_id, event_id, student_id FROM tickets WHERE rsvp_id = $1 ORDER BY ticket_id",
		rsvpID)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var tickets []*model.Ticket
	for rows.Next() {
		var id, rID, eID, sID int64
		if err := rows.Scan(&id, &rID, &eID, &sID); err != nil {
			return nil, wrap(err)
		}
		t := model.NewTicket(rID, eID, sID)
		t.SetID(id)
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// FindByRsvpAndStudent locates one guest's ticket under a reservation.
func (m *TicketMapper) FindByRsvpAndStudent(ctx context.Context, rsvpID, studentID int64) (*model.Ticket, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	var id, eventID int64
	err = conn.QueryRow(ctx,
		"SELECT ticket_id, event_id FROM tickets WHERE rsvp_id = $1 AND student_id = $2",
		rsvpID, studentID).Scan(&id, &eventID)
	if err != nil {
		return nil, wrap(err)
	}
	t := model.NewTicket(rsvpID, eventID, studentID)
	t.SetID(id)
	return t, nil
}

// CountByEvent counts issued tickets for an event; the handlers use it to
// recompute the attendee total after ticket churn.
func (m *TicketMapper) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	return scalar[int](ctx, m.reg, "SELECT count(*) FROM tickets WHERE event_id = $1", eventID)
}
