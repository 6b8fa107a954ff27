package mapper

import (
	"context"
	"time"

	"github.com/campusclub/clubhub/internal/model"
)

// The registry implements model.Loader so that ref entities built by
// finders can hydrate individual attributes on first access.

func (r *Registry) EventTitle(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT title FROM events WHERE event_id = $1", id)
}

func (r *Registry) EventDescription(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT description FROM events WHERE event_id = $1", id)
}

func (r *Registry) EventAttendees(ctx context.Context, id int64) (int, error) {
	return scalar[int](ctx, r, "SELECT attendees FROM events WHERE event_id = $1", id)
}

func (r *Registry) EventStartsAt(ctx context.Context, id int64) (int64, error) {
	t, err := scalar[time.Time](ctx, r, "SELECT starts_at FROM events WHERE event_id = $1", id)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func (r *Registry) EventCancelled(ctx context.Context, id int64) (bool, error) {
	return scalar[bool](ctx, r, "SELECT cancelled FROM events WHERE event_id = $1", id)
}

func (r *Registry) EventVenueID(ctx context.Context, id int64) (int64, error) {
	return scalar[int64](ctx, r, "SELECT venue_id FROM events WHERE event_id = $1", id)
}

func (r *Registry) EventClubID(ctx context.Context, id int64) (int64, error) {
	return scalar[int64](ctx, r, "SELECT club_id FROM events WHERE event_id = $1", id)
}

func (r *Registry) EventVersion(ctx context.Context, id int64) (int, error) {
	return scalar[int](ctx, r, "SELECT version FROM events WHERE event_id = $1", id)
}

func (r *Registry) EventRsvps(ctx context.Context, eventID int64) ([]*model.Rsvp, error) {
	return r.Rsvps.FindByEvent(ctx, eventID)
}

func (r *Registry) VenueKindOf(ctx context.Context, id int64) (model.VenueKind, error) {
	raw, err := scalar[string](ctx, r, "SELECT kind FROM venues WHERE venue_id = $1", id)
	if err != nil {
		return "", err
	}
	return model.ParseVenueKind(raw), nil
}

func (r *Registry) VenueAddress(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT address FROM venues WHERE venue_id = $1", id)
}

func (r *Registry) VenueCapacity(ctx context.Context, id int64) (int, error) {
	return scalar[int](ctx, r, "SELECT capacity FROM venues WHERE venue_id = $1", id)
}

func (r *Registry) ClubName(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT name FROM student_clubs WHERE club_id = $1", id)
}

func (r *Registry) ClubDescription(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT description FROM student_clubs WHERE club_id = $1", id)
}

func (r *Registry) ClubAdmins(ctx context.Context, clubID int64) ([]*model.Student, error) {
	return r.Students.FindAdminsByClub(ctx, clubID)
}

func (r *Registry) ClubEvents(ctx context.Context, clubID int64) ([]*model.Event, error) {
	return r.Events.FindByClub(ctx, clubID)
}

func (r *Registry) ClubFundingApplications(ctx context.Context, clubID int64) ([]*model.FundingApplication, error) {
	return r.Funding.FindByClub(ctx, clubID)
}

func (r *Registry) StudentName(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT name FROM students WHERE student_id = $1", id)
}

func (r *Registry) StudentEmail(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT email FROM students WHERE student_id = $1", id)
}

func (r *Registry) StudentPasswordHash(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT password FROM students WHERE student_id = $1", id)
}

func (r *Registry) StudentClubs(ctx context.Context, studentID int64) ([]*model.StudentClub, error) {
	return r.Clubs.FindByStudent(ctx, studentID)
}

func (r *Registry) StudentRsvps(ctx context.Context, studentID int64) ([]*model.Rsvp, error) {
	return r.Rsvps.FindByStudent(ctx, studentID)
}

func (r *Registry) FacultyName(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT name FROM faculty_admins WHERE faculty_id = $1", id)
}

func (r *Registry) FacultyEmail(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT email FROM faculty_admins WHERE faculty_id = $1", id)
}

func (r *Registry) RsvpStudentID(ctx context.Context, id int64) (int64, error) {
	return scalar[int64](ctx, r, "SELECT student_id FROM rsvps WHERE rsvp_id = $1", id)
}

func (r *Registry) RsvpEventID(ctx context.Context, id int64) (int64, error) {
	return scalar[int64](ctx, r, "SELECT event_id FROM rsvps WHERE rsvp_id = $1", id)
}

func (r *Registry) RsvpIssuedAt(ctx context.Context, id int64) (int64, error) {
	t, err := scalar[time.Time](ctx, r, "SELECT issue_date FROM rsvps WHERE rsvp_id = $1", id)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

func (r *Registry) RsvpCancelled(ctx context.Context, id int64) (bool, error) {
	return scalar[bool](ctx, r, "SELECT cancelled FROM rsvps WHERE rsvp_id = $1", id)
}

func (r *Registry) RsvpTickets(ctx context.Context, rsvpID int64) ([]*model.Ticket, error) {
	return r.Tickets.FindByRsvp(ctx, rsvpID)
}

func (r *Registry) TicketRsvpID(ctx context.Context, id int64) (int64, error) {
	return scalar[int64](ctx, r, "SELECT rsvp_id FROM tickets WHERE ticket_id = $1", id)
}

func (r *Registry) TicketEventID(ctx context.Context, id int64) (int64, error) {
	return scalar[int64](ctx, r, "SELECT event_id FROM tickets WHERE ticket_id = $1", id)
}

func (r *Registry) TicketStudentID(ctx context.Context, id int64) (int64, error) {
	return scalar[int64](ctx, r, "SELECT student_id FROM tickets WHERE ticket_id = $1", id)
}

func (r *Registry) FundingDescription(ctx context.Context, id int64) (string, error) {
	return scalar[string](ctx, r, "SELECT description FROM funding_applications WHERE application_id = $1", id)
}

func (r *Registry) FundingAmount(ctx context.Context, id int64) (float64, error) {
	return scalar[float64](ctx, r, "SELECT amount FROM funding_applications WHERE application_id = $1", id)
}

func (r *Registry) FundingState(ctx context.Context, id int64) (model.FundingStatus, error) {
	raw, err := scalar[string](ctx, r, "SELECT status FROM funding_applications WHERE application_id = $1", id)
	if err != nil {
		return "", err
	}
	return model.ParseFundingStatus(raw)
}

func (r *Registry) FundingSemester(ctx context.Context, id int64) (int, error) {
	return scalar[int](ctx, r, "SELECT semester FROM funding_applications WHERE application_id = $1", id)
}

func (r *Registry) FundingClubID(ctx context.Context, id int64) (int64, error) {
	return scalar[int64](ctx, r, "SELECT club_id FROM funding_applications WHERE application_id = $1", id)
}

func (r *Registry) FundingReviewerID(ctx context.Context, id int64) (int64, error) {
	v, err := scalar[*int64](ctx, r, "SELECT reviewer_id FROM funding_applications WHERE application_id = $1", id)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	return *v, nil
}

func (r *Registry) FundingVersion(ctx context.Context, id int64) (int, error) {
	return scalar[int](ctx, r, "SELECT version FROM funding_applications WHERE application_id = $1", id)
}
