package model

import "context"

// Loader fetches individual attributes and associations for entities that
// were constructed as refs (id only). The mapper registry implements it;
// entities never talk to the store directly.
//
// Finders return ErrNotFound-wrapping errors from the mapper layer when
// the row has disappeared.
type Loader interface {
	EventTitle(ctx context.Context, id int64) (string, error)
	EventDescription(ctx context.Context, id int64) (string, error)
	EventAttendees(ctx context.Context, id int64) (int, error)
	EventStartsAt(ctx context.Context, id int64) (int64, error)
	EventCancelled(ctx context.Context, id int64) (bool, error)
	EventVenueID(ctx context.Context, id int64) (int64, error)
	EventClubID(ctx context.Context, id int64) (int64, error)
	EventVersion(ctx context.Context, id int64) (int, error)
	EventRsvps(ctx context.Context, eventID int64) ([]*Rsvp, error)

	VenueKindOf(ctx context.Context, id int64) (VenueKind, error)
	VenueAddress(ctx context.Context, id int64) (string, error)
	VenueCapacity(ctx context.Context, id int64) (int, error)

	ClubName(ctx context.Context, id int64) (string, error)
	ClubDescription(ctx context.Context, id int64) (string, error)
	ClubAdmins(ctx context.Context, clubID int64) ([]*Student, error)
	ClubEvents(ctx context.Context, clubID int64) ([]*Event, error)
	ClubFundingApplications(ctx context.Context, clubID int64) ([]*FundingApplication, error)

	StudentName(ctx context.Context, id int64) (string, error)
	StudentEmail(ctx context.Context, id int64) (string, error)
	StudentPasswordHash(ctx context.Context, id int64) (string, error)
	StudentClubs(ctx context.Context, studentID int64) ([]*StudentClub, error)
	StudentRsvps(ctx context.Context, studentID int64) ([]*Rsvp, error)

	FacultyName(ctx context.Context, id int64) (string, error)
	FacultyEmail(ctx context.Context, id int64) (string, error)

	RsvpStudentID(ctx context.Context, id int64) (int64, error)
	RsvpEventID(ctx context.Context, id int64) (int64, error)
	RsvpIssuedAt(ctx context.Context, id int64) (int64, error)
	RsvpCancelled(ctx context.Context, id int64) (bool, error)
	RsvpTickets(ctx context.Context, rsvpID int64) ([]*Ticket, error)

	TicketRsvpID(ctx context.Context, id int64) (int64, error)
	TicketEventID(ctx context.Context, id int64) (int64, error)
	TicketStudentID(ctx context.Context, id int64) (int64, error)

	FundingDescription(ctx context.Context, id int64) (string, error)
	FundingAmount(ctx context.Context, id int64) (float64, error)
	FundingState(ctx context.Context, id int64) (FundingStatus, error)
	FundingSemester(ctx context.Context, id int64) (int, error)
	FundingClubID(ctx context.Context, id int64) (int64, error)
	FundingReviewerID(ctx context.Context, id int64) (int64, error)
	FundingVersion(ctx context.Context, id int64) (int, error)
}
