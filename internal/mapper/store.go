package mapper

import (
	"context"
	"fmt"

	"github.com/campusclub/clubhub/internal/model"
)

// The registry implements uow.Store by dispatching on the entity's
// concrete type.

func (r *Registry) Insert(ctx context.Context, e model.Entity) error {
	switch v := e.(type) {
	case *model.Venue:
		return r.Venues.Insert(ctx, v)
	case *model.Event:
		return r.Events.Insert(ctx, v)
	case *model.Student:
		return r.Students.Insert(ctx, v)
	case *model.StudentClub:
		return r.Clubs.Insert(ctx, v)
	case *model.Rsvp:
		return r.Rsvps.Insert(ctx, v)
	case *model.Ticket:
		return r.Tickets.Insert(ctx, v)
	case *model.FundingApplication:
		return r.Funding.Insert(ctx, v)
	}
	return fmt.Errorf("no mapper for %T", e)
}

func (r *Registry) Update(ctx context.Context, e model.Entity) error {
	switch v := e.(type) {
	case *model.Venue:
		return r.Venues.Update(ctx, v)
	case *model.Event:
		return r.Events.Update(ctx, v)
	case *model.Student:
		return r.Students.Update(ctx, v)
	case *model.StudentClub:
		return r.Clubs.Update(ctx, v)
	case *model.Rsvp:
		return r.Rsvps.Update(ctx, v)
	case *model.FundingApplication:
		return r.Funding.Update(ctx, v)
	}
	return fmt.Errorf("no mapper for %T", e)
}

func (r *Registry) Delete(ctx context.Context, e model.Entity) error {
	switch v := e.(type) {
	case *model.Venue:
		return r.Venues.Delete(ctx, v)
	case *model.Event:
		return r.Events.Delete(ctx, v)
	case *model.Student:
		return r.Students.Delete(ctx, v)
	case *model.StudentClub:
		return r.Clubs.Delete(ctx, v)
	case *model.Rsvp:
		return r.Rsvps.Delete(ctx, v)
	case *model.Ticket:
		return r.Tickets.Delete(ctx, v)
	case *model.FundingApplication:
		return r.Funding.Delete(ctx, v)
	}
	return fmt.Errorf("no mapper for %T", e)
}
