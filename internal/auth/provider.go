package auth

import (
	"context"

	"github.com/campusclub/clubhub/internal/model"
)

// ClubDirectory answers which clubs a student administrates. The mapper
// registry satisfies it.
type ClubDirectory interface {
	StudentClubs(ctx context.Context, studentID int64) ([]*model.StudentClub, error)
}

// Provider derives a user's permission set deterministically from the
// membership data. Students get the club-admin actions scoped to each club
// they administrate; faculty get the funding-review actions over any club.
type Provider struct {
	dir ClubDirectory
}

func NewProvider(dir ClubDirectory) *Provider {
	return &Provider{dir: dir}
}

func (p *Provider) PermissionsFor(ctx context.Context, user UserRef) (Set, error) {
	set := NewSet()

	switch user.Kind {
	case model.UserKindStudent:
		clubs, err := p.dir.StudentClubs(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		for _, club := range clubs {
			scope := ClubScope(club.ID())
			for _, action := range clubAdminActions {
				set.Add(Permission{Action: action, Scope: scope})
			}
		}
	case model.UserKindFaculty:
		set.Add(Permission{Action: ActionViewFunding, Scope: AnyClub()})
		set.Add(Permission{Action: ActionApproveFunding, Scope: AnyClub()})
		set.Add(Permission{Action: ActionRejectFunding, Scope: AnyClub()})
	}
	return set, nil
}
