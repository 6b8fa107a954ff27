package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusclub/clubhub/internal/model"
)

type fixedDirectory struct {
	clubs map[int64][]int64
}

func (d *fixedDirectory) StudentClubs(ctx context.Context, studentID int64) ([]*model.StudentClub, error) {
	var clubs []*model.StudentClub
	for _, id := range d.clubs[studentID] {
		clubs = append(clubs, model.ClubRef(id, nil))
	}
	return clubs, nil
}

func TestSetMembershipIsExact(t *testing.T) {
	set := NewSet(
		Permission{Action: ActionCreateEvent, Scope: ClubScope(1)},
		Permission{Action: ActionViewFunding, Scope: AnyClub()},
	)

	// Reflexive on equal values.
	assert.True(t, set.Has(Permission{Action: ActionCreateEvent, Scope: ClubScope(1)}))
	assert.True(t, set.Has(Permission{Action: ActionViewFunding, Scope: AnyClub()}))

	// AnyClub does not wildcard a specific club, nor the other way around.
	assert.False(t, set.Has(Permission{Action: ActionViewFunding, Scope: ClubScope(1)}))
	assert.False(t, set.Has(Permission{Action: ActionCreateEvent, Scope: AnyClub()}))
	assert.False(t, set.Has(Permission{Action: ActionCreateEvent, Scope: ClubScope(2)}))
}

func TestProviderGrantsClubAdminActionsPerClub(t *testing.T) {
	dir := &fixedDirectory{clubs: map[int64][]int64{1: {4, 9}}}
	p := NewProvider(dir)

	set, err := p.PermissionsFor(context.Background(), UserRef{Kind: model.UserKindStudent, ID: 1})
	require.NoError(t, err)

	assert.Len(t, set, 14)
	for _, clubID := range []int64{4, 9} {
		for _, action := range clubAdminActions {
			assert.True(t, set.Has(Permission{Action: action, Scope: ClubScope(clubID)}),
				"%s for club %d", action, clubID)
		}
	}
	assert.False(t, set.Has(Permission{Action: ActionCreateEvent, Scope: ClubScope(2)}))
	assert.False(t, set.Has(Permission{Action: ActionApproveFunding, Scope: AnyClub()}))
}

func TestProviderGrantsFacultyReviewActions(t *testing.T) {
	p := NewProvider(&fixedDirectory{})

	set, err := p.PermissionsFor(context.Background(), UserRef{Kind: model.UserKindFaculty, ID: 3})
	require.NoError(t, err)

	assert.Len(t, set, 3)
	assert.True(t, set.Has(Permission{Action: ActionViewFunding, Scope: AnyClub()}))
	assert.True(t, set.Has(Permission{Action: ActionApproveFunding, Scope: AnyClub()}))
	assert.True(t, set.Has(Permission{Action: ActionRejectFunding, Scope: AnyClub()}))
	assert.False(t, set.Has(Permission{Action: ActionCreateEvent, Scope: AnyClub()}))
}

func TestAuthorizeRunsWhenPermitted(t *testing.T) {
	dir := &fixedDirectory{clubs: map[int64][]int64{1: {4}}}
	e := NewEnforcer(NewProvider(dir), zerolog.Nop())

	subject := NewSubject(UserRef{Kind: model.UserKindStudent, ID: 1})
	rctx := RequestContext{
		Subject:    subject,
		Permission: Permission{Action: ActionCreateEvent, Scope: ClubScope(4)},
	}

	ran := false
	err := Authorize(context.Background(), e, rctx, func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestAuthorizeDeniesForeignClub(t *testing.T) {
	dir := &fixedDirectory{clubs: map[int64][]int64{1: {4}}}
	e := NewEnforcer(NewProvider(dir), zerolog.Nop())

	subject := NewSubject(UserRef{Kind: model.UserKindStudent, ID: 1})
	rctx := RequestContext{
		Subject:    subject,
		Permission: Permission{Action: ActionCreateEvent, Scope: ClubScope(2)},
	}

	ran := false
	err := Authorize(context.Background(), e, rctx, func(ctx context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.False(t, ran)
}

func TestAuthorizePropagatesActionError(t *testing.T) {
	dir := &fixedDirectory{clubs: map[int64][]int64{1: {4}}}
	e := NewEnforcer(NewProvider(dir), zerolog.Nop())

	subject := NewSubject(UserRef{Kind: model.UserKindStudent, ID: 1})
	rctx := RequestContext{
		Subject:    subject,
		Permission: Permission{Action: ActionDeleteEvent, Scope: ClubScope(4)},
	}

	wantErr := errors.New("store down")
	err := Authorize(context.Background(), e, rctx, func(ctx context.Context) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestAuthorizeWithoutSubject(t *testing.T) {
	e := NewEnforcer(NewProvider(&fixedDirectory{}), zerolog.Nop())

	err := Authorize(context.Background(), e, RequestContext{
		Permission: Permission{Action: ActionCreateEvent, Scope: ClubScope(1)},
	}, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLoadPermissionsIsIdempotent(t *testing.T) {
	dir := &fixedDirectory{clubs: map[int64][]int64{1: {4}}}
	e := NewEnforcer(NewProvider(dir), zerolog.Nop())

	subject := NewSubject(UserRef{Kind: model.UserKindStudent, ID: 1})
	require.NoError(t, e.LoadPermissions(context.Background(), subject))

	// Later membership changes are not visible to an already-loaded subject.
	dir.clubs[1] = nil
	require.NoError(t, e.LoadPermissions(context.Background(), subject))
	assert.True(t, subject.Permissions.Has(Permission{Action: ActionCreateEvent, Scope: ClubScope(4)}))
}
