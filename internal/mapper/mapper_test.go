package mapper

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusclub/clubhub/internal/database"
	"github.com/campusclub/clubhub/internal/model"
)

func testRegistry(conn *fakeConn) *Registry {
	pool := database.NewPool([]database.Handle{conn}, zerolog.Nop())
	return NewRegistry(pool, zerolog.Nop())
}

func execContaining(conn *fakeConn, fragment string) bool {
	for _, sql := range conn.execs {
		if strings.Contains(sql, fragment) {
			return true
		}
	}
	return false
}

func TestEventUpdateBumpsVersion(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{
		"SELECT version FROM events": {rows: [][]any{{3}}},
	}}
	reg := testRegistry(conn)

	e := model.EventRefVersion(7, 3, nil)
	e.SetTitle("robotics showcase")
	e.SetDescription("demo night")
	e.SetAttendees(12)
	e.SetStartsAt(time.Now().Add(time.Hour).UnixMilli())
	e.SetCancelled(false)
	e.SetVenue(model.VenueRef(11, nil))

	require.NoError(t, reg.Events.Update(context.Background(), e))

	v, err := e.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.True(t, conn.tx.committed)
	assert.True(t, execContaining(conn, "UPDATE events"))
}

func TestEventUpdateVersionMismatch(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{
		"SELECT version FROM events": {rows: [][]any{{5}}},
	}}
	reg := testRegistry(conn)

	e := model.EventRefVersion(7, 3, nil)
	e.SetVenue(model.VenueRef(11, nil))

	err := reg.Events.Update(context.Background(), e)
	assert.ErrorIs(t, err, ErrConcurrent)
	assert.True(t, conn.tx.rolledBack)
	assert.False(t, execContaining(conn, "UPDATE events"))

	// The entity still carries the version the caller observed.
	v, verr := e.Version(context.Background())
	require.NoError(t, verr)
	assert.Equal(t, 3, v)
}

func TestEventUpdateAfterDeletion(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{}}
	reg := testRegistry(conn)

	e := model.EventRefVersion(7, 3, nil)
	e.SetVenue(model.VenueRef(11, nil))

	err := reg.Events.Update(context.Background(), e)
	assert.ErrorIs(t, err, ErrConcurrent)
	assert.Contains(t, err.Error(), "deletion")
}

func TestVenueInsertSetsID(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{
		"INSERT INTO venues": {rows: [][]any{{int64(11)}}},
	}}
	reg := testRegistry(conn)

	v := model.NewVenue(model.VenueInPerson, "main hall", 50)
	require.NoError(t, reg.Venues.Insert(context.Background(), v))
	assert.Equal(t, int64(11), v.ID())
}

func TestStudentInsertDuplicateEmail(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{
		"INSERT INTO students": {err: &pgconn.PgError{Code: "23505", ConstraintName: "students_email_key"}},
	}}
	reg := testRegistry(conn)

	s := model.NewStudent("Sam", "sam@uni.edu", "hash")
	err := reg.Students.Insert(context.Background(), s)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Zero(t, s.ID())
}

func TestFindMissingEventIsNotFound(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{}}
	reg := testRegistry(conn)

	_, err := reg.Events.Find(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenLookup(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{
		"FROM user_authorization": {rows: [][]any{{int64(42), nil}}},
	}}
	reg := testRegistry(conn)

	require.NoError(t, reg.Tokens.InsertToken(context.Background(), 42, "tok", model.UserKindStudent))
	assert.True(t, execContaining(conn, "INSERT INTO user_authorization (token, student_id)"))

	id, kind, err := reg.Tokens.FindUser(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, model.UserKindStudent, kind)

	require.NoError(t, reg.Tokens.DeleteToken(context.Background(), "tok"))
	assert.True(t, execContaining(conn, "DELETE FROM user_authorization"))
}

func TestFacultyTokenKind(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{
		"FROM user_authorization": {rows: [][]any{{nil, int64(9)}}},
	}}
	reg := testRegistry(conn)

	kind, err := reg.Tokens.FindUserKindByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, model.UserKindFaculty, kind)
}

func TestUnknownTokenIsNotFound(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{}}
	reg := testRegistry(conn)

	_, err := reg.Tokens.FindUserIDByToken(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPoolExhaustionSurfaces(t *testing.T) {
	pool := database.NewPool(nil, zerolog.Nop())
	reg := NewRegistry(pool, zerolog.Nop())

	_, err := reg.Events.Find(context.Background(), 1)
	assert.ErrorIs(t, err, database.ErrNoConnection)
}

func TestOperationsReleaseTheConnection(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{
		"INSERT INTO venues": {rows: [][]any{{int64(1)}}},
	}}
	reg := testRegistry(conn)

	for i := 0; i < 3; i++ {
		v := model.NewVenue(model.VenueOnline, "", 10)
		require.NoError(t, reg.Venues.Insert(context.Background(), v))
	}
}

func TestClubUpdateRewritesMemberships(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{}}
	reg := testRegistry(conn)

	club := model.NewClub("chess", "openings and endgames")
	club.SetID(4)
	require.NoError(t, club.AddAdmin(context.Background(), model.StudentRef(1, nil)))
	require.NoError(t, club.AddAdmin(context.Background(), model.StudentRef(2, nil)))

	require.NoError(t, reg.Clubs.Update(context.Background(), club))

	assert.True(t, execContaining(conn, "UPDATE student_clubs"))
	assert.True(t, execContaining(conn, "DELETE FROM memberships"))
	inserts := 0
	for _, sql := range conn.execs {
		if strings.Contains(sql, "INSERT INTO memberships") {
			inserts++
		}
	}
	assert.Equal(t, 2, inserts)
	assert.True(t, conn.tx.committed)
}

func TestFundingScanRejectsUnknownStatus(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{
		"FROM funding_applications": {rows: [][]any{
			{int64(1), "speakers", 250.0, "MAYBE", 117, int64(4), nil, 0},
		}},
	}}
	reg := testRegistry(conn)

	_, err := reg.Funding.Find(context.Background(), 1)
	assert.Error(t, err)
}

func TestFundingFindLoadsRow(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeResult{
		"FROM funding_applications": {rows: [][]any{
			{int64(1), "speakers", 250.0, "SUBMITTED", 117, int64(4), nil, 0},
		}},
	}}
	reg := testRegistry(conn)

	f, err := reg.Funding.Find(context.Background(), 1)
	require.NoError(t, err)

	ctx := context.Background()
	state, err := f.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.FundingSubmitted, state)

	reviewer, err := f.Reviewer(ctx)
	require.NoError(t, err)
	assert.Nil(t, reviewer)

	v, err := f.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}
