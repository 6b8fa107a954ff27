package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusclub/clubhub/internal/auth"
	"github.com/campusclub/clubhub/internal/database"
	"github.com/campusclub/clubhub/internal/mapper"
)

// scripted connection: queries match by SQL substring, everything else is
// an empty result set.

type script map[string][][]any

type scriptConn struct {
	script script
	execs  []string
}

func (c *scriptConn) rowsFor(sql string) [][]any {
	for key, rows := range c.script {
		if strings.Contains(sql, key) {
			return rows
		}
	}
	return nil
}

func (c *scriptConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execs = append(c.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (c *scriptConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return &scriptRows{rows: c.rowsFor(sql)}, nil
}

func (c *scriptConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &scriptRow{rows: c.rowsFor(sql)}
}

func (c *scriptConn) Begin(ctx context.Context) (pgx.Tx, error) {
	return &scriptTx{conn: c}, nil
}

func (c *scriptConn) Close(ctx context.Context) error { return nil }

type scriptTx struct {
	pgx.Tx
	conn *scriptConn
}

func (t *scriptTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.conn.Exec(ctx, sql, args...)
}

func (t *scriptTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.conn.QueryRow(ctx, sql, args...)
}

func (t *scriptTx) Commit(ctx context.Context) error   { return nil }
func (t *scriptTx) Rollback(ctx context.Context) error { return nil }

type scriptRow struct {
	rows [][]any
}

func (r *scriptRow) Scan(dest ...any) error {
	if len(r.rows) == 0 {
		return pgx.ErrNoRows
	}
	return scanInto(dest, r.rows[0])
}

type scriptRows struct {
	pgx.Rows
	rows [][]any
	idx  int
}

func (r *scriptRows) Close()     {}
func (r *scriptRows) Err() error { return nil }

func (r *scriptRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *scriptRows) Scan(dest ...any) error {
	return scanInto(dest, r.rows[r.idx-1])
}

func scanInto(dest []any, row []any) error {
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations, %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		sv := reflect.ValueOf(row[i])
		switch {
		case sv.Type().AssignableTo(dv.Type()):
			dv.Set(sv)
		case dv.Kind() == reflect.Pointer && sv.Type().AssignableTo(dv.Type().Elem()):
			p := reflect.New(dv.Type().Elem())
			p.Elem().Set(sv)
			dv.Set(p)
		case sv.Type().ConvertibleTo(dv.Type()):
			dv.Set(sv.Convert(dv.Type()))
		default:
			return fmt.Errorf("scan: cannot assign %T to %s", row[i], dv.Type())
		}
	}
	return nil
}

func testHandler(t *testing.T, s script) (*Handler, *scriptConn) {
	t.Helper()
	conn := &scriptConn{script: s}
	pool := database.NewPool([]database.Handle{conn}, zerolog.Nop())
	reg := mapper.NewRegistry(pool, zerolog.Nop())
	enforcer := auth.NewEnforcer(auth.NewProvider(reg), zerolog.Nop())
	return New(reg, enforcer, zerolog.Nop()), conn
}

func serve(t *testing.T, h *Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Routes(zerolog.Nop(), "http://localhost:3000").ServeHTTP(rec, req)
	return rec
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	h, _ := testHandler(t, nil)

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "PUT, POST, GET, OPTIONS, DELETE", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "x-requested-with, Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestPreflightShortCircuits(t *testing.T) {
	h, _ := testHandler(t, nil)

	rec := serve(t, h, httptest.NewRequest(http.MethodOptions, "/events/create_event", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetEventBadID(t *testing.T) {
	h, _ := testHandler(t, nil)

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/events/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEventNotFound(t *testing.T) {
	h, _ := testHandler(t, nil)

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/events/7", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEventWithoutToken(t *testing.T) {
	h, _ := testHandler(t, nil)

	body := `{"event":{"title":"jam","venue":{"kind":"in-person","address":"hall","capacity":10}},"clubId":4}`
	req := httptest.NewRequest(http.MethodPost, "/events/create_event", strings.NewReader(body))
	rec := serve(t, h, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateEventForForeignClubIsForbidden(t *testing.T) {
	h, conn := testHandler(t, script{
		// The token belongs to student 1, who administrates no clubs.
		"FROM user_authorization": {{int64(1), nil}},
	})

	body := `{"event":{"title":"jam","venue":{"kind":"in-person","address":"hall","capacity":10}},"clubId":4,"token":"tok"}`
	req := httptest.NewRequest(http.MethodPost, "/events/create_event", strings.NewReader(body))
	rec := serve(t, h, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	for _, sql := range conn.execs {
		assert.NotContains(t, sql, "INSERT INTO events")
		assert.NotContains(t, sql, "INSERT INTO venues")
	}
}

func TestCreateEventRejectsNonPositiveCapacity(t *testing.T) {
	h, _ := testHandler(t, nil)

	body := `{"event":{"title":"jam","venue":{"capacity":0}},"clubId":4,"token":"tok"}`
	req := httptest.NewRequest(http.MethodPost, "/events/create_event", strings.NewReader(body))
	rec := serve(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	h, conn := testHandler(t, script{
		"FROM students WHERE email": {{int64(5), "Dana", string(hash)}},
	})

	body := `{"email":"dana@uni.edu","password":"hunter2"}`
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/student/login", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"studentID":5`)
	assert.Contains(t, rec.Body.String(), `"token"`)

	issued := false
	for _, sql := range conn.execs {
		if strings.Contains(sql, "INSERT INTO user_authorization") {
			issued = true
		}
	}
	assert.True(t, issued)
}

func TestStudentLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	h, _ := testHandler(t, script{
		"FROM students WHERE email": {{int64(5), "Dana", string(hash)}},
	})

	body := `{"email":"dana@uni.edu","password":"wrong"}`
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/student/login", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutUnknownToken(t *testing.T) {
	h, _ := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/student/logout", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := serve(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutMissingToken(t *testing.T) {
	h, _ := testHandler(t, nil)

	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/student/logout", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFundingWrongStatus(t *testing.T) {
	h, _ := testHandler(t, script{
		"FROM funding_applications": {
			{int64(3), "speakers", 250.0, "APPROVED", 117, int64(4), nil, 1},
		},
	})

	body := `{"applicationId":3,"description":"more speakers","amount":300}`
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/fundingApplication/updateFunding", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "APPROVED")
}

func TestCancelRsvpAfterEventStart(t *testing.T) {
	h, _ := testHandler(t, script{
		"FROM rsvps WHERE rsvp_id":     {{int64(2), int64(5), int64(7), time.UnixMilli(0), false}},
		"SELECT starts_at FROM events": {{time.UnixMilli(1000)}},
	})

	body := `{"rsvpID":2}`
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/rsvp/cancel", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already started")
}

func TestCreateRsvpRejectsFullEvent(t *testing.T) {
	// Capacity 2, two live reservations already: one more must not fit.
	h, conn := testHandler(t, script{
		"cancelled, version FROM events": {{int64(7), "jam", "", 2, int64(3), time.UnixMilli(0), int64(4), false, 0}},
		"FROM students WHERE email":      {{int64(5), "Dana", "x"}},
		"SELECT capacity FROM venues":    {{2}},
		"count(*) FROM rsvps":            {{2}},
		"count(*) FROM tickets":          {{0}},
	})

	body := `{"eventID":7,"RSVPData":{"rsvp":{"email":"dana@uni.edu"}}}`
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/rsvp/create", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "event is full")
	for _, sql := range conn.execs {
		assert.NotContains(t, sql, "INSERT INTO rsvps")
	}
}

func TestCreateRsvpCountsGuestsAgainstCapacity(t *testing.T) {
	// Capacity 3, empty event: the reservation fits alone but not with
	// three guest tickets.
	h, conn := testHandler(t, script{
		"cancelled, version FROM events": {{int64(7), "jam", "", 0, int64(3), time.UnixMilli(0), int64(4), false, 0}},
		"FROM students WHERE email":      {{int64(5), "Dana", "x"}},
		"SELECT capacity FROM venues":    {{3}},
		"count(*) FROM rsvps":            {{0}},
		"count(*) FROM tickets":          {{0}},
	})

	body := `{"eventID":7,"RSVPData":{"rsvp":{"email":"dana@uni.edu"},"email1":"a@uni.edu","email2":"b@uni.edu","email3":"c@uni.edu"}}`
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/rsvp/create", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "event is full")
	for _, sql := range conn.execs {
		assert.NotContains(t, sql, "INSERT INTO rsvps")
		assert.NotContains(t, sql, "INSERT INTO tickets")
	}
}

func TestCreateRsvpRejectsDuplicate(t *testing.T) {
	h, conn := testHandler(t, script{
		"cancelled, version FROM events":    {{int64(7), "jam", "", 1, int64(3), time.UnixMilli(0), int64(4), false, 0}},
		"FROM students WHERE email":         {{int64(5), "Dana", "x"}},
		"student_id = $2 AND NOT cancelled": {{int64(2), int64(5), int64(7), time.UnixMilli(0), false}},
	})

	body := `{"eventID":7,"RSVPData":{"rsvp":{"email":"dana@uni.edu"}}}`
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/rsvp/create", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate RSVP")
	for _, sql := range conn.execs {
		assert.NotContains(t, sql, "INSERT INTO rsvps")
	}
}

func TestModifyEventRejectsCapacityBelowAttendees(t *testing.T) {
	h, conn := testHandler(t, script{
		"FROM user_authorization":        {{int64(1), nil}},
		"cancelled, version FROM events": {{int64(7), "jam", "", 5, int64(3), time.UnixMilli(0), int64(4), false, 0}},
	})

	body := `{"id":7,"event":{"title":"jam","venue":{"kind":"in-person","address":"hall","capacity":1}},"token":"tok"}`
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/events/modify_event", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	for _, sql := range conn.execs {
		assert.NotContains(t, sql, "UPDATE events")
		assert.NotContains(t, sql, "INSERT INTO venues")
	}
}

func TestCreateFundingRejectsSecondApplicationInSemester(t *testing.T) {
	h, conn := testHandler(t, script{
		"FROM student_clubs WHERE club_id": {{"chess", "board games"}},
		"SELECT EXISTS":                    {{true}},
	})

	body := `{"clubId":4,"funding":{"amount":250,"description":"speakers"}}`
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/fundingApplication/createFunding", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already has an application")
	for _, sql := range conn.execs {
		assert.NotContains(t, sql, "INSERT INTO funding_applications")
	}
}

func TestAddAdminRejectsExistingAdmin(t *testing.T) {
	h, conn := testHandler(t, script{
		"FROM user_authorization":          {{int64(1), nil}},
		"FROM student_clubs WHERE club_id": {{"chess", "board games"}},
		"FROM students WHERE email":        {{int64(9), "Maya", "x"}},
		"WHERE m.student_id":               {{int64(4), "chess", "board games"}},
		"WHERE m.club_id":                  {{int64(9), "Maya", "maya@uni.edu"}},
	})

	body := `{"admin":{"email":"maya@uni.edu"},"clubId":4,"token":"tok"}`
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/studentAdmin/addAdmin", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already an admin")
	for _, sql := range conn.execs {
		assert.NotContains(t, sql, "INSERT INTO memberships")
	}
}

func TestMyClubsRequiresEmail(t *testing.T) {
	h, _ := testHandler(t, nil)

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/studentAdmin/myClubs", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
