package mapper

import (
	"context"

	"github.com/campusclub/clubhub/internal/model"
)

// TokenStore maps opaque login tokens to a user. Tokens have no version
// column; the last writer wins.
type TokenStore struct {
	reg *Registry
}

// InsertToken records a freshly issued token for a student or a faculty
// admin, depending on kind.
func (s *TokenStore) InsertToken(ctx context.Context, userID int64, token string, kind model.UserKind) error {
	if kind == model.UserKindFaculty {
		return s.reg.exec(ctx,
			"INSERT INTO user_authorization (token, faculty_id) VALUES ($1, $2)", token, userID)
	}
	return s.reg.exec(ctx,
		"INSERT INTO user_authorization (token, student_id) VALUES ($1, $2)", token, userID)
}

// FindUserIDByToken resolves a token to the owning user's id.
func (s *TokenStore) FindUserIDByToken(ctx context.Context, token string) (int64, error) {
	id, _, err := s.lookup(ctx, token)
	return id, err
}

// FindUserKindByToken resolves a token to the owning user's kind.
func (s *TokenStore) FindUserKindByToken(ctx context.Context, token string) (model.UserKind, error) {
	_, kind, err := s.lookup(ctx, token)
	return kind, err
}

// FindUser resolves a token in one round trip.
func (s *TokenStore) FindUser(ctx context.Context, token string) (int64, model.UserKind, error) {
	return s.lookup(ctx, token)
}

func (s *TokenStore) lookup(ctx context.Context, token string) (int64, model.UserKind, error) {
	conn, err := s.reg.pool.Acquire()
	if err != nil {
		return 0, "", err
	}
	defer s.reg.pool.Release(conn)

	var studentID, facultyID *int64
	err = conn.QueryRow(ctx,
		"SELECT student_id, faculty_id FROM user_authorization WHERE token = $1", token).
		Scan(&studentID, &facultyID)
	if err != nil {
		return 0, "", wrap(err)
	}
	if facultyID != nil {
		return *facultyID, model.UserKindFaculty, nil
	}
	if studentID != nil {
		return *studentID, model.UserKindStudent, nil
	}
	return 0, "", ErrNotFound
}

// DeleteToken invalidates a token. Deleting an unknown token is not an
// error.
func (s *TokenStore) DeleteToken(ctx context.Context, token string) error {
	return s.reg.exec(ctx, "DELETE FROM user_authorization WHERE token = $1", token)
}
