package mapper

import (
	"context"

	"github.com/campusclub/clubhub/internal/model"
)

// StudentMapper persists students. The email column is unique; Insert
// surfaces a second registration as ErrDuplicate.
type StudentMapper struct {
	reg *Registry
}

func (m *StudentMapper) Insert(ctx context.Context, s *model.Student) error {
	name, err := s.Name(ctx)
	if err != nil {
		return err
	}
	email, err := s.Email(ctx)
	if err != nil {
		return err
	}
	hash, err := s.PasswordHash(ctx)
	if err != nil {
		return err
	}

	id, err := m.reg.insertReturning(ctx,
		"INSERT INTO students (name, email, password) VALUES ($1, $2, $3) RETURNING student_id",
		name, email, hash)
	if err != nil {
		return err
	}
	s.SetID(id)
	return nil
}

func (m *StudentMapper) Update(ctx context.Context, s *model.Student) error {
	name, err := s.Name(ctx)
	if err != nil {
		return err
	}
	email, err := s.Email(ctx)
	if err != nil {
		return err
	}
	hash, err := s.PasswordHash(ctx)
	if err != nil {
		return err
	}
	return m.reg.exec(ctx,
		"UPDATE students SET name = $1, email = $2, password = $3 WHERE student_id = $4",
		name, email, hash, s.ID())
}

func (m *StudentMapper) Delete(ctx context.Context, s *model.Student) error {
	return m.reg.exec(ctx, "DELETE FROM students WHERE student_id = $1", s.ID())
}

func (m *StudentMapper) Find(ctx context.Context, id int64) (*model.Student, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	var name, email, hash string
	err = conn.QueryRow(ctx, "SELECT name, email, password FROM students WHERE student_id = $1", id).
		Scan(&name, &email, &hash)
	if err != nil {
		return nil, wrap(err)
	}
	s := model.StudentRef(id, m.reg)
	s.SetName(name)
	s.SetEmail(email)
	s.SetPasswordHash(hash)
	return s, nil
}

// FindByEmail loads the full row, password hash included, for login.
func (m *StudentMapper) FindByEmail(ctx context.Context, email string) (*model.Student, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	var (
		id         int64
		name, hash string
	)
	err = conn.QueryRow(ctx, "SELECT student_id, name, password FROM students WHERE email = $1", email).
		Scan(&id, &name, &hash)
	if err != nil {
		return nil, wrap(err)
	}
	s := model.StudentRef(id, m.reg)
	s.SetName(name)
	s.SetEmail(email)
	s.SetPasswordHash(hash)
	return s, nil
}

// FindAdminsByClub returns the students administrating a club. The password
// hash stays unloaded.
func (m *StudentMapper) FindAdminsByClub(ctx context.Context, clubID int64) ([]*model.Student, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	rows, err := conn.Query(ctx,
		`SELECT s.student_id, s.name, s.email
		 FROM students s JOIN memberships m ON m.student_id = s.student_id
		 WHERE m.club_id = $1 ORDER BY s.student_id`, clubID)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var admins []*model.Student
	for rows.Next() {
		var (
			id          int64
			name, email string
		)
		if err := rows.Scan(&id, &name, &email); err != nil {
			return nil, wrap(err)
		}
		s := model.StudentRef(id, m.reg)
		s.SetName(name)
		s.SetEmail(email)
		admins = append(admins, s)
	}
	return admins, rows.Err()
}
