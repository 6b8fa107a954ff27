package mapper

import (
	"context"

	"github.com/campusclub/clubhub/internal/model"
)

// FacultyMapper persists faculty administrators. Faculty accounts are
// provisioned out of band, so there is no Insert path here.
type FacultyMapper struct {
	reg *Registry
}

func (m *FacultyMapper) Find(ctx context.Context, id int64) (*model.FacultyAdmin, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	var name, email, password string
	err = conn.QueryRow(ctx, "SELECT name, email, password FROM faculty_admins WHERE faculty_id = $1", id).
		Scan(&name, &email, &password)
	if err != nil {
		return nil, wrap(err)
	}
	f := model.NewFacultyAdmin(name, email, password)
	f.SetID(id)
	return f, nil
}

// FindByEmail loads the full row, password included, for login.
func (m *FacultyMapper) FindByEmail(ctx context.Context, email string) (*model.FacultyAdmin, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	var (
		id             int64
		name, password string
	)
	err = conn.QueryRow(ctx, "SELECT faculty_id, name, password FROM faculty_admins WHERE email = $1", email).
		Scan(&id, &name, &password)
	if err != nil {
		return nil, wrap(err)
	}
	f := model.NewFacultyAdmin(name, email, password)
	f.SetID(id)
	return f, nil
}
