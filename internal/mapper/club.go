package mapper

import (
	"context"

	"github.com/campusclub/clubhub/internal/model"
)

// ClubMapper persists student clubs together with their admin memberships.
type ClubMapper struct {
	reg *Registry
}

func (m *ClubMapper) Insert(ctx context.Context, c *model.StudentClub) error {
	name, err := c.Name(ctx)
	if err != nil {
		return err
	}
	description, err := c.Description(ctx)
	if err != nil {
		return err
	}

	id, err := m.reg.insertReturning(ctx,
		"INSERT INTO student_clubs (name, description) VALUES ($1, $2) RETURNING club_id",
		name, description)
	if err != nil {
		return err
	}
	c.SetID(id)
	return nil
}

// Update rewrites the club row and its whole membership set from the loaded
// admin list. Running both in one transaction keeps add/remove-admin atomic.
func (m *ClubMapper) Update(ctx context.Context, c *model.StudentClub) error {
	name, err := c.Name(ctx)
	if err != nil {
		return err
	}
	description, err := c.Description(ctx)
	if err != nil {
		return err
	}
	admins, err := c.Admins(ctx)
	if err != nil {
		return err
	}

	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return err
	}
	defer m.reg.pool.Release(conn)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		"UPDATE student_clubs SET name = $1, description = $2 WHERE club_id = $3",
		name, description, c.ID()); err != nil {
		return wrap(err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM memberships WHERE club_id = $1", c.ID()); err != nil {
		return wrap(err)
	}
	for _, admin := range admins {
		if _, err := tx.Exec(ctx,
			"INSERT INTO memberships (student_id, club_id) VALUES ($1, $2)",
			admin.ID(), c.ID()); err != nil {
			return wrap(err)
		}
	}
	return tx.Commit(ctx)
}

func (m *ClubMapper) Delete(ctx context.Context, c *model.StudentClub) error {
	return m.reg.exec(ctx, "DELETE FROM student_clubs WHERE club_id = $1", c.ID())
}

func (m *ClubMapper) Find(ctx context.Context, id int64) (*model.StudentClub, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	var name, description string
	err = conn.QueryRow(ctx, "SELECT name, description FROM student_clubs WHERE club_id = $1", id).
		Scan(&name, &description)
	if err != nil {
		return nil, wrap(err)
	}
	c := model.ClubRef(id, m.reg)
	c.SetName(name)
	c.SetDescription(description)
	return c, nil
}

// FindByStudent returns the clubs a student administrates, in membership
// insertion order by club id.
func (m *ClubMapper) FindByStudent(ctx context.Context, studentID int64) ([]*model.StudentClub, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	rows, err := conn.Query(ctx,
		`SELECT c.club_id, c.name, c.description
		 FROM student_clubs c JOIN memberships m ON m.club_id = c.club_id
		 WHERE m.student_id = $1 ORDER BY c.club_id`, studentID)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var clubs []*model.StudentClub
	for rows.Next() {
		var (
			id                int64
			name, description string
		)
		if err := rows.Scan(&id, &name, &description); err != nil {
			return nil, wrap(err)
		}
		c := model.ClubRef(id, m.reg)
		c.SetName(name)
		c.SetDescription(description)
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}
