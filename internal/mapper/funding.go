package mapper

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/campusclub/clubhub/internal/model"
)

const fundingColumns = "application_id, description, amount, status, semester, club_id, reviewer_id, version"

// FundingMapper persists funding applications. Like events they carry a
// version column checked on every update.
type FundingMapper struct {
	reg *Registry
}

func (m *FundingMapper) scan(row pgx.Row) (*model.FundingApplication, error) {
	var (
		id, clubID        int64
		description, raw  string
		amount            float64
		semester, version int
		reviewerID        *int64
	)
	err := row.Scan(&id, &description, &amount, &raw, &semester, &clubID, &reviewerID, &version)
	if err != nil {
		return nil, wrap(err)
	}
	status, err := model.ParseFundingStatus(raw)
	if err != nil {
		return nil, err
	}
	f := model.FundingRef(id, m.reg)
	f.SetDescription(description)
	f.SetAmount(amount)
	f.SetState(status)
	f.SetSemester(semester)
	f.SetClubID(clubID)
	f.SetVersion(version)
	if reviewerID != nil {
		f.SetReviewer(*reviewerID)
	} else {
		f.SetReviewer(0)
	}
	return f, nil
}

func (m *FundingMapper) Insert(ctx context.Context, f *model.FundingApplication) error {
	description, err := f.Description(ctx)
	if err != nil {
		return err
	}
	amount, err := f.Amount(ctx)
	if err != nil {
		return err
	}
	status, err := f.State(ctx)
	if err != nil {
		return err
	}
	semester, err := f.Semester(ctx)
	if err != nil {
		return err
	}
	club, err := f.Club(ctx)
	if err != nil {
		return err
	}

	id, err := m.reg.insertReturning(ctx,
		`INSERT INTO funding_applications (description, amount, status, semester, club_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING application_id`,
		description, amount, string(status), semester, club.ID())
	if err != nil {
		return err
	}
	f.SetID(id)
	f.SetVersion(0)
	return nil
}

func (m *FundingMapper) Update(ctx context.Context, f *model.FundingApplication) error {
	description, err := f.Description(ctx)
	if err != nil {
		return err
	}
	amount, err := f.Amount(ctx)
	if err != nil {
		return err
	}
	status, err := f.State(ctx)
	if err != nil {
		return err
	}
	reviewer, err := f.Reviewer(ctx)
	if err != nil {
		return err
	}
	version, err := f.Version(ctx)
	if err != nil {
		return err
	}

	var reviewerID *int64
	if reviewer != nil {
		id := reviewer.ID()
		reviewerID = &id
	}

	err = m.reg.updateVersioned(ctx, "funding_applications", "application_id", f.ID(), version, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`UPDATE funding_applications
			 SET description = $1, amount = $2, status = $3, reviewer_id = $4, version = $5
			 WHERE application_id = $6`,
			description, amount, string(status), reviewerID, version+1, f.ID())
		return err
	})
	if err != nil {
		return err
	}
	f.SetVersion(version + 1)
	return nil
}

func (m *FundingMapper) Delete(ctx context.Context, f *model.FundingApplication) error {
	return m.reg.exec(ctx, "DELETE FROM funding_applications WHERE application_id = $1", f.ID())
}

func (m *FundingMapper) Find(ctx context.Context, id int64) (*model.FundingApplication, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	return m.scan(conn.QueryRow(ctx,
		"SELECT "+fundingColumns+" FROM funding_applications WHERE application_id = $1", id))
}

// LiveExistsForSemester reports whether the club already has a
// non-cancelled application in the semester bucket.
func (m *FundingMapper) LiveExistsForSemester(ctx context.Context, clubID int64, semester int) (bool, error) {
	return scalar[bool](ctx, m.reg,
		`SELECT EXISTS (SELECT 1 FROM funding_applications
		 WHERE club_id = $1 AND semester = $2 AND status <> 'CANCELLED')`,
		clubID, semester)
}

func (m *FundingMapper) FindByClub(ctx context.Context, clubID int64) ([]*model.FundingApplication, error) {
	return m.query(ctx,
		"SELECT "+fundingColumns+" FROM funding_applications WHERE club_id = $1 ORDER BY application_id", clubID)
}

func (m *FundingMapper) FindAll(ctx context.Context) ([]*model.FundingApplication, error) {
	return m.query(ctx, "SELECT "+fundingColumns+" FROM funding_applications ORDER BY application_id")
}

func (m *FundingMapper) query(ctx context.Context, query string, args ...any) ([]*model.FundingApplication, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var apps []*model.FundingApplication
	for rows.Next() {
		f, err := m.scan(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, f)
	}
	return apps, rows.Err()
}
