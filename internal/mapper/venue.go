package mapper

import (
	"context"

	"github.com/campusclub/clubhub/internal/model"
)

// VenueMapper persists venues. Venues are exclusively owned by one event,
// so there are no shared-reference finders.
type VenueMapper struct {
	reg *Registry
}

func (m *VenueMapper) Insert(ctx context.Context, v *model.Venue) error {
	kind, err := v.Kind(ctx)
	if err != nil {
		return err
	}
	address, err := v.Address(ctx)
	if err != nil {
		return err
	}
	capacity, err := v.Capacity(ctx)
	if err != nil {
		return err
	}

	id, err := m.reg.insertReturning(ctx,
		"INSERT INTO venues (kind, address, capacity) VALUES ($1, $2, $3) RETURNING venue_id",
		string(kind), address, capacity)
	if err != nil {
		return err
	}
	v.SetID(id)
	return nil
}

func (m *VenueMapper) Update(ctx context.Context, v *model.Venue) error {
	kind, err := v.Kind(ctx)
	if err != nil {
		return err
	}
	address, err := v.Address(ctx)
	if err != nil {
		return err
	}
	capacity, err := v.Capacity(ctx)
	if err != nil {
		return err
	}
	return m.reg.exec(ctx,
		"UPDATE venues SET kind = $1, address = $2, capacity = $3 WHERE venue_id = $4",
		string(kind), address, capacity, v.ID())
}

func (m *VenueMapper) Delete(ctx context.Context, v *model.Venue) error {
	return m.reg.exec(ctx, "DELETE FROM venues WHERE venue_id = $1", v.ID())
}

func (m *VenueMapper) Find(ctx context.Context, id int64) (*model.Venue, error) {
	conn, err := m.reg.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer m.reg.pool.Release(conn)

	var (
		kind, address string
		capacity      int
	)
	err = conn.QueryRow(ctx, "SELECT kind, address, capacity FROM venues WHERE venue_id = $1", id).
		Scan(&kind, &address, &capacity)
	if err != nil {
		return nil, wrap(err)
	}
	v := model.VenueRef(id, m.reg)
	v.SetKind(model.ParseVenueKind(kind))
	v.SetAddress(address)
	v.SetCapacity(capacity)
	return v, nil
}
