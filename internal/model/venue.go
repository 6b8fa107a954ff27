package model

import "context"

// VenueKind says whether an event is held online or at a street address.
type VenueKind string

const (
	VenueOnline   VenueKind = "online"
	VenueInPerson VenueKind = "in-person"
)

// ParseVenueKind maps a request string to a kind, defaulting to in-person.
func ParseVenueKind(s string) VenueKind {
	if s == string(VenueOnline) {
		return VenueOnline
	}
	return VenueInPerson
}

// Venue is exclusively owned by the event that references it; creating or
// modifying an event always inserts a fresh venue row.
type Venue struct {
	record
	loader Loader

	kind     *VenueKind
	address  *string
	capacity *int
}

// NewVenue builds a venue that has not been persisted yet.
func NewVenue(kind VenueKind, address string, capacity int) *Venue {
	return &Venue{kind: &kind, address: &address, capacity: &capacity}
}

// VenueRef builds a stub whose attributes hydrate on first access.
func VenueRef(id int64, loader Loader) *Venue {
	v := &Venue{loader: loader}
	v.SetID(id)
	return v
}

func (v *Venue) Kind(ctx context.Context) (VenueKind, error) {
	if v.kind == nil && v.loader != nil {
		k, err := v.loader.VenueKindOf(ctx, v.ID())
		if err != nil {
			return "", err
		}
		v.kind = &k
	}
	if v.kind == nil {
		return "", nil
	}
	return *v.kind, nil
}

func (v *Venue) SetKind(kind VenueKind) { v.kind = &kind }

func (v *Venue) Address(ctx context.Context) (string, error) {
	if v.address == nil && v.loader != nil {
		a, err := v.loader.VenueAddress(ctx, v.ID())
		if err != nil {
			return "", err
		}
		v.address = &a
	}
	if v.address == nil {
		return "", nil
	}
	return *v.address, nil
}

func (v *Venue) SetAddress(address string) { v.address = &address }

func (v *Venue) Capacity(ctx context.Context) (int, error) {
	if v.capacity == nil && v.loader != nil {
		c, err := v.loader.VenueCapacity(ctx, v.ID())
		if err != nil {
			return 0, err
		}
		v.capacity = &c
	}
	if v.capacity == nil {
		return 0, nil
	}
	return *v.capacity, nil
}

func (v *Venue) SetCapacity(capacity int) { v.capacity = &capacity }
