package model

import "context"

// StudentClub owns events and funding applications and is run by a set of
// administrating students.
type StudentClub struct {
	record
	loader Loader

	name        *string
	description *string
	admins      []*Student
	events      []*Event
	funding     []*FundingApplication
}

// NewClub builds a club that has not been persisted yet.
func NewClub(name, description string) *StudentClub {
	return &StudentClub{name: &name, description: &description}
}

// ClubRef builds a stub whose attributes hydrate on first access.
func ClubRef(id int64, loader Loader) *StudentClub {
	c := &StudentClub{loader: loader}
	c.SetID(id)
	return c
}

func (c *StudentClub) Name(ctx context.Context) (string, error) {
	if c.name == nil && c.loader != nil {
		v, err := c.loader.ClubName(ctx, c.ID())
		if err != nil {
			return "", err
		}
		c.name = &v
	}
	if c.name == nil {
		return "", nil
	}
	return *c.name, nil
}

func (c *StudentClub) SetName(name string) { c.name = &name }

func (c *StudentClub) Description(ctx context.Context) (string, error) {
	if c.description == nil && c.loader != nil {
		v, err := c.loader.ClubDescription(ctx, c.ID())
		if err != nil {
			return "", err
		}
		c.description = &v
	}
	if c.description == nil {
		return "", nil
	}
	return *c.description, nil
}

func (c *StudentClub) SetDescription(description string) { c.description = &description }

// Admins returns the administrating students, hydrating on first access.
func (c *StudentClub) Admins(ctx context.Context) ([]*Student, error) {
	if c.admins == nil && c.loader != nil {
		admins, err := c.loader.ClubAdmins(ctx, c.ID())
		if err != nil {
			return nil, err
		}
		c.admins = admins
	}
	return c.admins, nil
}

// HasAdmin reports whether the student is already an admin of this club.
func (c *StudentClub) HasAdmin(ctx context.Context, student *Student) (bool, error) {
	admins, err := c.Admins(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range admins {
		if a.Equal(student) {
			return true, nil
		}
	}
	return false, nil
}

// AddAdmin appends a student to the loaded admin set.
func (c *StudentClub) AddAdmin(ctx context.Context, student *Student) error {
	admins, err := c.Admins(ctx)
	if err != nil {
		return err
	}
	c.admins = append(admins, student)
	return nil
}

// RemoveAdmin drops a student from the loaded admin set.
func (c *StudentClub) RemoveAdmin(ctx context.Context, student *Student) error {
	admins, err := c.Admins(ctx)
	if err != nil {
		return err
	}
	kept := admins[:0]
	for _, a := range admins {
		if !a.Equal(student) {
			kept = append(kept, a)
		}
	}
	c.admins = kept
	return nil
}

func (c *StudentClub) Events(ctx context.Context) ([]*Event, error) {
	if c.events == nil && c.loader != nil {
		events, err := c.loader.ClubEvents(ctx, c.ID())
		if err != nil {
			return nil, err
		}
		c.events = events
	}
	return c.events, nil
}

func (c *StudentClub) FundingApplications(ctx context.Context) ([]*FundingApplication, error) {
	if c.funding == nil && c.loader != nil {
		funding, err := c.loader.ClubFundingApplications(ctx, c.ID())
		if err != nil {
			return nil, err
		}
		c.funding = funding
	}
	return c.funding, nil
}
