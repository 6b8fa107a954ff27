package model

import "context"

// Student can RSVP to events and may administrate any number of clubs.
type Student struct {
	record
	loader Loader

	name         *string
	email        *string
	passwordHash *string
	clubs        []*StudentClub
	rsvps        []*Rsvp
}

// NewStudent builds a student that has not been persisted yet. The
// password must already be hashed.
func NewStudent(name, email, passwordHash string) *Student {
	return &Student{name: &name, email: &email, passwordHash: &passwordHash}
}

// StudentRef builds a stub whose attributes hydrate on first access.
func StudentRef(id int64, loader Loader) *Student {
	s := &Student{loader: loader}
	s.SetID(id)
	return s
}

func (s *Student) Name(ctx context.Context) (string, error) {
	if s.name == nil && s.loader != nil {
		v, err := s.loader.StudentName(ctx, s.ID())
		if err != nil {
			return "", err
		}
		s.name = &v
	}
	if s.name == nil {
		return "", nil
	}
	return *s.name, nil
}

func (s *Student) SetName(name string) { s.name = &name }

func (s *Student) Email(ctx context.Context) (string, error) {
	if s.email == nil && s.loader != nil {
		v, err := s.loader.StudentEmail(ctx, s.ID())
		if err != nil {
			return "", err
		}
		s.email = &v
	}
	if s.email == nil {
		return "", nil
	}
	return *s.email, nil
}

func (s *Student) SetEmail(email string) { s.email = &email }

func (s *Student) PasswordHash(ctx context.Context) (string, error) {
	if s.passwordHash == nil && s.loader != nil {
		v, err := s.loader.StudentPasswordHash(ctx, s.ID())
		if err != nil {
			return "", err
		}
		s.passwordHash = &v
	}
	if s.passwordHash == nil {
		return "", nil
	}
	return *s.passwordHash, nil
}

func (s *Student) SetPasswordHash(hash string) { s.passwordHash = &hash }

// Clubs returns the clubs this student administrates.
func (s *Student) Clubs(ctx context.Context) ([]*StudentClub, error) {
	if s.clubs == nil && s.loader != nil {
		clubs, err := s.loader.StudentClubs(ctx, s.ID())
		if err != nil {
			return nil, err
		}
		s.clubs = clubs
	}
	return s.clubs, nil
}

func (s *Student) Rsvps(ctx context.Context) ([]*Rsvp, error) {
	if s.rsvps == nil && s.loader != nil {
		rsvps, err := s.loader.StudentRsvps(ctx, s.ID())
		if err != nil {
			return nil, err
		}
		s.rsvps = rsvps
	}
	return s.rsvps, nil
}

// Equal reports identity equality for persisted students.
func (s *Student) Equal(other *Student) bool {
	return other != nil && s.ID() != 0 && s.ID() == other.ID()
}

// FacultyAdmin reviews funding applications submitted by clubs.
type FacultyAdmin struct {
	record
	loader Loader

	name     *string
	email    *string
	password *string
}

// NewFacultyAdmin builds a faculty admin that has not been persisted yet.
func NewFacultyAdmin(name, email, password string) *FacultyAdmin {
	return &FacultyAdmin{name: &name, email: &email, password: &password}
}

// FacultyRef builds a stub whose attributes hydrate on first access.
func FacultyRef(id int64, loader Loader) *FacultyAdmin {
	f := &FacultyAdmin{loader: loader}
	f.SetID(id)
	return f
}

func (f *FacultyAdmin) Name(ctx context.Context) (string, error) {
	if f.name == nil && f.loader != nil {
		v, err := f.loader.FacultyName(ctx, f.ID())
		if err != nil {
			return "", err
		}
		f.name = &v
	}
	if f.name == nil {
		return "", nil
	}
	return *f.name, nil
}

func (f *FacultyAdmin) Email(ctx context.Context) (string, error) {
	if f.email == nil && f.loader != nil {
		v, err := f.loader.FacultyEmail(ctx, f.ID())
		if err != nil {
			return "", err
		}
		f.email = &v
	}
	if f.email == nil {
		return "", nil
	}
	return *f.email, nil
}

// Password returns the stored password. Faculty accounts are provisioned
// out of band and compared verbatim at login.
func (f *FacultyAdmin) Password() string {
	if f.password == nil {
		return ""
	}
	return *f.password
}

func (f *FacultyAdmin) SetPassword(password string) { f.password = &password }
