// Package model defines the domain entities for the club events system.
//
// Entities come in two forms: "new" values built by handlers (no id yet)
// and "refs" built by mapper finders (id set, other attributes loaded
// lazily through a Loader on first access). Lazy getters memoize, so a
// second access never costs a second store read.
package model

import "time"

// secondsPerSemester is the six-month bucket used to rate-limit funding
// applications to one per club per semester.
const secondsPerSemester = 15_778_476

// Entity is any persistable domain object with a store-allocated identity.
// An ID of zero means the entity has not been inserted yet.
type Entity interface {
	ID() int64
	SetID(id int64)
}

// record is the embedded identity base shared by all entities.
type record struct {
	id int64
}

func (r *record) ID() int64      { return r.id }
func (r *record) SetID(id int64) { r.id = id }

// UserKind distinguishes the two principal types that can hold a token.
type UserKind string

const (
	UserKindStudent UserKind = "student"
	UserKindFaculty UserKind = "facultyAdmin"
)

// SemesterAt returns the semester bucket containing t.
func SemesterAt(t time.Time) int {
	return int(t.Unix() / secondsPerSemester)
}
