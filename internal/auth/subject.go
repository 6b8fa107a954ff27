package auth

import "github.com/campusclub/clubhub/internal/model"

// UserRef identifies the authenticated principal behind a token.
type UserRef struct {
	Kind model.UserKind
	ID   int64
}

// Subject is a user together with the permissions loaded for it. A subject
// starts unpopulated; the enforcer fills Permissions before any check.
type Subject struct {
	User        UserRef
	Permissions Set
}

// NewSubject builds an unpopulated subject for the given user.
func NewSubject(user UserRef) *Subject {
	return &Subject{User: user}
}
