// Package auth models who may do what: permissions scoped to clubs, a
// subject carrying a permission set, a provider that derives the set from
// the user, and an enforcer gate handlers run privileged work behind.
package auth

import "fmt"

// Action is a permission kind.
type Action string

const (
	ActionCreateEvent    Action = "CREATE_EVENT"
	ActionModifyEvent    Action = "MODIFY_EVENT"
	ActionDeleteEvent    Action = "DELETE_EVENT"
	ActionAddAdmin       Action = "ADD_ADMIN"
	ActionRemoveAdmin    Action = "REMOVE_ADMIN"
	ActionViewFunding    Action = "VIEW_FUNDING"
	ActionCreateFunding  Action = "CREATE_FUNDING"
	ActionApproveFunding Action = "APPROVE_FUNDING"
	ActionRejectFunding  Action = "REJECT_FUNDING"
)

// clubAdminActions are granted per administrated club to its student admins.
var clubAdminActions = []Action{
	ActionCreateEvent,
	ActionModifyEvent,
	ActionDeleteEvent,
	ActionViewFunding,
	ActionCreateFunding,
	ActionAddAdmin,
	ActionRemoveAdmin,
}

// Scope is either one specific club or every club. The zero value is not a
// valid scope; construct through AnyClub or ClubScope.
type Scope struct {
	any    bool
	clubID int64
}

// AnyClub returns the scope covering all clubs.
func AnyClub() Scope { return Scope{any: true} }

// ClubScope returns the scope covering a single club.
func ClubScope(clubID int64) Scope { return Scope{clubID: clubID} }

func (s Scope) String() string {
	if s.any {
		return "any club"
	}
	return fmt.Sprintf("club %d", s.clubID)
}

// Permission pairs an action with the scope it applies to. Permissions
// compare by value on both fields.
type Permission struct {
	Action Action
	Scope  Scope
}

func (p Permission) String() string {
	return fmt.Sprintf("%s @ %s", p.Action, p.Scope)
}

// Set is an unordered permission set. Membership is exact: holding an
// action at AnyClub does not imply holding it at a specific club, and vice
// versa. The provider adds the right scoped entries instead.
type Set map[Permission]struct{}

func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s.Add(p)
	}
	return s
}

func (s Set) Add(p Permission) { s[p] = struct{}{} }

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}
