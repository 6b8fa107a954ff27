package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrForbidden is returned by Authorize when the subject lacks the
// required permission. Handlers translate it to a 403.
var ErrForbidden = errors.New("forbidden")

// RequestContext carries who is acting and what permission the operation
// demands.
type RequestContext struct {
	Subject    *Subject
	Permission Permission
}

// Enforcer loads subjects' permissions and gates privileged operations.
type Enforcer struct {
	provider *Provider
	log      zerolog.Logger
}

func NewEnforcer(provider *Provider, log zerolog.Logger) *Enforcer {
	return &Enforcer{provider: provider, log: log}
}

// LoadPermissions fills the subject's permission set from the provider.
// Already-populated subjects are left alone.
func (e *Enforcer) LoadPermissions(ctx context.Context, subject *Subject) error {
	if subject.Permissions != nil {
		return nil
	}
	perms, err := e.provider.PermissionsFor(ctx, subject.User)
	if err != nil {
		return err
	}
	subject.Permissions = perms
	return nil
}

// IsAuthorized reports whether the subject holds the exact permission.
func (e *Enforcer) IsAuthorized(rctx RequestContext) bool {
	return rctx.Subject != nil && rctx.Subject.Permissions.Has(rctx.Permission)
}

// Authorize runs fn only when the subject holds the required permission,
// loading the permission set first when needed. A denied call performs no
// side effects and returns ErrForbidden.
func Authorize(ctx context.Context, e *Enforcer, rctx RequestContext, fn func(context.Context) error) error {
	if rctx.Subject == nil {
		return ErrForbidden
	}
	if err := e.LoadPermissions(ctx, rctx.Subject); err != nil {
		return err
	}
	if !e.IsAuthorized(rctx) {
		e.log.Warn().
			Str("user", string(rctx.Subject.User.Kind)).
			Int64("id", rctx.Subject.User.ID).
			Stringer("permission", rctx.Permission).
			Msg("authorization denied")
		return ErrForbidden
	}
	return fn(ctx)
}
