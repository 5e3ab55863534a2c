package authz

import (
	"errors"
	"fmt"

	"banban-schedule-api/internal/model"
)

var (
	// ErrInvalidRole means a rank or permission set was requested for a role
	// the hierarchy does not define. This is a configuration error, not a
	// user error.
	ErrInvalidRole = errors.New("invalid role")

	// ErrUnauthorized means the actor lacks the role rank or permission
	// token required for an operation. Checks run before any mutation.
	ErrUnauthorized = errors.New("unauthorized")
)

// Authorizer answers permission and role-rank questions for an actor. It is
// built once from the static role tables and is immutable afterwards.
type Authorizer struct {
	ranks       map[model.Role]int
	permissions map[model.Role]map[string]struct{}
	override    *model.Role // test harness only, never set in production wiring
}

// Option configures the authorizer.
type Option func(*Authorizer)

// WithRoleOverride forces every actor to be evaluated as the given role.
// It exists for the tester role-switch harness and for tests; production
// wiring never passes it.
func WithRoleOverride(role model.Role) Option {
	return func(a *Authorizer) { a.override = &role }
}

// New builds an authorizer from the role hierarchy and permission table,
// verifying that every defined role has both a rank and a permission set.
// A gap in either table fails construction rather than silently granting
// or denying later.
func New(opts ...Option) (*Authorizer, error) {
	a := &Authorizer{
		ranks:       make(map[model.Role]int, len(model.RoleRanks)),
		permissions: make(map[model.Role]map[string]struct{}, len(model.RolePermissions)),
	}

	for _, role := range model.AllRoles() {
		rank, ok := model.RoleRanks[role]
		if !ok {
			return nil, fmt.Errorf("%w: role %q has no rank", ErrInvalidRole, role)
		}
		perms, ok := model.RolePermissions[role]
		if !ok {
			return nil, fmt.Errorf("%w: role %q has no permission set", ErrInvalidRole, role)
		}
		a.ranks[role] = rank
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		a.permissions[role] = set
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.override != nil && !a.override.Valid() {
		return nil, fmt.Errorf("%w: override role %q", ErrInvalidRole, *a.override)
	}

	return a, nil
}

// Rank returns the fixed privilege rank of a role, strictly increasing with
// seniority.
func (a *Authorizer) Rank(role model.Role) (int, error) {
	rank, ok := a.ranks[role]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return rank, nil
}

// Permissions returns the explicit permission set of a role.
func (a *Authorizer) Permissions(role model.Role) ([]string, error) {
	if _, ok := a.permissions[role]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	// The canonical ordered list lives in the model table.
	perms := make([]string, len(model.RolePermissions[role]))
	copy(perms, model.RolePermissions[role])
	return perms, nil
}

// effectiveRole resolves the role an actor is evaluated as.
func (a *Authorizer) effectiveRole(actor *model.User) (model.Role, bool) {
	if a.override != nil {
		return *a.override, true
	}
	if actor == nil {
		return "", false
	}
	return actor.Role, true
}

// HasPermission reports whether the actor's role holds the permission token.
// Safe to call before the actor is resolved: a nil actor or undefined role
// is simply not permitted.
func (a *Authorizer) HasPermission(actor *model.User, token string) bool {
	role, ok := a.effectiveRole(actor)
	if !ok {
		return false
	}
	set, ok := a.permissions[role]
	if !ok {
		return false
	}
	_, ok = set[token]
	return ok
}

// CanActAsRole reports whether the actor's role ranks at least as high as
// the required role. A nil actor or undefined role on either side denies.
func (a *Authorizer) CanActAsRole(actor *model.User, required model.Role) bool {
	role, ok := a.effectiveRole(actor)
	if !ok {
		return false
	}
	actorRank, ok := a.ranks[role]
	if !ok {
		return false
	}
	requiredRank, ok := a.ranks[required]
	if !ok {
		return false
	}
	return actorRank >= requiredRank
}
