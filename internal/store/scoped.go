package store

import (
	"context"
	"log/slog"

	"github.com/luxurygifts/storefront/internal/push"
	"github.com/luxurygifts/storefront/internal/user"
)

// Scoped is a store tied to an entity's push events and, optionally, to a
// session role. Role-gated stores refuse to fetch for the wrong role and
// are cleared by the session guard when the role changes away. A RoleNone
// scope means the store is public and bound for every authenticated
// session.
//
// Bind/Unbind are driven by the session manager and are not safe for
// concurrent use from elsewhere.
type Scoped[T Entity] struct {
	*Store[T]
	entity string
	role   user.Role
	subs   []push.Subscription
}

func NewScoped[T Entity](name, entity string, role user.Role, log *slog.Logger) *Scoped[T] {
	return &Scoped[T]{
		Store:  New[T](name, log),
		entity: entity,
		role:   role,
	}
}

func (g *Scoped[T]) RequiredRole() user.Role { return g.role }

func (g *Scoped[T]) allows(r user.Role) bool {
	return g.role == user.RoleNone || r == g.role
}

// FetchAs loads the store if the current session role is permitted.
func (g *Scoped[T]) FetchAs(ctx context.Context, current user.Role, load func(context.Context) ([]T, error)) error {
	if !g.allows(current) {
		return ErrRoleDenied
	}
	return g.Fetch(ctx, load)
}

// Bind attaches the store's event handlers to the bus. Idempotent.
func (g *Scoped[T]) Bind(bus Bus) {
	if g.subs != nil {
		return
	}
	g.subs = g.Subscribe(bus, g.entity)
}

// Unbind detaches all handlers registered by Bind. Idempotent.
func (g *Scoped[T]) Unbind(bus Bus) {
	if g.subs == nil {
		return
	}
	Unsubscribe(bus, g.subs)
	g.subs = nil
}
