// Package session owns the authenticated session: the push channel's
// lifecycle and the single authorization guard that binds and unbinds
// role-scoped stores when the session role changes.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/luxurygifts/storefront/internal/store"
	"github.com/luxurygifts/storefront/internal/user"
)

var ErrActiveSession = errors.New("session: already logged in")

// Channel is the push-connection lifecycle the manager drives. Only the
// manager creates and destroys the connection; stores just attach handlers
// through the embedded bus.
type Channel interface {
	Connect(ctx context.Context, token string) error
	Close()
	store.Bus
}

// RoleScoped is a store under the session guard.
type RoleScoped interface {
	RequiredRole() user.Role
	Bind(bus store.Bus)
	Unbind(bus store.Bus)
	Reset()
}

type Manager struct {
	channel Channel
	log     *slog.Logger

	mu     sync.Mutex
	token  string
	role   user.Role
	stores []RoleScoped
	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager(channel Channel, log *slog.Logger) *Manager {
	return &Manager{channel: channel, log: log}
}

// Register places a store under the guard. Call at wiring time, before
// Login.
func (m *Manager) Register(stores ...RoleScoped) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores = append(m.stores, stores...)
}

// Login opens the push connection with the session token and binds every
// store the role permits.
func (m *Manager) Login(ctx context.Context, token string, role user.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return ErrActiveSession
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	if err := m.channel.Connect(sessionCtx, token); err != nil {
		cancel()
		return err
	}

	m.token = token
	m.ctx = sessionCtx
	m.cancel = cancel
	m.applyGuard(user.RoleNone, role)
	m.role = role

	m.log.Info("session: logged in", "role", role)
	return nil
}

// SetRole re-evaluates the guard after a role change (promotion or
// demotion). Stores the new role no longer permits are unbound and
// cleared.
func (m *Manager) SetRole(role user.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if role == m.role {
		return
	}
	m.applyGuard(m.role, role)
	m.role = role
	m.log.Info("session: role changed", "role", role)
}

// Logout unbinds and clears every store, cancels in-flight session work,
// and closes the push connection.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel == nil {
		return
	}

	m.applyGuard(m.role, user.RoleNone)
	m.role = user.RoleNone
	m.token = ""
	m.cancel()
	m.cancel = nil
	m.ctx = nil
	m.channel.Close()

	m.log.Info("session: logged out")
}

// Token is an api.TokenSource for the wired clients.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) Role() user.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.role
}

// Context is the session-scoped context; fetches started under it are
// cancelled at logout rather than left in flight.
func (m *Manager) Context() context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}

// applyGuard is the single place subscription state changes. A store is
// bound iff the session is authenticated and its required role matches (a
// RoleNone requirement means any authenticated session). Called with m.mu
// held.
func (m *Manager) applyGuard(prev, next user.Role) {
	for _, s := range m.stores {
		was := roleBound(s.RequiredRole(), prev)
		now := roleBound(s.RequiredRole(), next)

		switch {
		case !was && now:
			s.Bind(m.channel)
		case was && !now:
			s.Unbind(m.channel)
			s.Reset()
		}
	}
}

func roleBound(required, current user.Role) bool {
	if current == user.RoleNone {
		return false
	}
	return required == user.RoleNone || required == current
}
