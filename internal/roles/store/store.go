package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/roles/internal/roles/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConstraint reports a foreign key violation, e.g. a membership that
	// references a missing role or a role that still has members.
	ErrConstraint = errors.New("store: constraint violation")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are exposed as methods so a Tx-scoped Store
// hands out repositories bound to the transaction, and nothing can start a
// transaction from inside another one.
type Store interface {
	Roles() Roles
	Memberships() Memberships

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Roles persists roles. Every method is scoped by application.
type Roles interface {
	// CreateRole inserts a role. Returns ErrAlreadyExists on a duplicate.
	CreateRole(ctx context.Context, r domain.Role) error

	// GetRole fetches a single role.
	GetRole(ctx context.Context, application, name string) (domain.Role, error)

	RoleExists(ctx context.Context, application, name string) (bool, error)

	// ListRoleNames returns the application's role names ordered by name.
	ListRoleNames(ctx context.Context, application string) ([]string, error)

	// DeleteRole removes the role row. Returns ErrNotFound when nothing was
	// deleted and ErrConstraint while memberships still reference it.
	DeleteRole(ctx context.Context, application, name string) error
}

// Memberships persists user-in-role assignments. Every method is scoped by
// application.
type Memberships interface {
	// AddMembership inserts an assignment. Returns ErrAlreadyExists on a
	// duplicate and ErrConstraint when the role does not exist.
	AddMembership(ctx context.Context, m domain.Membership) error

	// DeleteMembership removes one assignment. Returns ErrNotFound when the
	// user does not hold the role.
	DeleteMembership(ctx context.Context, application, userName, roleName string) error

	// DeleteRoleMemberships removes every assignment of a role and reports how
	// many rows were removed.
	DeleteRoleMemberships(ctx context.Context, application, roleName string) (int64, error)

	MembershipExists(ctx context.Context, application, userName, roleName string) (bool, error)

	CountRoleMembers(ctx context.Context, application, roleName string) (int64, error)

	// ListRolesForUser returns role names held by the user, ordered by name.
	ListRolesForUser(ctx context.Context, application, userName string) ([]string, error)

	// ListUsersInRole returns user names holding the role, ordered by name.
	ListUsersInRole(ctx context.Context, application, roleName string) ([]string, error)

	// FindUsersInRole is ListUsersInRole filtered by a LIKE pattern on user_name.
	FindUsersInRole(ctx context.Context, application, roleName, pattern string) ([]string, error)
}
