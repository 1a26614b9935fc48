package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/roles/internal/roles/domain"
	"github.com/aussiebroadwan/roles/internal/roles/store"
	"github.com/aussiebroadwan/roles/internal/roles/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "roles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestMembershipStore(t *testing.T, backend store.Store, app string) *MembershipStore {
	t.Helper()

	ms, err := NewMembershipStore(backend, app)
	require.NoError(t, err)
	return ms
}

// snapshot captures every membership visible to ms so tests can assert a
// failed call left no trace.
func snapshot(t *testing.T, ms *MembershipStore) map[string][]string {
	t.Helper()
	ctx := context.Background()

	roles, err := ms.GetAllRoles(ctx)
	require.NoError(t, err)

	out := make(map[string][]string, len(roles))
	for _, role := range roles {
		users, err := ms.GetUsersInRole(ctx, role)
		require.NoError(t, err)
		out[role] = users
	}
	return out
}

func TestNewMembershipStoreValidatesApplication(t *testing.T) {
	_, err := NewMembershipStore(newTestBackend(t), "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewMembershipStore(newTestBackend(t), strings.Repeat("a", domain.MaxNameLength+1))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateRole(t *testing.T) {
	ctx := context.Background()
	ms := newTestMembershipStore(t, newTestBackend(t), "app-a")

	t.Run("created role exists", func(t *testing.T) {
		for _, name := range []string{"admin", "editor", "read only", "ünïcode"} {
			require.NoError(t, ms.CreateRole(ctx, name))

			ok, err := ms.RoleExists(ctx, name)
			require.NoError(t, err)
			require.True(t, ok, name)
		}
	})

	t.Run("duplicate returns already exists", func(t *testing.T) {
		err := ms.CreateRole(ctx, "admin")
		require.ErrorIs(t, err, ErrAlreadyExists)
		require.Equal(t, ErrAlreadyExists, KindOf(err))
	})

	t.Run("comma returns invalid argument and persists nothing", func(t *testing.T) {
		for _, name := range []string{"a,b", ",admin", "admin,"} {
			err := ms.CreateRole(ctx, name)
			require.ErrorIs(t, err, ErrInvalidArgument)
			require.ErrorIs(t, err, domain.ErrNameHasComma)
		}

		roles, err := ms.GetAllRoles(ctx)
		require.NoError(t, err)
		for _, role := range roles {
			require.NotContains(t, role, ",")
		}
	})

	t.Run("empty and oversized names are rejected", func(t *testing.T) {
		require.ErrorIs(t, ms.CreateRole(ctx, ""), ErrInvalidArgument)
		require.ErrorIs(t, ms.CreateRole(ctx, strings.Repeat("r", 256)), ErrInvalidArgument)
	})

	t.Run("get all roles is sorted without duplicates", func(t *testing.T) {
		roles, err := ms.GetAllRoles(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"admin", "editor", "read only", "ünïcode"}, roles)
	})
}

func TestGetRole(t *testing.T) {
	ctx := context.Background()
	ms := newTestMembershipStore(t, newTestBackend(t), "app-a")

	before := time.Now().UTC()
	require.NoError(t, ms.CreateRole(ctx, "admin"))

	role, err := ms.GetRole(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, "admin", role.Name)
	require.Equal(t, "app-a", role.Application)
	require.WithinDuration(t, before, role.CreatedAt, 5*time.Second)

	_, err = ms.GetRole(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = ms.GetRole(ctx, "a,b")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeleteRole(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *MembershipStore {
		ms := newTestMembershipStore(t, newTestBackend(t), "app-a")
		require.NoError(t, ms.CreateRole(ctx, "admin"))
		require.NoError(t, ms.CreateRole(ctx, "empty"))
		require.NoError(t, ms.AddUsersToRoles(ctx, []string{"alice", "bob"}, []string{"admin"}))
		return ms
	}

	t.Run("missing role", func(t *testing.T) {
		ms := setup(t)
		require.ErrorIs(t, ms.DeleteRole(ctx, "ghost", true), ErrNotFound)
	})

	t.Run("populated role without cascade conflicts", func(t *testing.T) {
		ms := setup(t)
		before := snapshot(t, ms)

		err := ms.DeleteRole(ctx, "admin", false)
		require.ErrorIs(t, err, ErrConflict)
		require.Equal(t, before, snapshot(t, ms))
	})

	t.Run("empty role without cascade", func(t *testing.T) {
		ms := setup(t)
		require.NoError(t, ms.DeleteRole(ctx, "empty", false))

		ok, err := ms.RoleExists(ctx, "empty")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("cascade removes role and memberships", func(t *testing.T) {
		ms := setup(t)
		require.NoError(t, ms.DeleteRole(ctx, "admin", true))

		ok, err := ms.RoleExists(ctx, "admin")
		require.NoError(t, err)
		require.False(t, ok)

		roles, err := ms.GetRolesForUser(ctx, "alice")
		require.NoError(t, err)
		require.Empty(t, roles)

		// The role can be recreated with no leftover members.
		require.NoError(t, ms.CreateRole(ctx, "admin"))
		users, err := ms.GetUsersInRole(ctx, "admin")
		require.NoError(t, err)
		require.Empty(t, users)
	})

	t.Run("aborted cascade leaves state unchanged", func(t *testing.T) {
		backend := newTestBackend(t)
		ms := newTestMembershipStore(t, backend, "app-a")
		require.NoError(t, ms.CreateRole(ctx, "admin"))
		require.NoError(t, ms.AddUsersToRoles(ctx, []string{"alice", "bob"}, []string{"admin"}))
		before := snapshot(t, ms)

		faulty := &faultyStore{Store: backend, failRoleDelete: true}
		err := newTestMembershipStore(t, faulty, "app-a").DeleteRole(ctx, "admin", true)
		require.ErrorIs(t, err, ErrUnavailable)
		require.ErrorIs(t, err, errInjected)

		require.Equal(t, before, snapshot(t, ms))
	})
}

func TestAddUsersToRoles(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*MembershipStore, store.Store) {
		backend := newTestBackend(t)
		ms := newTestMembershipStore(t, backend, "app-a")
		require.NoError(t, ms.CreateRole(ctx, "admin"))
		require.NoError(t, ms.CreateRole(ctx, "editor"))
		require.NoError(t, ms.CreateRole(ctx, "viewer"))
		return ms, backend
	}

	t.Run("cross product", func(t *testing.T) {
		ms, _ := setup(t)
		require.NoError(t, ms.AddUsersToRoles(ctx, []string{"alice", "bob"}, []string{"admin", "editor"}))

		for _, user := range []string{"alice", "bob"} {
			for _, role := range []string{"admin", "editor"} {
				ok, err := ms.IsUserInRole(ctx, user, role)
				require.NoError(t, err)
				require.True(t, ok, "%s in %s", user, role)
			}
			ok, err := ms.IsUserInRole(ctx, user, "viewer")
			require.NoError(t, err)
			require.False(t, ok)
		}

		total := 0
		for _, users := range snapshot(t, ms) {
			total += len(users)
		}
		require.Equal(t, 4, total)
	})

	t.Run("overlapping second call changes nothing", func(t *testing.T) {
		ms, _ := setup(t)
		require.NoError(t, ms.AddUsersToRoles(ctx, []string{"alice", "bob"}, []string{"admin", "editor"}))
		before := snapshot(t, ms)

		err := ms.AddUsersToRoles(ctx, []string{"carol", "bob"}, []string{"viewer", "admin"})
		require.ErrorIs(t, err, ErrAlreadyExists)
		require.Equal(t, before, snapshot(t, ms))
	})

	t.Run("missing role changes nothing", func(t *testing.T) {
		ms, _ := setup(t)
		before := snapshot(t, ms)

		err := ms.AddUsersToRoles(ctx, []string{"alice"}, []string{"admin", "ghost"})
		require.ErrorIs(t, err, ErrNotFound)
		require.Equal(t, before, snapshot(t, ms))
	})

	t.Run("invalid input", func(t *testing.T) {
		ms, _ := setup(t)
		require.ErrorIs(t, ms.AddUsersToRoles(ctx, []string{"a,b"}, []string{"admin"}), ErrInvalidArgument)
		require.ErrorIs(t, ms.AddUsersToRoles(ctx, nil, []string{"admin"}), ErrInvalidArgument)
		require.ErrorIs(t, ms.AddUsersToRoles(ctx, []string{"alice"}, nil), ErrInvalidArgument)
	})

	t.Run("repeated inputs are collapsed", func(t *testing.T) {
		ms, _ := setup(t)
		require.NoError(t, ms.AddUsersToRoles(ctx, []string{"alice", "alice"}, []string{"admin", "admin"}))

		users, err := ms.GetUsersInRole(ctx, "admin")
		require.NoError(t, err)
		require.Equal(t, []string{"alice"}, users)
	})

	t.Run("failure midway rolls back the batch", func(t *testing.T) {
		ms, backend := setup(t)
		before := snapshot(t, ms)

		faulty := &faultyStore{Store: backend, failAfterWrites: 2}
		err := newTestMembershipStore(t, faulty, "app-a").
			AddUsersToRoles(ctx, []string{"alice", "bob"}, []string{"admin", "editor"})
		require.ErrorIs(t, err, errInjected)
		require.Equal(t, 2, faulty.writes)

		require.Equal(t, before, snapshot(t, ms))
	})

	t.Run("role deleted after checks maps to not found", func(t *testing.T) {
		ms, backend := setup(t)

		// Drop the role between the precondition reads and the write.
		racing := &faultyStore{Store: backend, beforeTx: func() {
			require.NoError(t, ms.DeleteRole(ctx, "viewer", false))
		}}
		err := newTestMembershipStore(t, racing, "app-a").
			AddUsersToRoles(ctx, []string{"alice"}, []string{"viewer"})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRemoveUsersFromRoles(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*MembershipStore, store.Store) {
		backend := newTestBackend(t)
		ms := newTestMembershipStore(t, backend, "app-a")
		require.NoError(t, ms.CreateRole(ctx, "admin"))
		require.NoError(t, ms.CreateRole(ctx, "editor"))
		require.NoError(t, ms.AddUsersToRoles(ctx, []string{"alice", "bob"}, []string{"admin", "editor"}))
		return ms, backend
	}

	t.Run("removes cross product", func(t *testing.T) {
		ms, _ := setup(t)
		require.NoError(t, ms.RemoveUsersFromRoles(ctx, []string{"alice"}, []string{"admin", "editor"}))

		roles, err := ms.GetRolesForUser(ctx, "alice")
		require.NoError(t, err)
		require.Empty(t, roles)

		roles, err = ms.GetRolesForUser(ctx, "bob")
		require.NoError(t, err)
		require.Equal(t, []string{"admin", "editor"}, roles)
	})

	t.Run("unassigned pair changes nothing", func(t *testing.T) {
		ms, _ := setup(t)
		before := snapshot(t, ms)

		err := ms.RemoveUsersFromRoles(ctx, []string{"alice", "carol"}, []string{"admin"})
		require.ErrorIs(t, err, ErrNotFound)
		require.Equal(t, before, snapshot(t, ms))
	})

	t.Run("missing role", func(t *testing.T) {
		ms, _ := setup(t)
		require.ErrorIs(t, ms.RemoveUsersFromRoles(ctx, []string{"alice"}, []string{"ghost"}), ErrNotFound)
	})

	t.Run("failure midway rolls back the batch", func(t *testing.T) {
		ms, backend := setup(t)
		before := snapshot(t, ms)

		faulty := &faultyStore{Store: backend, failAfterWrites: 3}
		err := newTestMembershipStore(t, faulty, "app-a").
			RemoveUsersFromRoles(ctx, []string{"alice", "bob"}, []string{"admin", "editor"})
		require.ErrorIs(t, err, errInjected)

		require.Equal(t, before, snapshot(t, ms))
	})
}

func TestFindUsersInRole(t *testing.T) {
	ctx := context.Background()
	ms := newTestMembershipStore(t, newTestBackend(t), "app-a")

	require.NoError(t, ms.CreateRole(ctx, "admin"))
	require.NoError(t, ms.CreateRole(ctx, "editor"))
	require.NoError(t, ms.AddUsersToRoles(ctx, []string{"alice", "albert", "bob", "malory", "Alan", "ALBERT"}, []string{"admin"}))
	require.NoError(t, ms.AddUsersToRoles(ctx, []string{"alfred"}, []string{"editor"}))

	users, err := ms.FindUsersInRole(ctx, "admin", "al%")
	require.NoError(t, err)
	require.Equal(t, []string{"albert", "alice"}, users)

	users, err = ms.FindUsersInRole(ctx, "admin", "Al%")
	require.NoError(t, err)
	require.Equal(t, []string{"Alan"}, users)

	users, err = ms.FindUsersInRole(ctx, "admin", "%o%")
	require.NoError(t, err)
	require.Equal(t, []string{"bob", "malory"}, users)

	users, err = ms.FindUsersInRole(ctx, "admin", "b_b")
	require.NoError(t, err)
	require.Equal(t, []string{"bob"}, users)

	users, err = ms.FindUsersInRole(ctx, "admin", "zed%")
	require.NoError(t, err)
	require.Empty(t, users)

	_, err = ms.FindUsersInRole(ctx, "admin", strings.Repeat("%", 300))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestApplicationsAreIsolated(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)
	appA := newTestMembershipStore(t, backend, "AppA")
	appB := newTestMembershipStore(t, backend, "AppB")

	require.NoError(t, appA.CreateRole(ctx, "admin"))
	require.NoError(t, appB.CreateRole(ctx, "admin"))
	require.NoError(t, appA.AddUsersToRoles(ctx, []string{"alice"}, []string{"admin"}))

	ok, err := appB.IsUserInRole(ctx, "alice", "admin")
	require.NoError(t, err)
	require.False(t, ok)

	users, err := appB.FindUsersInRole(ctx, "admin", "%")
	require.NoError(t, err)
	require.Empty(t, users)

	require.NoError(t, appB.AddUsersToRoles(ctx, []string{"alice"}, []string{"admin"}))
	require.NoError(t, appB.DeleteRole(ctx, "admin", true))

	ok, err = appA.RoleExists(ctx, "admin")
	require.NoError(t, err)
	require.True(t, ok)

	roles, err := appA.GetRolesForUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"admin"}, roles)

	require.ErrorIs(t, appB.RemoveUsersFromRoles(ctx, []string{"alice"}, []string{"admin"}), ErrNotFound)
}

func TestUnavailableBackend(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)
	ms := newTestMembershipStore(t, backend, "app-a")
	require.NoError(t, backend.Close())

	_, err := ms.RoleExists(ctx, "admin")
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = ms.GetAllRoles(ctx)
	require.ErrorIs(t, err, ErrUnavailable)

	require.ErrorIs(t, ms.CreateRole(ctx, "admin"), ErrUnavailable)
}

func TestErrorMessage(t *testing.T) {
	err := newError("CreateRole", ErrAlreadyExists, errors.New("boom"), "role %q", "admin")
	require.Equal(t, `CreateRole: already exists: role "admin": boom`, err.Error())
	require.Nil(t, KindOf(errors.New("plain")))
}
