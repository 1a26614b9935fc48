package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/roles/internal/roles/domain"
	"github.com/aussiebroadwan/roles/internal/roles/store"
	"github.com/aussiebroadwan/roles/pkg/slogx"
)

// MembershipStore manages roles and user-role assignments for a single
// application. Preconditions are read and validated before any write so
// callers get a specific error kind; the write itself runs in one
// transaction and storage constraint failures inside it are mapped to the
// same kinds, covering writers that race past the checks.
type MembershipStore struct {
	Store       store.Store
	Application string
}

// NewMembershipStore scopes s to application.
func NewMembershipStore(s store.Store, application string) (*MembershipStore, error) {
	if err := domain.ValidateApplication(application); err != nil {
		return nil, newError("NewMembershipStore", ErrInvalidArgument, err, "application %q", application)
	}
	return &MembershipStore{Store: s, Application: application}, nil
}

// CreateRole adds a role to the application.
func (s *MembershipStore) CreateRole(ctx context.Context, roleName string) error {
	const op = "CreateRole"

	if err := validateName(op, "role", roleName); err != nil {
		return err
	}

	exists, err := s.Store.Roles().RoleExists(ctx, s.Application, roleName)
	if err != nil {
		return newError(op, ErrUnavailable, err, "check role %q", roleName)
	}
	if exists {
		return newError(op, ErrAlreadyExists, nil, "role %q", roleName)
	}

	err = s.Store.Roles().CreateRole(ctx, domain.Role{
		Application: s.Application,
		Name:        roleName,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fromStore(op, err, "create role %q", roleName)
	}

	slogx.FromContext(ctx).Debug("role created", "application", s.Application, "role", roleName)
	return nil
}

// DeleteRole removes a role. A role with members is only removed when cascade
// is set, in which case its memberships are deleted in the same transaction.
func (s *MembershipStore) DeleteRole(ctx context.Context, roleName string, cascade bool) error {
	const op = "DeleteRole"

	if err := validateName(op, "role", roleName); err != nil {
		return err
	}

	exists, err := s.Store.Roles().RoleExists(ctx, s.Application, roleName)
	if err != nil {
		return newError(op, ErrUnavailable, err, "check role %q", roleName)
	}
	if !exists {
		return newError(op, ErrNotFound, nil, "role %q", roleName)
	}

	if !cascade {
		members, err := s.Store.Memberships().CountRoleMembers(ctx, s.Application, roleName)
		if err != nil {
			return newError(op, ErrUnavailable, err, "count members of role %q", roleName)
		}
		if members > 0 {
			return newError(op, ErrConflict, nil, "role %q has %d members", roleName, members)
		}
	}

	var removed int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if cascade {
			n, err := tx.Memberships().DeleteRoleMemberships(ctx, s.Application, roleName)
			if err != nil {
				return err
			}
			removed = n
		}
		return tx.Roles().DeleteRole(ctx, s.Application, roleName)
	})
	if err != nil {
		if errors.Is(err, store.ErrConstraint) {
			return newError(op, ErrConflict, err, "role %q gained members", roleName)
		}
		return fromStore(op, err, "delete role %q", roleName)
	}

	slogx.FromContext(ctx).Debug("role deleted",
		"application", s.Application,
		"role", roleName,
		"cascade", cascade,
		"memberships_removed", removed,
	)
	return nil
}

// RoleExists reports whether the role exists in the application.
func (s *MembershipStore) RoleExists(ctx context.Context, roleName string) (bool, error) {
	const op = "RoleExists"

	if err := validateName(op, "role", roleName); err != nil {
		return false, err
	}

	exists, err := s.Store.Roles().RoleExists(ctx, s.Application, roleName)
	if err != nil {
		return false, newError(op, ErrUnavailable, err, "check role %q", roleName)
	}
	return exists, nil
}

// GetRole returns the stored record of a role, including when it was created.
func (s *MembershipStore) GetRole(ctx context.Context, roleName string) (domain.Role, error) {
	const op = "GetRole"

	if err := validateName(op, "role", roleName); err != nil {
		return domain.Role{}, err
	}

	role, err := s.Store.Roles().GetRole(ctx, s.Application, roleName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Role{}, newError(op, ErrNotFound, nil, "role %q", roleName)
		}
		return domain.Role{}, newError(op, ErrUnavailable, err, "get role %q", roleName)
	}
	return role, nil
}

// GetAllRoles returns every role name in the application, sorted.
func (s *MembershipStore) GetAllRoles(ctx context.Context) ([]string, error) {
	names, err := s.Store.Roles().ListRoleNames(ctx, s.Application)
	if err != nil {
		return nil, newError("GetAllRoles", ErrUnavailable, err, "list roles")
	}
	return names, nil
}

// AddUsersToRoles assigns every user to every role. Nothing is written unless
// all roles exist and none of the pairs is already assigned.
func (s *MembershipStore) AddUsersToRoles(ctx context.Context, userNames, roleNames []string) error {
	const op = "AddUsersToRoles"

	users, roles, err := validatePairs(op, userNames, roleNames)
	if err != nil {
		return err
	}

	if err := s.requireRoles(ctx, op, roles); err != nil {
		return err
	}

	for _, user := range users {
		for _, role := range roles {
			in, err := s.Store.Memberships().MembershipExists(ctx, s.Application, user, role)
			if err != nil {
				return newError(op, ErrUnavailable, err, "check user %q in role %q", user, role)
			}
			if in {
				return newError(op, ErrAlreadyExists, nil, "user %q is already in role %q", user, role)
			}
		}
	}

	now := time.Now().UTC()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, user := range users {
			for _, role := range roles {
				err := tx.Memberships().AddMembership(ctx, domain.Membership{
					Application: s.Application,
					UserName:    user,
					RoleName:    role,
					CreatedAt:   now,
				})
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fromStore(op, err, "add %d users to %d roles", len(users), len(roles))
	}

	slogx.FromContext(ctx).Debug("users added to roles",
		"application", s.Application,
		"users", users,
		"roles", roles,
	)
	return nil
}

// RemoveUsersFromRoles removes every user from every role. Nothing is deleted
// unless all roles exist and every pair is currently assigned.
func (s *MembershipStore) RemoveUsersFromRoles(ctx context.Context, userNames, roleNames []string) error {
	const op = "RemoveUsersFromRoles"

	users, roles, err := validatePairs(op, userNames, roleNames)
	if err != nil {
		return err
	}

	if err := s.requireRoles(ctx, op, roles); err != nil {
		return err
	}

	for _, user := range users {
		for _, role := range roles {
			in, err := s.Store.Memberships().MembershipExists(ctx, s.Application, user, role)
			if err != nil {
				return newError(op, ErrUnavailable, err, "check user %q in role %q", user, role)
			}
			if !in {
				return newError(op, ErrNotFound, nil, "user %q is not in role %q", user, role)
			}
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, user := range users {
			for _, role := range roles {
				if err := tx.Memberships().DeleteMembership(ctx, s.Application, user, role); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fromStore(op, err, "remove %d users from %d roles", len(users), len(roles))
	}

	slogx.FromContext(ctx).Debug("users removed from roles",
		"application", s.Application,
		"users", users,
		"roles", roles,
	)
	return nil
}

// IsUserInRole reports whether the user holds the role.
func (s *MembershipStore) IsUserInRole(ctx context.Context, userName, roleName string) (bool, error) {
	const op = "IsUserInRole"

	if err := validateName(op, "user", userName); err != nil {
		return false, err
	}
	if err := validateName(op, "role", roleName); err != nil {
		return false, err
	}

	in, err := s.Store.Memberships().MembershipExists(ctx, s.Application, userName, roleName)
	if err != nil {
		return false, newError(op, ErrUnavailable, err, "check user %q in role %q", userName, roleName)
	}
	return in, nil
}

// GetRolesForUser returns the sorted role names held by the user.
func (s *MembershipStore) GetRolesForUser(ctx context.Context, userName string) ([]string, error) {
	const op = "GetRolesForUser"

	if err := validateName(op, "user", userName); err != nil {
		return nil, err
	}

	roles, err := s.Store.Memberships().ListRolesForUser(ctx, s.Application, userName)
	if err != nil {
		return nil, newError(op, ErrUnavailable, err, "list roles for user %q", userName)
	}
	return roles, nil
}

// GetUsersInRole returns the sorted user names holding the role.
func (s *MembershipStore) GetUsersInRole(ctx context.Context, roleName string) ([]string, error) {
	const op = "GetUsersInRole"

	if err := validateName(op, "role", roleName); err != nil {
		return nil, err
	}

	users, err := s.Store.Memberships().ListUsersInRole(ctx, s.Application, roleName)
	if err != nil {
		return nil, newError(op, ErrUnavailable, err, "list users in role %q", roleName)
	}
	return users, nil
}

// FindUsersInRole returns users in the role whose name matches pattern using
// SQL LIKE wildcards: % for any sequence and _ for a single character.
func (s *MembershipStore) FindUsersInRole(ctx context.Context, roleName, pattern string) ([]string, error) {
	const op = "FindUsersInRole"

	if err := validateName(op, "role", roleName); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(pattern) > domain.MaxNameLength {
		return nil, newError(op, ErrInvalidArgument, domain.ErrNameTooLong, "user name pattern")
	}

	users, err := s.Store.Memberships().FindUsersInRole(ctx, s.Application, roleName, pattern)
	if err != nil {
		return nil, newError(op, ErrUnavailable, err, "find users in role %q matching %q", roleName, pattern)
	}
	return users, nil
}

func (s *MembershipStore) requireRoles(ctx context.Context, op string, roles []string) error {
	for _, role := range roles {
		exists, err := s.Store.Roles().RoleExists(ctx, s.Application, role)
		if err != nil {
			return newError(op, ErrUnavailable, err, "check role %q", role)
		}
		if !exists {
			return newError(op, ErrNotFound, nil, "role %q", role)
		}
	}
	return nil
}

func validateName(op, what, name string) error {
	if err := domain.ValidateName(name); err != nil {
		return newError(op, ErrInvalidArgument, err, "%s name %q", what, name)
	}
	return nil
}

func validatePairs(op string, userNames, roleNames []string) (users, roles []string, err error) {
	if users, err = uniqueNames(op, "user", userNames); err != nil {
		return nil, nil, err
	}
	if roles, err = uniqueNames(op, "role", roleNames); err != nil {
		return nil, nil, err
	}
	return users, roles, nil
}

// uniqueNames validates names and drops repeats, keeping first-seen order.
func uniqueNames(op, what string, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, newError(op, ErrInvalidArgument, nil, "no %s names given", what)
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if err := validateName(op, what, name); err != nil {
			return nil, err
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

// fromStore classifies an error returned by a storage write.
func fromStore(op string, err error, format string, args ...any) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return newError(op, ErrNotFound, err, format, args...)
	case errors.Is(err, store.ErrAlreadyExists):
		return newError(op, ErrAlreadyExists, err, format, args...)
	case errors.Is(err, store.ErrConstraint):
		// A membership write can only trip the role foreign key.
		return newError(op, ErrNotFound, err, format, args...)
	default:
		return newError(op, ErrUnavailable, err, format, args...)
	}
}
