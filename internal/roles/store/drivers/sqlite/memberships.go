package sqlite

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/roles/internal/roles/domain"
	"github.com/aussiebroadwan/roles/internal/roles/store/drivers/sqlite/gen"
)

type membershipsRepo struct {
	q *gen.Queries
}

func (r *membershipsRepo) AddMembership(ctx context.Context, m domain.Membership) error {
	err := r.q.CreateUserInRole(ctx, gen.CreateUserInRoleParams{
		UserName:        m.UserName,
		RoleName:        m.RoleName,
		ApplicationName: m.Application,
		CreatedAt:       m.CreatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *membershipsRepo) DeleteMembership(ctx context.Context, application, userName, roleName string) error {
	return expectOne(r.q.DeleteUserInRole(ctx, gen.DeleteUserInRoleParams{
		ApplicationName: application,
		UserName:        userName,
		RoleName:        roleName,
	}))
}

func (r *membershipsRepo) DeleteRoleMemberships(ctx context.Context, application, roleName string) (int64, error) {
	return r.q.DeleteRoleUsers(ctx, gen.DeleteRoleUsersParams{ApplicationName: application, RoleName: roleName})
}

func (r *membershipsRepo) MembershipExists(ctx context.Context, application, userName, roleName string) (bool, error) {
	count, err := r.q.CountUserInRole(ctx, gen.CountUserInRoleParams{
		ApplicationName: application,
		UserName:        userName,
		RoleName:        roleName,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *membershipsRepo) CountRoleMembers(ctx context.Context, application, roleName string) (int64, error) {
	return r.q.CountRoleUsers(ctx, gen.CountRoleUsersParams{ApplicationName: application, RoleName: roleName})
}

func (r *membershipsRepo) ListRolesForUser(ctx context.Context, application, userName string) ([]string, error) {
	names, err := r.q.ListRolesForUser(ctx, gen.ListRolesForUserParams{ApplicationName: application, UserName: userName})
	if err != nil {
		return nil, err
	}
	return emptyIfNil(names), nil
}

func (r *membershipsRepo) ListUsersInRole(ctx context.Context, application, roleName string) ([]string, error) {
	names, err := r.q.ListUsersInRole(ctx, gen.ListUsersInRoleParams{ApplicationName: application, RoleName: roleName})
	if err != nil {
		return nil, err
	}
	return emptyIfNil(names), nil
}

// FindUsersInRole takes a LIKE pattern and runs it as GLOB, since sqlite LIKE
// folds ASCII case and postgres LIKE does not.
func (r *membershipsRepo) FindUsersInRole(ctx context.Context, application, roleName, pattern string) ([]string, error) {
	names, err := r.q.FindUsersInRole(ctx, gen.FindUsersInRoleParams{
		ApplicationName: application,
		RoleName:        roleName,
		UserName:        likeToGlob(pattern),
	})
	if err != nil {
		return nil, err
	}
	return emptyIfNil(names), nil
}

// likeToGlob rewrites a LIKE pattern (% and _ wildcards, backslash escape) into
// the equivalent GLOB pattern. GLOB metacharacters are bracketed so they match
// literally.
func likeToGlob(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))

	escaped := false
	for _, r := range pattern {
		if escaped {
			writeGlobLiteral(&b, r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '%':
			b.WriteByte('*')
		case '_':
			b.WriteByte('?')
		default:
			writeGlobLiteral(&b, r)
		}
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

func writeGlobLiteral(b *strings.Builder, r rune) {
	switch r {
	case '*', '?', '[':
		b.WriteByte('[')
		b.WriteRune(r)
		b.WriteByte(']')
	default:
		b.WriteRune(r)
	}
}
