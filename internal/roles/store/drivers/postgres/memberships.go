package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/aussiebroadwan/roles/internal/roles/domain"
)

const usersInRolesTable = "users_in_roles"

type membershipsRepo struct {
	exec    executor
	builder squirrel.StatementBuilderType
}

func (r *membershipsRepo) AddMembership(ctx context.Context, m domain.Membership) error {
	stmt, args, err := r.builder.Insert(usersInRolesTable).
		Columns("user_name", "role_name", "application_name", "created_at").
		Values(m.UserName, m.RoleName, m.Application, m.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert membership sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *membershipsRepo) DeleteMembership(ctx context.Context, application, userName, roleName string) error {
	stmt, args, err := r.builder.Delete(usersInRolesTable).
		Where(squirrel.Eq{"application_name": application, "role_name": roleName, "user_name": userName}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete membership sql: %w", err)
	}

	return expectOne(r.exec.Exec(ctx, stmt, args...))
}

func (r *membershipsRepo) DeleteRoleMemberships(ctx context.Context, application, roleName string) (int64, error) {
	stmt, args, err := r.builder.Delete(usersInRolesTable).
		Where(squirrel.Eq{"application_name": application, "role_name": roleName}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete role memberships sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *membershipsRepo) MembershipExists(ctx context.Context, application, userName, roleName string) (bool, error) {
	count, err := queryCount(ctx, r.exec, r.builder.Select("COUNT(*)").
		From(usersInRolesTable).
		Where(squirrel.Eq{"application_name": application, "role_name": roleName, "user_name": userName}))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *membershipsRepo) CountRoleMembers(ctx context.Context, application, roleName string) (int64, error) {
	return queryCount(ctx, r.exec, r.builder.Select("COUNT(*)").
		From(usersInRolesTable).
		Where(squirrel.Eq{"application_name": application, "role_name": roleName}))
}

func (r *membershipsRepo) ListRolesForUser(ctx context.Context, application, userName string) ([]string, error) {
	return queryNames(ctx, r.exec, r.builder.Select("role_name").
		From(usersInRolesTable).
		Where(squirrel.Eq{"application_name": application, "user_name": userName}).
		OrderBy("role_name ASC"))
}

func (r *membershipsRepo) ListUsersInRole(ctx context.Context, application, roleName string) ([]string, error) {
	return queryNames(ctx, r.exec, r.builder.Select("user_name").
		From(usersInRolesTable).
		Where(squirrel.Eq{"application_name": application, "role_name": roleName}).
		OrderBy("user_name ASC"))
}

// FindUsersInRole matches with postgres LIKE, which is case sensitive.
func (r *membershipsRepo) FindUsersInRole(ctx context.Context, application, roleName, pattern string) ([]string, error) {
	return queryNames(ctx, r.exec, r.builder.Select("user_name").
		From(usersInRolesTable).
		Where(squirrel.Eq{"application_name": application, "role_name": roleName}).
		Where(squirrel.Like{"user_name": pattern}).
		OrderBy("user_name ASC"))
}
