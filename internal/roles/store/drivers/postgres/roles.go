package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/aussiebroadwan/roles/internal/roles/domain"
)

const rolesTable = "roles"

type rolesRepo struct {
	exec    executor
	builder squirrel.StatementBuilderType
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Insert(rolesTable).
		Columns("role_name", "application_name", "created_at").
		Values(role.Name, role.Application, role.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *rolesRepo) GetRole(ctx context.Context, application, name string) (domain.Role, error) {
	stmt, args, err := r.builder.Select("role_name", "application_name", "created_at").
		From(rolesTable).
		Where(squirrel.Eq{"application_name": application, "role_name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Role{}, fmt.Errorf("build select role sql: %w", err)
	}

	var role domain.Role
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&role.Name, &role.Application, &role.CreatedAt); err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	role.CreatedAt = role.CreatedAt.UTC()
	return role, nil
}

func (r *rolesRepo) RoleExists(ctx context.Context, application, name string) (bool, error) {
	count, err := queryCount(ctx, r.exec, r.builder.Select("COUNT(*)").
		From(rolesTable).
		Where(squirrel.Eq{"application_name": application, "role_name": name}))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *rolesRepo) ListRoleNames(ctx context.Context, application string) ([]string, error) {
	return queryNames(ctx, r.exec, r.builder.Select("role_name").
		From(rolesTable).
		Where(squirrel.Eq{"application_name": application}).
		OrderBy("role_name ASC"))
}

func (r *rolesRepo) DeleteRole(ctx context.Context, application, name string) error {
	stmt, args, err := r.builder.Delete(rolesTable).
		Where(squirrel.Eq{"application_name": application, "role_name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete role sql: %w", err)
	}

	return expectOne(r.exec.Exec(ctx, stmt, args...))
}
