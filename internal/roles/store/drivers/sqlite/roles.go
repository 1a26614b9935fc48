package sqlite

import (
	"context"

	"github.com/aussiebroadwan/roles/internal/roles/domain"
	"github.com/aussiebroadwan/roles/internal/roles/store/drivers/sqlite/gen"
)

type rolesRepo struct {
	q *gen.Queries
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	err := r.q.CreateRole(ctx, gen.CreateRoleParams{
		RoleName:        role.Name,
		ApplicationName: role.Application,
		CreatedAt:       role.CreatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *rolesRepo) GetRole(ctx context.Context, application, name string) (domain.Role, error) {
	row, err := r.q.GetRole(ctx, gen.GetRoleParams{ApplicationName: application, RoleName: name})
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return mapRole(row), nil
}

func (r *rolesRepo) RoleExists(ctx context.Context, application, name string) (bool, error) {
	count, err := r.q.CountRole(ctx, gen.CountRoleParams{ApplicationName: application, RoleName: name})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *rolesRepo) ListRoleNames(ctx context.Context, application string) ([]string, error) {
	names, err := r.q.ListRoleNames(ctx, application)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(names), nil
}

func (r *rolesRepo) DeleteRole(ctx context.Context, application, name string) error {
	return expectOne(r.q.DeleteRole(ctx, gen.DeleteRoleParams{ApplicationName: application, RoleName: name}))
}
