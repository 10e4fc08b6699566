package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RoleRepository manages roles, the permission catalog and the junction
// between them.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	Rename(ctx context.Context, id int64, name string) (*domain.Role, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.Role, error)
	Delete(ctx context.Context, id int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.RoleWithPermissions, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	ListWithPermissions(ctx context.Context) ([]domain.RoleWithPermissions, error)
	PermissionsByRoleName(ctx context.Context, roleName string) ([]string, error)
	PermissionsByRoleNames(ctx context.Context, roleNames []string) (map[string][]string, error)
	ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
	ListPermissions(ctx context.Context) ([]domain.Permission, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository builds the repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	query, args, err := psql.Insert("roles").
		Columns("name").
		Values(role.Name).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, query, args...).
		Scan(&role.ID, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
}

func (r *roleRepository) Rename(ctx context.Context, id int64, name string) (*domain.Role, error) {
	return r.updateOne(ctx, id, squirrel.Eq{"name": name})
}

func (r *roleRepository) SetActive(ctx context.Context, id int64, active bool) (*domain.Role, error) {
	return r.updateOne(ctx, id, squirrel.Eq{"is_active": active})
}

func (r *roleRepository) updateOne(ctx context.Context, id int64, changes squirrel.Eq) (*domain.Role, error) {
	builder := psql.Update("roles").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name, is_active, created_at, updated_at")
	for column, value := range changes {
		builder = builder.Set(column, value)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&role.ID, &role.Name, &role.IsActive, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}
	return &role, nil
}

// Delete removes the role; role_permissions rows cascade at the storage layer.
func (r *roleRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query, args, err := psql.Delete("roles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return 0, err
	}
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *roleRepository) GetByID(ctx context.Context, id int64) (*domain.RoleWithPermissions, error) {
	roles, err := r.listWithPermissions(ctx, squirrel.Eq{"r.id": id})
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &roles[0], nil
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query, args, err := psql.Select("id", "name", "is_active", "created_at", "updated_at").
		From("roles").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var role domain.Role
	if err := pgxscan.Get(ctx, r.pool, &role, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, pgx.ErrNoRows
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) ListWithPermissions(ctx context.Context) ([]domain.RoleWithPermissions, error) {
	return r.listWithPermissions(ctx, nil)
}

func (r *roleRepository) listWithPermissions(ctx context.Context, pred any) ([]domain.RoleWithPermissions, error) {
	builder := psql.Select(
		"r.id", "r.name", "r.is_active", "r.created_at", "r.updated_at", "p.name AS permission_name").
		From("roles r").
		LeftJoin("role_permissions rp ON r.id = rp.role_id").
		LeftJoin("permissions p ON rp.permission_id = p.id").
		OrderBy("r.name ASC")
	if pred != nil {
		builder = builder.Where(pred)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RoleWithPermissions
	index := map[int64]int{}
	for rows.Next() {
		var role domain.Role
		var permission *string
		if err := rows.Scan(&role.ID, &role.Name, &role.IsActive, &role.CreatedAt, &role.UpdatedAt, &permission); err != nil {
			return nil, err
		}
		pos, seen := index[role.ID]
		if !seen {
			pos = len(result)
			index[role.ID] = pos
			result = append(result, domain.RoleWithPermissions{Role: role, Permissions: []string{}})
		}
		if permission != nil {
			result[pos].Permissions = append(result[pos].Permissions, *permission)
		}
	}
	return result, rows.Err()
}

func (r *roleRepository) PermissionsByRoleName(ctx context.Context, roleName string) ([]string, error) {
	resolved, err := r.PermissionsByRoleNames(ctx, []string{roleName})
	if err != nil {
		return nil, err
	}
	return resolved[roleName], nil
}

// PermissionsByRoleNames resolves permission sets for each distinct role name
// in one query, so list rendering never does a per-row lookup.
func (r *roleRepository) PermissionsByRoleNames(ctx context.Context, roleNames []string) (map[string][]string, error) {
	resolved := make(map[string][]string, len(roleNames))
	for _, name := range roleNames {
		resolved[name] = []string{}
	}
	if len(roleNames) == 0 {
		return resolved, nil
	}

	// An inactive role resolves to an empty set: its holders carry no
	// capabilities even while their accounts stay active.
	query, args, err := psql.Select("r.name AS role_name", "p.name AS permission_name").
		From("permissions p").
		Join("role_permissions rp ON p.id = rp.permission_id").
		Join("roles r ON rp.role_id = r.id").
		Where(squirrel.Eq{"r.name": roleNames, "r.is_active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var roleName, permission string
		if err := rows.Scan(&roleName, &permission); err != nil {
			return nil, err
		}
		resolved[roleName] = append(resolved[roleName], permission)
	}
	return resolved, rows.Err()
}

// ReplacePermissions swaps a role's grants atomically: delete existing
// junction rows and bulk insert the new set in one transaction.
func (r *roleRepository) ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return err
	}

	if len(permissionIDs) > 0 {
		builder := psql.Insert("role_permissions").Columns("role_id", "permission_id")
		for _, permissionID := range permissionIDs {
			builder = builder.Values(roleID, permissionID)
		}
		query, args, err := builder.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *roleRepository) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	query, args, err := psql.Select("id", "name", "COALESCE(description, '') AS description").
		From("permissions").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	permissions := []domain.Permission{}
	if err := pgxscan.Select(ctx, r.pool, &permissions, query, args...); err != nil {
		return nil, err
	}
	return permissions, nil
}
