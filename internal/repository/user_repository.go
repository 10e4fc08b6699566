package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.UserWithPermissions, error)
	ListAssignable(ctx context.Context) ([]domain.Agent, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query, args, err := psql.Insert("users").
		Columns("name", "email", "password", "role", "is_active", "service_level_id").
		Values(user.Name, user.Email, user.PasswordHash, user.Role, user.IsActive, user.ServiceLevelID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query, args, err := psql.Update("users").
		Set("name", user.Name).
		Set("email", user.Email).
		Set("password", user.PasswordHash).
		Set("role", user.Role).
		Set("is_active", user.IsActive).
		Set("service_level_id", user.ServiceLevelID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, query, args...).Scan(&user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *userRepository) getOne(ctx context.Context, pred squirrel.Eq) (*domain.User, error) {
	query, args, err := psql.Select("id", "name", "email", "password", "role", "is_active", "service_level_id", "created_at", "updated_at").
		From("users").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := pgxscan.Get(ctx, r.pool, &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, pgx.ErrNoRows
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.UserWithPermissions, error) {
	query, args, err := psql.Select(
		"u.id", "u.name", "u.email", "u.password", "u.role", "u.is_active",
		"u.service_level_id", "u.created_at", "u.updated_at",
		"sl.name AS service_level_name").
		From("users u").
		LeftJoin("service_levels sl ON u.service_level_id = sl.id").
		OrderBy("u.name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	users := []domain.UserWithPermissions{}
	if err := pgxscan.Select(ctx, r.pool, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

// ListAssignable returns active users whose role can work tickets. A user is
// assignable exactly when their role grants tickets:update, since an assignee
// without update capability could never act on the ticket. Resolved through
// the permission model rather than role names.
func (r *userRepository) ListAssignable(ctx context.Context) ([]domain.Agent, error) {
	query, args, err := psql.Select(
		"u.id", "u.name", "u.email", "u.service_level_id",
		"sl.name AS service_level_name").
		From("users u").
		Join("roles r ON r.name = u.role").
		Join("role_permissions rp ON rp.role_id = r.id").
		Join("permissions p ON p.id = rp.permission_id").
		LeftJoin("service_levels sl ON u.service_level_id = sl.id").
		Where(squirrel.Eq{"u.is_active": true, "r.is_active": true, "p.name": domain.PermTicketsUpdate}).
		OrderBy("u.name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	agents := []domain.Agent{}
	if err := pgxscan.Select(ctx, r.pool, &agents, query, args...); err != nil {
		return nil, err
	}
	return agents, nil
}
