package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CategoryRepository manages the category lookup table.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query, args, err := psql.Insert("categories").
		Columns("name", "description").
		Values(category.Name, category.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, query, args...).Scan(&category.ID)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query, args, err := psql.Update("categories").
		Set("name", category.Name).
		Set("description", category.Description).
		Where(squirrel.Eq{"id": category.ID}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	var id int64
	return r.pool.QueryRow(ctx, query, args...).Scan(&id)
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query, args, err := psql.Delete("categories").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return 0, err
	}
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query, args, err := psql.Select("id", "name", "COALESCE(description, '') AS description").
		From("categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var category domain.Category
	if err := pgxscan.Get(ctx, r.pool, &category, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, pgx.ErrNoRows
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query, args, err := psql.Select("id", "name", "COALESCE(description, '') AS description").
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	categories := []domain.Category{}
	if err := pgxscan.Select(ctx, r.pool, &categories, query, args...); err != nil {
		return nil, err
	}
	return categories, nil
}
