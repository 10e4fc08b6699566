package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// CategoryService manages the ticket category lookup table.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required", nil)
	}
	category := &domain.Category{Name: name, Description: description}
	if err := s.categories.Create(ctx, category); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("category name already exists", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, name, description string) (*domain.Category, error) {
	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if name == "" {
		name = existing.Name
	}
	category := &domain.Category{ID: id, Name: name, Description: description}
	if err := s.categories.Update(ctx, category); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("category name already exists", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Delete removes a category. Tickets referencing it keep a dangling label at
// the storage layer, where the foreign key is declared ON DELETE SET NULL.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	affected, err := s.categories.Delete(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("category", map[string]any{"category_id": id})
	}
	return nil
}
