package service

import (
	"context"
	"errors"

	"pos-inventory/internal/domain"
	"pos-inventory/internal/repository"
	"pos-inventory/internal/validation"

	"go.uber.org/zap"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, input CategoryInput) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Update(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	categories repository.CategoryRepository
	validator  *validation.Validator
	logger     *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categories repository.CategoryRepository, validator *validation.Validator, logger *zap.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		validator:  validator,
		logger:     logger,
	}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	category := &domain.Category{Name: input.Name, Description: input.Description.Value}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", zap.Int64("category_id", category.ID))
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// Update looks the category up before validating so a missing id is a 404
// even when the body is also invalid.
func (s *categoryService) Update(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	category.Name = input.Name
	if input.Description.Set {
		category.Description = input.Description.Value
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConstraintViolation) {
			s.logger.Warn("Category still referenced by products", zap.Int64("category_id", id))
		}
		return err
	}

	s.logger.Info("Category deleted", zap.Int64("category_id", id))
	return nil
}
