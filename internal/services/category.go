package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type categoryService struct {
	categoryRepo domain.CategoryRepository
	userRepo     domain.UserRepository
}

// NewCategoryService creates a CategoryService. Mutations are gated to the
// organizer and admin roles.
func NewCategoryService(categoryRepo domain.CategoryRepository, userRepo domain.UserRepository) domain.CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, actorID string, category *domain.Category) error {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleOrganizer, domain.RoleAdmin); err != nil {
		return err
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicateCategory) {
			return err
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *categoryService) Update(ctx context.Context, actorID string, category *domain.Category) error {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleOrganizer, domain.RoleAdmin); err != nil {
		return err
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	category.UpdatedAt = time.Now()
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicateCategory) {
			return err
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes the category. Dependent events keep existing with a null
// category (schema-level SET NULL), they are never cascaded away.
func (s *categoryService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleOrganizer, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
