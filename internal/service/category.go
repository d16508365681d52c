package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/repository"
)

const MaxCategoryNameLength = 100

// colorPattern matches a 7-char hex color like #3B82F6.
var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryService holds the business rules for categories. As with tasks,
// the owner's userID is an explicit parameter on every method.
type CategoryService struct {
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewCategoryService(categories repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger,
	}
}

// List returns the user's categories ordered by name.
func (s *CategoryService) List(ctx context.Context, userID string) ([]model.Category, error) {
	categories, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list categories", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// Create validates and stores a new category. The color defaults when empty.
// A name already used by this user is a conflict; the same name under a
// different user is fine.
func (s *CategoryService) Create(ctx context.Context, userID, name, color string) (*model.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}

	if color == "" {
		color = model.DefaultCategoryColor
	}
	if !colorPattern.MatchString(color) {
		return nil, apperror.ValidationFailed("color", "color must be a hex value like #3B82F6")
	}

	category := &model.Category{
		UserID: userID,
		Name:   name,
		Color:  color,
	}

	// The UNIQUE(user_id, name) index turns a duplicate into ErrConflict.
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		if !errors.Is(err, apperror.ErrConflict) {
			s.logger.Error("failed to create category", slog.String("userID", userID), slog.String("error", err.Error()))
		}
		return nil, err
	}

	s.logger.Info("category created", slog.String("id", category.ID), slog.String("userID", userID))
	return category, nil
}

// Update applies a partial update. A name change is re-checked for
// uniqueness; colliding with a different existing category is a conflict,
// while writing a category's own name back is not.
func (s *CategoryService) Update(ctx context.Context, userID, id string, name, color *string) (*model.Category, error) {
	category, err := s.categories.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		newName, err := validateCategoryName(*name)
		if err != nil {
			return nil, err
		}
		if newName != category.Name {
			existing, err := s.categories.GetCategoryByName(ctx, userID, newName)
			if err == nil && existing.ID != id {
				return nil, apperror.Conflict("category with this name already exists")
			}
			if err != nil && !errors.Is(err, apperror.ErrNotFound) {
				return nil, err
			}
		}
		category.Name = newName
	}

	if color != nil {
		if !colorPattern.MatchString(*color) {
			return nil, apperror.ValidationFailed("color", "color must be a hex value like #3B82F6")
		}
		category.Color = *color
	}

	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category updated", slog.String("id", id), slog.String("userID", userID))
	return category, nil
}

// Delete removes a category. Tasks that referenced it survive with their
// category reference cleared; the repository does both in one transaction.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	if err := s.categories.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", slog.String("id", id), slog.String("userID", userID))
	return nil
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.ValidationFailed("name", "category name is required")
	}
	if len(name) > MaxCategoryNameLength {
		return "", apperror.ValidationFailed("name",
			fmt.Sprintf("category name must be %d characters or less", MaxCategoryNameLength))
	}
	return name, nil
}
