package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"admin-experimentai/internal/cache"
	"admin-experimentai/internal/db"
	"admin-experimentai/internal/model"
	"admin-experimentai/internal/repository"
	"admin-experimentai/utilities"
)

type CategoryInput struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.QuestionCategory, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*model.QuestionCategory, error)
	UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*model.QuestionCategory, error)
	DeleteCategory(ctx context.Context, id string) error
}

type categoryService struct {
	executor     *db.QueryExecutor
	categoryRepo repository.CategoryRepository
	cache        cache.ListCache
}

func NewCategoryService(executor *db.QueryExecutor, categoryRepo repository.CategoryRepository, listCache cache.ListCache) CategoryService {
	return &categoryService{
		executor:     executor,
		categoryRepo: categoryRepo,
		cache:        listCache,
	}
}

// ListCategories returns every category sorted by name.
func (s *categoryService) ListCategories(ctx context.Context) ([]model.QuestionCategory, error) {
	var categories []model.QuestionCategory
	if found, err := s.cache.Get(ctx, cache.KeyCategories, &categories); err != nil {
		utilities.Warn("category cache read failed: %v", err)
	} else if found {
		return categories, nil
	}

	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, storeError(err, "categories")
	}
	if err := s.cache.Set(ctx, cache.KeyCategories, categories); err != nil {
		utilities.Warn("category cache write failed: %v", err)
	}
	return categories, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, input CategoryInput) (*model.QuestionCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, NewInvalidError("category name is required")
	}
	category := &model.QuestionCategory{Name: name, Description: normalizeOptional(input.Description)}
	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		return nil, storeError(err, "category")
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*model.QuestionCategory, error) {
	category, err := s.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "category")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, NewInvalidError("category name is required")
		}
		category.Name = name
	}
	if patch.Description != nil {
		category.Description = normalizeOptional(patch.Description)
	}
	if err := s.categoryRepo.UpdateCategory(ctx, category); err != nil {
		return nil, storeError(err, "category")
	}
	s.invalidate(ctx)
	return category, nil
}

// DeleteCategory refuses to remove a category that questions still use.
func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)
		if _, err := repo.GetCategoryByID(ctx, id); err != nil {
			return err
		}
		count, err := repo.CountQuestions(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return NewConflictError(fmt.Sprintf("category is used by %d question(s)", count))
		}
		return repo.DeleteCategory(ctx, id)
	})
	if err != nil {
		return storeError(err, "category")
	}
	s.invalidate(ctx)
	return nil
}

func (s *categoryService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.KeyCategories); err != nil {
		utilities.Warn("category cache invalidation failed: %v", err)
	}
}

// normalizeOptional trims s and turns blank strings into nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
