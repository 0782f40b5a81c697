package repository

import (
	"context"

	"gorm.io/gorm"

	"admin-experimentai/internal/model"
)

type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	ListCategories(ctx context.Context) ([]model.QuestionCategory, error)
	GetCategoryByID(ctx context.Context, id string) (*model.QuestionCategory, error)
	CreateCategory(ctx context.Context, category *model.QuestionCategory) error
	UpdateCategory(ctx context.Context, category *model.QuestionCategory) error
	DeleteCategory(ctx context.Context, id string) error
	CountQuestions(ctx context.Context, categoryID string) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]model.QuestionCategory, error) {
	var categories []model.QuestionCategory
	err := r.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id string) (*model.QuestionCategory, error) {
	var category model.QuestionCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *model.QuestionCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category *model.QuestionCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteCategory returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *categoryRepository) DeleteCategory(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.QuestionCategory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepository) CountQuestions(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Question{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}
