package repository

import (
	"context"

	"gorm.io/gorm"

	"admin-experimentai/internal/model"
)

type OptionRepository interface {
	WithTx(tx *gorm.DB) OptionRepository
	ListOptions(ctx context.Context, questionID string) ([]model.QuestionOption, error)
	ListOptionsByQuestions(ctx context.Context, questionIDs []string) (map[string][]model.QuestionOption, error)
	GetOptionByID(ctx context.Context, id string) (*model.QuestionOption, error)
	CreateOptions(ctx context.Context, options []model.QuestionOption) error
	UpdateOption(ctx context.Context, option *model.QuestionOption) error
	DeleteOption(ctx context.Context, id string) error
	DeleteOptionsByQuestion(ctx context.Context, questionID string) error
	DeleteOptionsExcept(ctx context.Context, questionID string, keepIDs []string) error
}

type optionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepository{db: db}
}

func (r *optionRepository) WithTx(tx *gorm.DB) OptionRepository {
	return &optionRepository{db: tx}
}

func (r *optionRepository) ListOptions(ctx context.Context, questionID string) ([]model.QuestionOption, error) {
	var options []model.QuestionOption
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("order_index asc").Order("id asc").
		Find(&options).Error
	return options, err
}

func (r *optionRepository) ListOptionsByQuestions(ctx context.Context, questionIDs []string) (map[string][]model.QuestionOption, error) {
	byQuestion := make(map[string][]model.QuestionOption)
	if len(questionIDs) == 0 {
		return byQuestion, nil
	}
	var options []model.QuestionOption
	err := r.db.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Order("order_index asc").Order("id asc").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	for _, o := range options {
		byQuestion[o.QuestionID] = append(byQuestion[o.QuestionID], o)
	}
	return byQuestion, nil
}

func (r *optionRepository) GetOptionByID(ctx context.Context, id string) (*model.QuestionOption, error) {
	var option model.QuestionOption
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *optionRepository) CreateOptions(ctx context.Context, options []model.QuestionOption) error {
	if len(options) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&options).Error
}

func (r *optionRepository) UpdateOption(ctx context.Context, option *model.QuestionOption) error {
	return r.db.WithContext(ctx).Save(option).Error
}

// DeleteOption returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *optionRepository) DeleteOption(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.QuestionOption{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *optionRepository) DeleteOptionsByQuestion(ctx context.Context, questionID string) error {
	return r.db.WithContext(ctx).Where("question_id = ?", questionID).Delete(&model.QuestionOption{}).Error
}

// DeleteOptionsExcept removes the question's options whose ids are not in keepIDs.
func (r *optionRepository) DeleteOptionsExcept(ctx context.Context, questionID string, keepIDs []string) error {
	tx := r.db.WithContext(ctx).Where("question_id = ?", questionID)
	if len(keepIDs) > 0 {
		tx = tx.Where("id NOT IN ?", keepIDs)
	}
	return tx.Delete(&model.QuestionOption{}).Error
}
