package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"admin-experimentai/internal/db"
	"admin-experimentai/internal/model"
	"admin-experimentai/internal/repository"
)

type AddOptionInput struct {
	OptionText  string `json:"option_text" binding:"required"`
	OptionValue int    `json:"option_value"`
	OrderIndex  *int   `json:"order_index"`
}

type OptionPatch struct {
	OptionText  *string `json:"option_text"`
	OptionValue *int    `json:"option_value"`
	OrderIndex  *int    `json:"order_index"`
}

type OptionService interface {
	ListOptions(ctx context.Context, questionID string) ([]model.QuestionOption, error)
	AddOption(ctx context.Context, questionID string, input AddOptionInput) (*model.QuestionOption, error)
	UpdateOption(ctx context.Context, id string, patch OptionPatch) (*model.QuestionOption, error)
	// RemoveOption deletes the option and returns the question's remaining options.
	RemoveOption(ctx context.Context, id string) ([]model.QuestionOption, error)
}

type optionService struct {
	executor     *db.QueryExecutor
	questionRepo repository.QuestionRepository
	optionRepo   repository.OptionRepository
}

func NewOptionService(executor *db.QueryExecutor, questionRepo repository.QuestionRepository, optionRepo repository.OptionRepository) OptionService {
	return &optionService{
		executor:     executor,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
	}
}

// ListOptions returns the question's options sorted by order_index.
func (s *optionService) ListOptions(ctx context.Context, questionID string) ([]model.QuestionOption, error) {
	if _, err := s.questionRepo.GetQuestionByID(ctx, questionID); err != nil {
		return nil, storeError(err, "question")
	}
	options, err := s.optionRepo.ListOptions(ctx, questionID)
	if err != nil {
		return nil, storeError(err, "options")
	}
	return options, nil
}

func (s *optionService) AddOption(ctx context.Context, questionID string, input AddOptionInput) (*model.QuestionOption, error) {
	text := strings.TrimSpace(input.OptionText)
	if text == "" {
		return nil, NewInvalidError("option text is required")
	}
	if input.OrderIndex != nil && *input.OrderIndex < 1 {
		return nil, NewInvalidError("order index must be at least 1")
	}

	option := model.QuestionOption{QuestionID: questionID, OptionText: text, OptionValue: input.OptionValue}
	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		question, err := s.questionRepo.WithTx(tx).GetQuestionByID(ctx, questionID)
		if err != nil {
			return err
		}
		if !question.QuestionType.HasOptions() {
			return NewInvalidError("text questions have no options")
		}
		if input.OrderIndex != nil {
			option.OrderIndex = *input.OrderIndex
		} else {
			option.OrderIndex = nextOptionIndex(question.Options)
		}
		options := []model.QuestionOption{option}
		if err := s.optionRepo.WithTx(tx).CreateOptions(ctx, options); err != nil {
			return err
		}
		option = options[0]
		return nil
	})
	if err != nil {
		return nil, storeError(err, "question")
	}
	return &option, nil
}

func (s *optionService) UpdateOption(ctx context.Context, id string, patch OptionPatch) (*model.QuestionOption, error) {
	option, err := s.optionRepo.GetOptionByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "option")
	}
	if patch.OptionText != nil {
		text := strings.TrimSpace(*patch.OptionText)
		if text == "" {
			return nil, NewInvalidError("option text is required")
		}
		option.OptionText = text
	}
	if patch.OptionValue != nil {
		option.OptionValue = *patch.OptionValue
	}
	if patch.OrderIndex != nil {
		if *patch.OrderIndex < 1 {
			return nil, NewInvalidError("order index must be at least 1")
		}
		option.OrderIndex = *patch.OrderIndex
	}
	if err := s.optionRepo.UpdateOption(ctx, option); err != nil {
		return nil, storeError(err, "option")
	}
	return option, nil
}

func (s *optionService) RemoveOption(ctx context.Context, id string) ([]model.QuestionOption, error) {
	option, err := s.optionRepo.GetOptionByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "option")
	}
	if err := s.optionRepo.DeleteOption(ctx, id); err != nil {
		return nil, storeError(err, "option")
	}
	options, err := s.optionRepo.ListOptions(ctx, option.QuestionID)
	if err != nil {
		return nil, storeError(err, "options")
	}
	return options, nil
}

func nextOptionIndex(options []model.QuestionOption) int {
	max := 0
	for _, o := range options {
		if o.OrderIndex > max {
			max = o.OrderIndex
		}
	}
	return max + 1
}
