package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"admin-experimentai/internal/db"
	"admin-experimentai/internal/db/query"
	"admin-experimentai/internal/model"
	"admin-experimentai/internal/repository"
	"admin-experimentai/utilities"
)

// OptionInput is one entry of the option list submitted with a question.
// Entries with an id update that option; entries without one are created.
type OptionInput struct {
	ID          *string `json:"id"`
	OptionText  string  `json:"option_text"`
	OptionValue int     `json:"option_value"`
}

type QuestionInput struct {
	CategoryID   string        `json:"category_id" binding:"required"`
	ProductID    *string       `json:"product_id"`
	QuestionText string        `json:"question_text" binding:"required"`
	QuestionType string        `json:"question_type" binding:"required,question_type"`
	IsRequired   bool          `json:"is_required"`
	OrderIndex   *int          `json:"order_index"`
	IsActive     *bool         `json:"is_active"`
	Options      []OptionInput `json:"options"`
}

// QuestionPatch changes only the fields that are set. ClearProduct moves the
// question to the general scope. A non-nil Options replaces the option list.
type QuestionPatch struct {
	CategoryID   *string        `json:"category_id"`
	ProductID    *string        `json:"product_id"`
	ClearProduct bool           `json:"clear_product"`
	QuestionText *string        `json:"question_text"`
	QuestionType *string        `json:"question_type" binding:"omitempty,question_type"`
	IsRequired   *bool          `json:"is_required"`
	OrderIndex   *int           `json:"order_index"`
	IsActive     *bool          `json:"is_active"`
	Options      *[]OptionInput `json:"options"`
}

type QuestionFilter struct {
	ProductID  *string
	General    bool
	CategoryID *string
	Active     *bool
}

type QuestionService interface {
	ListQuestions(ctx context.Context, filter QuestionFilter) ([]model.Question, error)
	GetQuestion(ctx context.Context, id string) (*model.Question, error)
	CreateQuestion(ctx context.Context, input QuestionInput) (*model.Question, error)
	UpdateQuestion(ctx context.Context, id string, patch QuestionPatch) (*model.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	ReorderQuestion(ctx context.Context, id string, direction string) (bool, error)
	QuestionStats(ctx context.Context, id string) (*QuestionStats, error)
}

type questionService struct {
	executor     *db.QueryExecutor
	questionRepo repository.QuestionRepository
	optionRepo   repository.OptionRepository
	categoryRepo repository.CategoryRepository
	catalogRepo  repository.CatalogRepository
	feedbackRepo repository.FeedbackRepository
	bus          *utilities.EventBus
}

func NewQuestionService(
	executor *db.QueryExecutor,
	questionRepo repository.QuestionRepository,
	optionRepo repository.OptionRepository,
	categoryRepo repository.CategoryRepository,
	catalogRepo repository.CatalogRepository,
	feedbackRepo repository.FeedbackRepository,
	bus *utilities.EventBus,
) QuestionService {
	return &questionService{
		executor:     executor,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		categoryRepo: categoryRepo,
		catalogRepo:  catalogRepo,
		feedbackRepo: feedbackRepo,
		bus:          bus,
	}
}

func (s *questionService) ListQuestions(ctx context.Context, filter QuestionFilter) ([]model.Question, error) {
	where := query.NewFilterPredicate()
	switch {
	case filter.ProductID != nil:
		where.Equal("product_id", *filter.ProductID)
	case filter.General:
		where.IsNull("product_id")
	}
	if filter.CategoryID != nil {
		where.And().Equal("category_id", *filter.CategoryID)
	}
	if filter.Active != nil {
		where.And().Equal("is_active", *filter.Active)
	}

	questions, err := s.questionRepo.ListQuestions(ctx, where)
	if err != nil {
		return nil, storeError(err, "questions")
	}
	return questions, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	question, err := s.questionRepo.GetQuestionByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "question")
	}
	return question, nil
}

func (s *questionService) CreateQuestion(ctx context.Context, input QuestionInput) (*model.Question, error) {
	questionType, err := model.ParseQuestionType(input.QuestionType)
	if err != nil {
		return nil, NewInvalidError("invalid question type: " + input.QuestionType)
	}

	question := &model.Question{
		CategoryID:   strings.TrimSpace(input.CategoryID),
		ProductID:    normalizeOptional(input.ProductID),
		QuestionText: strings.TrimSpace(input.QuestionText),
		QuestionType: questionType,
		IsRequired:   input.IsRequired,
		IsActive:     true,
	}
	if input.IsActive != nil {
		question.IsActive = *input.IsActive
	}

	options := optionsFromInput(input.Options)
	options = model.OnQuestionTypeChanged(options, questionType).Apply(options)

	err = s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		questionRepo := s.questionRepo.WithTx(tx)
		if err := s.validateReferences(ctx, tx, question); err != nil {
			return err
		}
		if input.OrderIndex != nil {
			question.OrderIndex = *input.OrderIndex
			if err := checkOrderIndexFree(ctx, questionRepo, question); err != nil {
				return err
			}
		} else {
			max, err := questionRepo.MaxOrderIndex(ctx, question.ProductID)
			if err != nil {
				return err
			}
			question.OrderIndex = max + 1
		}
		if err := validateQuestion(question, options); err != nil {
			return err
		}

		if err := questionRepo.CreateQuestion(ctx, question); err != nil {
			return err
		}
		return s.reconcileOptions(ctx, s.optionRepo.WithTx(tx), question.ID, nil, options)
	})
	if err != nil {
		return nil, storeError(err, "question")
	}
	return s.GetQuestion(ctx, question.ID)
}

func (s *questionService) UpdateQuestion(ctx context.Context, id string, patch QuestionPatch) (*model.Question, error) {
	var newType *model.QuestionType
	if patch.QuestionType != nil {
		t, err := model.ParseQuestionType(*patch.QuestionType)
		if err != nil {
			return nil, NewInvalidError("invalid question type: " + *patch.QuestionType)
		}
		newType = &t
	}

	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		questionRepo := s.questionRepo.WithTx(tx)
		question, err := questionRepo.GetQuestionByID(ctx, id)
		if err != nil {
			return err
		}
		persisted := question.Options
		scope := question.ProductID

		if patch.CategoryID != nil {
			question.CategoryID = strings.TrimSpace(*patch.CategoryID)
		}
		if patch.ClearProduct {
			question.ProductID = nil
		} else if patch.ProductID != nil {
			question.ProductID = normalizeOptional(patch.ProductID)
		}
		if patch.QuestionText != nil {
			question.QuestionText = strings.TrimSpace(*patch.QuestionText)
		}
		if patch.IsRequired != nil {
			question.IsRequired = *patch.IsRequired
		}
		if patch.IsActive != nil {
			question.IsActive = *patch.IsActive
		}

		options := persisted
		optionsChanged := false
		if patch.Options != nil {
			options = optionsFromInput(*patch.Options)
			optionsChanged = true
		}
		if newType != nil && *newType != question.QuestionType {
			result := model.OnQuestionTypeChanged(options, *newType)
			if result.Action != model.OptionsKeep {
				options = result.Apply(options)
				optionsChanged = true
			}
			question.QuestionType = *newType
		}
		if !question.QuestionType.HasOptions() && len(options) > 0 {
			options = nil
			optionsChanged = true
		}

		if err := s.validateReferences(ctx, tx, question); err != nil {
			return err
		}
		switch {
		case patch.OrderIndex != nil:
			changed := *patch.OrderIndex != question.OrderIndex || !sameScope(scope, question.ProductID)
			question.OrderIndex = *patch.OrderIndex
			if changed {
				if err := checkOrderIndexFree(ctx, questionRepo, question); err != nil {
					return err
				}
			}
		case !sameScope(scope, question.ProductID):
			max, err := questionRepo.MaxOrderIndex(ctx, question.ProductID)
			if err != nil {
				return err
			}
			question.OrderIndex = max + 1
		}
		if err := validateQuestion(question, options); err != nil {
			return err
		}

		question.Category, question.Product, question.Options = nil, nil, nil
		if err := questionRepo.UpdateQuestion(ctx, question); err != nil {
			return err
		}
		if !optionsChanged {
			return nil
		}
		return s.reconcileOptions(ctx, s.optionRepo.WithTx(tx), question.ID, persisted, options)
	})
	if err != nil {
		return nil, storeError(err, "question")
	}
	return s.GetQuestion(ctx, id)
}

func checkOrderIndexFree(ctx context.Context, repo repository.QuestionRepository, question *model.Question) error {
	if question.OrderIndex < 1 {
		return nil
	}
	taken, err := repo.OrderIndexTaken(ctx, question.ProductID, question.OrderIndex, question.ID)
	if err != nil {
		return err
	}
	if taken {
		return NewConflictError(fmt.Sprintf("order index %d is already used in this scope", question.OrderIndex))
	}
	return nil
}

// DeleteQuestion removes the options first and the question after, in one
// transaction, so a failed option delete leaves the question intact.
func (s *questionService) DeleteQuestion(ctx context.Context, id string) error {
	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		questionRepo := s.questionRepo.WithTx(tx)
		if _, err := questionRepo.GetQuestionByID(ctx, id); err != nil {
			return err
		}
		if err := s.optionRepo.WithTx(tx).DeleteOptionsByQuestion(ctx, id); err != nil {
			return err
		}
		return questionRepo.DeleteQuestion(ctx, id)
	})
	if err != nil {
		return storeError(err, "question")
	}
	s.bus.Publish(utilities.EventQuestionDeleted, id)
	return nil
}

// ReorderQuestion swaps the question with its neighbor in the same scope.
// It reports false when the question is already first (up) or last (down).
func (s *questionService) ReorderQuestion(ctx context.Context, id string, direction string) (bool, error) {
	dir := repository.Direction(direction)
	if dir != repository.DirectionUp && dir != repository.DirectionDown {
		return false, NewInvalidError("direction must be up or down")
	}

	moved := false
	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.questionRepo.WithTx(tx)
		question, err := repo.GetQuestionByID(ctx, id)
		if err != nil {
			return err
		}
		neighbor, err := repo.FindNeighbor(ctx, question, dir)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if neighbor.OrderIndex == question.OrderIndex {
			// duplicated indexes cannot be swapped; renumber the scope first
			if question, neighbor, err = resequenceScope(ctx, repo, question, neighbor); err != nil {
				return err
			}
		}

		if err := repo.UpdateOrderIndex(ctx, question.ID, neighbor.OrderIndex); err != nil {
			return err
		}
		if err := repo.UpdateOrderIndex(ctx, neighbor.ID, question.OrderIndex); err != nil {
			return err
		}
		moved = true
		return nil
	})
	if err != nil {
		return false, storeError(err, "question")
	}
	if moved {
		s.bus.Publish(utilities.EventQuestionReordered, id)
	}
	return moved, nil
}

// resequenceScope renumbers the scope 1..n in its listing order and returns
// the two questions with their new indexes.
func resequenceScope(ctx context.Context, repo repository.QuestionRepository, question, neighbor *model.Question) (*model.Question, *model.Question, error) {
	siblings, err := repo.ListScope(ctx, question.ProductID)
	if err != nil {
		return nil, nil, err
	}
	var q, n *model.Question
	for i := range siblings {
		sibling := &siblings[i]
		if sibling.OrderIndex != i+1 {
			if err := repo.UpdateOrderIndex(ctx, sibling.ID, i+1); err != nil {
				return nil, nil, err
			}
			sibling.OrderIndex = i + 1
		}
		switch sibling.ID {
		case question.ID:
			q = sibling
		case neighbor.ID:
			n = sibling
		}
	}
	if q == nil || n == nil {
		return nil, nil, gorm.ErrRecordNotFound
	}
	return q, n, nil
}

func (s *questionService) validateReferences(ctx context.Context, tx *gorm.DB, question *model.Question) error {
	if question.CategoryID == "" {
		return NewInvalidError("category is required")
	}
	if _, err := s.categoryRepo.WithTx(tx).GetCategoryByID(ctx, question.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewInvalidError("category does not exist")
		}
		return err
	}
	if question.ProductID != nil {
		if _, err := s.catalogRepo.WithTx(tx).GetProductByID(ctx, *question.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewInvalidError("product does not exist")
			}
			return err
		}
	}
	return nil
}

func validateQuestion(question *model.Question, options []model.QuestionOption) error {
	if question.QuestionText == "" {
		return NewInvalidError("question text is required")
	}
	if question.OrderIndex < 1 {
		return NewInvalidError("order index must be at least 1")
	}
	if question.QuestionType.HasOptions() && len(options) == 0 {
		return NewInvalidError("add at least one option")
	}
	for _, o := range options {
		if strings.TrimSpace(o.OptionText) == "" {
			return NewInvalidError("option text is required")
		}
	}
	return nil
}

// reconcileOptions makes the stored options equal desired: options with a
// known id are updated, the rest are created, and stored options missing
// from desired are deleted. Positions follow the order of desired.
func (s *questionService) reconcileOptions(ctx context.Context, repo repository.OptionRepository, questionID string, persisted, desired []model.QuestionOption) error {
	known := make(map[string]model.QuestionOption, len(persisted))
	for _, o := range persisted {
		known[o.ID] = o
	}

	var keep []string
	var create []model.QuestionOption
	for i, o := range desired {
		if stored, ok := known[o.ID]; ok && o.ID != "" {
			stored.OptionText = strings.TrimSpace(o.OptionText)
			stored.OptionValue = o.OptionValue
			stored.OrderIndex = i + 1
			keep = append(keep, stored.ID)
			if err := repo.UpdateOption(ctx, &stored); err != nil {
				return err
			}
			continue
		}
		create = append(create, model.QuestionOption{
			QuestionID:  questionID,
			OptionText:  strings.TrimSpace(o.OptionText),
			OptionValue: o.OptionValue,
			OrderIndex:  i + 1,
		})
	}

	if len(persisted) > 0 {
		if err := repo.DeleteOptionsExcept(ctx, questionID, keep); err != nil {
			return err
		}
	}
	return repo.CreateOptions(ctx, create)
}

func optionsFromInput(inputs []OptionInput) []model.QuestionOption {
	options := make([]model.QuestionOption, 0, len(inputs))
	for _, in := range inputs {
		o := model.QuestionOption{OptionText: in.OptionText, OptionValue: in.OptionValue}
		if in.ID != nil {
			o.ID = *in.ID
		}
		options = append(options, o)
	}
	return options
}

func sameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
