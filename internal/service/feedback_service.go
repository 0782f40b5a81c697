package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admin-experimentai/internal/db"
	"admin-experimentai/internal/db/query"
	"admin-experimentai/internal/model"
	"admin-experimentai/internal/repository"
	"admin-experimentai/utilities"
)

type SessionFilter struct {
	Status     string
	CustomerID string
	Page       int
}

type SessionPage struct {
	Sessions []model.FeedbackSession `json:"sessions"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

type StartSessionInput struct {
	CustomerID *string `json:"customer_id"`
	UserEmail  *string `json:"user_email"`
	BoxID      *string `json:"box_id"`
	EditionID  *string `json:"edition_id"`
}

// SubmitAnswerInput carries one answer. Delivery marks a general question
// answered on the delivery step of the questionnaire.
type SubmitAnswerInput struct {
	QuestionID string          `json:"question_id" binding:"required"`
	Answer     json.RawMessage `json:"answer"`
	Delivery   bool            `json:"delivery"`
}

type CompleteSessionInput struct {
	CompletionBadge *string `json:"completion_badge"`
	FinalMessage    *string `json:"final_message"`
}

type FeedbackService interface {
	ListSessions(ctx context.Context, filter SessionFilter) (*SessionPage, error)
	GetSession(ctx context.Context, id string) (*model.FeedbackSession, error)
	GetSessionAnswers(ctx context.Context, id string) (*model.SessionAnswers, error)
	StartSession(ctx context.Context, input StartSessionInput) (*model.FeedbackSession, error)
	SubmitAnswer(ctx context.Context, sessionID string, input SubmitAnswerInput) (*model.AnswerView, error)
	CompleteSession(ctx context.Context, id string, input CompleteSessionInput) (*model.FeedbackSession, error)
	AbandonSession(ctx context.Context, id string) (*model.FeedbackSession, error)
}

type feedbackService struct {
	executor     *db.QueryExecutor
	feedbackRepo repository.FeedbackRepository
	questionRepo repository.QuestionRepository
	optionRepo   repository.OptionRepository
	catalogRepo  repository.CatalogRepository
	bus          *utilities.EventBus
	pageSize     int
	now          func() time.Time
}

func NewFeedbackService(
	executor *db.QueryExecutor,
	feedbackRepo repository.FeedbackRepository,
	questionRepo repository.QuestionRepository,
	optionRepo repository.OptionRepository,
	catalogRepo repository.CatalogRepository,
	bus *utilities.EventBus,
	pageSize int,
) FeedbackService {
	if pageSize < 1 {
		pageSize = 20
	}
	return &feedbackService{
		executor:     executor,
		feedbackRepo: feedbackRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		catalogRepo:  catalogRepo,
		bus:          bus,
		pageSize:     pageSize,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *feedbackService) ListSessions(ctx context.Context, filter SessionFilter) (*SessionPage, error) {
	where := query.NewFilterPredicate()
	if filter.Status != "" {
		status := model.SessionStatus(filter.Status)
		if !status.Valid() {
			return nil, NewInvalidError("invalid session status: " + filter.Status)
		}
		where.Equal("session_status", status)
	}
	if filter.CustomerID != "" {
		where.And().Equal("customer_id", filter.CustomerID)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	sessions, total, err := s.feedbackRepo.ListSessions(ctx, where, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, storeError(err, "feedback sessions")
	}
	if sessions == nil {
		sessions = []model.FeedbackSession{}
	}
	return &SessionPage{Sessions: sessions, Total: total, Page: page, PageSize: s.pageSize}, nil
}

func (s *feedbackService) GetSession(ctx context.Context, id string) (*model.FeedbackSession, error) {
	session, err := s.feedbackRepo.GetSessionByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "feedback session")
	}
	return session, nil
}

// GetSessionAnswers loads every answer of the session and groups it for the
// viewer. Labels come from the current options of each question.
func (s *feedbackService) GetSessionAnswers(ctx context.Context, id string) (*model.SessionAnswers, error) {
	if _, err := s.feedbackRepo.GetSessionByID(ctx, id); err != nil {
		return nil, storeError(err, "feedback session")
	}
	answers, err := s.feedbackRepo.ListAnswers(ctx, id)
	if err != nil {
		return nil, storeError(err, "answers")
	}

	var productIDs, questionIDs []string
	seen := map[string]bool{}
	for _, a := range answers {
		if a.ProductID != nil && !seen[*a.ProductID] {
			seen[*a.ProductID] = true
			productIDs = append(productIDs, *a.ProductID)
		}
		questionIDs = append(questionIDs, a.QuestionID)
	}
	products, err := s.catalogRepo.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, storeError(err, "products")
	}
	options, err := s.optionRepo.ListOptionsByQuestions(ctx, questionIDs)
	if err != nil {
		return nil, storeError(err, "options")
	}

	grouped := model.GroupAnswers(answers, products, options)
	return &grouped, nil
}

func (s *feedbackService) StartSession(ctx context.Context, input StartSessionInput) (*model.FeedbackSession, error) {
	session := &model.FeedbackSession{
		CustomerID:    normalizeOptional(input.CustomerID),
		UserEmail:     normalizeOptional(input.UserEmail),
		BoxID:         normalizeOptional(input.BoxID),
		EditionID:     normalizeOptional(input.EditionID),
		SessionStatus: model.SessionInProgress,
		StartedAt:     s.now(),
	}
	if session.UserEmail != nil && !strings.Contains(*session.UserEmail, "@") {
		return nil, NewInvalidError("invalid email: " + *session.UserEmail)
	}
	if err := s.checkReferences(ctx, session); err != nil {
		return nil, err
	}
	if err := s.feedbackRepo.CreateSession(ctx, session); err != nil {
		return nil, storeError(err, "feedback session")
	}
	return s.GetSession(ctx, session.ID)
}

// checkReferences makes sure the customer, box and edition a session points
// at are known to the catalog.
func (s *feedbackService) checkReferences(ctx context.Context, session *model.FeedbackSession) error {
	refs := []struct {
		id     *string
		table  interface{}
		column string
		what   string
	}{
		{session.CustomerID, &model.Customer{}, "customer_id", "customer"},
		{session.BoxID, &model.Box{}, "id", "box"},
		{session.EditionID, &model.Edition{}, "edition_id", "edition"},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		if _, err := uuid.Parse(*ref.id); err != nil {
			return NewInvalidError("invalid " + ref.what + " id: " + *ref.id)
		}
		ok, err := s.executor.Exists(ctx, ref.table, query.NewFilterPredicate().Equal(ref.column, *ref.id))
		if err != nil {
			return storeError(err, ref.what)
		}
		if !ok {
			return NewInvalidError(ref.what + " does not exist: " + *ref.id)
		}
	}
	return nil
}

// SubmitAnswer stores or replaces the session's answer to one question. The
// question text and type are copied onto the answer so later edits to the
// question do not change what the respondent saw.
func (s *feedbackService) SubmitAnswer(ctx context.Context, sessionID string, input SubmitAnswerInput) (*model.AnswerView, error) {
	questionID := strings.TrimSpace(input.QuestionID)
	if questionID == "" {
		return nil, NewInvalidError("question_id is required")
	}

	var stored *model.FeedbackAnswer
	var options []model.QuestionOption
	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		feedbackRepo := s.feedbackRepo.WithTx(tx)
		if _, err := feedbackRepo.GetSessionByID(ctx, sessionID); err != nil {
			return err
		}
		open, err := feedbackRepo.TouchOpenSession(ctx, sessionID, s.now())
		if err != nil {
			return err
		}
		if !open {
			return NewConflictError(model.ErrSessionClosed.Error())
		}

		question, err := s.questionRepo.WithTx(tx).GetQuestionByID(ctx, questionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewInvalidError("question does not exist")
		}
		if err != nil {
			return err
		}
		if !question.IsActive {
			return NewInvalidError("question is not active")
		}
		options = question.Options
		if err := model.ValidateAnswer(question.QuestionType, input.Answer, options); err != nil {
			return NewInvalidError(err.Error())
		}

		answer := &model.FeedbackAnswer{
			SessionID:    sessionID,
			QuestionID:   question.ID,
			Section:      answerSection(question, input.Delivery),
			QuestionText: question.QuestionText,
			QuestionType: question.QuestionType,
			Answer:       model.AnswerValue(input.Answer),
		}
		if answer.Section == model.SectionProduct {
			answer.ProductID = question.ProductID
		}
		if err := feedbackRepo.UpsertAnswer(ctx, answer); err != nil {
			return err
		}
		stored, err = feedbackRepo.GetAnswer(ctx, sessionID, question.ID)
		return err
	})
	if err != nil {
		return nil, storeError(err, "feedback session")
	}
	return &model.AnswerView{
		FeedbackAnswer: *stored,
		Rendered:       model.RenderAnswer(stored.QuestionType, stored.Answer, options),
	}, nil
}

func answerSection(question *model.Question, delivery bool) model.AnswerSection {
	switch {
	case !question.IsGeneral():
		return model.SectionProduct
	case delivery:
		return model.SectionDelivery
	}
	return model.SectionExperimentai
}

func (s *feedbackService) CompleteSession(ctx context.Context, id string, input CompleteSessionInput) (*model.FeedbackSession, error) {
	return s.closeSession(ctx, id, model.SessionCompleted, func(session *model.FeedbackSession) {
		session.CompletionBadge = normalizeOptional(input.CompletionBadge)
		session.FinalMessage = normalizeOptional(input.FinalMessage)
	})
}

func (s *feedbackService) AbandonSession(ctx context.Context, id string) (*model.FeedbackSession, error) {
	return s.closeSession(ctx, id, model.SessionAbandoned, nil)
}

func (s *feedbackService) closeSession(ctx context.Context, id string, to model.SessionStatus, decorate func(*model.FeedbackSession)) (*model.FeedbackSession, error) {
	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.feedbackRepo.WithTx(tx)
		session, err := repo.GetSessionByID(ctx, id)
		if err != nil {
			return err
		}
		if err := session.Transition(to, s.now()); err != nil {
			if errors.Is(err, model.ErrSessionClosed) {
				return NewConflictError(err.Error())
			}
			return NewInvalidError(err.Error())
		}
		if decorate != nil {
			decorate(session)
		}
		closed, err := repo.CloseSession(ctx, session)
		if err != nil {
			return err
		}
		if !closed {
			return NewConflictError(model.ErrSessionClosed.Error())
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "feedback session")
	}

	event := utilities.EventSessionAbandoned
	if to == model.SessionCompleted {
		event = utilities.EventSessionCompleted
	}
	s.bus.Publish(event, id)
	return s.GetSession(ctx, id)
}
