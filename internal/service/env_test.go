package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"admin-experimentai/internal/cache"
	"admin-experimentai/internal/db"
	"admin-experimentai/internal/db/dbtest"
	"admin-experimentai/internal/model"
	"admin-experimentai/internal/repository"
	"admin-experimentai/utilities"
)

var testNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

type testEnv struct {
	db    *gorm.DB
	cache *cache.MemoryListCache
	bus   *utilities.EventBus

	categories CategoryService
	questions  QuestionService
	options    OptionService
	feedback   FeedbackService
	brands     BrandService
	catalog    CatalogService
	reports    ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := dbtest.Open(t)
	executor := db.NewQueryExecutor(conn)

	categoryRepo := repository.NewCategoryRepository(conn)
	questionRepo := repository.NewQuestionRepository(conn)
	optionRepo := repository.NewOptionRepository(conn)
	catalogRepo := repository.NewCatalogRepository(conn)
	feedbackRepo := repository.NewFeedbackRepository(conn)
	brandRepo := repository.NewBrandRepository(conn)

	env := &testEnv{
		db:    conn,
		cache: cache.NewMemoryListCache(),
		bus:   utilities.NewEventBus(),
	}
	env.categories = NewCategoryService(executor, categoryRepo, env.cache)
	env.questions = NewQuestionService(executor, questionRepo, optionRepo, categoryRepo, catalogRepo, feedbackRepo, env.bus)
	env.options = NewOptionService(executor, questionRepo, optionRepo)

	feedback := NewFeedbackService(executor, feedbackRepo, questionRepo, optionRepo, catalogRepo, env.bus, 2).(*feedbackService)
	feedback.now = func() time.Time { return testNow }
	env.feedback = feedback

	brands := NewBrandService(executor, brandRepo, env.cache, env.bus).(*brandService)
	brands.now = func() time.Time { return testNow }
	env.brands = brands

	env.catalog = NewCatalogService(executor, catalogRepo)
	env.reports = NewReportService(env.feedback)
	return env
}

func (e *testEnv) category(t *testing.T, name string) *model.QuestionCategory {
	t.Helper()
	c, err := e.categories.CreateCategory(context.Background(), CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func (e *testEnv) product(t *testing.T, name string) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Brand: "Marca " + name}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) question(t *testing.T, input QuestionInput) *model.Question {
	t.Helper()
	q, err := e.questions.CreateQuestion(context.Background(), input)
	require.NoError(t, err)
	return q
}

func ptr[T any](v T) *T { return &v }

func requireCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	require.Error(t, err)
	se, ok := AsServiceError(err)
	require.True(t, ok, "expected a ServiceError, got %v", err)
	require.Equal(t, code, se.Code, se.Message)
}
