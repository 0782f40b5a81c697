package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackSessionTransition(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	t.Run("CompleteSetsCompletedAt", func(t *testing.T) {
		s := &FeedbackSession{SessionStatus: SessionInProgress}
		require.NoError(t, s.Transition(SessionCompleted, now))
		assert.Equal(t, SessionCompleted, s.SessionStatus)
		require.NotNil(t, s.CompletedAt)
		assert.True(t, s.CompletedAt.Equal(now))
	})

	t.Run("AbandonLeavesCompletedAtEmpty", func(t *testing.T) {
		s := &FeedbackSession{SessionStatus: SessionInProgress}
		require.NoError(t, s.Transition(SessionAbandoned, now))
		assert.Equal(t, SessionAbandoned, s.SessionStatus)
		assert.Nil(t, s.CompletedAt)
	})

	t.Run("TerminalStatesAreFinal", func(t *testing.T) {
		for _, status := range []SessionStatus{SessionCompleted, SessionAbandoned} {
			s := &FeedbackSession{SessionStatus: status}
			assert.ErrorIs(t, s.Transition(SessionCompleted, now), ErrSessionClosed)
			assert.ErrorIs(t, s.Transition(SessionAbandoned, now), ErrSessionClosed)
			assert.Equal(t, status, s.SessionStatus)
		}
	})

	t.Run("CannotReopen", func(t *testing.T) {
		s := &FeedbackSession{SessionStatus: SessionInProgress}
		assert.ErrorIs(t, s.Transition(SessionInProgress, now), ErrInvalidSessionStatus)
		assert.ErrorIs(t, s.Transition("paused", now), ErrInvalidSessionStatus)
	})
}

func TestGroupAnswers(t *testing.T) {
	base := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	perfume, sabonete := "prod-perfume", "prod-sabonete"
	answer := func(id string, section AnswerSection, product *string, typ QuestionType, raw string, offset int) FeedbackAnswer {
		return FeedbackAnswer{
			ID:           id,
			SessionID:    "session-1",
			QuestionID:   "q-" + id,
			Section:      section,
			ProductID:    product,
			QuestionText: "pergunta " + id,
			QuestionType: typ,
			Answer:       AnswerValue(raw),
			CreatedAt:    base.Add(time.Duration(offset) * time.Minute),
		}
	}

	answers := []FeedbackAnswer{
		answer("a1", SectionProduct, &perfume, QuestionTypeEmojiRating, `5`, 3),
		answer("a2", SectionExperimentai, nil, QuestionTypeText, `"adorei"`, 1),
		answer("a3", SectionDelivery, nil, QuestionTypeBoolean, `true`, 5),
		answer("a4", SectionProduct, &sabonete, QuestionTypeEmojiRating, `"x"`, 0),
		answer("a5", SectionProduct, &perfume, QuestionTypeBoolean, `false`, 2),
		answer("a6", SectionExperimentai, nil, QuestionTypeEmojiRating, `4`, 4),
	}
	products := map[string]Product{perfume: {ID: perfume, Name: "Perfume"}}

	got := GroupAnswers(answers, products, nil)

	assert.Equal(t, len(answers), got.Count())
	require.Len(t, got.ProductFeedbacks, 2)
	require.Len(t, got.ExperimentaiFeedbacks, 1)
	require.Len(t, got.DeliveryFeedbacks, 1)

	// sabonete's only answer is older than every perfume answer
	assert.Equal(t, sabonete, *got.ProductFeedbacks[0].ProductID)
	assert.Empty(t, got.ProductFeedbacks[0].ProductName)
	assert.NotEmpty(t, got.ProductFeedbacks[0].Answers[0].Rendered.Warning)

	perfumeGroup := got.ProductFeedbacks[1]
	assert.Equal(t, "Perfume", perfumeGroup.ProductName)
	require.Len(t, perfumeGroup.Answers, 2)
	assert.Equal(t, "a5", perfumeGroup.Answers[0].ID)
	assert.Equal(t, "a1", perfumeGroup.Answers[1].ID)
	assert.True(t, perfumeGroup.CreatedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, "Não", perfumeGroup.Answers[0].Rendered.Display)

	exp := got.ExperimentaiFeedbacks[0]
	require.Len(t, exp.Answers, 2)
	assert.Equal(t, "a2", exp.Answers[0].ID)
	assert.Equal(t, "4/5", exp.Answers[1].Rendered.Display)

	assert.Equal(t, "Sim", got.DeliveryFeedbacks[0].Answers[0].Rendered.Display)

	seen := map[string]int{}
	for _, groups := range [][]AnswerGroup{got.ProductFeedbacks, got.ExperimentaiFeedbacks, got.DeliveryFeedbacks} {
		for _, g := range groups {
			for _, a := range g.Answers {
				seen[a.ID]++
			}
		}
	}
	for _, a := range answers {
		assert.Equal(t, 1, seen[a.ID], a.ID)
	}
}

func TestGroupAnswersEmpty(t *testing.T) {
	got := GroupAnswers(nil, nil, nil)
	assert.NotNil(t, got.ProductFeedbacks)
	assert.NotNil(t, got.ExperimentaiFeedbacks)
	assert.NotNil(t, got.DeliveryFeedbacks)
	assert.Zero(t, got.Count())
}

func TestFeedbackAnswerSectionCheck(t *testing.T) {
	product := "prod-perfume"
	cases := []struct {
		section AnswerSection
		product *string
		ok      bool
	}{
		{SectionProduct, &product, true},
		{SectionExperimentai, nil, true},
		{SectionDelivery, nil, true},
		{SectionProduct, nil, false},
		{SectionDelivery, &product, false},
		{"shipping", nil, false},
	}
	for _, c := range cases {
		a := &FeedbackAnswer{Section: c.section, ProductID: c.product}
		err := a.BeforeCreate(nil)
		if c.ok {
			assert.NoError(t, err, c.section)
			assert.NotEmpty(t, a.ID)
		} else {
			assert.ErrorIs(t, err, ErrInvalidAnswerSection, c.section)
			assert.Empty(t, a.ID)
		}
	}
}
