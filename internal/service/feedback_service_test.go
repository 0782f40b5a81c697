package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-experimentai/internal/model"
)

type feedbackFixture struct {
	env      *testEnv
	perfume  *model.Product
	rating   *model.Question
	flavor   *model.Question
	delivery *model.Question
	comment  *model.Question
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	env := newTestEnv(t)
	cat := env.category(t, "Geral")
	f := &feedbackFixture{env: env, perfume: env.product(t, "Perfume")}
	f.rating = env.question(t, QuestionInput{CategoryID: cat.ID, ProductID: ptr(f.perfume.ID), QuestionText: "Nota do perfume", QuestionType: "emoji_rating"})
	f.flavor = env.question(t, QuestionInput{
		CategoryID:   cat.ID,
		QuestionText: "Qual box prefere?",
		QuestionType: "multiple_choice",
		Options:      []OptionInput{{OptionText: "Beleza", OptionValue: 1}, {OptionText: "Gourmet", OptionValue: 2}},
	})
	f.delivery = env.question(t, QuestionInput{CategoryID: cat.ID, QuestionText: "Chegou no prazo?", QuestionType: "boolean"})
	f.comment = env.question(t, QuestionInput{CategoryID: cat.ID, QuestionText: "Algo mais?", QuestionType: "text"})
	return f
}

func (f *feedbackFixture) submit(t *testing.T, sessionID string, q *model.Question, answer string, delivery bool) *model.AnswerView {
	t.Helper()
	view, err := f.env.feedback.SubmitAnswer(context.Background(), sessionID, SubmitAnswerInput{
		QuestionID: q.ID,
		Answer:     json.RawMessage(answer),
		Delivery:   delivery,
	})
	require.NoError(t, err)
	return view
}

func TestFeedbackSessionFlow(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	session, err := f.env.feedback.StartSession(ctx, StartSessionInput{UserEmail: ptr(" ana@example.com ")})
	require.NoError(t, err)
	assert.Equal(t, model.SessionInProgress, session.SessionStatus)
	assert.True(t, session.StartedAt.Equal(testNow))
	assert.Equal(t, "ana@example.com", session.RespondentEmail())

	t.Run("AnswersAreSnapshotted", func(t *testing.T) {
		view := f.submit(t, session.ID, f.rating, `4`, false)
		assert.Equal(t, model.SectionProduct, view.Section)
		require.NotNil(t, view.ProductID)
		assert.Equal(t, f.perfume.ID, *view.ProductID)
		assert.Equal(t, "Nota do perfume", view.QuestionText)
		assert.Equal(t, "4/5", view.Rendered.Display)

		_, err := f.env.questions.UpdateQuestion(ctx, f.rating.ID, QuestionPatch{QuestionText: ptr("Nota nova")})
		require.NoError(t, err)

		answers, err := f.env.feedback.GetSessionAnswers(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, answers.ProductFeedbacks, 1)
		assert.Equal(t, "Nota do perfume", answers.ProductFeedbacks[0].Answers[0].QuestionText)
	})

	t.Run("ResubmitReplaces", func(t *testing.T) {
		first := f.submit(t, session.ID, f.flavor, `"Beleza"`, false)
		second := f.submit(t, session.ID, f.flavor, `"Gourmet"`, false)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Gourmet", second.Rendered.Display)
		assert.Equal(t, model.SectionExperimentai, second.Section)

		var count int64
		require.NoError(t, f.env.db.Model(&model.FeedbackAnswer{}).
			Where("session_id = ? AND question_id = ?", session.ID, f.flavor.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		cases := []struct {
			q      *model.Question
			answer string
		}{
			{f.rating, `6`},
			{f.rating, `4 junk`},
			{f.rating, `"great"`},
			{f.flavor, `"Vinhos"`},
			{f.delivery, `"talvez"`},
			{f.comment, `42`},
			{f.comment, `null`},
		}
		for _, c := range cases {
			_, err := f.env.feedback.SubmitAnswer(ctx, session.ID, SubmitAnswerInput{QuestionID: c.q.ID, Answer: json.RawMessage(c.answer)})
			requireCode(t, err, ErrorInvalid)
		}

		_, err := f.env.feedback.SubmitAnswer(ctx, session.ID, SubmitAnswerInput{QuestionID: "e0e0e0e0-0000-4000-8000-000000000000", Answer: json.RawMessage(`"x"`)})
		requireCode(t, err, ErrorInvalid)
	})

	t.Run("GroupsEveryAnswerOnce", func(t *testing.T) {
		f.submit(t, session.ID, f.delivery, `true`, true)
		f.submit(t, session.ID, f.comment, `"Adorei"`, false)

		answers, err := f.env.feedback.GetSessionAnswers(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, answers.Count())

		require.Len(t, answers.ProductFeedbacks, 1)
		assert.Equal(t, "Perfume", answers.ProductFeedbacks[0].ProductName)
		require.Len(t, answers.ExperimentaiFeedbacks, 1)
		assert.Len(t, answers.ExperimentaiFeedbacks[0].Answers, 2)
		require.Len(t, answers.DeliveryFeedbacks, 1)
		assert.Equal(t, "Sim", answers.DeliveryFeedbacks[0].Answers[0].Rendered.Display)
	})

	t.Run("CompleteIsTerminal", func(t *testing.T) {
		done, err := f.env.feedback.CompleteSession(ctx, session.ID, CompleteSessionInput{CompletionBadge: ptr("ouro"), FinalMessage: ptr("Obrigado!")})
		require.NoError(t, err)
		assert.Equal(t, model.SessionCompleted, done.SessionStatus)
		require.NotNil(t, done.CompletedAt)
		assert.True(t, done.CompletedAt.Equal(testNow))
		assert.Equal(t, "ouro", *done.CompletionBadge)

		_, err = f.env.feedback.SubmitAnswer(ctx, session.ID, SubmitAnswerInput{QuestionID: f.comment.ID, Answer: json.RawMessage(`"depois"`)})
		requireCode(t, err, ErrorConflict)

		_, err = f.env.feedback.AbandonSession(ctx, session.ID)
		requireCode(t, err, ErrorConflict)
		_, err = f.env.feedback.CompleteSession(ctx, session.ID, CompleteSessionInput{})
		requireCode(t, err, ErrorConflict)
	})
}

func TestAbandonSession(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	session, err := f.env.feedback.StartSession(ctx, StartSessionInput{})
	require.NoError(t, err)

	abandoned, err := f.env.feedback.AbandonSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionAbandoned, abandoned.SessionStatus)
	assert.Nil(t, abandoned.CompletedAt)

	_, err = f.env.feedback.AbandonSession(ctx, "f0f0f0f0-0000-4000-8000-000000000000")
	requireCode(t, err, ErrorNotFound)

	_, err = f.env.feedback.StartSession(ctx, StartSessionInput{UserEmail: ptr("not-an-email")})
	requireCode(t, err, ErrorInvalid)
}

func TestStartSessionReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := &model.Customer{Name: "Bia", Email: "bia@example.com"}
	box := &model.Box{Theme: "Beleza"}
	edition := &model.Edition{Edition: "Março"}
	require.NoError(t, env.db.Create(customer).Error)
	require.NoError(t, env.db.Create(box).Error)
	require.NoError(t, env.db.Create(edition).Error)

	session, err := env.feedback.StartSession(ctx, StartSessionInput{
		CustomerID: ptr(customer.CustomerID),
		BoxID:      ptr(box.ID),
		EditionID:  ptr(edition.EditionID),
	})
	require.NoError(t, err)
	require.NotNil(t, session.CustomerID)
	assert.Equal(t, customer.CustomerID, *session.CustomerID)

	unknown := "d0d0d0d0-0000-4000-8000-000000000000"
	for _, input := range []StartSessionInput{
		{CustomerID: ptr(unknown)},
		{CustomerID: ptr(customer.CustomerID), BoxID: ptr(unknown)},
		{EditionID: ptr(unknown)},
		{CustomerID: ptr("cliente-1")},
	} {
		_, err := env.feedback.StartSession(ctx, input)
		requireCode(t, err, ErrorInvalid)
	}

	var count int64
	require.NoError(t, env.db.Model(&model.FeedbackSession{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := &model.Customer{Name: "Bia", Email: "bia@example.com"}
	require.NoError(t, env.db.Create(customer).Error)
	for i, status := range []model.SessionStatus{model.SessionCompleted, model.SessionCompleted, model.SessionInProgress} {
		s := &model.FeedbackSession{
			CustomerID:    ptr(customer.CustomerID),
			SessionStatus: status,
			StartedAt:     testNow.AddDate(0, 0, i),
		}
		require.NoError(t, env.db.Create(s).Error)
	}

	page, err := env.feedback.ListSessions(ctx, SessionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.PageSize)
	require.Len(t, page.Sessions, 2)
	assert.Equal(t, model.SessionInProgress, page.Sessions[0].SessionStatus)
	require.NotNil(t, page.Sessions[0].Customer)
	assert.Equal(t, "bia@example.com", page.Sessions[0].RespondentEmail())

	page, err = env.feedback.ListSessions(ctx, SessionFilter{Status: "completed", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Empty(t, page.Sessions)
	assert.NotNil(t, page.Sessions)

	_, err = env.feedback.ListSessions(ctx, SessionFilter{Status: "paused"})
	requireCode(t, err, ErrorInvalid)
}

func TestQuestionStats(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	for _, raw := range []string{`5`, `4`, `"5"`} {
		s, err := f.env.feedback.StartSession(ctx, StartSessionInput{})
		require.NoError(t, err)
		f.submit(t, s.ID, f.rating, raw, false)
	}
	// a legacy value stored before validation existed
	require.NoError(t, f.env.db.Create(&model.FeedbackAnswer{
		SessionID:    "legacy-session",
		QuestionID:   f.rating.ID,
		Section:      model.SectionProduct,
		ProductID:    f.rating.ProductID,
		QuestionText: f.rating.QuestionText,
		QuestionType: model.QuestionTypeEmojiRating,
		Answer:       model.AnswerValue(`"ótimo"`),
	}).Error)

	stats, err := f.env.questions.QuestionStats(ctx, f.rating.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalAnswers)
	assert.Equal(t, 3, stats.ValidAnswers)
	assert.Equal(t, 1, stats.FlaggedAnswers)
	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 14.0/3.0, *stats.AverageRating, 1e-9)

	counts := map[string]int{}
	for _, lc := range stats.Distribution {
		counts[lc.Label] = lc.Count
	}
	assert.Equal(t, 2, counts["Excelente"])
	assert.Equal(t, 1, counts["Bom"])
	assert.Equal(t, 0, counts["Muito Ruim"])
	assert.Len(t, stats.Distribution, 5)
}

func TestSessionReportPDF(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	session, err := f.env.feedback.StartSession(ctx, StartSessionInput{UserEmail: ptr("caio@example.com")})
	require.NoError(t, err)
	f.submit(t, session.ID, f.rating, `3`, false)
	f.submit(t, session.ID, f.delivery, `false`, true)

	pdf, err := f.env.reports.SessionReportPDF(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, len(pdf) > 100)
	assert.Equal(t, "%PDF-", string(pdf[:5]))

	_, err = f.env.reports.SessionReportPDF(ctx, "f1f1f1f1-0000-4000-8000-000000000000")
	requireCode(t, err, ErrorNotFound)
}
