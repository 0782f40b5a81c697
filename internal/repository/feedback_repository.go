package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"admin-experimentai/internal/db/query"
	"admin-experimentai/internal/model"
)

type FeedbackRepository interface {
	WithTx(tx *gorm.DB) FeedbackRepository
	CreateSession(ctx context.Context, session *model.FeedbackSession) error
	GetSessionByID(ctx context.Context, id string) (*model.FeedbackSession, error)
	ListSessions(ctx context.Context, where *query.FilterPredicate, limit, offset int) ([]model.FeedbackSession, int64, error)
	TouchOpenSession(ctx context.Context, id string, now time.Time) (bool, error)
	CloseSession(ctx context.Context, session *model.FeedbackSession) (bool, error)
	UpsertAnswer(ctx context.Context, answer *model.FeedbackAnswer) error
	GetAnswer(ctx context.Context, sessionID, questionID string) (*model.FeedbackAnswer, error)
	ListAnswers(ctx context.Context, sessionID string) ([]model.FeedbackAnswer, error)
	ListAnswersByQuestion(ctx context.Context, questionID string) ([]model.FeedbackAnswer, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) WithTx(tx *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: tx}
}

func (r *feedbackRepository) withReferences(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Customer").Preload("Box").Preload("Edition")
}

func (r *feedbackRepository) CreateSession(ctx context.Context, session *model.FeedbackSession) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error
}

func (r *feedbackRepository) GetSessionByID(ctx context.Context, id string) (*model.FeedbackSession, error) {
	var session model.FeedbackSession
	if err := r.withReferences(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *feedbackRepository) ListSessions(ctx context.Context, where *query.FilterPredicate, limit, offset int) ([]model.FeedbackSession, int64, error) {
	var total int64
	if err := where.Apply(r.db.WithContext(ctx).Model(&model.FeedbackSession{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.FeedbackSession
	err := where.Apply(r.withReferences(ctx)).
		Order("started_at desc").Order("id asc").
		Limit(limit).Offset(offset).
		Find(&sessions).Error
	return sessions, total, err
}

// TouchOpenSession bumps updated_at of an in_progress session and reports
// whether the session was still open. Inside a transaction the row stays
// locked until commit, so a concurrent close waits for pending answers.
func (r *feedbackRepository) TouchOpenSession(ctx context.Context, id string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.FeedbackSession{}).
		Where("id = ? AND session_status = ?", id, model.SessionInProgress).
		Update("updated_at", now)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CloseSession writes a terminal status only if the stored session is still
// in_progress, and reports whether it did.
func (r *feedbackRepository) CloseSession(ctx context.Context, session *model.FeedbackSession) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.FeedbackSession{}).
		Where("id = ? AND session_status = ?", session.ID, model.SessionInProgress).
		Updates(map[string]interface{}{
			"session_status":   session.SessionStatus,
			"completed_at":     session.CompletedAt,
			"completion_badge": session.CompletionBadge,
			"final_message":    session.FinalMessage,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpsertAnswer inserts the answer or overwrites the one already stored for
// the same session and question.
func (r *feedbackRepository) UpsertAnswer(ctx context.Context, answer *model.FeedbackAnswer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"section", "product_id", "question_text", "question_type", "answer", "updated_at",
		}),
	}).Create(answer).Error
}

func (r *feedbackRepository) GetAnswer(ctx context.Context, sessionID, questionID string) (*model.FeedbackAnswer, error) {
	var answer model.FeedbackAnswer
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *feedbackRepository) ListAnswers(ctx context.Context, sessionID string) ([]model.FeedbackAnswer, error) {
	var answers []model.FeedbackAnswer
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").Order("id asc").
		Find(&answers).Error
	return answers, err
}

func (r *feedbackRepository) ListAnswersByQuestion(ctx context.Context, questionID string) ([]model.FeedbackAnswer, error) {
	var answers []model.FeedbackAnswer
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at asc").
		Find(&answers).Error
	return answers, err
}
