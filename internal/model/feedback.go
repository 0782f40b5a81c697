package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

var (
	ErrSessionClosed        = errors.New("feedback session is closed")
	ErrInvalidSessionStatus = errors.New("invalid session status")
	ErrInvalidAnswerSection = errors.New("invalid answer section")
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionInProgress, SessionCompleted, SessionAbandoned:
		return true
	}
	return false
}

// Terminal reports whether the session can no longer change.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

type FeedbackSession struct {
	ID              string        `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID      *string       `gorm:"type:uuid;index" json:"customer_id"`
	UserEmail       *string       `json:"user_email"`
	BoxID           *string       `gorm:"type:uuid" json:"box_id"`
	EditionID       *string       `gorm:"type:uuid" json:"edition_id"`
	SessionStatus   SessionStatus `gorm:"type:varchar(16);not null;index" json:"session_status"`
	StartedAt       time.Time     `gorm:"not null" json:"started_at"`
	CompletedAt     *time.Time    `json:"completed_at"`
	CompletionBadge *string       `json:"completion_badge"`
	FinalMessage    *string       `json:"final_message"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Customer        *Customer     `gorm:"foreignKey:CustomerID;references:CustomerID" json:"customer,omitempty"`
	Box             *Box          `gorm:"foreignKey:BoxID" json:"box,omitempty"`
	Edition         *Edition      `gorm:"foreignKey:EditionID;references:EditionID" json:"edition,omitempty"`
}

func (s *FeedbackSession) BeforeCreate(tx *gorm.DB) error {
	newID(&s.ID)
	if s.SessionStatus == "" {
		s.SessionStatus = SessionInProgress
	}
	return nil
}

// Transition moves the session to status. Only in_progress sessions move,
// and completed_at is set exactly when the session completes.
func (s *FeedbackSession) Transition(to SessionStatus, now time.Time) error {
	if !to.Valid() || to == SessionInProgress {
		return ErrInvalidSessionStatus
	}
	if s.SessionStatus.Terminal() {
		return ErrSessionClosed
	}
	s.SessionStatus = to
	if to == SessionCompleted {
		s.CompletedAt = &now
	}
	return nil
}

// RespondentEmail prefers the linked customer's email over the one typed in.
func (s *FeedbackSession) RespondentEmail() string {
	if s.Customer != nil && s.Customer.Email != "" {
		return s.Customer.Email
	}
	if s.UserEmail != nil {
		return *s.UserEmail
	}
	return ""
}

type AnswerSection string

const (
	SectionProduct      AnswerSection = "product"
	SectionExperimentai AnswerSection = "experimentai"
	SectionDelivery     AnswerSection = "delivery"
)

func (s AnswerSection) Valid() bool {
	switch s {
	case SectionProduct, SectionExperimentai, SectionDelivery:
		return true
	}
	return false
}

// FeedbackAnswer keeps a copy of the question text and type as they were
// when the answer was given.
type FeedbackAnswer struct {
	ID           string        `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID    string        `gorm:"type:uuid;not null;uniqueIndex:idx_answer_session_question" json:"session_id"`
	QuestionID   string        `gorm:"type:uuid;not null;uniqueIndex:idx_answer_session_question" json:"question_id"`
	Section      AnswerSection `gorm:"type:varchar(16);not null" json:"section"`
	ProductID    *string       `gorm:"type:uuid" json:"product_id"`
	QuestionText string        `gorm:"not null" json:"question_text"`
	QuestionType QuestionType  `gorm:"type:varchar(32);not null" json:"question_type"`
	Answer       AnswerValue   `json:"answer"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (a *FeedbackAnswer) BeforeCreate(tx *gorm.DB) error {
	if !a.Section.Valid() || (a.Section == SectionProduct) != (a.ProductID != nil) {
		return ErrInvalidAnswerSection
	}
	newID(&a.ID)
	return nil
}
