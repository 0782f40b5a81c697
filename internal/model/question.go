package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeEmojiRating    QuestionType = "emoji_rating"
	QuestionTypeText           QuestionType = "text"
	QuestionTypeBoolean        QuestionType = "boolean"
)

var ErrInvalidQuestionType = errors.New("invalid question type")

// QuestionTypes lists the accepted question types in display order.
var QuestionTypes = []QuestionType{
	QuestionTypeMultipleChoice,
	QuestionTypeEmojiRating,
	QuestionTypeText,
	QuestionTypeBoolean,
}

func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HasOptions reports whether answers to this type are picked from options.
func (t QuestionType) HasOptions() bool {
	return t != QuestionTypeText
}

func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(s)
	if !t.Valid() {
		return "", ErrInvalidQuestionType
	}
	return t, nil
}

type QuestionCategory struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *QuestionCategory) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return nil
}

// Question belongs to one category and is either general (ProductID nil)
// or scoped to a single product. OrderIndex is unique inside that scope.
type Question struct {
	ID           string            `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID   string            `gorm:"type:uuid;not null;index" json:"category_id"`
	ProductID    *string           `gorm:"type:uuid;index" json:"product_id"`
	QuestionText string            `gorm:"not null" json:"question_text"`
	QuestionType QuestionType      `gorm:"type:varchar(32);not null" json:"question_type"`
	IsRequired   bool              `gorm:"not null" json:"is_required"`
	OrderIndex   int               `gorm:"not null" json:"order_index"`
	IsActive     bool              `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Category     *QuestionCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Product      *Product          `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Options      []QuestionOption  `gorm:"foreignKey:QuestionID" json:"options"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	newID(&q.ID)
	return nil
}

// IsGeneral reports whether the question applies to every product.
func (q *Question) IsGeneral() bool {
	return q.ProductID == nil
}

type QuestionOption struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID  string    `gorm:"type:uuid;not null;index" json:"question_id"`
	OptionText  string    `gorm:"not null" json:"option_text"`
	OptionValue int       `gorm:"not null" json:"option_value"`
	OrderIndex  int       `gorm:"not null" json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (o *QuestionOption) BeforeCreate(tx *gorm.DB) error {
	newID(&o.ID)
	return nil
}
