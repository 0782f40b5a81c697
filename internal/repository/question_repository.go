package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"admin-experimentai/internal/db/query"
	"admin-experimentai/internal/model"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	ListQuestions(ctx context.Context, where *query.FilterPredicate) ([]model.Question, error)
	GetQuestionByID(ctx context.Context, id string) (*model.Question, error)
	CreateQuestion(ctx context.Context, question *model.Question) error
	UpdateQuestion(ctx context.Context, question *model.Question) error
	DeleteQuestion(ctx context.Context, id string) error
	ListScope(ctx context.Context, productID *string) ([]model.Question, error)
	FindNeighbor(ctx context.Context, question *model.Question, direction Direction) (*model.Question, error)
	UpdateOrderIndex(ctx context.Context, id string, orderIndex int) error
	MaxOrderIndex(ctx context.Context, productID *string) (int, error)
	OrderIndexTaken(ctx context.Context, productID *string, orderIndex int, excludeID string) (bool, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Product").
		Preload("Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index asc").Order("id asc")
		})
}

func (r *questionRepository) ListQuestions(ctx context.Context, where *query.FilterPredicate) ([]model.Question, error) {
	var questions []model.Question
	err := where.Apply(r.withAssociations(ctx)).
		Order("order_index asc").Order("created_at asc").Order("id asc").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) GetQuestionByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	if err := r.withAssociations(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) CreateQuestion(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(question).Error
}

func (r *questionRepository) UpdateQuestion(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(question).Error
}

// DeleteQuestion returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *questionRepository) DeleteQuestion(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Question{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListScope returns the siblings of one ordering scope: general questions
// when productID is nil, otherwise that product's questions.
func (r *questionRepository) ListScope(ctx context.Context, productID *string) ([]model.Question, error) {
	var questions []model.Question
	err := query.NewFilterPredicate().EqualOrNull("product_id", productID).
		Apply(r.db.WithContext(ctx)).
		Order("order_index asc").Order("created_at asc").Order("id asc").
		Find(&questions).Error
	return questions, err
}

// FindNeighbor returns the question right before (up) or after (down)
// question in its scope, or gorm.ErrRecordNotFound at the edge.
func (r *questionRepository) FindNeighbor(ctx context.Context, question *model.Question, direction Direction) (*model.Question, error) {
	where := query.NewFilterPredicate().
		EqualOrNull("product_id", question.ProductID).
		And().NotEqual("id", question.ID)

	tx := r.db.WithContext(ctx)
	if direction == DirectionUp {
		where.And().LessThan("order_index", question.OrderIndex+1)
		tx = tx.Order("order_index desc").Order("created_at desc").Order("id desc")
	} else {
		where.And().GreaterThan("order_index", question.OrderIndex-1)
		tx = tx.Order("order_index asc").Order("created_at asc").Order("id asc")
	}

	var candidates []model.Question
	if err := where.Apply(tx).Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		c := &candidates[i]
		if c.OrderIndex != question.OrderIndex {
			return c, nil
		}
		// equal order_index: fall back to the same tie-break the listing uses
		if direction == DirectionUp && siblingBefore(c, question) {
			return c, nil
		}
		if direction == DirectionDown && siblingBefore(question, c) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func siblingBefore(a, b *model.Question) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (r *questionRepository) UpdateOrderIndex(ctx context.Context, id string, orderIndex int) error {
	res := r.db.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Update("order_index", orderIndex)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionRepository) MaxOrderIndex(ctx context.Context, productID *string) (int, error) {
	var max int
	err := query.NewFilterPredicate().EqualOrNull("product_id", productID).
		Apply(r.db.WithContext(ctx).Model(&model.Question{})).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&max).Error
	return max, err
}

// OrderIndexTaken reports whether another question of the scope already uses
// orderIndex. excludeID may be empty.
func (r *questionRepository) OrderIndexTaken(ctx context.Context, productID *string, orderIndex int, excludeID string) (bool, error) {
	where := query.NewFilterPredicate().
		EqualOrNull("product_id", productID).
		And().Equal("order_index", orderIndex)
	if excludeID != "" {
		where.And().NotEqual("id", excludeID)
	}
	var count int64
	err := where.Apply(r.db.WithContext(ctx).Model(&model.Question{})).Count(&count).Error
	return count > 0, err
}
