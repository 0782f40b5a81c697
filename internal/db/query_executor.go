package db

import (
	"context"

	"gorm.io/gorm"

	"admin-experimentai/internal/db/query"
)

// QueryExecutor handles database queries that do not belong to one repository.
type QueryExecutor struct {
	DB *gorm.DB
}

// NewQueryExecutor creates a new instance of QueryExecutor.
func NewQueryExecutor(db *gorm.DB) *QueryExecutor {
	return &QueryExecutor{DB: db}
}

// Count returns the number of rows of model that match the predicate.
func (qe *QueryExecutor) Count(ctx context.Context, model interface{}, where *query.FilterPredicate) (int64, error) {
	var count int64
	err := where.Apply(qe.DB.WithContext(ctx).Model(model)).Count(&count).Error
	return count, err
}

// Exists checks if a row of model matching the predicate exists.
func (qe *QueryExecutor) Exists(ctx context.Context, model interface{}, where *query.FilterPredicate) (bool, error) {
	var ids []int
	err := where.Apply(qe.DB.WithContext(ctx).Model(model)).Select("1").Limit(1).Find(&ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// Sum adds up column over the rows matching the predicate. NULL sums are zero.
func (qe *QueryExecutor) Sum(ctx context.Context, model interface{}, column string, where *query.FilterPredicate) (int64, error) {
	var total int64
	err := where.Apply(qe.DB.WithContext(ctx).Model(model)).
		Select("COALESCE(SUM(" + column + "), 0)").
		Scan(&total).Error
	return total, err
}

// Transaction executes a set of operations within a database transaction.
func (qe *QueryExecutor) Transaction(ctx context.Context, txFunc func(tx *gorm.DB) error) error {
	return qe.DB.WithContext(ctx).Transaction(txFunc)
}

// Ping checks that the database answers within ctx.
func (qe *QueryExecutor) Ping(ctx context.Context) error {
	sqlDB, err := qe.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
