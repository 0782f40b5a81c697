package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"admin-experimentai/internal/config"
	"admin-experimentai/internal/model"
)

// InitDBFromConfig opens the postgres pool described by the DB section.
func InitDBFromConfig(cfg *config.APIConfig) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DB.DSN(),
		PreferSimpleProtocol: true,
	}), GormConfig(time.Duration(cfg.DB.SlowQuery)*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DB.Pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.Pool.MaxOpenConns)
	}
	if cfg.DB.Pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.Pool.MaxIdleConns)
	}
	if cfg.DB.Pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.Pool.ConnMaxLifetime) * time.Second)
	}

	return conn, nil
}

// GormConfig is shared by every connection the app opens.
func GormConfig(slowThreshold time.Duration) *gorm.Config {
	return &gorm.Config{
		Logger:         NewGormLogger(slowThreshold),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Models lists every table the service owns or reads, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.Product{},
		&model.Customer{},
		&model.Box{},
		&model.Edition{},
		&model.Order{},
		&model.Invoice{},
		&model.QuestionCategory{},
		&model.Question{},
		&model.QuestionOption{},
		&model.FeedbackSession{},
		&model.FeedbackAnswer{},
		&model.BrandStatus{},
		&model.Brand{},
		&model.BrandHistory{},
	}
}

func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(Models()...)
}
