package main

import (
	"context"

	"gorm.io/gorm"

	"admin-experimentai/internal/model"
	"admin-experimentai/internal/repository"
	"admin-experimentai/utilities"
)

var defaultBrandStatuses = []model.BrandStatus{
	{Name: "A contatar", Order: 1, Color: "#6b7280"},
	{Name: "Em negociação", Order: 2, Color: "#f59e0b"},
	{Name: "Fechado", Order: 3, Color: "#10b981"},
	{Name: "Descartado", Order: 4, Color: "#ef4444"},
}

var defaultCategories = []string{"Produto", "Experimentai", "Entrega"}

// seedDefaults fills an empty database with the kanban columns and the
// questionnaire categories. Tables that already have rows are left alone.
func seedDefaults(ctx context.Context, conn *gorm.DB) error {
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		brands := repository.NewBrandRepository(tx)
		statuses, err := brands.ListStatuses(ctx)
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			for _, s := range defaultBrandStatuses {
				status := s
				if err := brands.CreateStatus(ctx, &status); err != nil {
					return err
				}
				utilities.Info("Inserted brand status: %s", status.Name)
			}
		}

		categories := repository.NewCategoryRepository(tx)
		existing, err := categories.ListCategories(ctx)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			for _, name := range defaultCategories {
				if err := categories.CreateCategory(ctx, &model.QuestionCategory{Name: name}); err != nil {
					return err
				}
				utilities.Info("Inserted category: %s", name)
			}
		}
		return nil
	})
}
