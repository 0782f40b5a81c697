package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"admin-experimentai/internal/model"
	"admin-experimentai/utilities"
)

func TestBrandStatuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	prospect, err := env.brands.CreateStatus(ctx, BrandStatusInput{Name: "Prospecção"})
	require.NoError(t, err)
	assert.Equal(t, 1, prospect.Order)
	assert.Equal(t, defaultStatusColor, prospect.Color)

	closed, err := env.brands.CreateStatus(ctx, BrandStatusInput{Name: "Fechado", Color: "#16a34a"})
	require.NoError(t, err)
	assert.Equal(t, 2, closed.Order)

	_, err = env.brands.CreateStatus(ctx, BrandStatusInput{Name: " "})
	requireCode(t, err, ErrorInvalid)

	statuses, err := env.brands.ListStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "Prospecção", statuses[0].Name)

	_, err = env.brands.UpdateStatus(ctx, closed.ID, BrandStatusPatch{Order: ptr(0)})
	require.NoError(t, err)
	statuses, err = env.brands.ListStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fechado", statuses[0].Name)

	_, err = env.brands.CreateBrand(ctx, BrandInput{Name: "Natura", StatusID: prospect.ID}, nil)
	require.NoError(t, err)
	requireCode(t, env.brands.DeleteStatus(ctx, prospect.ID), ErrorConflict)
	require.NoError(t, env.brands.DeleteStatus(ctx, closed.ID))
	requireCode(t, env.brands.DeleteStatus(ctx, closed.ID), ErrorNotFound)
}

func TestBrandLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	todo, err := env.brands.CreateStatus(ctx, BrandStatusInput{Name: "A contatar"})
	require.NoError(t, err)
	talking, err := env.brands.CreateStatus(ctx, BrandStatusInput{Name: "Em conversa"})
	require.NoError(t, err)

	moves := make(chan BrandMove, 4)
	env.bus.Subscribe(utilities.EventBrandMoved, func(data interface{}) {
		moves <- data.(BrandMove)
	})

	brand, err := env.brands.CreateBrand(ctx, BrandInput{
		Name:     "Granado",
		StatusID: todo.ID,
		Value:    decimal.RequireFromString("1500.50"),
		Deadline: ptr("2025-04-30"),
	}, ptr("admin-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, brand.Order)
	require.NotNil(t, brand.Status)
	assert.Equal(t, "A contatar", brand.Status.Name)
	assert.True(t, decimal.RequireFromString("1500.50").Equal(brand.Value))
	require.NotNil(t, brand.Deadline)
	assert.Equal(t, "2025-04-30", time.Time(*brand.Deadline).Format(deadlineLayout))

	t.Run("CreateRecordsInitialHistory", func(t *testing.T) {
		history, err := env.brands.GetBrandHistory(ctx, brand.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Nil(t, history[0].FromStatusID)
		assert.Equal(t, todo.ID, history[0].ToStatusID)
		assert.Equal(t, "admin-1", *history[0].MovedBy)
	})

	t.Run("RejectsBadInput", func(t *testing.T) {
		_, err := env.brands.CreateBrand(ctx, BrandInput{Name: "X", StatusID: todo.ID, Value: decimal.NewFromInt(-1)}, nil)
		requireCode(t, err, ErrorInvalid)
		_, err = env.brands.CreateBrand(ctx, BrandInput{Name: "X", StatusID: todo.ID, Deadline: ptr("30/04/2025")}, nil)
		requireCode(t, err, ErrorInvalid)
		_, err = env.brands.CreateBrand(ctx, BrandInput{Name: "X", StatusID: "a1a1a1a1-0000-4000-8000-000000000000"}, nil)
		requireCode(t, err, ErrorInvalid)
		_, err = env.brands.UpdateBrand(ctx, brand.ID, BrandPatch{Value: ptr(decimal.NewFromInt(-10))})
		requireCode(t, err, ErrorInvalid)
	})

	t.Run("MoveAppendsHistory", func(t *testing.T) {
		moved, err := env.brands.MoveBrand(ctx, brand.ID, MoveBrandInput{FromStatusID: todo.ID, ToStatusID: talking.ID}, ptr("admin-2"))
		require.NoError(t, err)
		assert.Equal(t, talking.ID, moved.StatusID)

		history, err := env.brands.GetBrandHistory(ctx, brand.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		var last model.BrandHistory
		for _, h := range history {
			if h.FromStatusID != nil {
				last = h
			}
		}
		assert.Equal(t, todo.ID, *last.FromStatusID)
		assert.Equal(t, talking.ID, last.ToStatusID)
		require.NotNil(t, last.ToStatus)
		assert.Equal(t, "Em conversa", last.ToStatus.Name)

		select {
		case m := <-moves:
			assert.Equal(t, brand.ID, m.BrandID)
			assert.Equal(t, talking.ID, m.ToStatusID)
		case <-time.After(time.Second):
			t.Fatal("brand.moved not published")
		}
	})

	t.Run("StaleMoveConflicts", func(t *testing.T) {
		_, err := env.brands.MoveBrand(ctx, brand.ID, MoveBrandInput{FromStatusID: todo.ID, ToStatusID: talking.ID}, nil)
		requireCode(t, err, ErrorConflict)

		history, err := env.brands.GetBrandHistory(ctx, brand.ID)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("SameStatusIsNoOp", func(t *testing.T) {
		_, err := env.brands.MoveBrand(ctx, brand.ID, MoveBrandInput{FromStatusID: talking.ID, ToStatusID: talking.ID}, nil)
		require.NoError(t, err)
		history, err := env.brands.GetBrandHistory(ctx, brand.ID)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("UnknownTarget", func(t *testing.T) {
		_, err := env.brands.MoveBrand(ctx, brand.ID, MoveBrandInput{FromStatusID: talking.ID, ToStatusID: "b1b1b1b1-0000-4000-8000-000000000000"}, nil)
		requireCode(t, err, ErrorNotFound)
	})

	t.Run("UpdateKeepsStatus", func(t *testing.T) {
		updated, err := env.brands.UpdateBrand(ctx, brand.ID, BrandPatch{Responsible: ptr("Lia"), ClearDeadline: true})
		require.NoError(t, err)
		assert.Equal(t, "Lia", *updated.Responsible)
		assert.Nil(t, updated.Deadline)
		assert.Equal(t, talking.ID, updated.StatusID)
	})

	t.Run("ListByStatus", func(t *testing.T) {
		_, err := env.brands.CreateBrand(ctx, BrandInput{Name: "Boticário", StatusID: todo.ID}, nil)
		require.NoError(t, err)

		all, err := env.brands.ListBrands(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		column, err := env.brands.ListBrands(ctx, talking.ID)
		require.NoError(t, err)
		require.Len(t, column, 1)
		assert.Equal(t, "Granado", column[0].Name)
	})

	t.Run("DeleteRemovesHistory", func(t *testing.T) {
		require.NoError(t, env.brands.DeleteBrand(ctx, brand.ID))

		var count int64
		require.NoError(t, env.db.Model(&model.BrandHistory{}).Where("brand_id = ?", brand.ID).Count(&count).Error)
		assert.Zero(t, count)
		requireCode(t, env.brands.DeleteBrand(ctx, brand.ID), ErrorNotFound)
	})
}

func TestMoveBrandIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	todo, err := env.brands.CreateStatus(ctx, BrandStatusInput{Name: "A contatar"})
	require.NoError(t, err)
	talking, err := env.brands.CreateStatus(ctx, BrandStatusInput{Name: "Em conversa"})
	require.NoError(t, err)
	brand, err := env.brands.CreateBrand(ctx, BrandInput{Name: "Granado", StatusID: todo.ID}, nil)
	require.NoError(t, err)

	armed := false
	require.NoError(t, env.db.Callback().Create().Before("gorm:create").Register("test:fail_history", func(tx *gorm.DB) {
		if armed && tx.Statement.Schema != nil && tx.Statement.Schema.Table == "brand_history" {
			tx.AddError(errors.New("disk full"))
		}
	}))

	armed = true
	_, err = env.brands.MoveBrand(ctx, brand.ID, MoveBrandInput{FromStatusID: todo.ID, ToStatusID: talking.ID}, nil)
	armed = false
	requireCode(t, err, ErrorUnavailable)

	stored, err := env.brands.GetBrand(ctx, brand.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.ID, stored.StatusID)

	history, err := env.brands.GetBrandHistory(ctx, brand.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].FromStatusID)

	moved, err := env.brands.MoveBrand(ctx, brand.ID, MoveBrandInput{FromStatusID: todo.ID, ToStatusID: talking.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, talking.ID, moved.StatusID)
}
