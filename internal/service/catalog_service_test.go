package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-experimentai/internal/model"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.product(t, "Sabonete")
	env.product(t, "Perfume")
	require.NoError(t, env.db.Create(&model.Customer{Name: "Bia", Email: "bia@example.com"}).Error)
	require.NoError(t, env.db.Create(&[]model.Invoice{
		{Amount: ptr(int64(12990)), Status: ptr(model.InvoiceStatusPaid)},
		{Amount: ptr(int64(4990)), Status: ptr("open")},
	}).Error)
	require.NoError(t, env.db.Create(&model.FeedbackSession{SessionStatus: model.SessionCompleted, StartedAt: testNow}).Error)

	stats, err := env.catalog.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Nil(t, stats.Errors)
	assert.Equal(t, int64(1), stats.Counts[MetricCustomers])
	assert.Equal(t, int64(0), stats.Counts[MetricOrders])
	assert.Equal(t, int64(2), stats.Counts[MetricInvoices])
	assert.Equal(t, int64(2), stats.Counts[MetricProducts])
	assert.Equal(t, int64(1), stats.Counts[MetricCompletedSessions])
	require.NotNil(t, stats.Revenue)
	assert.True(t, decimal.RequireFromString("129.90").Equal(*stats.Revenue))

	products, err := env.catalog.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Perfume", products[0].Name)
}

func TestDashboardStatsPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.db.Migrator().DropTable(&model.Order{}))

	stats, err := env.catalog.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Contains(t, stats.Errors, MetricOrders)
	assert.NotContains(t, stats.Counts, MetricOrders)
	assert.Equal(t, int64(0), stats.Counts[MetricCustomers])
	require.NotNil(t, stats.Revenue)
	assert.True(t, stats.Revenue.IsZero())
}
