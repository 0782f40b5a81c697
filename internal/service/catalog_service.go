package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"admin-experimentai/internal/db"
	"admin-experimentai/internal/db/query"
	"admin-experimentai/internal/model"
	"admin-experimentai/internal/repository"
	"admin-experimentai/utilities"
)

// Dashboard metric names.
const (
	MetricCustomers         = "customers"
	MetricOrders            = "orders"
	MetricInvoices          = "invoices"
	MetricProducts          = "products"
	MetricRevenue           = "revenue"
	MetricFeedbackSessions  = "feedback_sessions"
	MetricCompletedSessions = "completed_sessions"
)

// DashboardStats holds the metrics that could be read. A metric whose query
// failed is absent and named in Errors.
type DashboardStats struct {
	Counts  map[string]int64  `json:"counts"`
	Revenue *decimal.Decimal  `json:"revenue,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type CatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type catalogService struct {
	executor    *db.QueryExecutor
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(executor *db.QueryExecutor, catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{executor: executor, catalogRepo: catalogRepo}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.catalogRepo.ListProducts(ctx)
	if err != nil {
		return nil, storeError(err, "products")
	}
	return products, nil
}

type countMetric struct {
	name  string
	model interface{}
	where *query.FilterPredicate
}

// DashboardStats reads every metric concurrently. One failing metric does
// not hide the others; the call only fails when ctx is done.
func (s *catalogService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	counts := []countMetric{
		{MetricCustomers, &model.Customer{}, nil},
		{MetricOrders, &model.Order{}, nil},
		{MetricInvoices, &model.Invoice{}, nil},
		{MetricProducts, &model.Product{}, nil},
		{MetricFeedbackSessions, &model.FeedbackSession{}, nil},
		{MetricCompletedSessions, &model.FeedbackSession{}, query.NewFilterPredicate().Equal("session_status", model.SessionCompleted)},
	}

	stats := &DashboardStats{Counts: map[string]int64{}, Errors: map[string]string{}}
	var mu sync.Mutex
	record := func(name string, err error) {
		utilities.Warn("dashboard metric %s failed: %v", name, err)
		mu.Lock()
		stats.Errors[name] = "failed to load " + name
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, m := range counts {
		m := m
		g.Go(func() error {
			n, err := s.executor.Count(gctx, m.model, m.where)
			if err != nil {
				record(m.name, err)
				return nil
			}
			mu.Lock()
			stats.Counts[m.name] = n
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		paid := query.NewFilterPredicate().Equal("status", model.InvoiceStatusPaid)
		cents, err := s.executor.Sum(gctx, &model.Invoice{}, "amount", paid)
		if err != nil {
			record(MetricRevenue, err)
			return nil
		}
		revenue := decimal.New(cents, -2)
		mu.Lock()
		stats.Revenue = &revenue
		mu.Unlock()
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, NewUnavailableError("dashboard did not load in time", err)
	}
	if len(stats.Errors) == 0 {
		stats.Errors = nil
	}
	return stats, nil
}
