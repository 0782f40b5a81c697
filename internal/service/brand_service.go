package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"admin-experimentai/internal/cache"
	"admin-experimentai/internal/db"
	"admin-experimentai/internal/model"
	"admin-experimentai/internal/repository"
	"admin-experimentai/utilities"
)

const (
	defaultStatusColor = "#6b7280"
	deadlineLayout     = "2006-01-02"
)

type BrandStatusInput struct {
	Name  string `json:"name" binding:"required"`
	Order *int   `json:"order"`
	Color string `json:"color"`
}

type BrandStatusPatch struct {
	Name  *string `json:"name"`
	Order *int    `json:"order"`
	Color *string `json:"color"`
}

// BrandInput is a new pipeline card. Deadline is a calendar date
// (YYYY-MM-DD).
type BrandInput struct {
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description"`
	StatusID    string          `json:"status_id" binding:"required"`
	Responsible *string         `json:"responsible"`
	Value       decimal.Decimal `json:"value"`
	Deadline    *string         `json:"deadline"`
	Order       *int            `json:"order"`
}

// BrandPatch edits card fields. The status only changes through MoveBrand.
type BrandPatch struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Responsible   *string          `json:"responsible"`
	Value         *decimal.Decimal `json:"value"`
	Deadline      *string          `json:"deadline"`
	ClearDeadline bool             `json:"clear_deadline"`
	Order         *int             `json:"order"`
}

type MoveBrandInput struct {
	FromStatusID string `json:"from_status_id" binding:"required"`
	ToStatusID   string `json:"to_status_id" binding:"required"`
}

// BrandMove is published on the event bus after a move commits.
type BrandMove struct {
	BrandID      string
	FromStatusID string
	ToStatusID   string
	MovedBy      *string
}

type BrandService interface {
	ListStatuses(ctx context.Context) ([]model.BrandStatus, error)
	CreateStatus(ctx context.Context, input BrandStatusInput) (*model.BrandStatus, error)
	UpdateStatus(ctx context.Context, id string, patch BrandStatusPatch) (*model.BrandStatus, error)
	DeleteStatus(ctx context.Context, id string) error

	ListBrands(ctx context.Context, statusID string) ([]model.Brand, error)
	GetBrand(ctx context.Context, id string) (*model.Brand, error)
	CreateBrand(ctx context.Context, input BrandInput, createdBy *string) (*model.Brand, error)
	UpdateBrand(ctx context.Context, id string, patch BrandPatch) (*model.Brand, error)
	DeleteBrand(ctx context.Context, id string) error
	MoveBrand(ctx context.Context, id string, input MoveBrandInput, movedBy *string) (*model.Brand, error)
	GetBrandHistory(ctx context.Context, id string) ([]model.BrandHistory, error)
}

type brandService struct {
	executor  *db.QueryExecutor
	brandRepo repository.BrandRepository
	cache     cache.ListCache
	bus       *utilities.EventBus
	now       func() time.Time
}

func NewBrandService(executor *db.QueryExecutor, brandRepo repository.BrandRepository, listCache cache.ListCache, bus *utilities.EventBus) BrandService {
	return &brandService{
		executor:  executor,
		brandRepo: brandRepo,
		cache:     listCache,
		bus:       bus,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *brandService) ListStatuses(ctx context.Context) ([]model.BrandStatus, error) {
	var statuses []model.BrandStatus
	if found, err := s.cache.Get(ctx, cache.KeyBrandStatuses, &statuses); err != nil {
		utilities.Warn("brand status cache read failed: %v", err)
	} else if found {
		return statuses, nil
	}

	statuses, err := s.brandRepo.ListStatuses(ctx)
	if err != nil {
		return nil, storeError(err, "brand statuses")
	}
	if err := s.cache.Set(ctx, cache.KeyBrandStatuses, statuses); err != nil {
		utilities.Warn("brand status cache write failed: %v", err)
	}
	return statuses, nil
}

func (s *brandService) CreateStatus(ctx context.Context, input BrandStatusInput) (*model.BrandStatus, error) {
	status := &model.BrandStatus{
		Name:  strings.TrimSpace(input.Name),
		Color: strings.TrimSpace(input.Color),
	}
	if status.Name == "" {
		return nil, NewInvalidError("status name is required")
	}
	if status.Color == "" {
		status.Color = defaultStatusColor
	}

	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.brandRepo.WithTx(tx)
		if input.Order != nil {
			status.Order = *input.Order
		} else {
			max, err := repo.MaxStatusOrder(ctx)
			if err != nil {
				return err
			}
			status.Order = max + 1
		}
		return repo.CreateStatus(ctx, status)
	})
	if err != nil {
		return nil, storeError(err, "brand status")
	}
	s.invalidate(ctx)
	return status, nil
}

func (s *brandService) UpdateStatus(ctx context.Context, id string, patch BrandStatusPatch) (*model.BrandStatus, error) {
	status, err := s.brandRepo.GetStatusByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "brand status")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, NewInvalidError("status name is required")
		}
		status.Name = name
	}
	if patch.Color != nil {
		status.Color = strings.TrimSpace(*patch.Color)
		if status.Color == "" {
			status.Color = defaultStatusColor
		}
	}
	if patch.Order != nil {
		status.Order = *patch.Order
	}
	if err := s.brandRepo.UpdateStatus(ctx, status); err != nil {
		return nil, storeError(err, "brand status")
	}
	s.invalidate(ctx)
	return status, nil
}

// DeleteStatus refuses to remove a column that still holds brands.
func (s *brandService) DeleteStatus(ctx context.Context, id string) error {
	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.brandRepo.WithTx(tx)
		if _, err := repo.GetStatusByID(ctx, id); err != nil {
			return err
		}
		count, err := repo.CountBrandsWithStatus(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return NewConflictError(fmt.Sprintf("status is used by %d brand(s)", count))
		}
		return repo.DeleteStatus(ctx, id)
	})
	if err != nil {
		return storeError(err, "brand status")
	}
	s.invalidate(ctx)
	return nil
}

func (s *brandService) ListBrands(ctx context.Context, statusID string) ([]model.Brand, error) {
	brands, err := s.brandRepo.ListBrands(ctx, strings.TrimSpace(statusID))
	if err != nil {
		return nil, storeError(err, "brands")
	}
	return brands, nil
}

func (s *brandService) GetBrand(ctx context.Context, id string) (*model.Brand, error) {
	brand, err := s.brandRepo.GetBrandByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "brand")
	}
	return brand, nil
}

// CreateBrand stores the brand and its first history row, with no from
// status, in one transaction.
func (s *brandService) CreateBrand(ctx context.Context, input BrandInput, createdBy *string) (*model.Brand, error) {
	brand := &model.Brand{
		Name:        strings.TrimSpace(input.Name),
		Description: normalizeOptional(input.Description),
		StatusID:    strings.TrimSpace(input.StatusID),
		Responsible: normalizeOptional(input.Responsible),
		Value:       input.Value,
	}
	if err := validateBrand(brand); err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(input.Deadline)
	if err != nil {
		return nil, err
	}
	brand.Deadline = deadline

	err = s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.brandRepo.WithTx(tx)
		if _, err := repo.GetStatusByID(ctx, brand.StatusID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewInvalidError("status does not exist")
			}
			return err
		}
		if input.Order != nil {
			brand.Order = *input.Order
		} else {
			count, err := repo.CountBrandsWithStatus(ctx, brand.StatusID)
			if err != nil {
				return err
			}
			brand.Order = int(count) + 1
		}
		if err := repo.CreateBrand(ctx, brand); err != nil {
			return err
		}
		return repo.AppendHistory(ctx, &model.BrandHistory{
			BrandID:    brand.ID,
			ToStatusID: brand.StatusID,
			MovedAt:    s.now(),
			MovedBy:    normalizeOptional(createdBy),
		})
	})
	if err != nil {
		return nil, storeError(err, "brand")
	}
	return s.GetBrand(ctx, brand.ID)
}

func (s *brandService) UpdateBrand(ctx context.Context, id string, patch BrandPatch) (*model.Brand, error) {
	brand, err := s.brandRepo.GetBrandByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "brand")
	}
	if patch.Name != nil {
		brand.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		brand.Description = normalizeOptional(patch.Description)
	}
	if patch.Responsible != nil {
		brand.Responsible = normalizeOptional(patch.Responsible)
	}
	if patch.Value != nil {
		brand.Value = *patch.Value
	}
	if patch.Order != nil {
		brand.Order = *patch.Order
	}
	switch {
	case patch.ClearDeadline:
		brand.Deadline = nil
	case patch.Deadline != nil:
		deadline, err := parseDeadline(patch.Deadline)
		if err != nil {
			return nil, err
		}
		brand.Deadline = deadline
	}
	if err := validateBrand(brand); err != nil {
		return nil, err
	}

	brand.Status = nil
	if err := s.brandRepo.UpdateBrand(ctx, brand); err != nil {
		return nil, storeError(err, "brand")
	}
	return s.GetBrand(ctx, id)
}

// DeleteBrand removes the brand together with its history.
func (s *brandService) DeleteBrand(ctx context.Context, id string) error {
	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.brandRepo.WithTx(tx)
		if err := repo.DeleteHistory(ctx, id); err != nil {
			return err
		}
		return repo.DeleteBrand(ctx, id)
	})
	return storeError(err, "brand")
}

// MoveBrand changes the brand's status and records the move in one
// transaction. The move only applies while the brand is still in
// input.FromStatusID, so a stale or repeated request gets a Conflict
// instead of a second history row.
func (s *brandService) MoveBrand(ctx context.Context, id string, input MoveBrandInput, movedBy *string) (*model.Brand, error) {
	from := strings.TrimSpace(input.FromStatusID)
	to := strings.TrimSpace(input.ToStatusID)
	if from == "" || to == "" {
		return nil, NewInvalidError("from_status_id and to_status_id are required")
	}

	moved := false
	err := s.executor.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.brandRepo.WithTx(tx)
		brand, err := repo.GetBrandByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := repo.GetStatusByID(ctx, to); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("target status not found")
			}
			return err
		}
		if brand.StatusID != from {
			return NewConflictError("brand is no longer in the source status")
		}
		if from == to {
			return nil
		}

		swapped, err := repo.SwapBrandStatus(ctx, id, from, to)
		if err != nil {
			return err
		}
		if !swapped {
			return NewConflictError("brand is no longer in the source status")
		}
		moved = true
		return repo.AppendHistory(ctx, &model.BrandHistory{
			BrandID:      id,
			FromStatusID: &from,
			ToStatusID:   to,
			MovedAt:      s.now(),
			MovedBy:      normalizeOptional(movedBy),
		})
	})
	if err != nil {
		return nil, storeError(err, "brand")
	}
	if moved {
		s.bus.Publish(utilities.EventBrandMoved, BrandMove{BrandID: id, FromStatusID: from, ToStatusID: to, MovedBy: movedBy})
	}
	return s.GetBrand(ctx, id)
}

func (s *brandService) GetBrandHistory(ctx context.Context, id string) ([]model.BrandHistory, error) {
	if _, err := s.brandRepo.GetBrandByID(ctx, id); err != nil {
		return nil, storeError(err, "brand")
	}
	history, err := s.brandRepo.ListHistory(ctx, id)
	if err != nil {
		return nil, storeError(err, "brand history")
	}
	return history, nil
}

func (s *brandService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.KeyBrandStatuses); err != nil {
		utilities.Warn("brand status cache invalidation failed: %v", err)
	}
}

func validateBrand(brand *model.Brand) error {
	if brand.Name == "" {
		return NewInvalidError("brand name is required")
	}
	if brand.StatusID == "" {
		return NewInvalidError("status is required")
	}
	if brand.Value.IsNegative() {
		return NewInvalidError("value must not be negative")
	}
	return nil
}

func parseDeadline(s *string) (*datatypes.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(deadlineLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, NewInvalidError("deadline must be a date (YYYY-MM-DD)")
	}
	d := datatypes.Date(t)
	return &d, nil
}
