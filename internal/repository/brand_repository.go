package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"admin-experimentai/internal/model"
)

type BrandRepository interface {
	WithTx(tx *gorm.DB) BrandRepository

	ListStatuses(ctx context.Context) ([]model.BrandStatus, error)
	GetStatusByID(ctx context.Context, id string) (*model.BrandStatus, error)
	CreateStatus(ctx context.Context, status *model.BrandStatus) error
	UpdateStatus(ctx context.Context, status *model.BrandStatus) error
	DeleteStatus(ctx context.Context, id string) error
	CountBrandsWithStatus(ctx context.Context, statusID string) (int64, error)
	MaxStatusOrder(ctx context.Context) (int, error)

	ListBrands(ctx context.Context, statusID string) ([]model.Brand, error)
	GetBrandByID(ctx context.Context, id string) (*model.Brand, error)
	CreateBrand(ctx context.Context, brand *model.Brand) error
	UpdateBrand(ctx context.Context, brand *model.Brand) error
	DeleteBrand(ctx context.Context, id string) error
	SwapBrandStatus(ctx context.Context, brandID, fromStatusID, toStatusID string) (bool, error)

	AppendHistory(ctx context.Context, entry *model.BrandHistory) error
	ListHistory(ctx context.Context, brandID string) ([]model.BrandHistory, error)
	DeleteHistory(ctx context.Context, brandID string) error
}

type brandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) WithTx(tx *gorm.DB) BrandRepository {
	return &brandRepository{db: tx}
}

// "order" is a reserved word, so it goes through clause.Column for quoting.
var byOrder = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

func (r *brandRepository) ListStatuses(ctx context.Context) ([]model.BrandStatus, error) {
	var statuses []model.BrandStatus
	err := r.db.WithContext(ctx).Order(byOrder).Order("id asc").Find(&statuses).Error
	return statuses, err
}

func (r *brandRepository) GetStatusByID(ctx context.Context, id string) (*model.BrandStatus, error) {
	var status model.BrandStatus
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *brandRepository) CreateStatus(ctx context.Context, status *model.BrandStatus) error {
	return r.db.WithContext(ctx).Create(status).Error
}

func (r *brandRepository) UpdateStatus(ctx context.Context, status *model.BrandStatus) error {
	return r.db.WithContext(ctx).Save(status).Error
}

func (r *brandRepository) DeleteStatus(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BrandStatus{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *brandRepository) CountBrandsWithStatus(ctx context.Context, statusID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Brand{}).Where("status_id = ?", statusID).Count(&count).Error
	return count, err
}

func (r *brandRepository) MaxStatusOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.BrandStatus{}).
		Select(`COALESCE(MAX("order"), 0)`).
		Scan(&max).Error
	return max, err
}

// ListBrands returns every brand, or only one column's when statusID is set.
func (r *brandRepository) ListBrands(ctx context.Context, statusID string) ([]model.Brand, error) {
	tx := r.db.WithContext(ctx).Preload("Status")
	if statusID != "" {
		tx = tx.Where("status_id = ?", statusID)
	}
	var brands []model.Brand
	err := tx.Order(byOrder).Order("created_at asc").Find(&brands).Error
	return brands, err
}

func (r *brandRepository) GetBrandByID(ctx context.Context, id string) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.WithContext(ctx).Preload("Status").Where("id = ?", id).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) CreateBrand(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(brand).Error
}

func (r *brandRepository) UpdateBrand(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(brand).Error
}

func (r *brandRepository) DeleteBrand(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Brand{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SwapBrandStatus moves the brand only if it is still in fromStatusID and
// reports whether a row changed. Concurrent movers of the same brand cannot
// both succeed.
func (r *brandRepository) SwapBrandStatus(ctx context.Context, brandID, fromStatusID, toStatusID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Brand{}).
		Where("id = ? AND status_id = ?", brandID, fromStatusID).
		Update("status_id", toStatusID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *brandRepository) AppendHistory(ctx context.Context, entry *model.BrandHistory) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *brandRepository) ListHistory(ctx context.Context, brandID string) ([]model.BrandHistory, error) {
	var history []model.BrandHistory
	err := r.db.WithContext(ctx).
		Preload("FromStatus").Preload("ToStatus").
		Where("brand_id = ?", brandID).
		Order("moved_at desc").Order("id desc").
		Find(&history).Error
	return history, err
}

func (r *brandRepository) DeleteHistory(ctx context.Context, brandID string) error {
	return r.db.WithContext(ctx).Where("brand_id = ?", brandID).Delete(&model.BrandHistory{}).Error
}
