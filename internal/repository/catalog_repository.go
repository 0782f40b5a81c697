package repository

import (
	"context"

	"gorm.io/gorm"

	"admin-experimentai/internal/model"
)

// CatalogRepository reads the store's catalog tables. They are edited
// elsewhere; this service only needs them for references and dashboards.
type CatalogRepository interface {
	WithTx(tx *gorm.DB) CatalogRepository
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	ProductsByIDs(ctx context.Context, ids []string) (map[string]model.Product, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) WithTx(tx *gorm.DB) CatalogRepository {
	return &catalogRepository{db: tx}
}

func (r *catalogRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name asc").Find(&products).Error
	return products, err
}

func (r *catalogRepository) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *catalogRepository) ProductsByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	byID := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}
