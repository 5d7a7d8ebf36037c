package postgres

import (
	"context"
	"errors"

	productDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/product"
	"github.com/frahmantamala/cxm/internal/product"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) product.RepositoryAPI {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, includeInactive bool) ([]*productDatamodel.Product, error) {
	var products []*productDatamodel.Product
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*productDatamodel.Product, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ProductRepository) GetByName(ctx context.Context, name string) (*productDatamodel.Product, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *ProductRepository) first(ctx context.Context, cond string, arg interface{}) (*productDatamodel.Product, error) {
	var p productDatamodel.Product
	err := r.db.WithContext(ctx).Where(cond, arg).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *productDatamodel.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepository) Update(ctx context.Context, p *productDatamodel.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepository) Deactivate(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&productDatamodel.Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
