package product

import (
	"context"
	"time"

	productDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/product"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

func ToDataModel(p *Product) *productDatamodel.Product {
	return &productDatamodel.Product{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *productDatamodel.Product) *Product {
	return &Product{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type RepositoryAPI interface {
	List(ctx context.Context, includeInactive bool) ([]*productDatamodel.Product, error)
	GetByID(ctx context.Context, id string) (*productDatamodel.Product, error)
	GetByName(ctx context.Context, name string) (*productDatamodel.Product, error)
	Create(ctx context.Context, p *productDatamodel.Product) error
	Update(ctx context.Context, p *productDatamodel.Product) error
	Deactivate(ctx context.Context, id string) (bool, error)
}
