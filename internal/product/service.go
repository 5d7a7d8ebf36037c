package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/core/common/validation"
	"github.com/frahmantamala/cxm/pkg/persian"
)

var ErrProductNameTaken = internal.NewConflictError("محصولی با این نام وجود دارد", internal.ErrCodeDuplicate)

type ServiceAPI interface {
	List(ctx context.Context, actor internal.Identity, all bool) ([]*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, actor internal.Identity, dto CreateProductDTO) (*Product, error)
	Update(ctx context.Context, actor internal.Identity, id string, dto UpdateProductDTO) (*Product, error)
	Delete(ctx context.Context, actor internal.Identity, id string) error
}

type Service struct {
	repo   RepositoryAPI
	perms  auth.PermissionEvaluator
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, perms auth.PermissionEvaluator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		perms:  perms,
		logger: logger,
	}
}

// List returns active products. Managers may ask for inactive ones too; the flag is ignored for
// everyone else.
func (s *Service) List(ctx context.Context, actor internal.Identity, all bool) ([]*Product, error) {
	includeInactive := all && s.perms.HasPermission(actor.Role, auth.Managers)

	rows, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get products from repository", "error", err)
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]*Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, FromDataModel(row))
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if row == nil {
		return nil, internal.ErrProductNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, actor internal.Identity, dto CreateProductDTO) (*Product, error) {
	if !s.perms.HasModulePermission(ctx, actor.ID, actor.Role, auth.ModuleProducts) {
		return nil, internal.ErrPermissionDenied
	}

	v := validation.NewValidator()
	v.Field("name", dto.Name).Required()
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	name := persian.Normalize(dto.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	p := &Product{
		Name:        name,
		Category:    persian.Normalize(dto.Category),
		Description: dto.Description,
		Price:       dto.Price,
		IsActive:    true,
	}
	row := ToDataModel(p)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created", "product_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actor internal.Identity, id string, dto UpdateProductDTO) (*Product, error) {
	if !s.perms.HasModulePermission(ctx, actor.ID, actor.Role, auth.ModuleProducts) {
		return nil, internal.ErrPermissionDenied
	}

	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required()
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if row == nil {
		return nil, internal.ErrProductNotFound
	}

	if dto.Name != nil {
		name := persian.Normalize(*dto.Name)
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		row.Name = name
	}
	if dto.Category != nil {
		row.Category = persian.Normalize(*dto.Category)
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.Price != nil {
		row.Price = *dto.Price
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return FromDataModel(row), nil
}

// Delete deactivates the product; rows are never removed.
func (s *Service) Delete(ctx context.Context, actor internal.Identity, id string) error {
	if !s.perms.HasPermission(actor.Role, auth.Managers) {
		return internal.ErrPermissionDenied
	}
	ok, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if !ok {
		return internal.ErrProductNotFound
	}
	s.logger.InfoContext(ctx, "product deactivated", "product_id", id, "by", actor.ID)
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("check product name: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrProductNameTaken
	}
	return nil
}
