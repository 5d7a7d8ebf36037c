package customer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/core/common/validation"
	"github.com/frahmantamala/cxm/pkg/persian"
)

type ServiceAPI interface {
	List(ctx context.Context, actor internal.Identity, f Filter) ([]*Customer, error)
	Get(ctx context.Context, actor internal.Identity, id string) (*Customer, error)
	Create(ctx context.Context, actor internal.Identity, dto CreateCustomerDTO) (*Customer, error)
	Update(ctx context.Context, actor internal.Identity, id string, dto UpdateCustomerDTO) (*Customer, error)
	Delete(ctx context.Context, actor internal.Identity, id string) error
	Summary(ctx context.Context, actor internal.Identity, id string) (*Summary, error)
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

func (s *Service) isManager(actor internal.Identity) bool {
	return s.perms.HasPermission(actor.Role, auth.Managers)
}

// List scopes non-managers to their own customers.
func (s *Service) List(ctx context.Context, actor internal.Identity, f Filter) ([]*Customer, error) {
	if !s.isManager(actor) {
		f.OwnerID = actor.ID
	}
	f.Search = persian.Normalize(f.Search)

	customers, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *Service) load(ctx context.Context, actor internal.Identity, id string) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if c == nil {
		return nil, internal.ErrCustomerNotFound
	}
	if !s.isManager(actor) && !c.OwnedBy(actor.ID) {
		return nil, internal.ErrPermissionDenied
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, actor internal.Identity, id string) (*Customer, error) {
	return s.load(ctx, actor, id)
}

func (s *Service) Create(ctx context.Context, actor internal.Identity, dto CreateCustomerDTO) (*Customer, error) {
	if !s.perms.HasModulePermission(ctx, actor.ID, actor.Role, auth.ModuleCustomers) {
		return nil, internal.ErrPermissionDenied
	}

	v := validation.NewValidator()
	v.Field("name", dto.Name).Required()
	v.Field("phone", dto.Phone).Required()
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	c := &Customer{
		Name:       persian.Normalize(dto.Name),
		Email:      strings.ToLower(strings.TrimSpace(dto.Email)),
		Phone:      persian.NormalizePhone(dto.Phone),
		Company:    persian.Normalize(dto.Company),
		Type:       orDefault(dto.Type, TypeIndividual),
		Status:     orDefault(dto.Status, StatusActive),
		Segment:    strings.TrimSpace(dto.Segment),
		City:       persian.Normalize(dto.City),
		Address:    strings.TrimSpace(dto.Address),
		Notes:      dto.Notes,
		AssignedTo: dto.AssignedTo,
		CreatedBy:  actor.ID,
	}
	// only managers hand customers to someone else
	if c.AssignedTo == nil || !s.isManager(actor) {
		self := actor.ID
		c.AssignedTo = &self
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.logger.InfoContext(ctx, "customer created", "customer_id", c.ID, "created_by", actor.ID)
	return c, nil
}

func (s *Service) Update(ctx context.Context, actor internal.Identity, id string, dto UpdateCustomerDTO) (*Customer, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required()
	}
	if dto.Phone != nil {
		v.Field("phone", *dto.Phone).Required()
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		c.Name = persian.Normalize(*dto.Name)
	}
	if dto.Phone != nil {
		c.Phone = persian.NormalizePhone(*dto.Phone)
	}
	if dto.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*dto.Email))
	}
	if dto.Company != nil {
		c.Company = persian.Normalize(*dto.Company)
	}
	if dto.Type != nil && *dto.Type != "" {
		c.Type = *dto.Type
	}
	if dto.Status != nil && *dto.Status != "" {
		c.Status = *dto.Status
	}
	if dto.Segment != nil {
		c.Segment = strings.TrimSpace(*dto.Segment)
	}
	if dto.City != nil {
		c.City = persian.Normalize(*dto.City)
	}
	if dto.Address != nil {
		c.Address = strings.TrimSpace(*dto.Address)
	}
	if dto.Notes != nil {
		c.Notes = *dto.Notes
	}
	if dto.AssignedTo != nil && s.isManager(actor) {
		c.AssignedTo = dto.AssignedTo
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, actor internal.Identity, id string) error {
	if !s.isManager(actor) {
		return internal.ErrPermissionDenied
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if !deleted {
		return internal.ErrCustomerNotFound
	}
	s.logger.InfoContext(ctx, "customer deleted", "customer_id", id, "deleted_by", actor.ID)
	return nil
}

func (s *Service) Summary(ctx context.Context, actor internal.Identity, id string) (*Summary, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	sum, err := s.repo.Summary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer summary: %w", err)
	}
	sum.Customer = c
	return sum, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
