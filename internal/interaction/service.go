package interaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/core/common/validation"
	"github.com/frahmantamala/cxm/pkg/persian"
)

type ServiceAPI interface {
	List(ctx context.Context, actor internal.Identity, f Filter) ([]*Interaction, error)
	Create(ctx context.Context, actor internal.Identity, dto CreateInteractionDTO) (*Interaction, error)
	Delete(ctx context.Context, actor internal.Identity, id string) error
}

type Service struct {
	repo   RepositoryAPI
	perms  auth.PermissionEvaluator
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, perms auth.PermissionEvaluator, logger *slog.Logger) *Service {
	return &Service{repo: repo, perms: perms, logger: logger, now: time.Now}
}

func (s *Service) seesAll(ctx context.Context, actor internal.Identity) bool {
	if s.perms.HasPermission(actor.Role, auth.Managers) {
		return true
	}
	return s.perms.HasModulePermission(ctx, actor.ID, actor.Role, auth.ModuleInteractions)
}

func (s *Service) List(ctx context.Context, actor internal.Identity, f Filter) ([]*Interaction, error) {
	if !s.seesAll(ctx, actor) {
		f.UserID = actor.ID
	}
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, actor internal.Identity, dto CreateInteractionDTO) (*Interaction, error) {
	v := validation.NewValidator()
	v.Field("customer_id", dto.CustomerID).Required()
	v.Field("type", dto.Type).Required().OneOf(Types...)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	ok, err := s.repo.CustomerExists(ctx, dto.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check customer: %w", err)
	}
	if !ok {
		return nil, internal.ErrCustomerNotFound
	}

	i := &Interaction{
		CustomerID:      dto.CustomerID,
		UserID:          actor.ID,
		Type:            dto.Type,
		Direction:       dto.Direction,
		Subject:         persian.Normalize(dto.Subject),
		Description:     dto.Description,
		Outcome:         dto.Outcome,
		DurationSeconds: dto.DurationSeconds,
	}
	if dto.OccurredAt != "" {
		i.OccurredAt, _ = time.Parse(time.RFC3339, dto.OccurredAt)
	}
	if err := s.Record(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// Record stores an interaction produced by the system itself, without caller permission checks.
func (s *Service) Record(ctx context.Context, i *Interaction) error {
	if i.Direction == "" {
		i.Direction = DirectionOutbound
	}
	if i.OccurredAt.IsZero() {
		i.OccurredAt = s.now()
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return fmt.Errorf("create interaction: %w", err)
	}
	s.logger.InfoContext(ctx, "interaction recorded",
		"interaction_id", i.ID,
		"customer_id", i.CustomerID,
		"type", i.Type)
	return nil
}

// Delete is allowed for the author and for managers.
func (s *Service) Delete(ctx context.Context, actor internal.Identity, id string) error {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get interaction: %w", err)
	}
	if i == nil {
		return internal.ErrInteractionNotFound
	}
	if i.UserID != actor.ID && !s.perms.HasPermission(actor.Role, auth.Managers) {
		return internal.ErrPermissionDenied
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete interaction: %w", err)
	}
	return nil
}
