package ticket

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/core/common/validation"
	"github.com/frahmantamala/cxm/internal/core/events"
	"github.com/frahmantamala/cxm/pkg/persian"
)

type ServiceAPI interface {
	List(ctx context.Context, actor internal.Identity, f Filter) ([]*Ticket, error)
	Get(ctx context.Context, actor internal.Identity, id string) (*Ticket, error)
	Create(ctx context.Context, actor internal.Identity, dto CreateTicketDTO) (*Ticket, error)
	Update(ctx context.Context, actor internal.Identity, id string, dto UpdateTicketDTO) (*Ticket, error)
	ChangeStatus(ctx context.Context, actor internal.Identity, id string, dto StatusDTO) (*Ticket, error)
	Assign(ctx context.Context, actor internal.Identity, id string, dto AssignDTO) (*Ticket, error)
	Delete(ctx context.Context, actor internal.Identity, id string) error
}

type Service struct {
	repo      RepositoryAPI
	perms     auth.PermissionEvaluator
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, perms auth.PermissionEvaluator, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		perms:     perms,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) isManager(actor internal.Identity) bool {
	return s.perms.HasPermission(actor.Role, auth.Managers)
}

func (s *Service) List(ctx context.Context, actor internal.Identity, f Filter) ([]*Ticket, error) {
	if !s.isManager(actor) {
		f.OwnerID = actor.ID
	}
	tickets, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *Service) load(ctx context.Context, actor internal.Identity, id string) (*Ticket, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if t == nil {
		return nil, internal.ErrTicketNotFound
	}
	if !s.isManager(actor) && !t.OwnedBy(actor.ID) {
		return nil, internal.ErrPermissionDenied
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, actor internal.Identity, id string) (*Ticket, error) {
	return s.load(ctx, actor, id)
}

// Create stores the ticket and announces it on the event bus. A failed publish is logged only.
func (s *Service) Create(ctx context.Context, actor internal.Identity, dto CreateTicketDTO) (*Ticket, error) {
	if !s.perms.HasModulePermission(ctx, actor.ID, actor.Role, auth.ModuleTickets) {
		return nil, internal.ErrPermissionDenied
	}

	v := validation.NewValidator()
	v.Field("customer_id", dto.CustomerID).Required()
	v.Field("subject", dto.Subject).Required()
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

	t := &Ticket{
		CustomerID:  dto.CustomerID,
		Subject:     persian.Normalize(dto.Subject),
		Description: dto.Description,
		Priority:    dto.Priority,
		Status:      StatusOpen,
		Category:    persian.Normalize(dto.Category),
		CreatedBy:   actor.ID,
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if dto.AssignedTo != nil && s.isManager(actor) {
		t.AssignedTo = dto.AssignedTo
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	s.logger.InfoContext(ctx, "ticket created", "ticket_id", t.ID, "customer_id", t.CustomerID, "priority", t.Priority)

	if s.publisher != nil {
		event := events.NewTicketCreatedEvent(t.ID, t.CustomerID, t.Subject, t.Priority, actor.ID)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish ticket created event", "ticket_id", t.ID, "error", err)
		}
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, actor internal.Identity, id string, dto UpdateTicketDTO) (*Ticket, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	v := validation.NewValidator()
	if dto.Subject != nil {
		v.Field("subject", *dto.Subject).Required()
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	if dto.Subject != nil {
		t.Subject = persian.Normalize(*dto.Subject)
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.Priority != nil && *dto.Priority != "" {
		t.Priority = *dto.Priority
	}
	if dto.Category != nil {
		t.Category = persian.Normalize(*dto.Category)
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	return t, nil
}

// ChangeStatus stamps resolved_at on entering resolved or closed and clears it on reopen.
func (s *Service) ChangeStatus(ctx context.Context, actor internal.Identity, id string, dto StatusDTO) (*Ticket, error) {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(Statuses...)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := t.Status
	t.Status = dto.Status
	switch {
	case IsTerminal(t.Status) && t.ResolvedAt == nil:
		now := s.now()
		t.ResolvedAt = &now
	case !IsTerminal(t.Status):
		t.ResolvedAt = nil
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("change ticket status: %w", err)
	}

	s.logger.InfoContext(ctx, "ticket status changed", "ticket_id", t.ID, "from", from, "to", t.Status)
	return t, nil
}

func (s *Service) Assign(ctx context.Context, actor internal.Identity, id string, dto AssignDTO) (*Ticket, error) {
	if !s.isManager(actor) {
		return nil, internal.ErrPermissionDenied
	}

	v := validation.NewValidator()
	v.Field("assigned_to", dto.AssignedTo).Required()
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	assignee := dto.AssignedTo
	t.AssignedTo = &assignee

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("assign ticket: %w", err)
	}

	s.logger.InfoContext(ctx, "ticket assigned", "ticket_id", t.ID, "assigned_to", assignee, "assigned_by", actor.ID)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, actor internal.Identity, id string) error {
	if !s.isManager(actor) {
		return internal.ErrPermissionDenied
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if !deleted {
		return internal.ErrTicketNotFound
	}
	return nil
}
