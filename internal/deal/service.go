package deal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/core/common/validation"
	"github.com/frahmantamala/cxm/pkg/persian"
)

const dateLayout = "2006-01-02"

type ServiceAPI interface {
	List(ctx context.Context, actor internal.Identity, f Filter) ([]*Deal, error)
	Get(ctx context.Context, actor internal.Identity, id string) (*Deal, error)
	Create(ctx context.Context, actor internal.Identity, dto CreateDealDTO) (*Deal, error)
	Update(ctx context.Context, actor internal.Identity, id string, dto UpdateDealDTO) (*Deal, error)
	ChangeStage(ctx context.Context, actor internal.Identity, id string, dto StageDTO) (*Deal, error)
	Delete(ctx context.Context, actor internal.Identity, id string) error
	Pipeline(ctx context.Context, actor internal.Identity) ([]StageTotal, error)
}

type Service struct {
	repo   RepositoryAPI
	perms  auth.PermissionEvaluator
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, perms auth.PermissionEvaluator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		perms:  perms,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) isManager(actor internal.Identity) bool {
	return s.perms.HasPermission(actor.Role, auth.Managers)
}

func (s *Service) List(ctx context.Context, actor internal.Identity, f Filter) ([]*Deal, error) {
	if !s.isManager(actor) {
		f.OwnerID = actor.ID
	}
	f.Search = persian.Normalize(f.Search)

	deals, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return deals, nil
}

func (s *Service) load(ctx context.Context, actor internal.Identity, id string) (*Deal, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}
	if d == nil {
		return nil, internal.ErrDealNotFound
	}
	if !s.isManager(actor) && !d.OwnedBy(actor.ID) {
		return nil, internal.ErrPermissionDenied
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, actor internal.Identity, id string) (*Deal, error) {
	return s.load(ctx, actor, id)
}

func (s *Service) Create(ctx context.Context, actor internal.Identity, dto CreateDealDTO) (*Deal, error) {
	if !s.perms.HasModulePermission(ctx, actor.ID, actor.Role, auth.ModuleDeals) {
		return nil, internal.ErrPermissionDenied
	}

	v := validation.NewValidator()
	v.Field("customer_id", dto.CustomerID).Required()
	v.Field("title", dto.Title).Required()
	v.Field("probability", dto.Probability).IntRange(0, 100)
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

	d := &Deal{
		CustomerID: dto.CustomerID,
		Title:      persian.Normalize(dto.Title),
		Value:      dto.Value,
		Stage:      dto.Stage,
		Notes:      dto.Notes,
		AssignedTo: dto.AssignedTo,
		CreatedBy:  actor.ID,
	}
	if d.Stage == "" {
		d.Stage = StageNew
	}
	if dto.Probability != nil {
		d.Probability = *dto.Probability
	}
	if dto.ExpectedCloseDate != "" {
		t, _ := time.Parse(dateLayout, dto.ExpectedCloseDate)
		d.ExpectedCloseDate = &t
	}
	if d.AssignedTo == nil || !s.isManager(actor) {
		self := actor.ID
		d.AssignedTo = &self
	}
	s.applyStage(d, d.Stage)

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}

	s.logger.InfoContext(ctx, "deal created", "deal_id", d.ID, "customer_id", d.CustomerID, "stage", d.Stage)
	return d, nil
}

func (s *Service) Update(ctx context.Context, actor internal.Identity, id string, dto UpdateDealDTO) (*Deal, error) {
	d, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	v := validation.NewValidator()
	if dto.Title != nil {
		v.Field("title", *dto.Title).Required()
	}
	v.Field("probability", dto.Probability).IntRange(0, 100)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	if dto.Title != nil {
		d.Title = persian.Normalize(*dto.Title)
	}
	if dto.Value != nil {
		d.Value = *dto.Value
	}
	if dto.Probability != nil {
		d.Probability = *dto.Probability
	}
	if dto.ExpectedCloseDate != nil {
		if *dto.ExpectedCloseDate == "" {
			d.ExpectedCloseDate = nil
		} else {
			t, _ := time.Parse(dateLayout, *dto.ExpectedCloseDate)
			d.ExpectedCloseDate = &t
		}
	}
	if dto.Notes != nil {
		d.Notes = *dto.Notes
	}
	if dto.AssignedTo != nil && s.isManager(actor) {
		d.AssignedTo = dto.AssignedTo
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update deal: %w", err)
	}
	return d, nil
}

// ChangeStage moves a deal through the pipeline. Entering won or lost stamps closed_at;
// reopening clears it.
func (s *Service) ChangeStage(ctx context.Context, actor internal.Identity, id string, dto StageDTO) (*Deal, error) {
	v := validation.NewValidator()
	v.Field("stage", strings.TrimSpace(dto.Stage)).Required().OneOf(Stages...)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	d, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := d.Stage
	s.applyStage(d, dto.Stage)

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("change deal stage: %w", err)
	}

	s.logger.InfoContext(ctx, "deal stage changed", "deal_id", d.ID, "from", from, "to", d.Stage)
	return d, nil
}

func (s *Service) applyStage(d *Deal, stage string) {
	wasClosed := d.ClosedAt != nil
	d.Stage = stage
	switch {
	case IsClosedStage(stage) && !wasClosed:
		now := s.now()
		d.ClosedAt = &now
	case !IsClosedStage(stage):
		d.ClosedAt = nil
	}
	switch stage {
	case StageWon:
		d.Probability = 100
	case StageLost:
		d.Probability = 0
	}
}

func (s *Service) Delete(ctx context.Context, actor internal.Identity, id string) error {
	if !s.isManager(actor) {
		return internal.ErrPermissionDenied
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if !deleted {
		return internal.ErrDealNotFound
	}
	s.logger.InfoContext(ctx, "deal deleted", "deal_id", id, "deleted_by", actor.ID)
	return nil
}

// Pipeline returns every stage in order, including empty ones.
func (s *Service) Pipeline(ctx context.Context, actor internal.Identity) ([]StageTotal, error) {
	owner := ""
	if !s.isManager(actor) {
		owner = actor.ID
	}
	rows, err := s.repo.Pipeline(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("deal pipeline: %w", err)
	}

	byStage := make(map[string]StageTotal, len(rows))
	for _, r := range rows {
		byStage[r.Stage] = r
	}
	out := make([]StageTotal, 0, len(Stages))
	for _, st := range Stages {
		t := byStage[st]
		t.Stage = st
		t.Label = StageLabels[st]
		out = append(out, t)
	}
	return out, nil
}
