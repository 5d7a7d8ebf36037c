package feedback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/core/common/validation"
)

type ServiceAPI interface {
	List(ctx context.Context, actor internal.Identity, f Filter) ([]*Feedback, error)
	Get(ctx context.Context, actor internal.Identity, id string) (*Feedback, error)
	Create(ctx context.Context, actor internal.Identity, dto CreateFeedbackDTO) (*Feedback, error)
	ChangeStatus(ctx context.Context, actor internal.Identity, id string, dto StatusDTO) (*Feedback, error)
	Delete(ctx context.Context, actor internal.Identity, id string) error
	Stats(ctx context.Context, actor internal.Identity, customerID string) (*Stats, error)
}

type Service struct {
	repo   RepositoryAPI
	perms  auth.PermissionEvaluator
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, perms auth.PermissionEvaluator, logger *slog.Logger) *Service {
	return &Service{repo: repo, perms: perms, logger: logger}
}

// seesAll is true for managers and holders of the feedback grant.
func (s *Service) seesAll(ctx context.Context, actor internal.Identity) bool {
	if s.perms.HasPermission(actor.Role, auth.Managers) {
		return true
	}
	return s.perms.HasModulePermission(ctx, actor.ID, actor.Role, auth.ModuleFeedback)
}

func (s *Service) List(ctx context.Context, actor internal.Identity, f Filter) ([]*Feedback, error) {
	if !s.seesAll(ctx, actor) {
		f.CreatedBy = actor.ID
	}
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, actor internal.Identity, id string) (*Feedback, error) {
	fb, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	if fb == nil {
		return nil, internal.ErrFeedbackNotFound
	}
	if fb.CreatedBy != actor.ID && !s.seesAll(ctx, actor) {
		return nil, internal.ErrPermissionDenied
	}
	return fb, nil
}

func (s *Service) Create(ctx context.Context, actor internal.Identity, dto CreateFeedbackDTO) (*Feedback, error) {
	if !s.perms.HasModulePermission(ctx, actor.ID, actor.Role, auth.ModuleFeedback) {
		return nil, internal.ErrPermissionDenied
	}

	v := validation.NewValidator()
	v.Field("customer_id", dto.CustomerID).Required()
	v.Field("type", dto.Type).Required().OneOf(Types...)
	min, max, required := ScoreRange(dto.Type)
	score := v.Field("score", dto.Score)
	if required {
		score.Required()
	}
	score.IntRange(min, max)
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

	fb := &Feedback{
		CustomerID: dto.CustomerID,
		Type:       dto.Type,
		Score:      dto.Score,
		Comment:    dto.Comment,
		Channel:    dto.Channel,
		Status:     StatusNew,
		CreatedBy:  actor.ID,
	}
	if fb.Channel == "" {
		fb.Channel = ChannelWeb
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	s.logger.InfoContext(ctx, "feedback recorded", "feedback_id", fb.ID, "type", fb.Type, "customer_id", fb.CustomerID)
	return fb, nil
}

func (s *Service) ChangeStatus(ctx context.Context, actor internal.Identity, id string, dto StatusDTO) (*Feedback, error) {
	if !s.seesAll(ctx, actor) {
		return nil, internal.ErrPermissionDenied
	}

	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(Statuses...)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, dto.Status)
	if err != nil {
		return nil, fmt.Errorf("update feedback status: %w", err)
	}
	if !updated {
		return nil, internal.ErrFeedbackNotFound
	}
	return s.Get(ctx, actor, id)
}

func (s *Service) Delete(ctx context.Context, actor internal.Identity, id string) error {
	if !s.perms.HasPermission(actor.Role, auth.Managers) {
		return internal.ErrPermissionDenied
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if !deleted {
		return internal.ErrFeedbackNotFound
	}
	return nil
}

func (s *Service) Stats(ctx context.Context, actor internal.Identity, customerID string) (*Stats, error) {
	if !s.seesAll(ctx, actor) {
		return nil, internal.ErrPermissionDenied
	}
	c, err := s.repo.Counts(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("feedback stats: %w", err)
	}
	return &Stats{
		Total:        c.Total,
		CSATAverage:  c.CSATAverage,
		CESAverage:   c.CESAverage,
		NPS:          c.NPS(),
		NPSResponses: c.NPSResponses,
		Promoters:    c.Promoters,
		Detractors:   c.Detractors,
	}, nil
}
