package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
)

// RecentWindow bounds the "recent interactions" counter.
const RecentWindow = 30 * 24 * time.Hour

type ServiceAPI interface {
	Stats(ctx context.Context, actor internal.Identity) (*Stats, error)
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

// Stats covers every record for managers and report viewers, otherwise only the caller's own.
func (s *Service) Stats(ctx context.Context, actor internal.Identity) (*Stats, error) {
	scope := Scope{Since: s.now().Add(-RecentWindow)}
	if !s.perms.HasPermission(actor.Role, auth.Managers) &&
		!s.perms.HasModulePermission(ctx, actor.ID, actor.Role, auth.ModuleReports) {
		scope.OwnerID = actor.ID
	}

	st, err := s.repo.Stats(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	st.Scoped = scope.OwnerID != ""
	return st, nil
}
