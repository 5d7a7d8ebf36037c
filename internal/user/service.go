package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/user"
	"github.com/frahmantamala/cxm/pkg/persian"
)

var ErrWrongPassword = internal.NewValidationFieldError("current_password", "رمز عبور فعلی اشتباه است", internal.ErrCodeInvalidValue)

type ServiceAPI interface {
	Profile(ctx context.Context, actor internal.Identity) (*auth.User, error)
	UpdateProfile(ctx context.Context, actor internal.Identity, dto ProfileDTO) (*auth.User, error)
	ChangePassword(ctx context.Context, actor internal.Identity, dto PasswordDTO) error
	List(ctx context.Context, actor internal.Identity) ([]*auth.User, error)
	ChangeRole(ctx context.Context, actor internal.Identity, id string, dto RoleDTO) (*auth.User, error)
	Permissions(ctx context.Context, actor internal.Identity, id string) ([]*Grant, error)
	SetPermission(ctx context.Context, actor internal.Identity, id string, dto GrantDTO) ([]*Grant, error)
	Modules(ctx context.Context) ([]*Module, error)
}

type Service struct {
	repo       RepositoryAPI
	perms      auth.PermissionEvaluator
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, perms auth.PermissionEvaluator, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		perms:      perms,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) isManager(actor internal.Identity) bool {
	return s.perms.HasPermission(actor.Role, auth.Managers)
}

func (s *Service) load(ctx context.Context, id string) (*userDatamodel.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) Profile(ctx context.Context, actor internal.Identity) (*auth.User, error) {
	u, err := s.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return auth.FromDataModel(u), nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor internal.Identity, dto ProfileDTO) (*auth.User, error) {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required()
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	u, err := s.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	u.Name = persian.Normalize(dto.Name)
	u.Phone = persian.NormalizePhone(dto.Phone)
	if err := s.repo.UpdateProfile(ctx, u.ID, u.Name, u.Phone); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return auth.FromDataModel(u), nil
}

// ChangePassword requires the current password; the new one is stored as a bcrypt hash.
func (s *Service) ChangePassword(ctx context.Context, actor internal.Identity, dto PasswordDTO) error {
	v := validation.NewValidator()
	v.Field("current_password", dto.CurrentPassword).Required()
	v.Field("new_password", dto.NewPassword).Required().MinLength(8)
	if err := v.Validate(); err != nil {
		return err
	}
	if err := validation.Struct(dto); err != nil {
		return err
	}

	u, err := s.load(ctx, actor.ID)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(u.PasswordHash, dto.CurrentPassword); err != nil {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.InfoContext(ctx, "ChangePassword: password updated", "user_id", u.ID)
	return nil
}

func (s *Service) List(ctx context.Context, actor internal.Identity) ([]*auth.User, error) {
	if !s.isManager(actor) {
		return nil, internal.ErrPermissionDenied
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*auth.User, 0, len(users))
	for _, u := range users {
		out = append(out, auth.FromDataModel(u))
	}
	return out, nil
}

func (s *Service) ChangeRole(ctx context.Context, actor internal.Identity, id string, dto RoleDTO) (*auth.User, error) {
	if !s.perms.HasPermission(actor.Role, auth.Chiefs) {
		return nil, internal.ErrPermissionDenied
	}

	v := validation.NewValidator()
	v.Field("role", dto.Role).Required().OneOf(auth.KnownRoles...)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRole(ctx, u.ID, dto.Role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	u.Role = dto.Role

	s.logger.InfoContext(ctx, "ChangeRole: role updated", "user_id", u.ID, "role", u.Role, "changed_by", actor.ID)
	return auth.FromDataModel(u), nil
}

// Permissions lists every module with the user's grant flag. Users may read their own sheet.
func (s *Service) Permissions(ctx context.Context, actor internal.Identity, id string) ([]*Grant, error) {
	if actor.ID != id && !s.isManager(actor) {
		return nil, internal.ErrPermissionDenied
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	return s.sheet(ctx, id)
}

func (s *Service) SetPermission(ctx context.Context, actor internal.Identity, id string, dto GrantDTO) ([]*Grant, error) {
	if !s.isManager(actor) {
		return nil, internal.ErrPermissionDenied
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	m, err := s.repo.GetModuleByName(ctx, dto.Module)
	if err != nil {
		return nil, fmt.Errorf("get module: %w", err)
	}
	if m == nil {
		return nil, internal.ErrModuleNotFound
	}

	grantedBy := actor.ID
	p := &userDatamodel.UserModulePermission{
		UserID:    id,
		ModuleID:  m.ID,
		Granted:   *dto.Granted,
		GrantedBy: &grantedBy,
	}
	if err := s.repo.UpsertGrant(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert grant: %w", err)
	}

	s.logger.InfoContext(ctx, "SetPermission: grant updated",
		"user_id", id,
		"module", m.Name,
		"granted", p.Granted,
		"granted_by", actor.ID)
	return s.sheet(ctx, id)
}

func (s *Service) Modules(ctx context.Context) ([]*Module, error) {
	mods, err := s.repo.Modules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	out := make([]*Module, 0, len(mods))
	for _, m := range mods {
		out = append(out, moduleFromDataModel(m))
	}
	return out, nil
}

func (s *Service) sheet(ctx context.Context, userID string) ([]*Grant, error) {
	mods, err := s.repo.Modules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	rows, err := s.repo.Grants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}

	granted := make(map[string]bool, len(rows))
	for _, r := range rows {
		granted[r.ModuleID] = r.Granted
	}
	out := make([]*Grant, 0, len(mods))
	for _, m := range mods {
		out = append(out, &Grant{Module: m.Name, Label: m.Label, Granted: granted[m.ID]})
	}
	return out, nil
}
