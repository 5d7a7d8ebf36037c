package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/user"
	"github.com/frahmantamala/cxm/pkg/logger"
	"github.com/frahmantamala/cxm/pkg/persian"
)

type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
	logger         *slog.Logger
	now            func() time.Time
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger.LoggerWrapper(),
		now:            time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies credentials and mints a credential carrying id, role and email.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, normalizeEmail(dto.Email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if u == nil {
		return nil, internal.ErrInvalidCredentials
	}
	if err := VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		return nil, internal.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}

	user := FromDataModel(u)
	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	now := s.now()
	if err := s.repo.TouchLastLogin(ctx, u.ID, now); err != nil {
		// a stale last-login stamp does not block sign-in
		s.logger.WarnContext(ctx, "Login: failed to record last login", "user_id", u.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Register creates an active account with the default role.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	email := normalizeEmail(dto.Email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, internal.ErrEmailTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &userDatamodel.User{
		Email:        email,
		Name:         persian.Normalize(dto.Name),
		Phone:        persian.NormalizePhone(dto.Phone),
		PasswordHash: hash,
		Role:         DefaultRole,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "Register: user created", "user_id", u.ID, "role", u.Role)
	return FromDataModel(u), nil
}

func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, internal.ErrMissingToken
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(u), nil
}
