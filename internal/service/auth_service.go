package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/ticketflow/internal/auth"
	"github.com/opsdesk/ticketflow/internal/config"
	"github.com/opsdesk/ticketflow/internal/domain"
	"github.com/opsdesk/ticketflow/internal/repository"
	apperrors "github.com/opsdesk/ticketflow/pkg/util"
)

// AuthService coordinates the login flow. Accounts and role grants are
// provisioned out of band, so there is no registration endpoint.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates a user by email and password. Unknown emails and bad
// passwords produce the same error so the endpoint cannot be used to probe
// for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, []domain.Role, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, nil, "", time.Time{}, apperrors.NewUnauthorized("account suspended")
	}

	roles, err := s.users.RolesOf(ctx, user.ID)
	if err != nil {
		return nil, nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, roles)
	if err != nil {
		return nil, nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, roles, token, expiresAt, nil
}
