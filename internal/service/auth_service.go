package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/octopus-tms/auth-service/internal/auth"
	"github.com/octopus-tms/auth-service/internal/config"
	"github.com/octopus-tms/auth-service/internal/domain"
	"github.com/octopus-tms/auth-service/internal/events"
	"github.com/octopus-tms/auth-service/internal/repository"
	apperrors "github.com/octopus-tms/auth-service/pkg/util"
)

// TokenPair is the credential set returned by login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// TokenRevoker records revoked token ids until their expiry.
type TokenRevoker interface {
	Deny(ctx context.Context, tokenID string, ttl time.Duration) error
}

// AuthService coordinates login, refresh, and logout flows.
type AuthService struct {
	users      repository.UserRepository
	companies  repository.CompanyRepository
	tokenMgr   *auth.TokenManager
	revoker    TokenRevoker
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	CompanyRepo repository.CompanyRepository
	Revoker     TokenRevoker
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:     deps.UserRepo,
		companies: deps.CompanyRepo,
		tokenMgr: auth.NewTokenManager(
			cfg.Auth.JWTSecret,
			cfg.Auth.RefreshSecret,
			cfg.Auth.AccessTokenTTL(),
			cfg.Auth.RefreshTokenTTL(),
		),
		revoker:    deps.Revoker,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Authenticate validates a username/password pair and issues a token pair.
// Unknown usernames and wrong passwords produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("login failed: unknown username", zap.String("username", username))
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Warn("login failed: password mismatch", zap.String("username", user.Username))
		return nil, apperrors.NewInvalidCredentials()
	}

	if user.Status != domain.UserStatusActive {
		s.logger.Warn("login failed: account suspended", zap.String("username", user.Username))
		return nil, apperrors.NewInvalidCredentials()
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserAuthenticated,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload:   events.UserAuthenticatedPayload{Username: user.Username, Role: string(user.Role)},
	})

	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("refresh token rejected", zap.Error(err))
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid refresh token")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	return s.issuePair(ctx, user)
}

// Logout revokes the presented access token for the rest of its life. The
// revocation is best effort: a denylist outage is logged, not surfaced, since
// the token would expire on its own anyway.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if s.revoker == nil || principal == nil || principal.TokenID == "" {
		return nil
	}
	ttl := time.Until(principal.ExpiresAt)
	if err := s.revoker.Deny(ctx, principal.TokenID, ttl); err != nil {
		s.logger.Warn("token revocation failed", zap.String("jti", principal.TokenID), zap.Error(err))
	}
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return apperrors.MapError(s.users.UpdatePassword(ctx, user.ID, hash))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// issuePair assembles the identity claims, including company profile when the
// user belongs to one, and signs an access/refresh pair.
func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	identity := auth.Identity{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}

	if user.CompanyID != nil {
		company, err := s.companies.GetByID(ctx, *user.CompanyID)
		switch {
		case err == nil:
			identity.CompanyID = company.ID
			identity.CompanyName = company.Name
			identity.CompanyType = string(company.Type)
		case errors.Is(err, pgx.ErrNoRows):
			s.logger.Warn("user references missing company",
				zap.String("username", user.Username), zap.String("company_id", *user.CompanyID))
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	accessToken, expiresAt, err := s.tokenMgr.GenerateAccessToken(identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refreshToken, _, err := s.tokenMgr.GenerateRefreshToken(user.Username)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
