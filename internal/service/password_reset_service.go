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
	"github.com/octopus-tms/auth-service/internal/events"
	"github.com/octopus-tms/auth-service/internal/repository"
	apperrors "github.com/octopus-tms/auth-service/pkg/util"
)

// PasswordResetService drives the reset uid lifecycle: NoActiveRequest ->
// PendingReset -> NoActiveRequest. Uids live as fields on the user row.
type PasswordResetService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	window     time.Duration
}

// NewPasswordResetService builds the service.
func NewPasswordResetService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *PasswordResetService {
	return &PasswordResetService{
		users:      users,
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
		window:     cfg.Auth.PasswordResetTTL(),
	}
}

// Start issues (or reuses) a reset uid for the account behind the email and
// publishes it for out-of-band delivery. It never fails observably: unknown
// addresses and store errors alike are logged and swallowed so the caller
// cannot probe which emails have accounts.
func (s *PasswordResetService) Start(ctx context.Context, email string) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("reset requested for unknown email", zap.String("email", email))
		} else {
			s.logger.Warn("reset start failed", zap.String("email", email), zap.Error(err))
		}
		return
	}

	now := time.Now()
	uid := uuid.NewString()
	reused := false

	// An unexpired uid is reused with a refreshed issue timestamp. This
	// extends its validity without rotating the value, matching the
	// behavior downstream email links depend on.
	if user.HasActiveReset(now, s.window) {
		uid = *user.ResetToken
		reused = true
	}

	if err := s.users.SetResetToken(ctx, user.ID, uid, now); err != nil {
		s.logger.Warn("reset start failed", zap.String("email", email), zap.Error(err))
		return
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPasswordResetRequested,
		UserID:    user.ID,
		Timestamp: now,
		Payload:   events.PasswordResetRequestedPayload{Email: user.Email, ResetUID: uid, Reused: reused},
	})
}

// IsValid reports whether the uid belongs to a user and is still inside its
// validity window.
func (s *PasswordResetService) IsValid(ctx context.Context, uid string) bool {
	if uid == "" {
		return false
	}
	user, err := s.users.GetByResetToken(ctx, uid)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("reset uid lookup failed", zap.Error(err))
		}
		return false
	}
	return user.HasActiveReset(time.Now(), s.window)
}

// Complete consumes the uid and sets the new password. Unlike Start this is a
// direct state change, so an unknown or expired uid fails loudly.
func (s *PasswordResetService) Complete(ctx context.Context, uid, newPassword string) error {
	if uid == "" || newPassword == "" {
		return apperrors.NewResetTokenInvalid()
	}

	user, err := s.users.GetByResetToken(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("reset complete with unknown uid")
			return apperrors.NewResetTokenInvalid()
		}
		return apperrors.NewInternalError(err)
	}

	now := time.Now()
	if !user.HasActiveReset(now, s.window) {
		s.logger.Warn("reset complete with expired uid", zap.String("username", user.Username))
		return apperrors.NewResetTokenInvalid()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	if err := s.users.CompletePasswordReset(ctx, user.ID, hash); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPasswordResetCompleted,
		UserID:    user.ID,
		Timestamp: now,
		Payload:   events.PasswordResetCompletedPayload{Email: user.Email},
	})
	return nil
}

func (s *PasswordResetService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
