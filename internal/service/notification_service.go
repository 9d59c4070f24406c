package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/octopus-tms/auth-service/internal/config"
	"github.com/octopus-tms/auth-service/internal/events"
)

// NotificationService handles emitting notifications for auth events. Email
// delivery itself is a collaborator stub; the service owns rendering intent.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPasswordResetCompleted, n.handlePasswordResetCompleted)
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PasswordResetRequested", zap.String("user_id", event.UserID), zap.Bool("reused", payload.Reused))
	n.sendResetEmailStub(ctx, payload.Email, payload.ResetUID)
	return nil
}

func (n *NotificationService) handlePasswordResetCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("PasswordResetCompleted", zap.String("user_id", event.UserID))
	return nil
}

func (n *NotificationService) sendResetEmailStub(ctx context.Context, to, uid string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendResetEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("reset_uid", uid))
}
