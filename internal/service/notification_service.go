package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/member-portal/internal/config"
	"github.com/spec-kit/member-portal/internal/domain"
	"github.com/spec-kit/member-portal/internal/events"
)

// Notifier delivers a one-time code to a member-reachable channel.
type Notifier interface {
	SendOTP(ctx context.Context, email, code string, purpose domain.OTPPurpose, ttl time.Duration) error
}

// LogNotifier is the dev-mode Notifier: it writes the code to the service log
// instead of dispatching real email.
type LogNotifier struct {
	logger *zap.Logger
	from   string
}

// NewLogNotifier builds the dev-mode sender.
func NewLogNotifier(logger *zap.Logger, cfg config.NotificationConfig) *LogNotifier {
	return &LogNotifier{logger: logger, from: cfg.EmailFrom}
}

// SendOTP logs the code for local development.
func (n *LogNotifier) SendOTP(_ context.Context, email, code string, purpose domain.OTPPurpose, ttl time.Duration) error {
	n.logger.Info("otp email",
		zap.String("from", n.from),
		zap.String("to", email),
		zap.String("purpose", string(purpose)),
		zap.String("code", code),
		zap.Duration("expires_in", ttl),
	)
	return nil
}

// NotificationService handles emitting notifications for member lifecycle events.
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
	n.dispatcher.Subscribe(events.EventMemberRegistered, n.handleMemberRegistered)
	n.dispatcher.Subscribe(events.EventMemberVerified, n.handleMemberVerified)
	n.dispatcher.Subscribe(events.EventMemberDeleted, n.handleMemberDeleted)
	n.dispatcher.Subscribe(events.EventMemberRestored, n.handleMemberDeleted)
	n.dispatcher.Subscribe(events.EventMemberPurged, n.handleMemberPurged)
}

func (n *NotificationService) handleMemberRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberRegistered", zap.String("email", event.Email), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMemberVerified(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberVerified", zap.String("email", event.Email))
	return nil
}

func (n *NotificationService) handleMemberDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("email", event.Email), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMemberPurged(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberPurged", zap.String("email", event.Email))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("email", event.Email),
		zap.String("event_type", string(event.Type)))
}
