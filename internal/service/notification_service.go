package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/events"
)

// NotificationService records lifecycle events emitted by the other services.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSetupStarted, n.handleLifecycle("SetupStarted"))
	n.dispatcher.Subscribe(events.EventSetupCompleted, n.handleLifecycle("SetupCompleted"))
	n.dispatcher.Subscribe(events.EventSetupCancelled, n.handleLifecycle("SetupCancelled"))
	n.dispatcher.Subscribe(events.EventSetupFailed, n.handleLifecycle("SetupFailed"))
	n.dispatcher.Subscribe(events.EventResetCompleted, n.handleLifecycle("ResetCompleted"))
	n.dispatcher.Subscribe(events.EventMemberVerified, n.handleLifecycle("MemberVerified"))
	n.dispatcher.Subscribe(events.EventMemberLeft, n.handleLifecycle("MemberLeft"))
}

func (n *NotificationService) handleLifecycle(name string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		n.logger.Info(name,
			zap.String("guild_id", event.GuildID),
			zap.String("actor_id", event.ActorID),
			zap.Any("payload", event.Payload))
		return nil
	}
}
