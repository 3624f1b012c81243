package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/events"
	"github.com/spec-kit/guild-setup-service/internal/platform"
	"github.com/spec-kit/guild-setup-service/internal/wizard"
	apperrors "github.com/spec-kit/guild-setup-service/pkg/util"
)

const (
	busyMessage         = "A setup process is already in progress. Please wait for it to complete."
	nothingToCancel     = "No setup process is currently in progress."
	cancelConfirmation  = "Setup process has been cancelled."
	timeoutNotification = "Setup timed out waiting for a response. Run the setup command to start again."
)

// Command describes one admin command relayed by the gateway.
type Command struct {
	GuildID   string
	ChannelID string
	AuthorID  string
	IsAdmin   bool
}

// SetupService orchestrates the admin commands: it runs the wizard to
// completion, hands the collected configuration to the provisioner exactly
// once, and owns the session lifecycle.
type SetupService struct {
	sessions    *wizard.SessionManager
	engine      *wizard.Engine
	provisioner *ProvisionService
	client      platform.Client
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewSetupService constructs the service.
func NewSetupService(sessions *wizard.SessionManager, engine *wizard.Engine, provisioner *ProvisionService, client platform.Client, dispatcher events.Dispatcher, logger *zap.Logger) *SetupService {
	return &SetupService{
		sessions:    sessions,
		engine:      engine,
		provisioner: provisioner,
		client:      client,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// StartSetup begins the wizard for the guild. The conversation outlives the
// triggering request, so the wizard runs detached and answers arrive through
// later gateway deliveries.
func (s *SetupService) StartSetup(ctx context.Context, cmd Command) error {
	if !cmd.IsAdmin {
		return apperrors.NewForbidden("administrator permission required")
	}

	session, err := s.sessions.Begin(cmd.GuildID, cmd.AuthorID, cmd.ChannelID)
	if err != nil {
		if apperrors.IsCode(err, "SETUP_BUSY") {
			_, sendErr := s.client.SendMessage(ctx, cmd.ChannelID, busyMessage)
			return sendErr
		}
		return err
	}

	s.publish(ctx, events.Event{Type: events.EventSetupStarted, GuildID: cmd.GuildID, ActorID: cmd.AuthorID})

	go s.runWizard(context.WithoutCancel(ctx), session)
	return nil
}

func (s *SetupService) runWizard(ctx context.Context, session *wizard.Session) {
	defer s.sessions.End(session)

	cfg, err := s.engine.Run(ctx, session)
	if err != nil {
		s.handleWizardFailure(ctx, session, err)
		return
	}

	// The active flag is cleared by the deferred End whether or not
	// provisioning succeeds; a failed apply must not wedge the guild.
	if err := s.provisioner.Apply(ctx, session.GuildID, session.ChannelID, cfg); err != nil {
		s.logger.Error("provisioning failed",
			zap.String("guild_id", session.GuildID), zap.Error(err))
		s.notify(ctx, session.ChannelID, "Server setup failed: "+apperrors.ToDomainError(err).Message)
		s.publish(ctx, events.Event{
			Type:    events.EventSetupFailed,
			GuildID: session.GuildID,
			Payload: events.SetupFailedPayload{Stage: "provision", Reason: err.Error()},
		})
	}
}

func (s *SetupService) handleWizardFailure(ctx context.Context, session *wizard.Session, err error) {
	switch {
	case errors.Is(err, wizard.ErrCancelled):
		// The canceller already confirmed; nothing further to report.
		s.publish(ctx, events.Event{Type: events.EventSetupCancelled, GuildID: session.GuildID})
	case apperrors.IsCode(err, "PROMPT_TIMEOUT"):
		s.notify(ctx, session.ChannelID, timeoutNotification)
		s.publish(ctx, events.Event{
			Type:    events.EventSetupFailed,
			GuildID: session.GuildID,
			Payload: events.SetupFailedPayload{Stage: "wizard", Reason: "prompt timeout"},
		})
	case apperrors.IsCode(err, "VALIDATION_FAILED"):
		s.notify(ctx, session.ChannelID, "Setup aborted: "+apperrors.ToDomainError(err).Message)
		s.publish(ctx, events.Event{
			Type:    events.EventSetupFailed,
			GuildID: session.GuildID,
			Payload: events.SetupFailedPayload{Stage: "wizard", Reason: err.Error()},
		})
	default:
		s.logger.Error("wizard failed", zap.String("guild_id", session.GuildID), zap.Error(err))
		s.publish(ctx, events.Event{
			Type:    events.EventSetupFailed,
			GuildID: session.GuildID,
			Payload: events.SetupFailedPayload{Stage: "wizard", Reason: err.Error()},
		})
	}
}

// CancelSetup aborts the guild's active wizard, idempotently.
func (s *SetupService) CancelSetup(ctx context.Context, cmd Command) error {
	if !cmd.IsAdmin {
		return apperrors.NewForbidden("administrator permission required")
	}

	if _, cancelled := s.sessions.Cancel(cmd.GuildID); !cancelled {
		_, err := s.client.SendMessage(ctx, cmd.ChannelID, nothingToCancel)
		return err
	}

	_, err := s.client.SendMessage(ctx, cmd.ChannelID, cancelConfirmation)
	return err
}

// Deliver routes a non-command message to the guild's waiting session.
func (s *SetupService) Deliver(guildID, channelID, authorID, content string) bool {
	return s.sessions.Deliver(guildID, channelID, authorID, content)
}

func (s *SetupService) notify(ctx context.Context, channelID, text string) {
	if _, err := s.client.SendMessage(ctx, channelID, text); err != nil {
		s.logger.Warn("failed to notify requester", zap.String("channel_id", channelID), zap.Error(err))
	}
}

func (s *SetupService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
