package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/events"
	"github.com/spec-kit/guild-setup-service/internal/platform"
	apperrors "github.com/spec-kit/guild-setup-service/pkg/util"
)

const resetSummaryMessage = "All channels and roles (except the specified ones) have been deleted."

// ResetService sweeps the guild clean: every channel except the protected
// one, every role except the default role. Unlike setup, each delete failure
// is reported and the sweep continues.
type ResetService struct {
	client             platform.Client
	protectedChannelID string
	dispatcher         events.Dispatcher
	logger             *zap.Logger
}

// NewResetService constructs the service.
func NewResetService(client platform.Client, protectedChannelID string, dispatcher events.Dispatcher, logger *zap.Logger) *ResetService {
	return &ResetService{
		client:             client,
		protectedChannelID: protectedChannelID,
		dispatcher:         dispatcher,
		logger:             logger,
	}
}

// Reset performs the sweep, reporting progress into replyChannelID.
func (s *ResetService) Reset(ctx context.Context, guildID, replyChannelID string) error {
	channels, err := s.client.ListChannels(ctx, guildID)
	if err != nil {
		return err
	}

	var channelsDeleted, rolesDeleted, failures int

	for _, channel := range channels {
		if channel.ID == s.protectedChannelID {
			continue
		}
		if err := s.client.DeleteChannel(ctx, channel.ID); err != nil {
			failures++
			s.reportFailure(ctx, replyChannelID, "channel", channel.Name, err)
			continue
		}
		channelsDeleted++
	}

	roles, err := s.client.ListRoles(ctx, guildID)
	if err != nil {
		return err
	}
	for _, role := range roles {
		if role.Default {
			continue
		}
		if err := s.client.DeleteRole(ctx, guildID, role.ID); err != nil {
			failures++
			s.reportFailure(ctx, replyChannelID, "role", role.Name, err)
			continue
		}
		rolesDeleted++
	}

	if _, err := s.client.SendMessage(ctx, replyChannelID, resetSummaryMessage); err != nil {
		s.logger.Warn("failed to send reset summary", zap.String("guild_id", guildID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:    events.EventResetCompleted,
		GuildID: guildID,
		Payload: events.ResetCompletedPayload{
			ChannelsDeleted: channelsDeleted,
			RolesDeleted:    rolesDeleted,
			Failures:        failures,
		},
	})
	return nil
}

// reportFailure sends one message per failed item, mirroring the per-item
// tolerance of the sweep.
func (s *ResetService) reportFailure(ctx context.Context, replyChannelID, kind, name string, cause error) {
	var text string
	if apperrors.IsCode(cause, "PLATFORM_FORBIDDEN") {
		text = fmt.Sprintf("Missing permissions to delete %s: %s", kind, name)
	} else {
		text = fmt.Sprintf("An error occurred while deleting %s %s: %v", kind, name, cause)
	}
	if _, err := s.client.SendMessage(ctx, replyChannelID, text); err != nil {
		s.logger.Warn("failed to report delete failure",
			zap.String("kind", kind), zap.String("name", name), zap.Error(err))
	}
}

func (s *ResetService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
