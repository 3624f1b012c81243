package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/domain"
	"github.com/spec-kit/guild-setup-service/internal/events"
	"github.com/spec-kit/guild-setup-service/internal/platform"
	"github.com/spec-kit/guild-setup-service/internal/repository"
)

// Interaction describes one button press relayed by the gateway.
type Interaction struct {
	GuildID  string
	UserID   string
	Username string
	CustomID string
	Token    string
}

// VerificationService handles the Verify/Leave buttons on the verification
// message.
type VerificationService struct {
	client        platform.Client
	members       repository.MemberRepository
	verifiedRoles repository.VerifiedRoleCache
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewVerificationService constructs the service.
func NewVerificationService(client platform.Client, members repository.MemberRepository, verifiedRoles repository.VerifiedRoleCache, dispatcher events.Dispatcher, logger *zap.Logger) *VerificationService {
	return &VerificationService{
		client:        client,
		members:       members,
		verifiedRoles: verifiedRoles,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// HandleInteraction dispatches a button press to the verify or leave flow.
// Unknown custom ids are ignored; they belong to other subsystems sharing
// the gateway.
func (s *VerificationService) HandleInteraction(ctx context.Context, interaction Interaction) error {
	switch {
	case strings.HasPrefix(interaction.CustomID, verifyCustomIDPrefix):
		roleID := strings.TrimPrefix(interaction.CustomID, verifyCustomIDPrefix)
		return s.verify(ctx, interaction, roleID)
	case interaction.CustomID == "verify":
		// Messages posted before custom ids carried the role fall back to
		// the recorded verified role for the guild.
		roleID, err := s.verifiedRoles.Get(ctx, interaction.GuildID)
		if err != nil {
			return s.client.ReplyEphemeral(ctx, interaction.Token, "Verification failed. Role not found.")
		}
		return s.verify(ctx, interaction, roleID)
	case interaction.CustomID == leaveCustomID:
		return s.leave(ctx, interaction)
	default:
		return nil
	}
}

func (s *VerificationService) verify(ctx context.Context, interaction Interaction, roleID string) error {
	if err := s.client.AddMemberRole(ctx, interaction.GuildID, interaction.UserID, roleID); err != nil {
		s.logger.Warn("verification failed",
			zap.String("guild_id", interaction.GuildID),
			zap.String("user_id", interaction.UserID),
			zap.Error(err))
		return s.client.ReplyEphemeral(ctx, interaction.Token, "Verification failed. Role not found.")
	}

	if err := s.members.Upsert(ctx, &domain.MemberRecord{
		UserID:           interaction.UserID,
		PlatformUsername: interaction.Username,
	}); err != nil {
		// Verification already succeeded on the platform; a profile write
		// failure must not surface to the member.
		s.logger.Warn("failed to upsert member record",
			zap.String("user_id", interaction.UserID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:    events.EventMemberVerified,
		GuildID: interaction.GuildID,
		ActorID: interaction.UserID,
		Payload: events.MemberVerifiedPayload{RoleID: roleID},
	})
	return s.client.ReplyEphemeral(ctx, interaction.Token, "You have been verified!")
}

func (s *VerificationService) leave(ctx context.Context, interaction Interaction) error {
	if err := s.client.KickMember(ctx, interaction.GuildID, interaction.UserID, "Left through verification process"); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventMemberLeft,
		GuildID: interaction.GuildID,
		ActorID: interaction.UserID,
	})
	return s.client.ReplyEphemeral(ctx, interaction.Token, "You have left the server.")
}

func (s *VerificationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
