package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/domain"
	"github.com/spec-kit/guild-setup-service/internal/events"
	"github.com/spec-kit/guild-setup-service/internal/platform"
	"github.com/spec-kit/guild-setup-service/internal/repository"
	"github.com/spec-kit/guild-setup-service/internal/ticketing"
	apperrors "github.com/spec-kit/guild-setup-service/pkg/util"
)

const (
	storageThreadArchiveMinutes = 1440

	verifyCustomIDPrefix = "verify:"
	leaveCustomID        = "leave"

	verificationMessage = "Welcome! Please verify to gain access to the server."
	completionMessage   = "Server setup is complete!"
)

var adminChannelNames = []string{"admin-commands", "admin-chat", "admin-announcements", "admin-logs"}

// ProvisionService realizes a DesiredConfig against the guild resource graph
// in dependency order: roles first, then every channel whose overwrites
// reference them. Any failure aborts the remaining steps; nothing is rolled
// back.
type ProvisionService struct {
	client        platform.Client
	members       repository.MemberRepository
	verifiedRoles repository.VerifiedRoleCache
	ticketing     ticketing.Client
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// ProvisionDependencies bundles collaborators for the provisioner.
type ProvisionDependencies struct {
	Client        platform.Client
	MemberRepo    repository.MemberRepository
	VerifiedRoles repository.VerifiedRoleCache
	Ticketing     ticketing.Client
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewProvisionService constructs the service.
func NewProvisionService(deps ProvisionDependencies) *ProvisionService {
	return &ProvisionService{
		client:        deps.Client,
		members:       deps.MemberRepo,
		verifiedRoles: deps.VerifiedRoles,
		ticketing:     deps.Ticketing,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
	}
}

// Apply builds the full guild layout and reports completion to replyChannelID.
func (s *ProvisionService) Apply(ctx context.Context, guildID, replyChannelID string, cfg *domain.DesiredConfig) error {
	if err := cfg.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	roles, err := s.createRoles(ctx, guildID, cfg)
	if err != nil {
		return err
	}

	verifiedRole, err := roles.get(cfg.VerifiedRoleName)
	if err != nil {
		return err
	}
	adminRole, err := roles.get(cfg.AdminRoleName)
	if err != nil {
		return err
	}
	teamRole, err := roles.get(cfg.TeamRoleName)
	if err != nil {
		return err
	}

	verifyChannel, err := s.createWelcome(ctx, guildID, verifiedRole)
	if err != nil {
		return err
	}

	if err := s.createUserCategories(ctx, guildID, cfg, verifiedRole); err != nil {
		return err
	}

	if err := s.createAdminArea(ctx, guildID, adminRole, teamRole); err != nil {
		return err
	}

	if err := s.createTicketArea(ctx, guildID, verifiedRole); err != nil {
		return err
	}

	if err := s.postVerificationMessage(ctx, guildID, verifyChannel, verifiedRole); err != nil {
		return err
	}

	if err := s.members.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure member schema: %w", err)
	}

	if _, err := s.client.SendMessage(ctx, replyChannelID, completionMessage); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventSetupCompleted,
		GuildID: guildID,
		Payload: events.SetupCompletedPayload{
			VerifiedRoleName: cfg.VerifiedRoleName,
			CategoryCount:    len(cfg.Categories),
			RoleCount:        len(cfg.RoleNames()) + 2,
		},
	})
	return nil
}

// roleSet maps created role names to their handles. Overwrite construction
// only ever goes through handles so a channel can never reference a role
// that was not created first.
type roleSet map[string]*platform.Role

func (r roleSet) get(name string) (*platform.Role, error) {
	role, ok := r[name]
	if !ok {
		return nil, apperrors.NewRoleLookupFailed(name)
	}
	return role, nil
}

// createRoles creates the admin role, the team role, then the verified role
// and every extra role, in that order.
func (s *ProvisionService) createRoles(ctx context.Context, guildID string, cfg *domain.DesiredConfig) (roleSet, error) {
	roles := make(roleSet)

	adminRole, err := s.client.CreateRole(ctx, guildID, cfg.AdminRoleName, platform.PermissionAdministrator)
	if err != nil {
		return nil, err
	}
	roles[cfg.AdminRoleName] = adminRole

	teamRole, err := s.client.CreateRole(ctx, guildID, cfg.TeamRoleName, platform.ModeratorPermissions)
	if err != nil {
		return nil, err
	}
	roles[cfg.TeamRoleName] = teamRole

	for _, name := range cfg.RoleNames() {
		role, err := s.client.CreateRole(ctx, guildID, name, 0)
		if err != nil {
			return nil, err
		}
		roles[name] = role
	}

	return roles, nil
}

// createWelcome builds the Welcome category with the verify channel: visible
// to everyone, hidden from members who already hold the verified role.
func (s *ProvisionService) createWelcome(ctx context.Context, guildID string, verifiedRole *platform.Role) (*platform.Channel, error) {
	welcome, err := s.client.CreateCategory(ctx, guildID, "Welcome")
	if err != nil {
		return nil, err
	}
	return s.client.CreateChannel(ctx, guildID, welcome.ID, "verify", []platform.Overwrite{
		{Everyone: true, Allow: platform.PermissionViewChannel | platform.PermissionSendMessages},
		{RoleID: verifiedRole.ID, Deny: platform.PermissionViewChannel},
	})
}

// createUserCategories builds the admin-specified categories. Channels are
// hidden from the default role and revealed to verified members, the inverse
// of the verify channel.
func (s *ProvisionService) createUserCategories(ctx context.Context, guildID string, cfg *domain.DesiredConfig, verifiedRole *platform.Role) error {
	for _, spec := range cfg.Categories {
		category, err := s.client.CreateCategory(ctx, guildID, spec.Name)
		if err != nil {
			return err
		}
		for _, channelName := range spec.ChannelNames {
			_, err := s.client.CreateChannel(ctx, guildID, category.ID, channelName, []platform.Overwrite{
				{Everyone: true, Deny: platform.PermissionViewChannel},
				{RoleID: verifiedRole.ID, Allow: platform.PermissionViewChannel},
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// createAdminArea builds the Admin category, its four fixed channels, and
// the storage channel with its long-lived thread.
func (s *ProvisionService) createAdminArea(ctx context.Context, guildID string, adminRole, teamRole *platform.Role) error {
	botID, err := s.client.BotUserID(ctx)
	if err != nil {
		return err
	}

	adminCategory, err := s.client.CreateCategory(ctx, guildID, "Admin")
	if err != nil {
		return err
	}

	for _, name := range adminChannelNames {
		_, err := s.client.CreateChannel(ctx, guildID, adminCategory.ID, name, []platform.Overwrite{
			{Everyone: true, Deny: platform.PermissionViewChannel},
			{RoleID: adminRole.ID, Allow: platform.PermissionViewChannel},
			{RoleID: teamRole.ID, Allow: platform.PermissionViewChannel},
			{UserID: botID, Allow: platform.PermissionViewChannel},
		})
		if err != nil {
			return err
		}
	}

	storage, err := s.client.CreateChannel(ctx, guildID, adminCategory.ID, "admin-storage", []platform.Overwrite{
		{Everyone: true, Deny: platform.PermissionViewChannel | platform.PermissionSendMessages},
		{RoleID: adminRole.ID, Allow: platform.PermissionViewChannel | platform.PermissionSendMessages},
	})
	if err != nil {
		return err
	}

	_, err = s.client.CreateThread(ctx, storage.ID, "storage", storageThreadArchiveMinutes)
	return err
}

// createTicketArea builds the Tickets category and hands the create-ticket
// channel to the external ticketing subsystem.
func (s *ProvisionService) createTicketArea(ctx context.Context, guildID string, verifiedRole *platform.Role) error {
	tickets, err := s.client.CreateCategory(ctx, guildID, "Tickets")
	if err != nil {
		return err
	}

	channel, err := s.client.CreateChannel(ctx, guildID, tickets.ID, "create-ticket", []platform.Overwrite{
		{Everyone: true, Allow: platform.PermissionViewChannel},
		{RoleID: verifiedRole.ID, Allow: platform.PermissionViewChannel},
	})
	if err != nil {
		return err
	}

	return s.ticketing.Setup(ctx, guildID, channel.ID)
}

// postVerificationMessage posts the Verify/Leave message. The verified role
// id rides in the button's custom id so the interaction handler needs no
// shared state; the cache entry is a fallback for long-lived messages.
func (s *ProvisionService) postVerificationMessage(ctx context.Context, guildID string, channel *platform.Channel, verifiedRole *platform.Role) error {
	_, err := s.client.SendMessage(ctx, channel.ID, verificationMessage,
		platform.Button{Label: "Verify", Style: platform.ButtonStyleSuccess, CustomID: verifyCustomIDPrefix + verifiedRole.ID},
		platform.Button{Label: "Leave", Style: platform.ButtonStyleDanger, CustomID: leaveCustomID},
	)
	if err != nil {
		return err
	}

	if err := s.verifiedRoles.Set(ctx, guildID, verifiedRole.ID); err != nil {
		s.logger.Warn("failed to record verified role", zap.String("guild_id", guildID), zap.Error(err))
	}
	return nil
}

func (s *ProvisionService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
