package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/guild-setup-service/internal/api/dto"
	"github.com/spec-kit/guild-setup-service/internal/service"
)

// SetupCommands is the command surface the gateway routes into.
type SetupCommands interface {
	StartSetup(ctx context.Context, cmd service.Command) error
	CancelSetup(ctx context.Context, cmd service.Command) error
	Deliver(guildID, channelID, authorID, content string) bool
}

// Resetter is the destructive sweep surface.
type Resetter interface {
	Reset(ctx context.Context, guildID, replyChannelID string) error
}

// Interactions handles relayed button presses.
type Interactions interface {
	HandleInteraction(ctx context.Context, interaction service.Interaction) error
}

// GatewayHandler receives platform events from the relay and routes them.
type GatewayHandler struct {
	setup         SetupCommands
	reset         Resetter
	interactions  Interactions
	commandPrefix string
}

// NewGatewayHandler constructs handler.
func NewGatewayHandler(setup SetupCommands, reset Resetter, interactions Interactions, commandPrefix string) *GatewayHandler {
	if commandPrefix == "" {
		commandPrefix = "!"
	}
	return &GatewayHandler{
		setup:         setup,
		reset:         reset,
		interactions:  interactions,
		commandPrefix: commandPrefix,
	}
}

// Messages handles POST /gateway/messages.
func (h *GatewayHandler) Messages(c *fiber.Ctx) error {
	var event dto.MessageEvent
	if err := c.BodyParser(&event); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if event.GuildID == "" || event.ChannelID == "" || event.AuthorID == "" {
		return fiber.NewError(http.StatusBadRequest, "guild_id, channel_id, author_id required")
	}
	if event.AuthorIsBot {
		return c.Status(http.StatusAccepted).JSON(dto.AcceptedResponse{Handled: false})
	}

	content := strings.TrimSpace(event.Content)
	if name, isCommand := h.commandName(content); isCommand {
		return h.routeCommand(c, name, event)
	}

	handled := h.setup.Deliver(event.GuildID, event.ChannelID, event.AuthorID, content)
	return c.Status(http.StatusAccepted).JSON(dto.AcceptedResponse{Handled: handled})
}

func (h *GatewayHandler) commandName(content string) (string, bool) {
	if !strings.HasPrefix(content, h.commandPrefix) {
		return "", false
	}
	name := strings.Fields(strings.TrimPrefix(content, h.commandPrefix))
	if len(name) == 0 {
		return "", false
	}
	return name[0], true
}

func (h *GatewayHandler) routeCommand(c *fiber.Ctx, name string, event dto.MessageEvent) error {
	cmd := service.Command{
		GuildID:   event.GuildID,
		ChannelID: event.ChannelID,
		AuthorID:  event.AuthorID,
		IsAdmin:   event.AuthorIsAdmin,
	}

	var err error
	switch name {
	case "start-setup":
		err = h.setup.StartSetup(c.UserContext(), cmd)
	case "cancel-setup":
		err = h.setup.CancelSetup(c.UserContext(), cmd)
	case "reset-server":
		if !cmd.IsAdmin {
			return fiber.NewError(http.StatusForbidden, "administrator permission required")
		}
		err = h.reset.Reset(c.UserContext(), event.GuildID, event.ChannelID)
	default:
		// Unknown commands belong to other bots sharing the prefix.
		return c.Status(http.StatusAccepted).JSON(dto.AcceptedResponse{Handled: false})
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(dto.AcceptedResponse{Handled: true})
}

// Interactions handles POST /gateway/interactions.
func (h *GatewayHandler) Interactions(c *fiber.Ctx) error {
	var event dto.InteractionEvent
	if err := c.BodyParser(&event); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if event.GuildID == "" || event.UserID == "" || event.CustomID == "" {
		return fiber.NewError(http.StatusBadRequest, "guild_id, user_id, custom_id required")
	}

	err := h.interactions.HandleInteraction(c.UserContext(), service.Interaction{
		GuildID:  event.GuildID,
		UserID:   event.UserID,
		Username: event.Username,
		CustomID: event.CustomID,
		Token:    event.InteractionToken,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(dto.AcceptedResponse{Handled: true})
}
