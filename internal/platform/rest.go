package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/config"
	apperrors "github.com/spec-kit/guild-setup-service/pkg/util"
)

// restClient talks to the chat platform's HTTP API with bot-token auth.
type restClient struct {
	baseURL string
	token   string
	logger  *zap.Logger

	mu        sync.Mutex
	botUserID string
}

// NewRESTClient builds the production platform client.
func NewRESTClient(cfg config.PlatformConfig, logger *zap.Logger) Client {
	return &restClient{
		baseURL: cfg.BaseURL,
		token:   cfg.BotToken,
		logger:  logger,
	}
}

func (c *restClient) CreateRole(ctx context.Context, guildID, name string, perms Permissions) (*Role, error) {
	var role Role
	payload := fiber.Map{"name": name, "permissions": perms}
	agent := fiber.Post(fmt.Sprintf("%s/guilds/%s/roles", c.baseURL, guildID))
	if err := c.do(agent, payload, &role, "create role"); err != nil {
		return nil, err
	}
	return &role, nil
}

func (c *restClient) CreateCategory(ctx context.Context, guildID, name string) (*Channel, error) {
	var channel Channel
	payload := fiber.Map{"name": name, "type": ChannelTypeCategory}
	agent := fiber.Post(fmt.Sprintf("%s/guilds/%s/channels", c.baseURL, guildID))
	if err := c.do(agent, payload, &channel, "create category"); err != nil {
		return nil, err
	}
	return &channel, nil
}

func (c *restClient) CreateChannel(ctx context.Context, guildID, parentID, name string, overwrites []Overwrite) (*Channel, error) {
	var channel Channel
	payload := fiber.Map{
		"name":       name,
		"type":       ChannelTypeText,
		"parent_id":  parentID,
		"overwrites": overwrites,
	}
	agent := fiber.Post(fmt.Sprintf("%s/guilds/%s/channels", c.baseURL, guildID))
	if err := c.do(agent, payload, &channel, "create channel"); err != nil {
		return nil, err
	}
	return &channel, nil
}

func (c *restClient) CreateThread(ctx context.Context, channelID, name string, autoArchiveMinutes int) (*Thread, error) {
	var thread Thread
	payload := fiber.Map{"name": name, "auto_archive_minutes": autoArchiveMinutes}
	agent := fiber.Post(fmt.Sprintf("%s/channels/%s/threads", c.baseURL, channelID))
	if err := c.do(agent, payload, &thread, "create thread"); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (c *restClient) SendMessage(ctx context.Context, channelID, content string, buttons ...Button) (*Message, error) {
	var msg Message
	payload := fiber.Map{"content": content}
	if len(buttons) > 0 {
		payload["buttons"] = buttons
	}
	agent := fiber.Post(fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID))
	if err := c.do(agent, payload, &msg, "send message"); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *restClient) ReplyEphemeral(ctx context.Context, interactionToken, content string) error {
	payload := fiber.Map{"content": content, "ephemeral": true}
	agent := fiber.Post(fmt.Sprintf("%s/interactions/%s/reply", c.baseURL, interactionToken))
	return c.do(agent, payload, nil, "reply to interaction")
}

func (c *restClient) ListChannels(ctx context.Context, guildID string) ([]Channel, error) {
	var channels []Channel
	agent := fiber.Get(fmt.Sprintf("%s/guilds/%s/channels", c.baseURL, guildID))
	if err := c.do(agent, nil, &channels, "list channels"); err != nil {
		return nil, err
	}
	return channels, nil
}

func (c *restClient) ListRoles(ctx context.Context, guildID string) ([]Role, error) {
	var roles []Role
	agent := fiber.Get(fmt.Sprintf("%s/guilds/%s/roles", c.baseURL, guildID))
	if err := c.do(agent, nil, &roles, "list roles"); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *restClient) DeleteChannel(ctx context.Context, channelID string) error {
	agent := fiber.Delete(fmt.Sprintf("%s/channels/%s", c.baseURL, channelID))
	return c.do(agent, nil, nil, "delete channel")
}

func (c *restClient) DeleteRole(ctx context.Context, guildID, roleID string) error {
	agent := fiber.Delete(fmt.Sprintf("%s/guilds/%s/roles/%s", c.baseURL, guildID, roleID))
	return c.do(agent, nil, nil, "delete role")
}

func (c *restClient) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	agent := fiber.Put(fmt.Sprintf("%s/guilds/%s/members/%s/roles/%s", c.baseURL, guildID, userID, roleID))
	return c.do(agent, nil, nil, "add member role")
}

func (c *restClient) KickMember(ctx context.Context, guildID, userID, reason string) error {
	payload := fiber.Map{"reason": reason}
	agent := fiber.Delete(fmt.Sprintf("%s/guilds/%s/members/%s", c.baseURL, guildID, userID))
	return c.do(agent, payload, nil, "kick member")
}

func (c *restClient) BotUserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.botUserID != "" {
		return c.botUserID, nil
	}

	var me struct {
		ID string `json:"id"`
	}
	agent := fiber.Get(fmt.Sprintf("%s/users/me", c.baseURL))
	if err := c.do(agent, nil, &me, "fetch bot identity"); err != nil {
		return "", err
	}
	c.botUserID = me.ID
	return c.botUserID, nil
}

// do runs one authenticated request and decodes the JSON response into out.
func (c *restClient) do(agent *fiber.Agent, payload any, out any, operation string) error {
	agent.Set(fiber.HeaderAuthorization, "Bot "+c.token)
	if payload != nil {
		agent.JSON(payload)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", operation, errors.Join(errs...))
	}

	switch {
	case code == http.StatusForbidden:
		return apperrors.NewPlatformForbidden(operation, nil)
	case code == http.StatusNotFound:
		return apperrors.NewNotFound(operation, nil)
	case code >= http.StatusBadRequest:
		c.logger.Warn("platform call failed", zap.String("operation", operation), zap.Int("status", code))
		return fmt.Errorf("%s: platform returned status %d", operation, code)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", operation, err)
		}
	}
	return nil
}
