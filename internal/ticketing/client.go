package ticketing

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/config"
)

// Client is the hand-off contract to the separately-owned ticket subsystem:
// given a channel, initialize its ticketing UI there.
type Client interface {
	Setup(ctx context.Context, guildID, channelID string) error
}

type httpClient struct {
	serviceURL string
	logger     *zap.Logger
}

// NewClient builds an HTTP client for the ticket service.
func NewClient(cfg config.TicketingConfig, logger *zap.Logger) Client {
	return &httpClient{serviceURL: cfg.ServiceURL, logger: logger}
}

func (c *httpClient) Setup(ctx context.Context, guildID, channelID string) error {
	if c.serviceURL == "" {
		c.logger.Warn("TICKETING_SERVICE_URL not configured; skipping ticket hand-off",
			zap.String("channel_id", channelID))
		return nil
	}

	agent := fiber.Post(c.serviceURL + "/setup")
	agent.JSON(fiber.Map{"guild_id": guildID, "channel_id": channelID})

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("ticketing setup: %w", errors.Join(errs...))
	}
	if code >= http.StatusBadRequest {
		return fmt.Errorf("ticketing setup: service returned status %d", code)
	}

	c.logger.Info("ticketing initialized", zap.String("channel_id", channelID))
	return nil
}
