package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/guild-setup-service/pkg/util"
)

const relayKey = "gateway_relay"

// GatewayMiddleware validates the bearer token presented by the event relay.
type GatewayMiddleware struct {
	tokens *TokenManager
}

// NewGatewayMiddleware constructs middleware.
func NewGatewayMiddleware(tokens *TokenManager) *GatewayMiddleware {
	return &GatewayMiddleware{tokens: tokens}
}

// Handle enforces authentication for gateway routes.
func (m *GatewayMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(relayKey, claims.RelayID)
	return c.Next()
}

// RelayFromContext returns the authenticated relay id, when present.
func RelayFromContext(c *fiber.Ctx) (string, bool) {
	relayID, ok := c.Locals(relayKey).(string)
	return relayID, ok && relayID != ""
}
