package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// VerifiedRoleCache remembers which role a guild uses for verification. The
// provisioner writes it when posting the verification message; the
// interaction handler falls back to it when a button's custom id does not
// carry the role.
type VerifiedRoleCache interface {
	Set(ctx context.Context, guildID, roleID string) error
	Get(ctx context.Context, guildID string) (string, error)
}

// ErrVerifiedRoleUnknown is returned when no role was recorded for the guild.
var ErrVerifiedRoleUnknown = errors.New("verified role not recorded for guild")

type verifiedRoleCache struct {
	client *redis.Client
}

// NewVerifiedRoleCache returns a Redis-backed implementation.
func NewVerifiedRoleCache(client *redis.Client) VerifiedRoleCache {
	return &verifiedRoleCache{client: client}
}

func (c *verifiedRoleCache) key(guildID string) string {
	return "guild:" + guildID + ":verified_role"
}

func (c *verifiedRoleCache) Set(ctx context.Context, guildID, roleID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, c.key(guildID), roleID, 0).Err()
}

func (c *verifiedRoleCache) Get(ctx context.Context, guildID string) (string, error) {
	if c.client == nil {
		return "", ErrVerifiedRoleUnknown
	}
	roleID, err := c.client.Get(ctx, c.key(guildID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrVerifiedRoleUnknown
	}
	if err != nil {
		return "", err
	}
	return roleID, nil
}
