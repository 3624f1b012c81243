package platform

import "context"

// Client is the guild resource-graph API. Creation calls are blocking and
// sequential from the caller's point of view; later calls may reference
// objects returned by earlier ones, so callers own the ordering.
type Client interface {
	// CreateRole creates a named role with the given permission bitset.
	CreateRole(ctx context.Context, guildID, name string, perms Permissions) (*Role, error)
	// CreateCategory creates a grouping container for channels.
	CreateCategory(ctx context.Context, guildID, name string) (*Channel, error)
	// CreateChannel creates a text channel under the given category with the
	// given permission overwrites.
	CreateChannel(ctx context.Context, guildID, parentID, name string, overwrites []Overwrite) (*Channel, error)
	// CreateThread attaches an auto-archiving thread to a text channel.
	CreateThread(ctx context.Context, channelID, name string, autoArchiveMinutes int) (*Thread, error)
	// SendMessage posts a message, optionally carrying interactive buttons.
	SendMessage(ctx context.Context, channelID, content string, buttons ...Button) (*Message, error)
	// ReplyEphemeral answers an interaction with a message visible only to the invoker.
	ReplyEphemeral(ctx context.Context, interactionToken, content string) error

	ListChannels(ctx context.Context, guildID string) ([]Channel, error)
	ListRoles(ctx context.Context, guildID string) ([]Role, error)
	DeleteChannel(ctx context.Context, channelID string) error
	DeleteRole(ctx context.Context, guildID, roleID string) error

	// AddMemberRole grants a role to a guild member.
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
	// KickMember removes a member from the guild.
	KickMember(ctx context.Context, guildID, userID, reason string) error

	// BotUserID returns the bot's own member identity.
	BotUserID(ctx context.Context) (string, error)
}
