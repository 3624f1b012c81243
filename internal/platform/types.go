package platform

// Permissions is the platform's capability bitset for roles and overwrites.
type Permissions uint64

const (
	PermissionViewChannel Permissions = 1 << iota
	PermissionSendMessages
	PermissionManageChannels
	PermissionKickMembers
	PermissionBanMembers
	PermissionManageMessages
	PermissionMuteMembers
	PermissionDeafenMembers
	PermissionMoveMembers
	PermissionModerateMembers
	PermissionAdministrator
)

// ModeratorPermissions is the fixed capability bundle granted to the team role.
const ModeratorPermissions = PermissionManageChannels |
	PermissionKickMembers |
	PermissionBanMembers |
	PermissionManageMessages |
	PermissionMuteMembers |
	PermissionDeafenMembers |
	PermissionMoveMembers |
	PermissionModerateMembers

// Has reports whether every bit in p is set.
func (p Permissions) Has(bits Permissions) bool {
	return p&bits == bits
}

// Role is a named permission bundle on the guild.
type Role struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Permissions Permissions `json:"permissions"`
	Default     bool        `json:"default"`
}

// ChannelType distinguishes categories from text channels.
type ChannelType string

const (
	ChannelTypeCategory ChannelType = "category"
	ChannelTypeText     ChannelType = "text"
)

// Overwrite is a per-role (or default-role) visibility rule on a channel.
// Target semantics: either Everyone is true, or RoleID / UserID names the subject.
type Overwrite struct {
	RoleID   string      `json:"role_id,omitempty"`
	UserID   string      `json:"user_id,omitempty"`
	Everyone bool        `json:"everyone,omitempty"`
	Allow    Permissions `json:"allow"`
	Deny     Permissions `json:"deny"`
}

// Channel is a guild channel; categories are channels with no parent.
type Channel struct {
	ID         string      `json:"id"`
	GuildID    string      `json:"guild_id"`
	Name       string      `json:"name"`
	Type       ChannelType `json:"type"`
	ParentID   string      `json:"parent_id,omitempty"`
	Overwrites []Overwrite `json:"overwrites,omitempty"`
}

// Thread is an auto-archiving sub-conversation attached to a text channel.
type Thread struct {
	ID                 string `json:"id"`
	ChannelID          string `json:"channel_id"`
	Name               string `json:"name"`
	AutoArchiveMinutes int    `json:"auto_archive_minutes"`
}

// ButtonStyle selects the rendering of an interactive button.
type ButtonStyle string

const (
	ButtonStyleSuccess ButtonStyle = "success"
	ButtonStyleDanger  ButtonStyle = "danger"
)

// Button is an interactive affordance attached to a message. CustomID is
// echoed back verbatim in the interaction event when the button is pressed.
type Button struct {
	Label    string      `json:"label"`
	Style    ButtonStyle `json:"style"`
	CustomID string      `json:"custom_id"`
}

// Message is a posted channel message.
type Message struct {
	ID        string   `json:"id"`
	ChannelID string   `json:"channel_id"`
	Content   string   `json:"content"`
	Buttons   []Button `json:"buttons,omitempty"`
}
