package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSetupStarted   EventType = "setup_started"
	EventSetupCompleted EventType = "setup_completed"
	EventSetupCancelled EventType = "setup_cancelled"
	EventSetupFailed    EventType = "setup_failed"
	EventResetCompleted EventType = "reset_completed"
	EventMemberVerified EventType = "member_verified"
	EventMemberLeft     EventType = "member_left"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GuildID   string      `json:"guild_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// SetupCompletedPayload payload.
type SetupCompletedPayload struct {
	VerifiedRoleName string `json:"verified_role_name"`
	CategoryCount    int    `json:"category_count"`
	RoleCount        int    `json:"role_count"`
}

// SetupFailedPayload payload.
type SetupFailedPayload struct {
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// ResetCompletedPayload payload.
type ResetCompletedPayload struct {
	ChannelsDeleted int `json:"channels_deleted"`
	RolesDeleted    int `json:"roles_deleted"`
	Failures        int `json:"failures"`
}

// MemberVerifiedPayload payload.
type MemberVerifiedPayload struct {
	RoleID string `json:"role_id"`
}
