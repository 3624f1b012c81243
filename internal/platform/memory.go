package platform

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	apperrors "github.com/spec-kit/guild-setup-service/pkg/util"
)

// InMemory is a self-contained resource graph implementing Client. It backs
// unit tests and local development without a live platform connection.
type InMemory struct {
	mu     sync.Mutex
	nextID int

	Roles    []Role
	Channels []Channel
	Threads  []Thread
	Messages []Message

	// Kicked collects members removed through KickMember.
	Kicked []string
	// MemberRoles maps "guildID/userID" to granted role ids.
	MemberRoles map[string][]string

	// DenyChannelDelete and DenyRoleDelete inject per-item permission failures.
	DenyChannelDelete map[string]bool
	DenyRoleDelete    map[string]bool
	// FailOperation makes the named operation return an error.
	FailOperation string

	BotID string
}

// NewInMemory builds an empty graph with a default @everyone role.
func NewInMemory() *InMemory {
	m := &InMemory{
		MemberRoles:       make(map[string][]string),
		DenyChannelDelete: make(map[string]bool),
		DenyRoleDelete:    make(map[string]bool),
		BotID:             "bot-user",
	}
	m.Roles = append(m.Roles, Role{ID: m.id("role"), Name: "@everyone", Default: true})
	return m
}

func (m *InMemory) id(prefix string) string {
	m.nextID++
	return prefix + "-" + strconv.Itoa(m.nextID)
}

func (m *InMemory) failing(operation string) error {
	if m.FailOperation == operation {
		return fmt.Errorf("%s: injected failure", operation)
	}
	return nil
}

func (m *InMemory) CreateRole(ctx context.Context, guildID, name string, perms Permissions) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing("create role"); err != nil {
		return nil, err
	}
	role := Role{ID: m.id("role"), Name: name, Permissions: perms}
	m.Roles = append(m.Roles, role)
	return &role, nil
}

func (m *InMemory) CreateCategory(ctx context.Context, guildID, name string) (*Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing("create category"); err != nil {
		return nil, err
	}
	channel := Channel{ID: m.id("cat"), GuildID: guildID, Name: name, Type: ChannelTypeCategory}
	m.Channels = append(m.Channels, channel)
	return &channel, nil
}

func (m *InMemory) CreateChannel(ctx context.Context, guildID, parentID, name string, overwrites []Overwrite) (*Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing("create channel"); err != nil {
		return nil, err
	}
	channel := Channel{
		ID:         m.id("chan"),
		GuildID:    guildID,
		Name:       name,
		Type:       ChannelTypeText,
		ParentID:   parentID,
		Overwrites: overwrites,
	}
	m.Channels = append(m.Channels, channel)
	return &channel, nil
}

func (m *InMemory) CreateThread(ctx context.Context, channelID, name string, autoArchiveMinutes int) (*Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing("create thread"); err != nil {
		return nil, err
	}
	thread := Thread{ID: m.id("thread"), ChannelID: channelID, Name: name, AutoArchiveMinutes: autoArchiveMinutes}
	m.Threads = append(m.Threads, thread)
	return &thread, nil
}

func (m *InMemory) SendMessage(ctx context.Context, channelID, content string, buttons ...Button) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing("send message"); err != nil {
		return nil, err
	}
	msg := Message{ID: m.id("msg"), ChannelID: channelID, Content: content, Buttons: buttons}
	m.Messages = append(m.Messages, msg)
	return &msg, nil
}

func (m *InMemory) ReplyEphemeral(ctx context.Context, interactionToken, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, Message{ID: m.id("msg"), ChannelID: "ephemeral:" + interactionToken, Content: content})
	return nil
}

func (m *InMemory) ListChannels(ctx context.Context, guildID string) ([]Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Channel, len(m.Channels))
	copy(out, m.Channels)
	return out, nil
}

func (m *InMemory) ListRoles(ctx context.Context, guildID string) ([]Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Role, len(m.Roles))
	copy(out, m.Roles)
	return out, nil
}

func (m *InMemory) DeleteChannel(ctx context.Context, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DenyChannelDelete[channelID] {
		return apperrors.NewPlatformForbidden("delete channel", nil)
	}
	for i, ch := range m.Channels {
		if ch.ID == channelID {
			m.Channels = append(m.Channels[:i], m.Channels[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFound("channel", nil)
}

func (m *InMemory) DeleteRole(ctx context.Context, guildID, roleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DenyRoleDelete[roleID] {
		return apperrors.NewPlatformForbidden("delete role", nil)
	}
	for i, role := range m.Roles {
		if role.ID == roleID {
			m.Roles = append(m.Roles[:i], m.Roles[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFound("role", nil)
}

func (m *InMemory) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing("add member role"); err != nil {
		return err
	}
	found := false
	for _, role := range m.Roles {
		if role.ID == roleID {
			found = true
			break
		}
	}
	if !found {
		return apperrors.NewNotFound("role", nil)
	}
	key := guildID + "/" + userID
	m.MemberRoles[key] = append(m.MemberRoles[key], roleID)
	return nil
}

func (m *InMemory) KickMember(ctx context.Context, guildID, userID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Kicked = append(m.Kicked, userID)
	return nil
}

func (m *InMemory) BotUserID(ctx context.Context) (string, error) {
	return m.BotID, nil
}

// MessagesSnapshot returns a copy of the sent messages, safe to read while
// other goroutines keep sending.
func (m *InMemory) MessagesSnapshot() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.Messages))
	copy(out, m.Messages)
	return out
}

// RoleByName returns the first role with the given name.
func (m *InMemory) RoleByName(name string) (*Role, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Roles {
		if m.Roles[i].Name == name {
			return &m.Roles[i], true
		}
	}
	return nil, false
}

// ChannelByName returns the first channel with the given name.
func (m *InMemory) ChannelByName(name string) (*Channel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Channels {
		if m.Channels[i].Name == name {
			return &m.Channels[i], true
		}
	}
	return nil, false
}
