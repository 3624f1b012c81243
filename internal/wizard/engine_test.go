package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/platform"
	apperrors "github.com/spec-kit/guild-setup-service/pkg/util"
)

// feedAnswers pushes answers into the session in order, retrying while the
// engine drains the one-slot reply buffer.
func feedAnswers(t *testing.T, mgr *SessionManager, session *Session, answers []string) {
	t.Helper()
	go func() {
		for _, answer := range answers {
			for !mgr.Deliver(session.GuildID, session.ChannelID, session.RequesterID, answer) {
				time.Sleep(time.Millisecond)
			}
		}
	}()
}

func newTestEngine(timeout time.Duration) (*Engine, *platform.InMemory) {
	client := platform.NewInMemory()
	return NewEngine(client, timeout, zap.NewNop()), client
}

func TestEngineRunCollectsFullConfig(t *testing.T) {
	engine, client := newTestEngine(2 * time.Second)
	mgr := NewSessionManager()
	session, err := mgr.Begin("guild-1", "admin-1", "chan-1")
	require.NoError(t, err)

	feedAnswers(t, mgr, session, []string{
		"Member", "Admin", "Mod",
		"2",
		"General", "1", "chat",
		"Gaming", "2", "clips", "lfg",
		"1", "VIP",
	})

	cfg, err := engine.Run(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, "Member", cfg.VerifiedRoleName)
	assert.Equal(t, "Admin", cfg.AdminRoleName)
	assert.Equal(t, "Mod", cfg.TeamRoleName)
	assert.Equal(t, []string{"VIP"}, cfg.ExtraRoleNames)

	require.Len(t, cfg.Categories, 2)
	assert.Equal(t, "General", cfg.Categories[0].Name)
	assert.Equal(t, []string{"announcements", "chat"}, cfg.Categories[0].ChannelNames,
		"first category always leads with announcements")
	assert.Equal(t, "Gaming", cfg.Categories[1].Name)
	assert.Equal(t, []string{"clips", "lfg"}, cfg.Categories[1].ChannelNames,
		"later categories never get announcements auto-inserted")

	// Every prompt went out as a message to the originating channel.
	assert.Len(t, client.Messages, 13)
}

func TestEngineRunZeroCounts(t *testing.T) {
	engine, _ := newTestEngine(2 * time.Second)
	mgr := NewSessionManager()
	session, err := mgr.Begin("guild-1", "admin-1", "chan-1")
	require.NoError(t, err)

	feedAnswers(t, mgr, session, []string{"Member", "Admin", "Mod", "0", "0"})

	cfg, err := engine.Run(context.Background(), session)
	require.NoError(t, err)
	assert.Empty(t, cfg.Categories)
	assert.Empty(t, cfg.ExtraRoleNames)
	assert.Equal(t, []string{"Member"}, cfg.RoleNames())
}

func TestEngineRunRejectsNonNumericCount(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{name: "letters", answer: "three"},
		{name: "negative", answer: "-1"},
		{name: "empty", answer: " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(2 * time.Second)
			mgr := NewSessionManager()
			session, err := mgr.Begin("guild-1", "admin-1", "chan-1")
			require.NoError(t, err)

			feedAnswers(t, mgr, session, []string{"Member", "Admin", "Mod", tt.answer})

			_, err = engine.Run(context.Background(), session)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), "got %v", err)
		})
	}
}

func TestEngineRunTimesOut(t *testing.T) {
	engine, _ := newTestEngine(20 * time.Millisecond)
	mgr := NewSessionManager()
	session, err := mgr.Begin("guild-1", "admin-1", "chan-1")
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), session)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "PROMPT_TIMEOUT"), "got %v", err)
}

func TestEngineRunCancelled(t *testing.T) {
	engine, _ := newTestEngine(2 * time.Second)
	mgr := NewSessionManager()
	session, err := mgr.Begin("guild-1", "admin-1", "chan-1")
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		mgr.Cancel("guild-1")
	}()

	_, err = engine.Run(context.Background(), session)
	assert.ErrorIs(t, err, ErrCancelled)
}
