package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/guild-setup-service/pkg/util"
)

func TestSessionManagerBegin(t *testing.T) {
	mgr := NewSessionManager()

	first, err := mgr.Begin("guild-1", "admin-1", "chan-1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, mgr.Active("guild-1"))

	// A second start while one is active is rejected and must not touch the
	// in-flight session.
	_, err = mgr.Begin("guild-1", "admin-2", "chan-2")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "SETUP_BUSY"))
	assert.True(t, mgr.Active("guild-1"))
	assert.Equal(t, "admin-1", first.RequesterID)

	// Other guilds are unaffected.
	_, err = mgr.Begin("guild-2", "admin-1", "chan-9")
	require.NoError(t, err)
}

func TestSessionManagerCancel(t *testing.T) {
	mgr := NewSessionManager()

	_, cancelled := mgr.Cancel("guild-1")
	assert.False(t, cancelled, "cancelling with no active session is a no-op")

	session, err := mgr.Begin("guild-1", "admin-1", "chan-1")
	require.NoError(t, err)

	got, cancelled := mgr.Cancel("guild-1")
	require.True(t, cancelled)
	assert.Equal(t, session.ID, got.ID)
	assert.False(t, mgr.Active("guild-1"))

	select {
	case <-session.Cancelled():
	default:
		t.Fatal("expected session cancellation to be signalled")
	}

	_, cancelled = mgr.Cancel("guild-1")
	assert.False(t, cancelled)
}

func TestSessionManagerDeliver(t *testing.T) {
	mgr := NewSessionManager()
	session, err := mgr.Begin("guild-1", "admin-1", "chan-1")
	require.NoError(t, err)

	tests := []struct {
		name      string
		guildID   string
		channelID string
		authorID  string
		want      bool
	}{
		{name: "matching author and channel", guildID: "guild-1", channelID: "chan-1", authorID: "admin-1", want: true},
		{name: "wrong channel", guildID: "guild-1", channelID: "chan-2", authorID: "admin-1", want: false},
		{name: "wrong author", guildID: "guild-1", channelID: "chan-1", authorID: "someone-else", want: false},
		{name: "no session for guild", guildID: "guild-9", channelID: "chan-1", authorID: "admin-1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Drain any previous answer so the buffer is free.
			select {
			case <-session.replies:
			default:
			}
			got := mgr.Deliver(tt.guildID, tt.channelID, tt.authorID, "answer")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionManagerEndClearsOnlyOwnSession(t *testing.T) {
	mgr := NewSessionManager()
	first, err := mgr.Begin("guild-1", "admin-1", "chan-1")
	require.NoError(t, err)

	// Cancel and immediately start a replacement; ending the stale session
	// must not clear the new one.
	mgr.Cancel("guild-1")
	second, err := mgr.Begin("guild-1", "admin-1", "chan-1")
	require.NoError(t, err)

	mgr.End(first)
	assert.True(t, mgr.Active("guild-1"))

	mgr.End(second)
	assert.False(t, mgr.Active("guild-1"))
}
