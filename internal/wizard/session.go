package wizard

import (
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/guild-setup-service/pkg/util"
)

// Session is one in-flight wizard conversation. Answers flow in through
// Deliver and are consumed by the engine at its prompt-wait points.
type Session struct {
	ID          string
	GuildID     string
	RequesterID string
	ChannelID   string

	replies    chan string
	cancelled  chan struct{}
	cancelOnce sync.Once
}

func newSession(guildID, requesterID, channelID string) *Session {
	return &Session{
		ID:          uuid.NewString(),
		GuildID:     guildID,
		RequesterID: requesterID,
		ChannelID:   channelID,
		replies:     make(chan string, 1),
		cancelled:   make(chan struct{}),
	}
}

// Cancel aborts the session. Safe to call more than once.
func (s *Session) Cancel() {
	s.cancelOnce.Do(func() { close(s.cancelled) })
}

// Cancelled returns a channel closed when the session is cancelled.
func (s *Session) Cancelled() <-chan struct{} {
	return s.cancelled
}

// deliver hands an answer to the waiting engine. The reply channel is
// buffered for one message; extra chatter between prompts is dropped.
func (s *Session) deliver(content string) bool {
	select {
	case s.replies <- content:
		return true
	default:
		return false
	}
}

// SessionManager owns at most one active session per guild.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Begin starts a session for the guild. While one is active, further starts
// are rejected with SETUP_BUSY and the in-flight session is left untouched.
func (m *SessionManager) Begin(guildID, requesterID, channelID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, active := m.sessions[guildID]; active {
		return nil, apperrors.NewSetupBusy(guildID)
	}
	session := newSession(guildID, requesterID, channelID)
	m.sessions[guildID] = session
	return session, nil
}

// Cancel aborts the guild's active session. The second return reports
// whether there was anything to cancel.
func (m *SessionManager) Cancel(guildID string) (*Session, bool) {
	m.mu.Lock()
	session, active := m.sessions[guildID]
	if active {
		delete(m.sessions, guildID)
	}
	m.mu.Unlock()

	if !active {
		return nil, false
	}
	session.Cancel()
	return session, true
}

// End clears the active flag once the given session finishes. A session that
// was already cancelled (and replaced) does not clear its successor.
func (m *SessionManager) End(session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, active := m.sessions[session.GuildID]; active && current.ID == session.ID {
		delete(m.sessions, session.GuildID)
	}
}

// Active reports whether the guild has a session in flight.
func (m *SessionManager) Active(guildID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, active := m.sessions[guildID]
	return active
}

// Deliver routes an inbound message to the waiting session. Only the next
// message from the same requester in the originating channel counts as an
// answer; everything else is ignored.
func (m *SessionManager) Deliver(guildID, channelID, authorID, content string) bool {
	m.mu.Lock()
	session, active := m.sessions[guildID]
	m.mu.Unlock()

	if !active || session.ChannelID != channelID || session.RequesterID != authorID {
		return false
	}
	return session.deliver(content)
}
