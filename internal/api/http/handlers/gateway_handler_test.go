package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/guild-setup-service/internal/api/dto"
	"github.com/spec-kit/guild-setup-service/internal/service"
)

type stubSetup struct {
	started   []service.Command
	cancelled []service.Command
	delivered []string
	handled   bool
	err       error
}

func (s *stubSetup) StartSetup(ctx context.Context, cmd service.Command) error {
	s.started = append(s.started, cmd)
	return s.err
}

func (s *stubSetup) CancelSetup(ctx context.Context, cmd service.Command) error {
	s.cancelled = append(s.cancelled, cmd)
	return s.err
}

func (s *stubSetup) Deliver(guildID, channelID, authorID, content string) bool {
	s.delivered = append(s.delivered, content)
	return s.handled
}

type stubReset struct {
	calls int
}

func (s *stubReset) Reset(ctx context.Context, guildID, replyChannelID string) error {
	s.calls++
	return nil
}

type stubInteractions struct {
	received []service.Interaction
}

func (s *stubInteractions) HandleInteraction(ctx context.Context, interaction service.Interaction) error {
	s.received = append(s.received, interaction)
	return nil
}

func newGatewayApp(setup *stubSetup, reset *stubReset, interactions *stubInteractions) *fiber.App {
	app := fiber.New()
	handler := NewGatewayHandler(setup, reset, interactions, "!")
	app.Post("/gateway/messages", handler.Messages)
	app.Post("/gateway/interactions", handler.Interactions)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestMessagesRoutesCommands(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		isAdmin       bool
		wantStatus    int
		wantStarted   int
		wantCancelled int
		wantResets    int
		wantDelivered int
	}{
		{name: "start setup", content: "!start-setup", isAdmin: true, wantStatus: 202, wantStarted: 1},
		{name: "cancel setup", content: "!cancel-setup", isAdmin: true, wantStatus: 202, wantCancelled: 1},
		{name: "reset server", content: "!reset-server", isAdmin: true, wantStatus: 202, wantResets: 1},
		{name: "reset requires admin", content: "!reset-server", isAdmin: false, wantStatus: 403},
		{name: "unknown command ignored", content: "!dance", isAdmin: true, wantStatus: 202},
		{name: "plain message delivered to wizard", content: "Member", isAdmin: true, wantStatus: 202, wantDelivered: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := &stubSetup{}
			reset := &stubReset{}
			interactions := &stubInteractions{}
			app := newGatewayApp(setup, reset, interactions)

			resp := postJSON(t, app, "/gateway/messages", dto.MessageEvent{
				GuildID:       "guild-1",
				ChannelID:     "chan-1",
				AuthorID:      "user-1",
				AuthorIsAdmin: tt.isAdmin,
				Content:       tt.content,
			})

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Len(t, setup.started, tt.wantStarted)
			assert.Len(t, setup.cancelled, tt.wantCancelled)
			assert.Equal(t, tt.wantResets, reset.calls)
			assert.Len(t, setup.delivered, tt.wantDelivered)
		})
	}
}

func TestMessagesIgnoresBots(t *testing.T) {
	setup := &stubSetup{}
	app := newGatewayApp(setup, &stubReset{}, &stubInteractions{})

	resp := postJSON(t, app, "/gateway/messages", dto.MessageEvent{
		GuildID:     "guild-1",
		ChannelID:   "chan-1",
		AuthorID:    "bot-1",
		AuthorIsBot: true,
		Content:     "!start-setup",
	})

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Empty(t, setup.started)
	assert.Empty(t, setup.delivered)
}

func TestMessagesRejectsIncompleteEvent(t *testing.T) {
	app := newGatewayApp(&stubSetup{}, &stubReset{}, &stubInteractions{})

	resp := postJSON(t, app, "/gateway/messages", dto.MessageEvent{Content: "hello"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInteractionsForwarded(t *testing.T) {
	interactions := &stubInteractions{}
	app := newGatewayApp(&stubSetup{}, &stubReset{}, interactions)

	resp := postJSON(t, app, "/gateway/interactions", dto.InteractionEvent{
		GuildID:          "guild-1",
		UserID:           "user-1",
		Username:         "alex",
		CustomID:         "verify:role-1",
		InteractionToken: "tok-1",
	})

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Len(t, interactions.received, 1)
	assert.Equal(t, "verify:role-1", interactions.received[0].CustomID)
	assert.Equal(t, "tok-1", interactions.received[0].Token)
}

func TestInteractionsRejectsIncompleteEvent(t *testing.T) {
	app := newGatewayApp(&stubSetup{}, &stubReset{}, &stubInteractions{})

	resp := postJSON(t, app, "/gateway/interactions", dto.InteractionEvent{GuildID: "guild-1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
