package dto

// MessageEvent is one guild message relayed by the platform gateway.
type MessageEvent struct {
	GuildID       string `json:"guild_id"`
	ChannelID     string `json:"channel_id"`
	MessageID     string `json:"message_id"`
	AuthorID      string `json:"author_id"`
	AuthorIsAdmin bool   `json:"author_is_admin"`
	AuthorIsBot   bool   `json:"author_is_bot"`
	Content       string `json:"content"`
}

// InteractionEvent is one button press relayed by the platform gateway.
type InteractionEvent struct {
	GuildID          string `json:"guild_id"`
	ChannelID        string `json:"channel_id"`
	UserID           string `json:"user_id"`
	Username         string `json:"username"`
	CustomID         string `json:"custom_id"`
	InteractionToken string `json:"interaction_token"`
}

// AcceptedResponse acknowledges a relayed event.
type AcceptedResponse struct {
	Handled bool `json:"handled"`
}
