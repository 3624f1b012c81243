package domain

import "time"

// MemberRecord is the persistent per-member profile row created during setup
// and populated as members verify and use the community features.
type MemberRecord struct {
	UserID           string
	PlatformUsername string
	XProfileURL      string
	WalletAddress    string
	Tokens           int64
	XP               int64
	Rank             string
	Inventory        string
	DAOMember        bool
	ProfilePicture   string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
