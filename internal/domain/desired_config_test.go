package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesiredConfigValidate(t *testing.T) {
	valid := func() *DesiredConfig {
		return &DesiredConfig{
			VerifiedRoleName: "Member",
			AdminRoleName:    "Admin",
			TeamRoleName:     "Mod",
			Categories: []CategorySpec{
				{Name: "General", ChannelNames: []string{"announcements", "chat"}},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*DesiredConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*DesiredConfig) {}},
		{
			name:    "empty verified role",
			mutate:  func(c *DesiredConfig) { c.VerifiedRoleName = "  " },
			wantErr: "verified role",
		},
		{
			name:    "empty admin role",
			mutate:  func(c *DesiredConfig) { c.AdminRoleName = "" },
			wantErr: "admin role",
		},
		{
			name:    "empty team role",
			mutate:  func(c *DesiredConfig) { c.TeamRoleName = "" },
			wantErr: "team role",
		},
		{
			name:    "empty category name",
			mutate:  func(c *DesiredConfig) { c.Categories[0].Name = "" },
			wantErr: "category name",
		},
		{
			name: "duplicate channel in category",
			mutate: func(c *DesiredConfig) {
				c.Categories[0].ChannelNames = []string{"chat", "chat"}
			},
			wantErr: "duplicate channel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDesiredConfigRoleNames(t *testing.T) {
	cfg := &DesiredConfig{
		VerifiedRoleName: "Member",
		ExtraRoleNames:   []string{"VIP", "Artist"},
	}
	assert.Equal(t, []string{"Member", "VIP", "Artist"}, cfg.RoleNames(),
		"verified role always leads the plain-role set")
}
