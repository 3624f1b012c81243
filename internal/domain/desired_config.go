package domain

import (
	"fmt"
	"strings"
)

// CategorySpec describes one category and the channels it should contain.
type CategorySpec struct {
	Name         string
	ChannelNames []string
}

// DesiredConfig is the declarative guild layout assembled by the setup wizard
// and consumed exactly once by the provisioner.
type DesiredConfig struct {
	VerifiedRoleName string
	AdminRoleName    string
	TeamRoleName     string
	Categories       []CategorySpec
	ExtraRoleNames   []string
}

// RoleNames returns the combined set of plain roles to create: the verified
// role followed by every extra role.
func (c *DesiredConfig) RoleNames() []string {
	names := make([]string, 0, len(c.ExtraRoleNames)+1)
	names = append(names, c.VerifiedRoleName)
	names = append(names, c.ExtraRoleNames...)
	return names
}

// Validate checks structural invariants before the config reaches the provisioner.
func (c *DesiredConfig) Validate() error {
	if strings.TrimSpace(c.VerifiedRoleName) == "" {
		return fmt.Errorf("verified role name must not be empty")
	}
	if strings.TrimSpace(c.AdminRoleName) == "" {
		return fmt.Errorf("admin role name must not be empty")
	}
	if strings.TrimSpace(c.TeamRoleName) == "" {
		return fmt.Errorf("team role name must not be empty")
	}
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("category name must not be empty")
		}
		seen := make(map[string]struct{}, len(cat.ChannelNames))
		for _, ch := range cat.ChannelNames {
			if _, dup := seen[ch]; dup {
				return fmt.Errorf("duplicate channel %q in category %q", ch, cat.Name)
			}
			seen[ch] = struct{}{}
		}
	}
	return nil
}
