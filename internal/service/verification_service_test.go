package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/platform"
)

func newVerificationFixture() (*VerificationService, *platform.InMemory, *fakeMemberRepo, *fakeVerifiedRoleCache) {
	client := platform.NewInMemory()
	members := newFakeMemberRepo()
	cache := newFakeVerifiedRoleCache()
	svc := NewVerificationService(client, members, cache, nil, zap.NewNop())
	return svc, client, members, cache
}

func TestVerifyGrantsRoleAndRecordsMember(t *testing.T) {
	svc, client, members, _ := newVerificationFixture()
	role, err := client.CreateRole(context.Background(), "guild-1", "Member", 0)
	require.NoError(t, err)

	err = svc.HandleInteraction(context.Background(), Interaction{
		GuildID:  "guild-1",
		UserID:   "user-7",
		Username: "alex",
		CustomID: "verify:" + role.ID,
		Token:    "tok-1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{role.ID}, client.MemberRoles["guild-1/user-7"])
	require.Len(t, members.upserts, 1)
	assert.Equal(t, "user-7", members.upserts[0].UserID)
	assert.Equal(t, "alex", members.upserts[0].PlatformUsername)

	require.Len(t, client.Messages, 1)
	assert.Equal(t, "You have been verified!", client.Messages[0].Content)
	assert.Equal(t, "ephemeral:tok-1", client.Messages[0].ChannelID)
}

func TestVerifyMissingRoleReportsFailure(t *testing.T) {
	svc, client, members, _ := newVerificationFixture()

	err := svc.HandleInteraction(context.Background(), Interaction{
		GuildID:  "guild-1",
		UserID:   "user-7",
		CustomID: "verify:role-missing",
		Token:    "tok-1",
	})
	require.NoError(t, err)

	assert.Empty(t, members.upserts)
	require.Len(t, client.Messages, 1)
	assert.Equal(t, "Verification failed. Role not found.", client.Messages[0].Content)
}

func TestVerifyLegacyCustomIDFallsBackToCache(t *testing.T) {
	svc, client, _, cache := newVerificationFixture()
	role, err := client.CreateRole(context.Background(), "guild-1", "Member", 0)
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), "guild-1", role.ID))

	err = svc.HandleInteraction(context.Background(), Interaction{
		GuildID:  "guild-1",
		UserID:   "user-7",
		CustomID: "verify",
		Token:    "tok-1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{role.ID}, client.MemberRoles["guild-1/user-7"])
}

func TestVerifyLegacyCustomIDWithoutCacheFails(t *testing.T) {
	svc, client, _, _ := newVerificationFixture()

	err := svc.HandleInteraction(context.Background(), Interaction{
		GuildID:  "guild-1",
		UserID:   "user-7",
		CustomID: "verify",
		Token:    "tok-1",
	})
	require.NoError(t, err)
	require.Len(t, client.Messages, 1)
	assert.Equal(t, "Verification failed. Role not found.", client.Messages[0].Content)
}

func TestLeaveKicksMember(t *testing.T) {
	svc, client, _, _ := newVerificationFixture()

	err := svc.HandleInteraction(context.Background(), Interaction{
		GuildID:  "guild-1",
		UserID:   "user-7",
		CustomID: "leave",
		Token:    "tok-1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"user-7"}, client.Kicked)
	require.Len(t, client.Messages, 1)
	assert.Equal(t, "You have left the server.", client.Messages[0].Content)
}

func TestUnknownCustomIDIgnored(t *testing.T) {
	svc, client, members, _ := newVerificationFixture()

	err := svc.HandleInteraction(context.Background(), Interaction{
		GuildID:  "guild-1",
		UserID:   "user-7",
		CustomID: "ticket:open",
		Token:    "tok-1",
	})
	require.NoError(t, err)
	assert.Empty(t, client.Messages)
	assert.Empty(t, members.upserts)
}
