package service

import (
	"context"
	"errors"
	"sync"

	"github.com/spec-kit/guild-setup-service/internal/domain"
	"github.com/spec-kit/guild-setup-service/internal/repository"
)

type fakeMemberRepo struct {
	mu         sync.Mutex
	ensured    int
	upserts    []domain.MemberRecord
	upsertErr  error
	ensureErr  error
	membersMap map[string]*domain.MemberRecord
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{membersMap: make(map[string]*domain.MemberRecord)}
}

func (f *fakeMemberRepo) EnsureSchema(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ensureErr != nil {
		return f.ensureErr
	}
	f.ensured++
	return nil
}

func (f *fakeMemberRepo) Upsert(ctx context.Context, member *domain.MemberRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, *member)
	f.membersMap[member.UserID] = member
	return nil
}

func (f *fakeMemberRepo) GetByID(ctx context.Context, userID string) (*domain.MemberRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	member, ok := f.membersMap[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return member, nil
}

type fakeVerifiedRoleCache struct {
	mu    sync.Mutex
	roles map[string]string
}

func newFakeVerifiedRoleCache() *fakeVerifiedRoleCache {
	return &fakeVerifiedRoleCache{roles: make(map[string]string)}
}

func (f *fakeVerifiedRoleCache) Set(ctx context.Context, guildID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[guildID] = roleID
	return nil
}

func (f *fakeVerifiedRoleCache) Get(ctx context.Context, guildID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	roleID, ok := f.roles[guildID]
	if !ok {
		return "", repository.ErrVerifiedRoleUnknown
	}
	return roleID, nil
}

type fakeTicketing struct {
	mu       sync.Mutex
	channels []string
	err      error
}

func (f *fakeTicketing) Setup(ctx context.Context, guildID, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.channels = append(f.channels, channelID)
	return nil
}
