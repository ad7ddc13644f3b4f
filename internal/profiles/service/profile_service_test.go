package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/profiles/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
	calls    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{profiles: map[string]domain.Profile{}}
}

func (f *fakeRepo) Get(_ context.Context, userID string) (domain.Profile, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p, ok := f.profiles[userID]
	return p, ok, nil
}

func (f *fakeRepo) Upsert(_ context.Context, p *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p.CreatedAt = time.Now()
	f.profiles[p.UserID] = *p
	return nil
}

func (f *fakeRepo) Search(_ context.Context, q string) ([]domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	q = strings.ToLower(q)
	out := []domain.Profile{}
	for _, p := range f.profiles {
		if strings.Contains(strings.ToLower(p.Username), q) || strings.Contains(strings.ToLower(p.Email), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestCreateProfile_RejectsShortUsernames(t *testing.T) {
	for _, name := range []string{"", "a", "ab", "  ab  ", "\tx\n"} {
		repo := newFakeRepo()
		svc := NewProfileService(repo)

		_, err := svc.CreateProfile(context.Background(), "u1", "u1@example.com", name)
		assert.True(t, apperr.IsValidation(err), "username %q", name)
		assert.Zero(t, repo.calls, "store touched for %q", name)
		assert.Empty(t, repo.profiles)
	}
}

func TestCreateProfile_TrimsAndUpserts(t *testing.T) {
	repo := newFakeRepo()
	svc := NewProfileService(repo)
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, "u1", "bob@example.com", "  bob ")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Username)
	assert.False(t, p.CreatedAt.IsZero())

	_, err = svc.CreateProfile(ctx, "u1", "bob@example.com", "bobby")
	require.NoError(t, err)

	got, ok, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bobby", got.Username)
}

func TestSearchProfiles(t *testing.T) {
	repo := newFakeRepo()
	svc := NewProfileService(repo)
	ctx := context.Background()

	_, err := svc.CreateProfile(ctx, "u1", "bob@example.com", "Bob")
	require.NoError(t, err)
	_, err = svc.CreateProfile(ctx, "u2", "alice@example.com", "alice")
	require.NoError(t, err)

	calls := repo.calls
	out, err := svc.SearchProfiles(ctx, " b ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
	assert.Equal(t, calls, repo.calls)

	out, err = svc.SearchProfiles(ctx, "BO")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "u1", out[0].UserID)
}

func TestEnsureProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := NewProfileService(repo)
	ctx := context.Background()

	_, needs, err := svc.EnsureProfile(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, needs)

	_, err = svc.CreateProfile(ctx, "u1", "bob@example.com", "bob")
	require.NoError(t, err)

	p, needs, err := svc.EnsureProfile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, needs)
	assert.Equal(t, "bob", p.Username)

	_, err = svc.MustGet(ctx, "ghost")
	assert.True(t, apperr.IsNotFound(err))
}
