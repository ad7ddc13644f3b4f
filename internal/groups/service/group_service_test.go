package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/groups/domain"
	"github.com/devstudy/devstudy-backend/internal/groups/repository"
	profiledomain "github.com/devstudy/devstudy-backend/internal/profiles/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	creator = profiledomain.Profile{UserID: "u-creator", Username: "carol", Email: "carol@example.com"}
	m1      = profiledomain.Profile{UserID: "u-m1", Username: "mike", Email: "mike@example.com"}
	m2      = profiledomain.Profile{UserID: "u-m2", Username: "nina", Email: "nina@example.com"}
)

func setupService(t *testing.T) (*GroupService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := NewGroupService(repository.NewGroupRepository(client, "test"))
	t0 := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	n := 0
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
	return svc, mr
}

func TestGenerateInviteCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		require.Len(t, code, domain.InviteCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(domain.InviteAlphabet, r), "unexpected %q in %s", r, code)
		}
	}
	assert.NotContains(t, domain.InviteAlphabet, "0")
	assert.NotContains(t, domain.InviteAlphabet, "O")
	assert.NotContains(t, domain.InviteAlphabet, "1")
	assert.NotContains(t, domain.InviteAlphabet, "I")
}

func TestCreateGroup_Validation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateGroup(ctx, "   ", []profiledomain.Profile{m1}, creator)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.CreateGroup(ctx, "Study", nil, creator)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateGroup_CreatorIsMemberOnce(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, " Study ", []profiledomain.Profile{m1, creator, m1}, creator)
	require.NoError(t, err)

	assert.Equal(t, "Study", g.Name)
	assert.Len(t, g.InviteCode, domain.InviteCodeLength)
	assert.Equal(t, []string{creator.UserID, m1.UserID}, g.MemberIDs())
	assert.Len(t, g.Members, 2)
}

func TestCreateGroup_RetriesInviteCodeCollisions(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	codes := []string{"AAAAAA", "AAAAAA", "AAAAAA", "BBBBBB"}
	svc.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	g1, err := svc.CreateGroup(ctx, "One", []profiledomain.Profile{m1}, creator)
	require.NoError(t, err)
	g2, err := svc.CreateGroup(ctx, "Two", []profiledomain.Profile{m1}, creator)
	require.NoError(t, err)

	assert.Equal(t, "AAAAAA", g1.InviteCode)
	assert.Equal(t, "BBBBBB", g2.InviteCode)
}

func TestCreateGroup_GivesUpAfterBoundedAttempts(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	calls := 0
	svc.newCode = func() (string, error) {
		calls++
		return "ZZZZZZ", nil
	}

	_, err := svc.CreateGroup(ctx, "One", []profiledomain.Profile{m1}, creator)
	require.NoError(t, err)

	calls = 0
	_, err = svc.CreateGroup(ctx, "Two", []profiledomain.Profile{m1}, creator)
	assert.True(t, apperr.IsTransient(err))
	assert.Equal(t, InviteCodeAttempts, calls)
}

func TestJoinByCode_RoundTrip(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, "Study", []profiledomain.Profile{m1}, creator)
	require.NoError(t, err)

	joined, err := svc.JoinByCode(ctx, "  "+strings.ToLower(g.InviteCode)+" ", m2)
	require.NoError(t, err)
	assert.Equal(t, g.ID, joined.ID)
	assert.True(t, joined.HasMember(m2.UserID))

	_, err = svc.JoinByCode(ctx, g.InviteCode, m2)
	var already *apperr.AlreadyMemberError
	require.ErrorAs(t, err, &already)

	stored, err := svc.GetGroup(ctx, g.ID, m2.UserID)
	require.NoError(t, err)
	count := 0
	for _, m := range stored.Members {
		if m.UserID == m2.UserID {
			count++
		}
	}
	assert.Equal(t, 1, count)

	_, err = svc.JoinByCode(ctx, "NOPE22", m2)
	assert.True(t, apperr.IsNotFound(err))
	_, err = svc.JoinByCode(ctx, "", m2)
	assert.True(t, apperr.IsNotFound(err))
}

func TestAddMember(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, "Study", []profiledomain.Profile{m1}, creator)
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, g.ID, "stranger", m2)
	assert.True(t, apperr.IsForbidden(err))

	// Any member may add, not just the creator.
	updated, err := svc.AddMember(ctx, g.ID, m1.UserID, m2)
	require.NoError(t, err)
	assert.True(t, updated.HasMember(m2.UserID))

	_, err = svc.AddMember(ctx, g.ID, m1.UserID, m2)
	assert.True(t, apperr.IsAlreadyMember(err))

	_, err = svc.AddMember(ctx, "missing", m1.UserID, m2)
	assert.True(t, apperr.IsNotFound(err))
}

func TestConcurrentJoinsAllLand(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, "Busy", []profiledomain.Profile{m1}, creator)
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := profiledomain.Profile{UserID: fmt.Sprintf("u-%02d", i), Username: fmt.Sprintf("user%02d", i)}
			_, err := svc.JoinByCode(ctx, g.InviteCode, p)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := svc.GetGroup(ctx, g.ID, creator.UserID)
	require.NoError(t, err)
	assert.Len(t, stored.Members, n+2)
}

func TestListGroupsForUser(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.CreateGroup(ctx, "First", []profiledomain.Profile{m1}, creator)
	require.NoError(t, err)
	second, err := svc.CreateGroup(ctx, "Second", []profiledomain.Profile{m2}, creator)
	require.NoError(t, err)

	groups, err := svc.ListGroupsForUser(ctx, creator.UserID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, second.ID, groups[0].ID)
	assert.Equal(t, first.ID, groups[1].ID)

	groups, err = svc.ListGroupsForUser(ctx, m1.UserID)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	_, err = svc.JoinByCode(ctx, second.InviteCode, m1)
	require.NoError(t, err)
	groups, err = svc.ListGroupsForUser(ctx, m1.UserID)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	require.NoError(t, svc.LeaveGroup(ctx, first.ID, m1.UserID))
	groups, err = svc.ListGroupsForUser(ctx, m1.UserID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, second.ID, groups[0].ID)

	groups, err = svc.ListGroupsForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestLeaveGroup(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, "Study", []profiledomain.Profile{m1}, creator)
	require.NoError(t, err)

	assert.True(t, apperr.IsForbidden(svc.LeaveGroup(ctx, g.ID, creator.UserID)))
	assert.True(t, apperr.IsForbidden(svc.LeaveGroup(ctx, g.ID, m2.UserID)))
	require.NoError(t, svc.LeaveGroup(ctx, g.ID, m1.UserID))

	_, err = svc.GetGroup(ctx, g.ID, m1.UserID)
	assert.True(t, apperr.IsForbidden(err))
}

func TestDeleteGroup_CascadesPointersAndCode(t *testing.T) {
	svc, mr := setupService(t)
	ctx := context.Background()
	repo := svc.Repository()

	g, err := svc.CreateGroup(ctx, "Study", []profiledomain.Profile{m1}, creator)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.AddCourseShare(ctx, &domain.GroupCourseShare{
			ID:       fmt.Sprintf("gcs-%d", i),
			GroupID:  g.ID,
			CourseID: fmt.Sprintf("c-%d", i),
			SharedBy: m1.UserID,
			SharedAt: time.Now(),
		}))
	}
	shares, err := repo.ListCourseShares(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	assert.True(t, apperr.IsForbidden(svc.DeleteGroup(ctx, g.ID, m1.UserID)))
	require.NoError(t, svc.DeleteGroup(ctx, g.ID, creator.UserID))

	shares, err = repo.ListCourseShares(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, shares)
	_, err = repo.GetCourseShare(ctx, "gcs-0")
	assert.True(t, apperr.IsNotFound(err))

	assert.False(t, mr.Exists("test:invite:"+g.InviteCode))
	_, err = svc.JoinByCode(ctx, g.InviteCode, m2)
	assert.True(t, apperr.IsNotFound(err))

	groups, err := svc.ListGroupsForUser(ctx, m1.UserID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	assert.True(t, apperr.IsNotFound(svc.DeleteGroup(ctx, g.ID, creator.UserID)))

	err = repo.AddCourseShare(ctx, &domain.GroupCourseShare{ID: "late", GroupID: g.ID, SharedAt: time.Now()})
	assert.True(t, apperr.IsNotFound(err))
}

func TestWatchGroup(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, "Study", []profiledomain.Profile{m1}, creator)
	require.NoError(t, err)

	_, _, err = svc.WatchGroup(ctx, g.ID, "stranger")
	assert.True(t, apperr.IsForbidden(err))

	ch, cancel, err := svc.WatchGroup(ctx, g.ID, m1.UserID)
	require.NoError(t, err)
	defer cancel()

	next := func() domain.GroupView {
		select {
		case v := <-ch:
			return v
		case <-time.After(2 * time.Second):
			t.Fatal("no snapshot")
		}
		return domain.GroupView{}
	}

	view := next()
	require.NotNil(t, view.Group)
	assert.Len(t, view.Group.Members, 2)

	_, err = svc.JoinByCode(ctx, g.InviteCode, m2)
	require.NoError(t, err)
	view = next()
	require.NotNil(t, view.Group)
	assert.Len(t, view.Group.Members, 3)

	require.NoError(t, svc.DeleteGroup(ctx, g.ID, creator.UserID))
	view = next()
	assert.Nil(t, view.Group)
	assert.Empty(t, view.Courses)
}
