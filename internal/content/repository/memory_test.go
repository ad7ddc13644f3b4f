package repository

import (
	"context"
	"testing"
	"time"

	"github.com/devstudy/devstudy-backend/internal/content/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steppedClock() func() time.Time {
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func TestMemoryStore_CreateStampsOwnerAndTime(t *testing.T) {
	s := NewMemoryStore().WithClock(steppedClock())
	ctx := context.Background()

	it, err := s.Create(ctx, "alice", domain.Courses, map[string]interface{}{
		"name":      "DSA",
		"ownerId":   "mallory",
		"createdAt": "1999-01-01",
		"id":        "forged",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, it.ID)
	assert.NotEqual(t, "forged", it.ID)
	assert.Equal(t, "alice", it.OwnerID)
	assert.Equal(t, "DSA", it.String("name"))
	assert.NotContains(t, it.Fields, "ownerId")
	assert.NotContains(t, it.Fields, "createdAt")
	assert.Equal(t, 2025, it.CreatedAt.Year())
}

func TestMemoryStore_ListFiltersAndOrdersNewestFirst(t *testing.T) {
	s := NewMemoryStore().WithClock(steppedClock())
	ctx := context.Background()

	first, err := s.Create(ctx, "alice", domain.Topics, map[string]interface{}{"courseId": "c1", "name": "Arrays"})
	require.NoError(t, err)
	second, err := s.Create(ctx, "alice", domain.Topics, map[string]interface{}{"courseId": "c1", "name": "Graphs"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "alice", domain.Topics, map[string]interface{}{"courseId": "c2", "name": "Other"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "bob", domain.Topics, map[string]interface{}{"courseId": "c1", "name": "Bob's"})
	require.NoError(t, err)

	items, err := s.List(ctx, "alice", domain.Topics, domain.By(domain.FieldCourseID, "c1"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)

	all, err := s.List(ctx, "alice", domain.Topics, domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryStore_TiesKeepInsertionOrderReversed(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	a, _ := s.Create(ctx, "u", domain.Courses, map[string]interface{}{"name": "a"})
	b, _ := s.Create(ctx, "u", domain.Courses, map[string]interface{}{"name": "b"})

	items, err := s.List(ctx, "u", domain.Courses, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestMemoryStore_GetAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	it, err := s.Create(ctx, "alice", domain.Questions, map[string]interface{}{"title": "Two Sum"})
	require.NoError(t, err)

	got, ok, err := s.Get(ctx, "alice", domain.Questions, it.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Two Sum", got.String("title"))

	_, ok, err = s.Get(ctx, "bob", domain.Questions, it.ID)
	require.NoError(t, err)
	assert.False(t, ok, "other owners never see the item")

	require.NoError(t, s.Delete(ctx, "alice", domain.Questions, it.ID))
	require.NoError(t, s.Delete(ctx, "alice", domain.Questions, it.ID), "delete is idempotent")

	_, ok, err = s.Get(ctx, "alice", domain.Questions, it.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_ReturnedItemsAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	it, _ := s.Create(ctx, "alice", domain.Courses, map[string]interface{}{"name": "DSA"})
	it.Fields["name"] = "mutated"

	got, _, _ := s.Get(ctx, "alice", domain.Courses, it.ID)
	assert.Equal(t, "DSA", got.String("name"))
}

func TestMemoryStore_Owners(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, _ = s.Create(ctx, "bob", domain.Courses, map[string]interface{}{"name": "x"})
	_, _ = s.Create(ctx, "alice", domain.Courses, map[string]interface{}{"name": "y"})
	_, _ = s.Create(ctx, "carol", domain.Courses, map[string]interface{}{"name": "z"})
	require.NoError(t, s.Delete(ctx, "carol", domain.Courses, mustOnlyID(t, s, "carol")))

	owners, err := s.Owners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, owners)
}

func mustOnlyID(t *testing.T, s *MemoryStore, owner string) string {
	t.Helper()
	items, err := s.List(context.Background(), owner, domain.Courses, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	return items[0].ID
}
