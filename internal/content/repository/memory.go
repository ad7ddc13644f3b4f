package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/devstudy/devstudy-backend/internal/content/domain"
	"github.com/google/uuid"
)

type memItem struct {
	item domain.Item
	seq  uint64
}

// MemoryStore keeps content in process memory. Used for local development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	seq   uint64
	items map[string]map[domain.Collection]map[string]*memItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]map[domain.Collection]map[string]*memItem),
		now:   time.Now,
	}
}

// WithClock replaces the time source used for createdAt.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) List(_ context.Context, ownerID string, col domain.Collection, f domain.Filter) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*memItem
	for _, mi := range s.items[ownerID][col] {
		if f.Matches(mi.item) {
			matched = append(matched, mi)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.item.CreatedAt.Equal(b.item.CreatedAt) {
			return a.item.CreatedAt.After(b.item.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]domain.Item, 0, len(matched))
	for _, mi := range matched {
		out = append(out, copyItem(mi.item))
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, ownerID string, col domain.Collection, id string) (domain.Item, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mi, ok := s.items[ownerID][col][id]
	if !ok {
		return domain.Item{}, false, nil
	}
	return copyItem(mi.item), true, nil
}

func (s *MemoryStore) Create(_ context.Context, ownerID string, col domain.Collection, fields map[string]interface{}) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	it := domain.Item{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Collection: col,
		Fields:     domain.StripReserved(fields),
		CreatedAt:  s.now().UTC(),
	}

	byCol, ok := s.items[ownerID]
	if !ok {
		byCol = make(map[domain.Collection]map[string]*memItem)
		s.items[ownerID] = byCol
	}
	if byCol[col] == nil {
		byCol[col] = make(map[string]*memItem)
	}
	byCol[col][it.ID] = &memItem{item: it, seq: s.seq}

	return copyItem(it), nil
}

func (s *MemoryStore) Delete(_ context.Context, ownerID string, col domain.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items[ownerID][col], id)
	return nil
}

func (s *MemoryStore) Owners(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.items))
	for owner, byCol := range s.items {
		for _, items := range byCol {
			if len(items) > 0 {
				out = append(out, owner)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func copyItem(it domain.Item) domain.Item {
	fields := make(map[string]interface{}, len(it.Fields))
	for k, v := range it.Fields {
		fields[k] = v
	}
	it.Fields = fields
	return it
}
