package repository

import (
	"context"

	"github.com/devstudy/devstudy-backend/internal/content/domain"
)

// Store is the Personal Content Store. Every call is scoped to one owner; no
// call ever reads or writes another owner's namespace.
type Store interface {
	// List returns the owner's items in col matching f, newest first.
	List(ctx context.Context, ownerID string, col domain.Collection, f domain.Filter) ([]domain.Item, error)
	// Get returns the item and true, or false when it does not exist.
	Get(ctx context.Context, ownerID string, col domain.Collection, id string) (domain.Item, bool, error)
	// Create stamps ownerId and createdAt and assigns the id.
	Create(ctx context.Context, ownerID string, col domain.Collection, fields map[string]interface{}) (domain.Item, error)
	// Delete removes one item. It does not touch children and is a no-op for
	// unknown ids.
	Delete(ctx context.Context, ownerID string, col domain.Collection, id string) error
	// Owners lists every owner with at least one item.
	Owners(ctx context.Context) ([]string, error)
}
