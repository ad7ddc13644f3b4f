package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/content/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool used by PostgresStore, so tests can pass a pgxmock pool.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps every collection in one jsonb-backed table.
type PostgresStore struct {
	db DBTX
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context, ownerID string, col domain.Collection, f domain.Filter) ([]domain.Item, error) {
	const q = `
select id, data, created_at
from content_items
where owner_id = $1 and collection = $2 and ($3::text = '' or data->>$3::text = $4)
order by created_at desc, id desc;
`
	rows, err := s.db.Query(ctx, q, ownerID, string(col), f.Field, f.Value)
	if err != nil {
		return nil, apperr.Store("list "+string(col), err)
	}
	defer rows.Close()

	out := make([]domain.Item, 0, 16)
	for rows.Next() {
		var (
			it   domain.Item
			data []byte
		)
		if err := rows.Scan(&it.ID, &data, &it.CreatedAt); err != nil {
			return nil, apperr.Store("scan "+string(col), err)
		}
		if err := json.Unmarshal(data, &it.Fields); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", col, it.ID, err)
		}
		it.OwnerID = ownerID
		it.Collection = col
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("list "+string(col), err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, ownerID string, col domain.Collection, id string) (domain.Item, bool, error) {
	const q = `
select data, created_at
from content_items
where owner_id = $1 and collection = $2 and id = $3;
`
	it := domain.Item{ID: id, OwnerID: ownerID, Collection: col}
	var data []byte
	err := s.db.QueryRow(ctx, q, ownerID, string(col), id).Scan(&data, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, false, nil
	}
	if err != nil {
		return domain.Item{}, false, apperr.Store("get "+string(col), err)
	}
	if err := json.Unmarshal(data, &it.Fields); err != nil {
		return domain.Item{}, false, fmt.Errorf("decode %s/%s: %w", col, id, err)
	}
	return it, true, nil
}

func (s *PostgresStore) Create(ctx context.Context, ownerID string, col domain.Collection, fields map[string]interface{}) (domain.Item, error) {
	it := domain.Item{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Collection: col,
		Fields:     domain.StripReserved(fields),
	}

	data, err := json.Marshal(it.Fields)
	if err != nil {
		return domain.Item{}, fmt.Errorf("encode %s: %w", col, err)
	}

	const q = `
insert into content_items (id, owner_id, collection, data)
values ($1, $2, $3, $4)
returning created_at;
`
	var createdAt time.Time
	if err := s.db.QueryRow(ctx, q, it.ID, ownerID, string(col), data).Scan(&createdAt); err != nil {
		return domain.Item{}, apperr.Store("create "+string(col), err)
	}
	it.CreatedAt = createdAt
	return it, nil
}

func (s *PostgresStore) Delete(ctx context.Context, ownerID string, col domain.Collection, id string) error {
	const q = `delete from content_items where owner_id = $1 and collection = $2 and id = $3;`
	if _, err := s.db.Exec(ctx, q, ownerID, string(col), id); err != nil {
		return apperr.Store("delete "+string(col), err)
	}
	return nil
}

func (s *PostgresStore) Owners(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `select distinct owner_id from content_items order by owner_id;`)
	if err != nil {
		return nil, apperr.Store("list owners", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, apperr.Store("scan owner", err)
		}
		out = append(out, owner)
	}
	return out, apperr.Store("list owners", rows.Err())
}
