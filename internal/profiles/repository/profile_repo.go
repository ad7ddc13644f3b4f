package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/profiles/domain"
)

// SearchLimit caps the rows returned by one directory search.
const SearchLimit = 25

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a profile by user id. A missing row is reported as false.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (domain.Profile, bool, error) {
	query := `
		SELECT user_id, email, username, created_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var p domain.Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &p.Email, &p.Username, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, false, nil
	}
	if err != nil {
		return domain.Profile{}, false, apperr.Store("get profile", err)
	}
	return p, true, nil
}

// Upsert writes the profile keyed by user id. The last write wins, including
// created_at.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO user_profiles (user_id, email, username, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email,
		    username = EXCLUDED.username,
		    created_at = EXCLUDED.created_at
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Email, p.Username).Scan(&p.CreatedAt)
	if err != nil {
		return apperr.Store("upsert profile", err)
	}
	return nil
}

// Search does a case-insensitive substring match on username or email.
func (r *ProfileRepository) Search(ctx context.Context, q string) ([]domain.Profile, error) {
	query := `
		SELECT user_id, email, username, created_at
		FROM user_profiles
		WHERE username ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\'
		ORDER BY username
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, "%"+escapeLike(q)+"%", SearchLimit)
	if err != nil {
		return nil, apperr.Store("search profiles", err)
	}
	defer rows.Close()

	out := []domain.Profile{}
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.UserID, &p.Email, &p.Username, &p.CreatedAt); err != nil {
			return nil, apperr.Store("scan profile", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("search profiles", err)
	}
	return out, nil
}

// Ping reports whether the database is reachable.
func (r *ProfileRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
