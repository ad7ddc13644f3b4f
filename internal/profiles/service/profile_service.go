package service

import (
	"context"
	"strings"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/profiles/domain"
)

// Repository is the persistence the directory needs.
type Repository interface {
	Get(ctx context.Context, userID string) (domain.Profile, bool, error)
	Upsert(ctx context.Context, p *domain.Profile) error
	Search(ctx context.Context, q string) ([]domain.Profile, error)
}

type ProfileService struct {
	repo Repository
}

func NewProfileService(repo Repository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile returns the profile and true, or false if the user has none yet.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (domain.Profile, bool, error) {
	return s.repo.Get(ctx, userID)
}

// CreateProfile upserts the caller's profile. Usernames shorter than
// MinUsernameLength are rejected before the store is touched.
func (s *ProfileService) CreateProfile(ctx context.Context, userID, email, username string) (domain.Profile, error) {
	username = strings.TrimSpace(username)
	if len([]rune(username)) < domain.MinUsernameLength {
		return domain.Profile{}, apperr.Validation("username", "username must be at least 3 characters")
	}
	if strings.TrimSpace(userID) == "" {
		return domain.Profile{}, apperr.Validation("userId", "user id is required")
	}

	p := domain.Profile{UserID: userID, Email: strings.TrimSpace(email), Username: username}
	if err := s.repo.Upsert(ctx, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// SearchProfiles matches username or email. Short queries return nothing.
func (s *ProfileService) SearchProfiles(ctx context.Context, q string) ([]domain.Profile, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < domain.MinSearchLength {
		return []domain.Profile{}, nil
	}
	return s.repo.Search(ctx, q)
}

// EnsureProfile is called after sign-in. needsUsername is true when the user
// has no profile yet and must pick a username.
func (s *ProfileService) EnsureProfile(ctx context.Context, userID string) (p domain.Profile, needsUsername bool, err error) {
	p, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domain.Profile{}, false, err
	}
	return p, !ok, nil
}

// MustGet returns the profile or a NotFoundError.
func (s *ProfileService) MustGet(ctx context.Context, userID string) (domain.Profile, error) {
	p, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if !ok {
		return domain.Profile{}, apperr.NotFound("profile", userID)
	}
	return p, nil
}
