package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/devstudy/devstudy-backend/internal/auth/domain"
	"github.com/devstudy/devstudy-backend/internal/logger"
	profiledomain "github.com/devstudy/devstudy-backend/internal/profiles/domain"
)

// Profiles is the part of the profile directory sign-up and sign-in touch.
type Profiles interface {
	CreateProfile(ctx context.Context, userID, email, username string) (profiledomain.Profile, error)
	EnsureProfile(ctx context.Context, userID string) (profiledomain.Profile, bool, error)
}

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	User          domain.User            `json:"user"`
	Tokens        domain.Tokens          `json:"tokens"`
	Profile       *profiledomain.Profile `json:"profile,omitempty"`
	NeedsUsername bool                   `json:"needsUsername"`
}

type AuthService struct {
	provider auth.Provider
	profiles Profiles
	sessions *auth.Sessions
	log      zerolog.Logger
}

func NewAuthService(provider auth.Provider, profiles Profiles, sessions *auth.Sessions) *AuthService {
	return &AuthService{
		provider: provider,
		profiles: profiles,
		sessions: sessions,
		log:      logger.WithComponent("auth"),
	}
}

// SignUp creates the account and its profile. Input is validated before the
// provider is called so a bad username never leaves an orphan account.
func (s *AuthService) SignUp(ctx context.Context, email, password, username string) (Session, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if err := validateCredentials(email, password); err != nil {
		return Session{}, err
	}
	if len([]rune(username)) < profiledomain.MinUsernameLength {
		return Session{}, apperr.Validation("username", "username must be at least 3 characters")
	}

	user, tokens, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	p, err := s.profiles.CreateProfile(ctx, user.UID, user.Email, username)
	if err != nil {
		log := logger.WithUser(user.UID)
		log.Error().Err(err).Msg("profile creation after sign-up failed")
		return Session{}, err
	}

	s.sessions.Publish(domain.AuthEvent{Type: domain.EventSignedIn, User: user})
	return Session{User: user, Tokens: tokens, Profile: &p}, nil
}

// SignIn authenticates with a password and reports whether the user still
// has to choose a username.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return Session{}, err
	}

	user, tokens, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	p, needsUsername, err := s.profiles.EnsureProfile(ctx, user.UID)
	if err != nil {
		return Session{}, err
	}

	s.sessions.Publish(domain.AuthEvent{Type: domain.EventSignedIn, User: user})
	s.log.Debug().Str("uid", user.UID).Bool("needs_username", needsUsername).Msg("signed in")

	out := Session{User: user, Tokens: tokens, NeedsUsername: needsUsername}
	if !needsUsername {
		out.Profile = &p
	}
	return out, nil
}

func (s *AuthService) SignOut(ctx context.Context, user domain.User) error {
	if err := s.provider.SignOut(ctx, user.UID); err != nil {
		return err
	}
	s.sessions.Publish(domain.AuthEvent{Type: domain.EventSignedOut, User: user})
	return nil
}

func validateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return apperr.Validation("email", "a valid email address is required")
	}
	if password == "" {
		return apperr.Validation("password", "password is required")
	}
	return nil
}
