package auth

import (
	"context"

	"github.com/devstudy/devstudy-backend/internal/auth/domain"
)

// TokenVerifier checks an ID token and returns the user it belongs to.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (domain.User, error)
}

// Provider is the identity provider contract. Every failure is an
// *apperr.AuthError carrying a presentable message.
type Provider interface {
	TokenVerifier
	SignIn(ctx context.Context, email, password string) (domain.User, domain.Tokens, error)
	SignUp(ctx context.Context, email, password string) (domain.User, domain.Tokens, error)
	// SignOut revokes the user's refresh tokens.
	SignOut(ctx context.Context, uid string) error
}
