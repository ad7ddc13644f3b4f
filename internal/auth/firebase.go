package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/devstudy/devstudy-backend/config"
	"github.com/devstudy/devstudy-backend/internal/auth/domain"
)

// InitializeFirebase initializes the Firebase Admin SDK app shared by the
// auth provider and the Firestore content driver.
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, fbCfg, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

// FirebaseProvider verifies tokens and manages accounts with the Admin SDK and
// signs users in with the Identity Toolkit REST API.
type FirebaseProvider struct {
	client  *fbauth.Client
	toolkit *identitytoolkit.Service
}

// NewFirebaseProvider builds the provider. webAPIKey is the project's public
// Web API key, needed for password sign-in.
func NewFirebaseProvider(ctx context.Context, app *firebase.App, webAPIKey string) (*FirebaseProvider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	p := &FirebaseProvider{client: client}
	if webAPIKey != "" {
		toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
		}
		p.toolkit = toolkit
	}
	return p, nil
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, idToken string) (domain.User, error) {
	tok, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return domain.User{}, Translate(err)
	}

	u := domain.User{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		u.Email = email
	}
	return u, nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (domain.User, domain.Tokens, error) {
	if p.toolkit == nil {
		return domain.User{}, domain.Tokens{}, Translate(fmt.Errorf("password sign-in is not configured"))
	}

	resp, err := p.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return domain.User{}, domain.Tokens{}, Translate(err)
	}

	return domain.User{UID: resp.LocalId, Email: resp.Email}, domain.Tokens{
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// SignUp creates the account with the Admin SDK, then signs in to obtain tokens.
func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (domain.User, domain.Tokens, error) {
	rec, err := p.client.CreateUser(ctx, (&fbauth.UserToCreate{}).Email(email).Password(password))
	if err != nil {
		return domain.User{}, domain.Tokens{}, Translate(err)
	}

	user := domain.User{UID: rec.UID, Email: rec.Email}
	if p.toolkit == nil {
		return user, domain.Tokens{}, nil
	}

	_, tokens, err := p.SignIn(ctx, email, password)
	if err != nil {
		return user, domain.Tokens{}, err
	}
	return user, tokens, nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return Translate(err)
	}
	return nil
}
