package domain

// User is what the identity provider tells us about a signed-in account.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Tokens are the credentials returned by a password sign-in. ExpiresIn is in
// seconds.
type Tokens struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// AuthEvent is delivered to OnAuthChange listeners.
type AuthEvent struct {
	Type EventType
	User User
}
