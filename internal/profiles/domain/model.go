package domain

import "time"

// Profile is the public directory entry of a user, keyed by the identity
// provider's user id.
type Profile struct {
	UserID    string    `json:"userId" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// MinUsernameLength is the shortest accepted username after trimming.
const MinUsernameLength = 3

// MinSearchLength is the shortest query SearchProfiles will run.
const MinSearchLength = 2
