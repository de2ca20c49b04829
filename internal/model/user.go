package model

import "time"

type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is what an authenticated request carries once its bearer token
// has been verified.
type Identity struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
