package entity

import "time"

// Credential is a locally stored login. Only the self-hosted backend keeps these.
type Credential struct {
	UserID       string    `json:"-"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
