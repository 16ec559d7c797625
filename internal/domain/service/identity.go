package service

import (
	"context"
	"errors"

	"esekoir/internal/domain/entity"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrOAuthUnsupported   = errors.New("oauth sign-in is not available on this backend")
)

// IdentityProvider issues and checks bearer tokens for accounts.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	SignIn(ctx context.Context, email, password string) (*entity.Session, error)
	// SignInWithOAuth exchanges an identity token from providerID
	// (e.g. "google.com") for a session.
	SignInWithOAuth(ctx context.Context, providerID, idToken string) (*entity.Session, error)
	// VerifyToken returns the user id the token was issued to.
	VerifyToken(ctx context.Context, token string) (string, error)
	SignOut(ctx context.Context, userID string) error
	// PasswordResetLink returns the link or token to send to the user. An
	// unknown email yields "" and no error.
	PasswordResetLink(ctx context.Context, email string) (string, error)
	ConfirmPasswordReset(ctx context.Context, code, newPassword string) error
}
