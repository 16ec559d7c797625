// Package localauth is the self-hosted identity provider: bcrypt password
// hashes in the credentials table and HS256 bearer tokens.
package localauth

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/domain/service"
)

const (
	issuer          = "esekoir"
	purposeAccess   = "access"
	purposeReset    = "password_reset"
	resetTokenTTL   = time.Hour
	defaultHashCost = 12
)

type Claims struct {
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type Provider struct {
	credentials  repository.CredentialRepository
	secret       []byte
	tokenTTL     time.Duration
	resetBaseURL string
	hashCost     int
	now          func() time.Time
}

// New builds the provider. resetBaseURL is the front-end page that accepts
// ?token= for password resets.
func New(credentials repository.CredentialRepository, secret string, tokenTTL time.Duration, resetBaseURL string) *Provider {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Provider{
		credentials:  credentials,
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
		resetBaseURL: resetBaseURL,
		hashCost:     defaultHashCost,
		now:          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *Provider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := p.now().UTC()
	cred := &entity.Credential{
		UserID:       uuid.New().String(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.credentials.Create(ctx, cred); err != nil {
		if stderrors.Is(err, repository.ErrConflict) {
			return "", service.ErrEmailInUse
		}
		return "", err
	}
	return cred.UserID, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	cred, err := p.credentials.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, service.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, service.ErrInvalidCredentials
	}

	expires := p.now().Add(p.tokenTTL).UTC()
	token, err := p.sign(cred.UserID, cred.Email, purposeAccess, expires)
	if err != nil {
		return nil, err
	}

	return &entity.Session{
		UserID:    cred.UserID,
		Email:     cred.Email,
		Token:     token,
		ExpiresAt: expires,
	}, nil
}

func (p *Provider) SignInWithOAuth(ctx context.Context, providerID, idToken string) (*entity.Session, error) {
	return nil, service.ErrOAuthUnsupported
}

func (p *Provider) VerifyToken(ctx context.Context, token string) (string, error) {
	claims, err := p.parse(token, purposeAccess)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// SignOut is a no-op: tokens are stateless and expire on their own.
func (p *Provider) SignOut(ctx context.Context, userID string) error {
	return nil
}

func (p *Provider) PasswordResetLink(ctx context.Context, email string) (string, error) {
	cred, err := p.credentials.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	token, err := p.sign(cred.UserID, cred.Email, purposeReset, p.now().Add(resetTokenTTL))
	if err != nil {
		return "", err
	}
	if p.resetBaseURL == "" {
		return token, nil
	}
	return p.resetBaseURL + "?token=" + url.QueryEscape(token), nil
}

func (p *Provider) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	claims, err := p.parse(code, purposeReset)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := p.credentials.UpdatePassword(ctx, claims.Subject, string(hash)); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return service.ErrInvalidToken
		}
		return err
	}
	return nil
}

func (p *Provider) sign(userID, email, purpose string, expires time.Time) (string, error) {
	now := p.now()
	claims := &Claims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (p *Provider) parse(tokenString, purpose string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Purpose != purpose || claims.Subject == "" {
		return nil, service.ErrInvalidToken
	}
	return claims, nil
}
