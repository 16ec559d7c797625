package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/domain/service"
	"esekoir/pkg/errors"
	"esekoir/pkg/logger"
)

type AuthUseCase struct {
	identity    service.IdentityProvider
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
}

func NewAuthUseCase(identity service.IdentityProvider, profileRepo repository.ProfileRepository, roleRepo repository.RoleRepository) *AuthUseCase {
	return &AuthUseCase{
		identity:    identity,
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type AuthResult struct {
	Session *entity.Session `json:"session"`
	Profile *entity.Profile `json:"profile"`
	Roles   []entity.Role   `json:"roles"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	uid, err := uc.identity.CreateUser(ctx, email, input.Password, input.FullName)
	if err != nil {
		if stderrors.Is(err, service.ErrEmailInUse) {
			return nil, errors.Conflict("Email already in use")
		}
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	profile, roles, err := uc.ensureAccount(ctx, uid, email, input.FullName)
	if err != nil {
		return nil, err
	}

	session, err := uc.identity.SignIn(ctx, email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}
	session.IsNewUser = true

	return &AuthResult{Session: session, Profile: profile, Roles: roles}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	session, err := uc.identity.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidCredentials) {
			return nil, errors.Unauthorized("Invalid credentials", err)
		}
		logger.Error("Login failed: %v", err)
		return nil, errors.Unavailable("Authentication provider unavailable", err)
	}

	profile, roles, err := uc.ensureAccount(ctx, session.UserID, session.Email, session.DisplayName)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Session: session, Profile: profile, Roles: roles}, nil
}

// OAuthLogin signs in with a third-party identity token. First-time users
// get a profile and the user role.
func (uc *AuthUseCase) OAuthLogin(ctx context.Context, providerID, idToken string) (*AuthResult, error) {
	session, err := uc.identity.SignInWithOAuth(ctx, providerID, idToken)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrOAuthUnsupported):
			return nil, errors.BadRequest("OAuth sign-in is not supported by this server", err)
		case stderrors.Is(err, service.ErrInvalidToken), stderrors.Is(err, service.ErrInvalidCredentials):
			return nil, errors.Unauthorized("Invalid identity token", err)
		}
		return nil, errors.Unavailable("Authentication provider unavailable", err)
	}

	profile, roles, err := uc.ensureAccount(ctx, session.UserID, session.Email, session.DisplayName)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Session: session, Profile: profile, Roles: roles}, nil
}

// ensureAccount loads the profile and roles of uid, creating both when the
// identity exists but the profile does not.
func (uc *AuthUseCase) ensureAccount(ctx context.Context, uid, email, fullName string) (*entity.Profile, []entity.Role, error) {
	profile, err := uc.profileRepo.GetByID(ctx, uid)
	if err != nil {
		if !stderrors.Is(err, repository.ErrNotFound) {
			return nil, nil, errors.Internal("Failed to load profile", err)
		}

		now := time.Now().UTC()
		profile = &entity.Profile{
			UserID:    uid,
			Email:     email,
			FullName:  strings.TrimSpace(fullName),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.profileRepo.Create(ctx, profile); err != nil {
			return nil, nil, errors.Internal("Failed to create user record", err)
		}
		if err := uc.roleRepo.SetRoles(ctx, uid, []entity.Role{entity.RoleUser}); err != nil {
			return nil, nil, errors.Internal("Failed to assign role", err)
		}
	}

	roles, err := uc.roleRepo.GetRoles(ctx, uid)
	if err != nil {
		return nil, nil, errors.Internal("Failed to load roles", err)
	}

	return profile, roles, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, uid string) error {
	if err := uc.identity.SignOut(ctx, uid); err != nil {
		return errors.Internal("Failed to sign out", err)
	}
	return nil
}

// RequestPasswordReset returns the reset link, or "" for unknown emails.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	link, err := uc.identity.PasswordResetLink(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", errors.Internal("Failed to create password reset link", err)
	}
	return link, nil
}

func (uc *AuthUseCase) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if err := uc.identity.ConfirmPasswordReset(ctx, code, newPassword); err != nil {
		if stderrors.Is(err, service.ErrInvalidToken) {
			return errors.BadRequest("Reset link is invalid or expired", err)
		}
		return errors.Internal("Failed to reset password", err)
	}
	return nil
}

type MeResult struct {
	Profile *entity.Profile `json:"profile"`
	Roles   []entity.Role   `json:"roles"`
}

func (uc *AuthUseCase) Me(ctx context.Context, uid string) (*MeResult, error) {
	profile, err := uc.profileRepo.GetByID(ctx, uid)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Profile", err)
		}
		return nil, errors.Internal("Failed to load profile", err)
	}

	roles, err := uc.roleRepo.GetRoles(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to load roles", err)
	}

	return &MeResult{Profile: profile, Roles: roles}, nil
}

// VerifyToken resolves a bearer token to a user id.
func (uc *AuthUseCase) VerifyToken(ctx context.Context, token string) (string, error) {
	uid, err := uc.identity.VerifyToken(ctx, token)
	if err != nil {
		return "", errors.Unauthorized("Invalid token", err)
	}
	return uid, nil
}

// Roles returns the roles of uid.
func (uc *AuthUseCase) Roles(ctx context.Context, uid string) ([]entity.Role, error) {
	roles, err := uc.roleRepo.GetRoles(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to load roles", err)
	}
	return roles, nil
}
