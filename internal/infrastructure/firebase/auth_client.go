package firebase

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/service"
)

type FirebaseAuthClient struct {
	client  *auth.Client
	toolkit *identityToolkit
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:  client,
		toolkit: newIdentityToolkit(defaultToolkitURL, apiKey),
	}
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", service.ErrEmailInUse
		}
		return "", err
	}

	return user.UID, nil
}

func (f *FirebaseAuthClient) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	resp, err := f.toolkit.signInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return resp.session(time.Now()), nil
}

func (f *FirebaseAuthClient) SignInWithOAuth(ctx context.Context, providerID, idToken string) (*entity.Session, error) {
	resp, err := f.toolkit.signInWithIdp(ctx, providerID, idToken)
	if err != nil {
		return nil, err
	}
	return resp.session(time.Now()), nil
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrInvalidToken, err)
	}

	return result.UID, nil
}

// SignOut revokes every refresh token of the user. ID tokens already issued
// stay valid until they expire.
func (f *FirebaseAuthClient) SignOut(ctx context.Context, userID string) error {
	return f.client.RevokeRefreshTokens(ctx, userID)
}

func (f *FirebaseAuthClient) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := f.client.PasswordResetLink(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return link, nil
}

func (f *FirebaseAuthClient) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	return f.toolkit.resetPassword(ctx, code, newPassword)
}
