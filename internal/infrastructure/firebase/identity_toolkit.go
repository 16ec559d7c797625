package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/service"
)

const defaultToolkitURL = "https://identitytoolkit.googleapis.com/v1"

// identityToolkit calls the client-side Identity Toolkit REST endpoints the
// Admin SDK does not cover: password sign-in, IdP sign-in and reset codes.
type identityToolkit struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newIdentityToolkit(baseURL, apiKey string) *identityToolkit {
	return &identityToolkit{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	IsNewUser    bool   `json:"isNewUser"`
}

func (r *signInResponse) session(now time.Time) *entity.Session {
	seconds, err := strconv.Atoi(r.ExpiresIn)
	if err != nil || seconds <= 0 {
		seconds = 3600
	}
	return &entity.Session{
		UserID:       r.LocalID,
		Email:        r.Email,
		Token:        r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(seconds) * time.Second).UTC(),
		IsNewUser:    r.IsNewUser,
		DisplayName:  r.DisplayName,
	}
}

type toolkitError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (t *identityToolkit) signInWithPassword(ctx context.Context, email, password string) (*signInResponse, error) {
	var out signInResponse
	err := t.post(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *identityToolkit) signInWithIdp(ctx context.Context, providerID, idToken string) (*signInResponse, error) {
	postBody := url.Values{}
	postBody.Set("id_token", idToken)
	postBody.Set("providerId", providerID)

	var out signInResponse
	err := t.post(ctx, "accounts:signInWithIdp", map[string]interface{}{
		"postBody":            postBody.Encode(),
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *identityToolkit) resetPassword(ctx context.Context, code, newPassword string) error {
	return t.post(ctx, "accounts:resetPassword", map[string]interface{}{
		"oobCode":     code,
		"newPassword": newPassword,
	}, nil)
}

func (t *identityToolkit) post(ctx context.Context, method string, body interface{}, out interface{}) error {
	if t.apiKey == "" {
		return fmt.Errorf("firebase api key is not configured")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", t.baseURL, method, url.QueryEscape(t.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity toolkit %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var tkErr toolkitError
		_ = json.NewDecoder(resp.Body).Decode(&tkErr)
		return mapToolkitError(method, resp.StatusCode, tkErr.Error.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("identity toolkit %s: decode: %w", method, err)
	}
	return nil
}

func mapToolkitError(method string, status int, message string) error {
	// Messages look like "INVALID_PASSWORD" or "TOO_MANY_ATTEMPTS_TRY_LATER : ...".
	code := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "INVALID_EMAIL":
		return service.ErrInvalidCredentials
	case "INVALID_IDP_RESPONSE", "EXPIRED_OOB_CODE", "INVALID_OOB_CODE":
		return service.ErrInvalidToken
	}
	return fmt.Errorf("identity toolkit %s: status %d: %s", method, status, message)
}
