package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"esekoir/internal/domain/entity"
)

const (
	uidKey   = "uid"
	actorKey = "actor"

	GuestIDHeader = "X-Guest-ID"
)

var guestIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set(uidKey, uid)
		c.Set(actorKey, entity.UserActor(uid))
		return next(c)
	}
}

// Optional identifies the caller when it can: a valid bearer token makes a
// user, otherwise a well-formed X-Guest-ID header makes a guest. Requests
// with neither go through anonymously.
func (m *AuthMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token, ok := bearerToken(c.Request().Header.Get("Authorization")); ok {
			if uid, err := m.verifier.VerifyToken(c.Request().Context(), token); err == nil {
				c.Set(uidKey, uid)
				c.Set(actorKey, entity.UserActor(uid))
				return next(c)
			}
		}

		if guestID := strings.TrimSpace(c.Request().Header.Get(GuestIDHeader)); guestIDPattern.MatchString(guestID) {
			c.Set(actorKey, entity.GuestActor(guestID))
		}
		return next(c)
	}
}

// RequireActor rejects anonymous requests that passed Optional.
func RequireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ActorFrom(c).IsZero() {
			return echo.NewHTTPError(http.StatusUnauthorized, "Sign in or send a guest id")
		}
		return next(c)
	}
}

// UserID returns the authenticated user id, or "".
func UserID(c echo.Context) string {
	uid, _ := c.Get(uidKey).(string)
	return uid
}

// ActorFrom returns the caller, or the zero Actor for anonymous requests.
func ActorFrom(c echo.Context) entity.Actor {
	actor, _ := c.Get(actorKey).(entity.Actor)
	return actor
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
