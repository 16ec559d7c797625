package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/adapter/api"
	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
	sqliterepo "esekoir/internal/adapter/repository"
	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/infrastructure/database"
	"esekoir/internal/infrastructure/localauth"
	"esekoir/internal/infrastructure/metrics"
	"esekoir/internal/infrastructure/ratelimit"
	"esekoir/internal/infrastructure/ratesource"
	"esekoir/internal/infrastructure/storage"
	"esekoir/internal/infrastructure/websocket"
	"esekoir/internal/usecase"
	"esekoir/pkg/response"
)

type testServer struct {
	e       *echo.Echo
	gw      *repository.Gateway
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	rates := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","rates":{"EUR":0.0068,"USD":0.0074,"GBP":0.0058,"CAD":0.0101,"TRY":0.24,"AED":0.027}}`))
	}))
	t.Cleanup(rates.Close)

	db, err := database.Open(database.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	gw := sqliterepo.NewSQLiteGateway(db.Conn)

	blobs, err := storage.NewDiskStore(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	m := metrics.New()
	sockets := websocket.NewManager(m)
	identity := localauth.New(gw.Credentials, "test-secret", time.Hour, "http://localhost/reset")
	notifications := usecase.NewNotificationUseCase(gw.Notifications, sockets)
	authUseCase := usecase.NewAuthUseCase(identity, gw.Profiles, gw.Roles)

	handler.Setup(handler.Dependencies{
		Auth:          authUseCase,
		Profiles:      usecase.NewProfileUseCase(gw.Profiles, blobs),
		Rates:         usecase.NewRateUseCase(ratesource.New(rates.URL, time.Second, m)),
		Messages:      usecase.NewMessageUseCase(gw.Messages, gw.Profiles, sockets),
		Comments:      usecase.NewCommentUseCase(gw, notifications),
		Listings:      usecase.NewListingUseCase(gw.Listings, gw.Roles),
		Wallets:       usecase.NewWalletUseCase(gw.Wallets, gw.ChargeRequests, notifications, blobs, m),
		Verifications: usecase.NewVerificationUseCase(gw.Verifications, gw.Profiles, notifications, blobs, m),
		Notifications: notifications,
		Settings:      usecase.NewSettingsUseCase(gw.Settings, blobs),
		Currencies:    usecase.NewCurrencyUseCase(gw.Currencies),
		Admin:         usecase.NewAdminUseCase(gw),
		Sockets:       sockets,
		Ping:          db.Ping,
	})

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Use(middleware.Metrics(m))
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	Setup(e, middleware.NewAuthMiddleware(authUseCase), middleware.NewAdminMiddleware(gw.Roles), ratelimit.NewRateLimiter(2))

	return &testServer{e: e, gw: gw, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 && rec.Header().Get(echo.HeaderContentType) != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func (s *testServer) register(t *testing.T, email string) (token, uid string) {
	t.Helper()
	rec, body := s.do(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"email": email, "password": "secret-pass", "full_name": "Amine Test",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	session := body["data"].(map[string]interface{})["session"].(map[string]interface{})
	return session["token"].(string), session["user_id"].(string)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func errorCode(body map[string]interface{}) string {
	errInfo, _ := body["error"].(map[string]interface{})
	code, _ := errInfo["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestRatesEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodGet, "/v1/rates", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := body["data"].(map[string]interface{})
	assert.Len(t, board["rates"], 6)

	rec, _ = s.do(t, http.MethodGet, "/v1/rates/usd", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = s.do(t, http.MethodGet, "/v1/rates/XYZ", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	rec, body = s.do(t, http.MethodGet, "/v1/catalog?category=gold", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, item := range body["data"].([]interface{}) {
		assert.Equal(t, "gold", item.(map[string]interface{})["category"])
	}

	rec, _ = s.do(t, http.MethodGet, "/v1/catalog?category=stocks", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodPost, "/v1/auth/register", map[string]string{"email": "nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))

	token, uid := s.register(t, "amine@esekoir.dz")

	rec, _ = s.do(t, http.MethodGet, "/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/v1/auth/me", nil, bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = s.do(t, http.MethodGet, "/v1/auth/me", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	profile := body["data"].(map[string]interface{})["profile"].(map[string]interface{})
	assert.Equal(t, uid, profile["user_id"])

	rec, _ = s.do(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"email": "amine@esekoir.dz", "password": "wrong-pass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"email": "amine@esekoir.dz", "password": "secret-pass",
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompleteProfileValidatesWilaya(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "nadia@esekoir.dz")

	rec, body := s.do(t, http.MethodPost, "/v1/profiles/me/complete", map[string]string{
		"username": "nadia", "full_name": "Nadia B", "wilaya": "59",
	}, bearer(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))

	rec, body = s.do(t, http.MethodPost, "/v1/profiles/me/complete", map[string]string{
		"username": "nadia", "full_name": "Nadia B", "wilaya": "16",
	}, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["member_number"])

	rec, body = s.do(t, http.MethodGet, "/v1/profiles/me/card", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	card := body["data"].(map[string]interface{})
	assert.Contains(t, card["card_number"], "16")
}

func TestGuestCommentsAreRateLimited(t *testing.T) {
	s := newTestServer(t)
	guest := map[string]string{middleware.GuestIDHeader: "guest-0123456789"}
	comment := map[string]string{"content": "Euro is climbing", "guest_name": "Karim"}

	rec, _ := s.do(t, http.MethodPost, "/v1/currencies/USD/comments", comment, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	for i := 0; i < 2; i++ {
		rec, _ = s.do(t, http.MethodPost, "/v1/currencies/USD/comments", comment, guest)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec, body := s.do(t, http.MethodPost, "/v1/currencies/USD/comments", comment, guest)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", errorCode(body))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec, body = s.do(t, http.MethodGet, "/v1/currencies/USD/comments", nil, guest)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 2)
}

func TestGuestCanMessageSeller(t *testing.T) {
	s := newTestServer(t)
	token, sellerID := s.register(t, "seller@esekoir.dz")
	guest := map[string]string{middleware.GuestIDHeader: "guest-abcdefgh"}

	rec, _ := s.do(t, http.MethodPost, "/v1/messages", map[string]string{
		"receiver_id": sellerID, "content": "Is it still available?",
	}, guest)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/v1/messages", map[string]string{
		"receiver_id": sellerID, "content": "Is it still available?", "sender_name": "Yacine",
	}, guest)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, body := s.do(t, http.MethodGet, "/v1/messages/unread-count", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["unread"])

	rec, body = s.do(t, http.MethodGet, "/v1/messages/conversations/guest:Yacine", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "guest:Yacine", body["data"].(map[string]interface{})["partner_id"])
}

func TestAdminRoutesRequireRole(t *testing.T) {
	s := newTestServer(t)
	token, uid := s.register(t, "boss@esekoir.dz")

	rec, body := s.do(t, http.MethodGet, "/v1/admin/stats", nil, bearer(token))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	require.NoError(t, s.gw.Roles.SetRoles(context.Background(), uid, []entity.Role{entity.RoleUser, entity.RoleAdmin}))

	rec, _ = s.do(t, http.MethodGet, "/v1/admin/stats", nil, bearer(token))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = s.do(t, http.MethodPut, "/v1/admin/currencies/CHF", map[string]interface{}{
		"name": "Swiss Franc", "symbol": "Fr", "is_active": true, "display_order": 7,
	}, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CHF", body["data"].(map[string]interface{})["code"])
}

func TestMetricsCountRequests(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodGet, "/health", nil, nil)
	s.do(t, http.MethodGet, "/v1/rates", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `esekoir_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `esekoir_rates_fetches_total{source="live"} 1`)
}

func TestChargeRequestRejectsNonFiniteAmounts(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "payer@esekoir.dz")

	for _, amount := range []string{"NaN", "+Inf"} {
		var buf bytes.Buffer
		form := multipart.NewWriter(&buf)
		require.NoError(t, form.WriteField("amount", amount))
		require.NoError(t, form.WriteField("payment_method", "ccp"))
		require.NoError(t, form.Close())

		req := httptest.NewRequest(http.MethodPost, "/v1/wallet/charge-requests", &buf)
		req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "amount %s: %s", amount, rec.Body.String())
	}
}
