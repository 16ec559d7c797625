package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"esekoir/internal/adapter/api"
	"esekoir/internal/adapter/api/handler"
	apimiddleware "esekoir/internal/adapter/api/middleware"
	"esekoir/internal/adapter/api/router"
	"esekoir/internal/infrastructure/metrics"
	"esekoir/internal/infrastructure/ratelimit"
	"esekoir/internal/infrastructure/ratesource"
	"esekoir/internal/infrastructure/websocket"
	"esekoir/internal/usecase"
	"esekoir/pkg/logger"
	"esekoir/pkg/response"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.ServerPort = port
		}
		if b, _ := cmd.Flags().GetString("backend"); b != "" {
			cfg.Backend = b
		}
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides SERVER_PORT)")
	serveCmd.Flags().String("backend", "", "firebase or sqlite (overrides BACKEND)")
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	m := metrics.New()

	wsManager := websocket.NewManager(m)
	wsManager.Start(ctx)

	limiter := ratelimit.NewRateLimiter(cfg.GuestActionsPerMinute)
	limiter.StartCleanup(10*time.Minute, ctx.Done())

	rates := ratesource.New(cfg.RatesAPIURL, cfg.RatesTimeout, m)

	notificationUseCase := usecase.NewNotificationUseCase(b.gw.Notifications, wsManager)
	authUseCase := usecase.NewAuthUseCase(b.identity, b.gw.Profiles, b.gw.Roles)

	handler.Setup(handler.Dependencies{
		Auth:             authUseCase,
		Profiles:         usecase.NewProfileUseCase(b.gw.Profiles, b.blobs),
		Rates:            usecase.NewRateUseCase(rates),
		Messages:         usecase.NewMessageUseCase(b.gw.Messages, b.gw.Profiles, wsManager),
		Comments:         usecase.NewCommentUseCase(b.gw, notificationUseCase),
		Listings:         usecase.NewListingUseCase(b.gw.Listings, b.gw.Roles),
		Wallets:          usecase.NewWalletUseCase(b.gw.Wallets, b.gw.ChargeRequests, notificationUseCase, b.blobs, m),
		Verifications:    usecase.NewVerificationUseCase(b.gw.Verifications, b.gw.Profiles, notificationUseCase, b.blobs, m),
		Notifications:    notificationUseCase,
		Settings:         usecase.NewSettingsUseCase(b.gw.Settings, b.blobs),
		Currencies:       usecase.NewCurrencyUseCase(b.gw.Currencies),
		Admin:            usecase.NewAdminUseCase(b.gw),
		Sockets:          wsManager,
		Ping:             b.ping,
		ExposeResetLinks: cfg.IsDevelopment(),
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler

	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, apimiddleware.GuestIDHeader},
	}))
	e.Use(apimiddleware.Metrics(m))

	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	if b.uploadDir != "" {
		e.Static("/uploads", b.uploadDir)
	}

	authMiddleware := apimiddleware.NewAuthMiddleware(authUseCase)
	adminMiddleware := apimiddleware.NewAdminMiddleware(b.gw.Roles)
	router.Setup(e, authMiddleware, adminMiddleware, limiter)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server on port %s (%s backend)...", cfg.ServerPort, cfg.Backend)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
