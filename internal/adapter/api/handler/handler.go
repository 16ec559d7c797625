package handler

import (
	"context"

	"esekoir/internal/infrastructure/websocket"
	"esekoir/internal/usecase"
)

// Dependencies is everything the handlers are built from.
type Dependencies struct {
	Auth          *usecase.AuthUseCase
	Profiles      *usecase.ProfileUseCase
	Rates         *usecase.RateUseCase
	Messages      *usecase.MessageUseCase
	Comments      *usecase.CommentUseCase
	Listings      *usecase.ListingUseCase
	Wallets       *usecase.WalletUseCase
	Verifications *usecase.VerificationUseCase
	Notifications *usecase.NotificationUseCase
	Settings      *usecase.SettingsUseCase
	Currencies    *usecase.CurrencyUseCase
	Admin         *usecase.AdminUseCase

	Sockets *websocket.Manager
	// Ping checks the persistence backend for the health endpoint.
	Ping func(ctx context.Context) error
	// ExposeResetLinks returns password reset links in the API response
	// instead of only logging them. Development only.
	ExposeResetLinks bool
}

var (
	healthHandler       *HealthHandler
	authHandler         *AuthHandler
	profileHandler      *ProfileHandler
	rateHandler         *RateHandler
	messageHandler      *MessageHandler
	commentHandler      *CommentHandler
	listingHandler      *ListingHandler
	walletHandler       *WalletHandler
	verificationHandler *VerificationHandler
	notificationHandler *NotificationHandler
	settingsHandler     *SettingsHandler
	currencyHandler     *CurrencyHandler
	adminHandler        *AdminHandler
	webSocketHandler    *WebSocketHandler
)

func Setup(deps Dependencies) {
	healthHandler = NewHealthHandler(deps.Ping)
	authHandler = NewAuthHandler(deps.Auth, deps.ExposeResetLinks)
	profileHandler = NewProfileHandler(deps.Profiles)
	rateHandler = NewRateHandler(deps.Rates)
	messageHandler = NewMessageHandler(deps.Messages)
	commentHandler = NewCommentHandler(deps.Comments)
	listingHandler = NewListingHandler(deps.Listings)
	walletHandler = NewWalletHandler(deps.Wallets)
	verificationHandler = NewVerificationHandler(deps.Verifications)
	notificationHandler = NewNotificationHandler(deps.Notifications)
	settingsHandler = NewSettingsHandler(deps.Settings)
	currencyHandler = NewCurrencyHandler(deps.Currencies)
	adminHandler = NewAdminHandler(deps.Admin)
	webSocketHandler = NewWebSocketHandler(deps.Sockets, deps.Auth)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetProfileHandler() *ProfileHandler {
	return profileHandler
}

func GetRateHandler() *RateHandler {
	return rateHandler
}

func GetMessageHandler() *MessageHandler {
	return messageHandler
}

func GetCommentHandler() *CommentHandler {
	return commentHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetWalletHandler() *WalletHandler {
	return walletHandler
}

func GetVerificationHandler() *VerificationHandler {
	return verificationHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetSettingsHandler() *SettingsHandler {
	return settingsHandler
}

func GetCurrencyHandler() *CurrencyHandler {
	return currencyHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}
