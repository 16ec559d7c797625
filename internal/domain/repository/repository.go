package repository

import "errors"

var (
	// ErrNotFound is wrapped by every backend when a row or document is missing.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a conditional write lost, e.g. a status
	// changed under a compare-and-set or a unique key is taken.
	ErrConflict = errors.New("conflict")
)

// Gateway bundles every repository of one persistence backend.
type Gateway struct {
	Currencies     CurrencyRepository
	Profiles       ProfileRepository
	Roles          RoleRepository
	Comments       CommentRepository
	Reactions      ReactionRepository
	Messages       MessageRepository
	Listings       ListingRepository
	Notifications  NotificationRepository
	Settings       SettingRepository
	Wallets        WalletRepository
	ChargeRequests ChargeRequestRepository
	Verifications  VerificationRepository

	// Credentials is nil when identity lives in an external provider.
	Credentials CredentialRepository
}
