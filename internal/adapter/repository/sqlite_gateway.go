package repository

import (
	"database/sql"

	"esekoir/internal/domain/repository"
)

// NewSQLiteGateway wires every repository to one SQLite handle.
func NewSQLiteGateway(db *sql.DB) *repository.Gateway {
	return &repository.Gateway{
		Currencies:     &sqliteCurrencyRepository{db: db},
		Profiles:       &sqliteProfileRepository{db: db},
		Roles:          &sqliteRoleRepository{db: db},
		Comments:       &sqliteCommentRepository{db: db},
		Reactions:      &sqliteReactionRepository{db: db},
		Messages:       &sqliteMessageRepository{db: db},
		Listings:       &sqliteListingRepository{db: db},
		Notifications:  &sqliteNotificationRepository{db: db},
		Settings:       &sqliteSettingRepository{db: db},
		Wallets:        &sqliteWalletRepository{db: db},
		ChargeRequests: &sqliteChargeRequestRepository{db: db},
		Verifications:  &sqliteVerificationRepository{db: db},
		Credentials:    &sqliteCredentialRepository{db: db},
	}
}
