package repository

import (
	"cloud.google.com/go/firestore"

	"esekoir/internal/domain/repository"
)

// NewFirestoreGateway wires every repository to Firestore. Credentials stay
// nil: Firebase Auth owns passwords.
func NewFirestoreGateway(client *firestore.Client) *repository.Gateway {
	return &repository.Gateway{
		Currencies:     &firestoreCurrencyRepository{client: client},
		Profiles:       &firestoreProfileRepository{client: client},
		Roles:          &firestoreRoleRepository{client: client},
		Comments:       &firestoreCommentRepository{client: client},
		Reactions:      &firestoreReactionRepository{client: client},
		Messages:       &firestoreMessageRepository{client: client},
		Listings:       &firestoreListingRepository{client: client},
		Notifications:  &firestoreNotificationRepository{client: client},
		Settings:       &firestoreSettingRepository{client: client},
		Wallets:        &firestoreWalletRepository{client: client},
		ChargeRequests: &firestoreChargeRequestRepository{client: client},
		Verifications:  &firestoreVerificationRepository{client: client},
	}
}
