package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"esekoir/internal/adapter/repository"
	domainrepo "esekoir/internal/domain/repository"
	"esekoir/internal/domain/service"
	"esekoir/internal/infrastructure/database"
	"esekoir/internal/infrastructure/firebase"
	"esekoir/internal/infrastructure/localauth"
	"esekoir/internal/infrastructure/storage"
	"esekoir/pkg/config"
	"esekoir/pkg/logger"
)

// backend is one consistent set of persistence, identity and blob storage.
type backend struct {
	gw       *domainrepo.Gateway
	identity service.IdentityProvider
	blobs    service.BlobStore
	ping     func(ctx context.Context) error
	// uploadDir is set when blobs live on local disk and must be served.
	uploadDir string
	closers   []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			logger.Warn("[backend] close: %v", err)
		}
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Backend {
	case config.BackendFirebase:
		return openFirebaseBackend(ctx, cfg)
	case config.BackendSQLite:
		return openSQLiteBackend(cfg)
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", cfg.Backend, config.BackendFirebase, config.BackendSQLite)
	}
}

func openSQLiteBackend(cfg *config.Config) (*backend, error) {
	db, err := database.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	blobs, err := storage.NewDiskStore(cfg.UploadDir, strings.TrimRight(cfg.PublicBaseURL, "/")+"/uploads")
	if err != nil {
		db.Close()
		return nil, err
	}

	if !cfg.IsDevelopment() && cfg.JWTSecret == "your-secret-key" {
		logger.Warn("[backend] JWT_SECRET is the default value; set it before going live")
	}

	gw := repository.NewSQLiteGateway(db.Conn)
	identity := localauth.New(
		gw.Credentials,
		cfg.JWTSecret,
		time.Duration(cfg.JWTExpiry)*time.Second,
		strings.TrimRight(cfg.PublicBaseURL, "/")+"/reset-password",
	)

	logger.Info("[backend] using SQLite at %s, uploads in %s", cfg.SQLitePath, blobs.Root())
	return &backend{
		gw:        gw,
		identity:  identity,
		blobs:     blobs,
		ping:      db.Ping,
		uploadDir: blobs.Root(),
		closers:   []func() error{db.Close, blobs.Close},
	}, nil
}

func firebaseCredentials(cfg *config.Config) (option.ClientOption, error) {
	if cfg.ServiceAccountJSON != "" {
		logger.Info("[backend] using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)), nil
	}
	if cfg.ServiceAccountPath == "" {
		return nil, fmt.Errorf("set FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH")
	}
	if _, err := os.Stat(cfg.ServiceAccountPath); err != nil {
		return nil, fmt.Errorf("service account file: %w", err)
	}
	logger.Info("[backend] using Firebase service account from file: %s", cfg.ServiceAccountPath)
	return option.WithCredentialsFile(cfg.ServiceAccountPath), nil
}

func openFirebaseBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	opt, err := firebaseCredentials(cfg)
	if err != nil {
		return nil, err
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject, StorageBucket: cfg.StorageBucket}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase Auth: %w", err)
	}
	if cfg.FirebaseAPIKey == "" {
		logger.Warn("[backend] FIREBASE_API_KEY is empty; password and OAuth sign-in will fail")
	}

	fs, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	blobs, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to initialize Cloud Storage: %w", err)
	}

	logger.Info("[backend] using Firebase project %s, bucket %s", cfg.FirebaseProject, cfg.StorageBucket)
	return &backend{
		gw:       repository.NewFirestoreGateway(fs),
		identity: firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseAPIKey),
		blobs:    blobs,
		ping: func(ctx context.Context) error {
			_, err := fs.Collection("currencies").Limit(1).Documents(ctx).Next()
			if err == iterator.Done {
				return nil
			}
			return err
		},
		closers: []func() error{fs.Close, blobs.Close},
	}, nil
}
