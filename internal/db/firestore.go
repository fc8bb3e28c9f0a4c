package db

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/Carlvinchi/recipiverse/internal/config"
)

// Clients bundles the Firebase-backed clients the rest of the application
// is wired with.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
}

// CredentialsOption resolves the Google credentials option from config:
// a service-account file path, a base64-encoded service-account JSON, or
// nil for Application Default Credentials.
func CredentialsOption(cfg *config.Config) (option.ClientOption, error) {
	if cfg.GoogleApplicationCredentials != "" {
		return option.WithCredentialsFile(cfg.GoogleApplicationCredentials), nil
	}
	if cfg.FirebaseServiceAccountJSONBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		return option.WithCredentialsJSON(decoded), nil
	}
	// Fall through to ADC, which is how the service authenticates on GCP.
	return nil, nil
}

// InitFirebase initializes the Firebase Admin SDK and returns the
// Firestore and Auth clients.
func InitFirebase(ctx context.Context, cfg *config.Config) (*Clients, error) {
	if cfg == nil {
		return nil, fmt.Errorf("InitFirebase: config cannot be nil")
	}

	credsOption, err := CredentialsOption(cfg)
	if err != nil {
		return nil, err
	}

	firebaseConfig := &firebase.Config{ProjectID: cfg.FirebaseProjectID}

	var app *firebase.App
	if credsOption != nil {
		app, err = firebase.NewApp(ctx, firebaseConfig, credsOption)
	} else {
		app, err = firebase.NewApp(ctx, firebaseConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close() // best effort
		return nil, fmt.Errorf("app.Auth: %w", err)
	}

	return &Clients{Firestore: fsClient, Auth: authClient}, nil
}
