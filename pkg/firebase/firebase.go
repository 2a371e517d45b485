package firebase

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App wraps the Firebase Admin SDK app shared by Firestore and Auth.
type App struct {
	app *firebase.App
}

// NewApp initializes Firebase using the provided credentials file.
// An empty credentialsFile falls back to application default credentials.
func NewApp(ctx context.Context, projectID, credentialsFile string) (*App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return &App{app: app}, nil
}

// Firestore returns a Firestore client. Callers must Close it.
func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := a.app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}
	return client, nil
}

// IdentityToken is the verified subset of a Firebase ID token.
type IdentityToken struct {
	UID   string
	Email string
}

// TokenVerifier checks Firebase ID tokens issued to the web client.
type TokenVerifier struct {
	client *auth.Client
}

// TokenVerifier returns a verifier backed by the Firebase Auth admin client.
func (a *App) TokenVerifier(ctx context.Context) (*TokenVerifier, error) {
	client, err := a.app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}
	return &TokenVerifier{client: client}, nil
}

// Verify validates signature, audience and expiry of idToken.
func (v *TokenVerifier) Verify(ctx context.Context, idToken string) (*IdentityToken, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify firebase token: %w", err)
	}

	email, _ := token.Claims["email"].(string)
	if token.UID == "" {
		return nil, errors.New("firebase token has no uid")
	}
	return &IdentityToken{UID: token.UID, Email: email}, nil
}
