package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// signInEndpoint is the Identity Toolkit REST endpoint for password
// sign-in. The Admin SDK has no password exchange, so this is the one
// call that goes through the public API with the web API key.
const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// firebaseProvider implements Provider on Firebase Auth.
type firebaseProvider struct {
	authClient *auth.Client
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	session    session
}

// NewFirebaseProvider creates the production identity provider. apiKey is
// the Firebase web API key used for the password sign-in REST call.
func NewFirebaseProvider(authClient *auth.Client, apiKey string, httpClient *http.Client, logger *zap.Logger) (Provider, error) {
	if authClient == nil {
		return nil, errors.New("identity: Firebase Auth client is nil")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &firebaseProvider{
		authClient: authClient,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *firebaseProvider) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return "", fmt.Errorf("failed to encode sign-in request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signInEndpoint+"?key="+p.apiKey, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign-in request failed: %w", err)
	}
	defer resp.Body.Close()

	var body signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		// Surface the provider's message (e.g. INVALID_PASSWORD) as-is;
		// the controller normalizes it for the UI.
		if body.Error != nil && body.Error.Message != "" {
			return "", errors.New(body.Error.Message)
		}
		return "", fmt.Errorf("sign-in failed with status %d", resp.StatusCode)
	}
	if body.LocalID == "" {
		return "", errors.New("sign-in response carried no user ID")
	}

	p.session.set(body.LocalID)
	return body.LocalID, nil
}

func (p *firebaseProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := p.authClient.CreateUser(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}
	p.session.set(record.UID)
	return record.UID, nil
}

func (p *firebaseProvider) SignInWithToken(ctx context.Context, idToken string) (*TokenIdentity, error) {
	token, err := p.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	ident := &TokenIdentity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		ident.DisplayName = name
	}

	p.session.set(token.UID)
	return ident, nil
}

func (p *firebaseProvider) SignOut(ctx context.Context) error {
	uid := p.session.get()
	p.session.set("")

	if uid == "" {
		return nil
	}
	// Remote invalidation is best effort; the cleared local session is the
	// authoritative effect.
	if err := p.authClient.RevokeRefreshTokens(ctx, uid); err != nil && p.logger != nil {
		p.logger.Warn("failed to revoke refresh tokens on sign-out",
			zap.String("uid", uid), zap.Error(err))
	}
	return nil
}

func (p *firebaseProvider) CurrentSessionID() string {
	return p.session.get()
}
