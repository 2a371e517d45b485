package usecase

import (
	"context"

	authdomain "summarizer-backend/internal/auth/domain"
	authdto "summarizer-backend/internal/auth/dto"
	"summarizer-backend/pkg/firebase"
)

// AuthUsecase is the identity provider: email/password sign-up and sign-in,
// sign-out, token validation and session-change notification.
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error

	// ValidateToken resolves an access token (or a Firebase ID token when a
	// verifier is set) to a session.
	ValidateToken(ctx context.Context, token string) (*authdomain.Session, error)

	// OnSessionChange registers a listener for sign-in and sign-out.
	OnSessionChange(listener func(authdomain.SessionEvent))

	SetIdentityVerifier(v IdentityVerifier)
}

// IdentityVerifier validates ID tokens minted by an external identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*firebase.IdentityToken, error)
}
