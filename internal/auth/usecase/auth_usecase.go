package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	authdomain "summarizer-backend/internal/auth/domain"
	authdto "summarizer-backend/internal/auth/dto"
	"summarizer-backend/internal/auth/repository"
	"summarizer-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	config   *config.Config
	verifier IdentityVerifier
	log      *zap.Logger

	mu        sync.RWMutex
	listeners []func(authdomain.SessionEvent)
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config, log *zap.Logger) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		config:   cfg,
		log:      log.Named("auth"),
	}
}

func (u *authUsecase) SetIdentityVerifier(v IdentityVerifier) {
	u.verifier = v
}

func (u *authUsecase) OnSessionChange(listener func(authdomain.SessionEvent)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.listeners = append(u.listeners, listener)
}

func (u *authUsecase) notify(evt authdomain.SessionEvent) {
	u.mu.RLock()
	listeners := append([]func(authdomain.SessionEvent){}, u.listeners...)
	u.mu.RUnlock()

	for _, l := range listeners {
		l(evt)
	}
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, authdomain.ErrEmailTaken
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Provider: authdomain.ProviderEmail,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	u.log.Info("user registered", zap.String("user_id", user.ID))
	return u.signIn(ctx, user)
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Provider != authdomain.ProviderEmail {
		return nil, authdomain.ErrInvalidCredentials
	}
	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, authdomain.ErrInvalidCredentials
	}

	return u.signIn(ctx, user)
}

func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	userID, err := u.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	storedToken, err := u.userRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, authdomain.ErrRefreshTokenExpired
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	// Rotate: the presented token is single use.
	if err := u.userRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return u.generateTokens(ctx, user)
}

func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	stored, err := u.userRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	if err := u.userRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return err
	}
	u.notify(authdomain.SessionEvent{UserID: stored.UserID, State: authdomain.SignedOut})
	return nil
}

func (u *authUsecase) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Session, error) {
	userID, err := u.parseToken(tokenString, tokenTypeAccess)
	if err != nil {
		if u.verifier == nil {
			return nil, err
		}
		identity, verr := u.verifier.Verify(ctx, tokenString)
		if verr != nil {
			u.log.Debug("token rejected", zap.NamedError("jwt", err), zap.NamedError("firebase", verr))
			return nil, authdomain.ErrInvalidToken
		}
		return &authdomain.Session{UID: identity.UID, Email: identity.Email}, nil
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}
	return user.Session(), nil
}

func (u *authUsecase) signIn(ctx context.Context, user *authdomain.User) (*authdto.TokenResponse, error) {
	resp, err := u.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	u.notify(authdomain.SessionEvent{UserID: user.ID, Email: user.Email, State: authdomain.SignedIn})
	return resp, nil
}

func (u *authUsecase) generateTokens(ctx context.Context, user *authdomain.User) (*authdto.TokenResponse, error) {
	now := time.Now()

	accessToken, err := u.sign(jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"typ":     tokenTypeAccess,
		"exp":     now.Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     now.Unix(),
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.sign(jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"typ":      tokenTypeRefresh,
		"exp":      now.Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      now.Unix(),
	})
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.SaveRefreshToken(ctx, &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(u.config.JWTRefreshExpiry),
	}); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Session(),
	}, nil
}

func (u *authUsecase) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// parseToken verifies signature, expiry and token type and returns the user id.
func (u *authUsecase) parseToken(tokenString, wantType string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", authdomain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", authdomain.ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return "", authdomain.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.Join(authdomain.ErrInvalidToken, errors.New("missing user_id claim"))
	}
	return userID, nil
}
