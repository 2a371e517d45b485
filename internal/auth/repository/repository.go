package repository

import (
	"context"

	authdomain "summarizer-backend/internal/auth/domain"

	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the interface for account and refresh token storage.
// Lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)
	FindByID(ctx context.Context, id string) (*authdomain.User, error)

	SaveRefreshToken(ctx context.Context, token *authdomain.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
