package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	authdomain "summarizer-backend/internal/auth/domain"

	"github.com/google/uuid"
)

type memoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]authdomain.User
	byEmail map[string]string
	tokens  map[string]authdomain.RefreshToken
}

// NewMemoryUserRepository keeps accounts in process memory. Used when no
// database is configured and in tests.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users:   make(map[string]authdomain.User),
		byEmail: make(map[string]string),
		tokens:  make(map[string]authdomain.RefreshToken),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	if _, ok := r.byEmail[user.Email]; ok {
		return authdomain.ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	user := r.users[id]
	return &user, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *memoryUserRepository) SaveRefreshToken(_ context.Context, token *authdomain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for k, t := range r.tokens {
		if t.UserID == token.UserID && t.ExpiresAt.Before(now) {
			delete(r.tokens, k)
		}
	}
	r.tokens[token.Token] = *token
	return nil
}

func (r *memoryUserRepository) FindRefreshToken(_ context.Context, token string) (*authdomain.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *memoryUserRepository) DeleteRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}
