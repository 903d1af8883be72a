package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staybook-backend/pkg/cache"
)

// TokenStore keeps opaque bearer tokens server-side. These are the login
// sessions, not the signed verification tokens used in email links: a session
// can be revoked at any time by deleting its key.
type TokenStore struct {
	cache cache.Cache
	ttl   time.Duration
}

var ErrTokenNotFound = errors.New("auth token not found")

type session struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

func NewTokenStore(c cache.Cache, ttl time.Duration) *TokenStore {
	return &TokenStore{cache: c, ttl: ttl}
}

func tokenKey(token string) string {
	return "auth_token_" + token
}

// Issue creates a new opaque token bound to the user.
func (s *TokenStore) Issue(ctx context.Context, userID uuid.UUID, role string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	if err := s.cache.Set(ctx, tokenKey(token), session{UserID: userID, Role: role}, s.ttl); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Resolve looks up the token and returns the bound user id and role.
func (s *TokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, string, error) {
	var sess session
	found, err := s.cache.Get(ctx, tokenKey(token), &sess)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("resolve token: %w", err)
	}
	if !found {
		return uuid.Nil, "", ErrTokenNotFound
	}
	return sess.UserID, sess.Role, nil
}

// Revoke deletes the token. Missing tokens are not an error.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, tokenKey(token))
}
