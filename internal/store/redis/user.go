package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/redis/go-redis/v9"
)

// CreateUser stores a new user. The email lookup is claimed with SETNX first
// so two registrations for one address cannot both succeed.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	email := normalizeEmail(u.Email)

	claimed, err := s.client.SetNX(ctx, UserEmailKey(email), u.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve email: %w", err)
	}
	if !claimed {
		return fmt.Errorf("%w: Email already exists.", domain.ErrConflict)
	}

	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, UserKey(u.ID), data, 0)
		pipe.SAdd(ctx, KeyAllUsers, u.ID)
		return nil
	})
	if err != nil {
		// release the email so the address is not locked out
		s.client.Del(ctx, UserEmailKey(email))
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// SaveUser overwrites an existing user record
func (s *Store) SaveUser(ctx context.Context, u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	ok, err := s.client.SetXX(ctx, UserKey(u.ID), data, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: User not found", domain.ErrNotFound)
	}
	return nil
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	data, err := s.client.Get(ctx, UserKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: User not found", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := s.client.Get(ctx, UserEmailKey(normalizeEmail(email))).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: User not found", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	return s.GetUser(ctx, id)
}

// ListUsers retrieves every user
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	ids, err := s.client.SMembers(ctx, KeyAllUsers).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user IDs: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = UserKey(id)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	users := make([]*domain.User, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user: %w", err)
		}
		users = append(users, &u)
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
