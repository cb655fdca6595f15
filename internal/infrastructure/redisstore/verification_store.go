package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/task-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "taskapi:verification:"

// VerificationStore keeps pending codes in Redis. Each key carries a TTL
// matching the entry's expiry so abandoned entries disappear on their own.
type VerificationStore struct {
	rdb *redis.Client
}

func NewVerificationStore(rdb *redis.Client) *VerificationStore {
	return &VerificationStore{rdb: rdb}
}

type storedEntry struct {
	Code      int   `json:"code"`
	ExpiresAt int64 `json:"expires"` // epoch ms
}

func (s *VerificationStore) Put(ctx context.Context, entry domain.VerificationEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(storedEntry{Code: entry.Code, ExpiresAt: entry.ExpiresAt.UnixMilli()})
	if err != nil {
		return fmt.Errorf("encode verification entry: %w", err)
	}

	if err := s.rdb.Set(ctx, key(entry.Email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("verification set: %w", err)
	}
	return nil
}

func (s *VerificationStore) Get(ctx context.Context, email string) (*domain.VerificationEntry, error) {
	raw, err := s.rdb.Get(ctx, key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrVerificationNotFound
		}
		return nil, fmt.Errorf("verification get: %w", err)
	}

	var stored storedEntry
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode verification entry: %w", err)
	}

	return &domain.VerificationEntry{
		Email:     domain.NormalizeEmail(email),
		Code:      stored.Code,
		ExpiresAt: time.UnixMilli(stored.ExpiresAt),
	}, nil
}

func (s *VerificationStore) Delete(ctx context.Context, email string) error {
	if err := s.rdb.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("verification del: %w", err)
	}
	return nil
}

// Ping lets the health checker probe Redis.
func (s *VerificationStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func key(email string) string {
	return keyPrefix + domain.NormalizeEmail(email)
}
