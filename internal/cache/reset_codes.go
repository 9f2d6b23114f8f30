package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetCodeTTL = 10 * time.Minute

// ResetCodeStore keeps short-lived password reset codes in Redis, keyed by
// email, so codes survive app restarts and expire on their own.
type ResetCodeStore struct {
	rdb *redis.Client
}

func NewResetCodeStore(rdb *redis.Client) *ResetCodeStore {
	return &ResetCodeStore{rdb: rdb}
}

func resetCodeKey(email string) string {
	return fmt.Sprintf("reset_code:%s", strings.ToLower(strings.TrimSpace(email)))
}

func (s *ResetCodeStore) Set(ctx context.Context, email, code string) error {
	return s.rdb.Set(ctx, resetCodeKey(email), code, resetCodeTTL).Err()
}

// Check reports whether the code matches the stored one. A missing key reads
// as a mismatch, not an error.
func (s *ResetCodeStore) Check(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.rdb.Get(ctx, resetCodeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == code, nil
}

func (s *ResetCodeStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, resetCodeKey(email)).Err()
}
