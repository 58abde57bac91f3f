package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore chặn double-submit checkout theo Idempotency-Key của
// client. Key được SET NX với placeholder trước khi checkout chạy, rồi
// ghi transactionRef thật sau khi commit.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func (s *IdempotencyStore) key(buyerID, idemKey string) string {
	return "checkout:idem:" + buyerID + ":" + idemKey
}

// Reserve cố gắng giữ key cho lần checkout này. reserved=false nghĩa là
// key đã dùng rồi; existingRef là transactionRef của lần trước (rỗng nếu
// lần trước chưa kịp ghi kết quả).
func (s *IdempotencyStore) Reserve(ctx context.Context, buyerID, idemKey string) (existingRef string, reserved bool, err error) {
	ok, err := s.client.SetNX(ctx, s.key(buyerID, idemKey), "pending", idempotencyTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, s.key(buyerID, idemKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read idempotency key: %w", err)
	}
	if val == "pending" {
		return "", false, nil
	}
	return val, false, nil
}

// Complete ghi transactionRef sau khi checkout commit thành công.
func (s *IdempotencyStore) Complete(ctx context.Context, buyerID, idemKey, transactionRef string) error {
	return s.client.Set(ctx, s.key(buyerID, idemKey), transactionRef, idempotencyTTL).Err()
}

// Release xoá key khi checkout thất bại để client retry được.
func (s *IdempotencyStore) Release(ctx context.Context, buyerID, idemKey string) error {
	return s.client.Del(ctx, s.key(buyerID, idemKey)).Err()
}
