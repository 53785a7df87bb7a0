package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bundle-bot/internal/order"
	pkgredis "bundle-bot/pkg/redis"
)

// KV is the subset of the redis client the store needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// Storage keeps pending orders as JSON under "order:<user_id>".
type Storage struct {
	kv  KV
	ttl time.Duration
}

func New(kv KV, ttl time.Duration) *Storage {
	return &Storage{kv: kv, ttl: ttl}
}

func (s *Storage) Get(ctx context.Context, userID int64) (*order.PendingOrder, error) {
	data, err := s.kv.Get(ctx, buildOrderKey(userID))
	if pkgredis.IsNil(err) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	var o order.PendingOrder
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

func (s *Storage) Save(ctx context.Context, o *order.PendingOrder) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	if err := s.kv.Set(ctx, buildOrderKey(o.UserID), data, s.ttl); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func buildOrderKey(userID int64) string {
	return fmt.Sprintf("order:%d", userID)
}

var (
	_ order.Store = (*Storage)(nil)
	_ KV          = (*pkgredis.Client)(nil)
)
