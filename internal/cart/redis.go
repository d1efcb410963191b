package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type RedisStore struct {
	client *redis.Client
}

func (r *RedisStore) Load(ctx context.Context, userID string) (*domain.Cart, error) {
	key := slotKey(userID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSavedCart
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		// Corruption is data loss, not a fatal error: discard the slot
		// and start cold.
		log.Printf("discarding corrupt cart slot for user %s: %v", userID, err)
		r.discard(ctx, key)
		return nil, ErrNoSavedCart
	}
	if !wellFormed(lines) {
		log.Printf("discarding malformed cart slot for user %s", userID)
		r.discard(ctx, key)
		return nil, ErrNoSavedCart
	}

	return &domain.Cart{UserID: userID, Lines: lines}, nil
}

func (r *RedisStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart.Lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, slotKey(cart.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, slotKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) discard(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		log.Printf("failed to discard cart slot %s: %v", key, err)
	}
}

// wellFormed checks the stored value is an ordered list of CartLine-shaped
// records. Anything else is treated as corruption.
func wellFormed(lines []domain.CartLine) bool {
	for _, line := range lines {
		if line.ProductID <= 0 || line.Quantity < 1 || line.UnitPrice < 0 {
			return false
		}
	}
	return true
}

func slotKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
