package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyOrderCreate ключ идемпотентности создания заказа: idem:order:create:{user_id}:{key} -> order_id
	KeyOrderCreate = "idem:order:create:%d:%s"

	// DefaultTTL время жизни ключа, привязанного к заказу
	DefaultTTL = 24 * time.Hour

	// PendingTTL время жизни резерва до привязки к заказу
	PendingTTL = 30 * time.Second

	pendingValue = "pending"
)

// RedisStore хранит ключи идемпотентности в redis
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore создает хранилище ключей идемпотентности
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Reserve резервирует ключ (SETNX).
// Если ключ уже привязан к заказу, возвращает его ID и reserved=false.
// Если запрос с этим ключом еще выполняется, возвращает ErrInProgress.
func (s *RedisStore) Reserve(ctx context.Context, userID int64, key string) (int64, bool, error) {
	redisKey := fmt.Sprintf(KeyOrderCreate, userID, key)

	ok, err := s.client.SetNX(ctx, redisKey, pendingValue, s.pendingTTL()).Result()
	if err != nil {
		return 0, false, fmt.Errorf("%w: Reserve - setnx: %v", ErrStore, err)
	}
	if ok {
		return 0, true, nil
	}

	value, err := s.client.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		// ключ успел истечь между SETNX и GET
		return s.Reserve(ctx, userID, key)
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: Reserve - get: %v", ErrStore, err)
	}

	if value == pendingValue {
		return 0, false, ErrInProgress
	}

	orderID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: Reserve - parse order id %q: %v", ErrStore, value, err)
	}

	return orderID, false, nil
}

// pendingTTL резерв живет не дольше привязанного ключа
func (s *RedisStore) pendingTTL() time.Duration {
	if s.ttl < PendingTTL {
		return s.ttl
	}
	return PendingTTL
}

// Bind привязывает ключ к созданному заказу и продлевает его до полного TTL
func (s *RedisStore) Bind(ctx context.Context, userID int64, key string, orderID int64) error {
	redisKey := fmt.Sprintf(KeyOrderCreate, userID, key)

	if err := s.client.Set(ctx, redisKey, orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Bind - set: %v", ErrStore, err)
	}
	return nil
}

// Release снимает резерв, если заказ не был создан
func (s *RedisStore) Release(ctx context.Context, userID int64, key string) error {
	redisKey := fmt.Sprintf(KeyOrderCreate, userID, key)

	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("%w: Release - del: %v", ErrStore, err)
	}
	return nil
}

// NopStore используется, когда redis выключен: каждый ключ считается новым
type NopStore struct{}

// Reserve всегда резервирует ключ
func (NopStore) Reserve(context.Context, int64, string) (int64, bool, error) { return 0, true, nil }

// Bind ничего не делает
func (NopStore) Bind(context.Context, int64, string, int64) error { return nil }

// Release ничего не делает
func (NopStore) Release(context.Context, int64, string) error { return nil }
