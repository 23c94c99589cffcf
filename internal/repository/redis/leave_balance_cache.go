package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	goredis "github.com/redis/go-redis/v9"
)

// LeaveBalanceKey is the cache key of one employee's balance for a year at
// a cache generation.
func LeaveBalanceKey(employeeID string, year int, generation int64) string {
	return fmt.Sprintf("leave_balance:%s:%d:%d", employeeID, year, generation)
}

// LeaveBalanceGenerationKey holds the employee's current cache generation.
func LeaveBalanceGenerationKey(employeeID string) string {
	return fmt.Sprintf("leave_balance_gen:%s", employeeID)
}

type leaveBalanceCacheImpl struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewLeaveBalanceCache(client *goredis.Client, ttl time.Duration) leave.BalanceCache {
	return &leaveBalanceCacheImpl{client: client, ttl: ttl}
}

// Generation implements leave.BalanceCache. An employee never invalidated is
// at generation 0.
func (c *leaveBalanceCacheImpl) Generation(ctx context.Context, employeeID string) (int64, error) {
	key := LeaveBalanceGenerationKey(employeeID)

	gen, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return gen, nil
}

// Get implements leave.BalanceCache.
func (c *leaveBalanceCacheImpl) Get(ctx context.Context, employeeID string, year int, generation int64) (leave.Balance, bool, error) {
	key := LeaveBalanceKey(employeeID, year, generation)

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return leave.Balance{}, false, nil
		}
		return leave.Balance{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var b leave.Balance
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return leave.Balance{}, false, fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return b, true, nil
}

// Set implements leave.BalanceCache.
func (c *leaveBalanceCacheImpl) Set(ctx context.Context, balance leave.Balance, generation int64) error {
	key := LeaveBalanceKey(balance.EmployeeID, balance.Year, generation)

	payload, err := json.Marshal(balance)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, string(payload), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate implements leave.BalanceCache. Entries of older generations are
// left to expire.
func (c *leaveBalanceCacheImpl) Invalidate(ctx context.Context, employeeID string) error {
	key := LeaveBalanceGenerationKey(employeeID)
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis incr %s: %w", key, err)
	}
	return nil
}

type noopBalanceCache struct{}

// NewNoopLeaveBalanceCache is used when Redis is disabled; every lookup misses.
func NewNoopLeaveBalanceCache() leave.BalanceCache {
	return noopBalanceCache{}
}

func (noopBalanceCache) Generation(context.Context, string) (int64, error) { return 0, nil }

func (noopBalanceCache) Get(context.Context, string, int, int64) (leave.Balance, bool, error) {
	return leave.Balance{}, false, nil
}

func (noopBalanceCache) Set(context.Context, leave.Balance, int64) error { return nil }

func (noopBalanceCache) Invalidate(context.Context, string) error { return nil }
