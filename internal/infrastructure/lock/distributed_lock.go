package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ============================================================================
// Distributed lock
// ============================================================================
//
// The payment coordinator validates against the current outstanding balance
// and then writes. Two concurrent payments against the same supplier+project
// could both validate against the same stale balance and overdraw the
// payable amount. The lock serializes balance-affecting writes per
// supplier+project; unrelated ledgers stay fully concurrent.
//
// Acquire: SET key value NX EX ttl. The value identifies the holder so an
// expired holder cannot release someone else's lock; release is a Lua
// check-and-delete to keep that test atomic.

var ErrLockFailed = errors.New("acquire distributed lock failed")

// Locker is what the coordinator depends on. Tests substitute a no-op;
// production uses the Redis implementation below.
type Locker interface {
	Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error
	Unlock(ctx context.Context) error
}

// Factory builds the lock for one supplier+project ledger.
type Factory func(supplierID, projectID int64) Locker

// DistributedLock is the Redis-backed Locker.
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string // holder identity, checked on release
	expiration time.Duration
}

func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock attempts a single non-blocking acquire.
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock acquires with retries, giving up after maxRetries attempts.
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock releases the lock only if this instance still holds it.
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewLedgerLock locks one supplier+project ledger. Locking per supplier
// alone would serialize payments across unrelated projects; per
// supplier+project matches the scope the balance validation reads.
func NewLedgerLock(client *redis.Client, supplierID, projectID int64) *DistributedLock {
	key := fmt.Sprintf("ledger:lock:supplier:%d:project:%d", supplierID, projectID)
	return NewDistributedLock(client, key, uuid.NewString(), 30*time.Second)
}

// RedisFactory adapts NewLedgerLock to the Factory signature.
func RedisFactory(client *redis.Client) Factory {
	return func(supplierID, projectID int64) Locker {
		return NewLedgerLock(client, supplierID, projectID)
	}
}
