package throttler

import (
	"context"
	"fmt"
	"sync"
	"time"
	"chatledger/sources/tracing"

	"github.com/redis/go-redis/v9"
)

// Throttler spaces out calls to rate-limited remote services. With a redis client the gate is
// shared across processes through SetNX; without one it only spaces calls made by this process.
type Throttler struct {
	client *redis.Client
	config *ThrottlerConfig
	log    *tracing.Logger

	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time
}

func NewThrottler(client *redis.Client, config *ThrottlerConfig, log *tracing.Logger) *Throttler {
	return &Throttler{client: client, config: config, log: log, last: make(map[string]time.Time), now: time.Now}
}

// Wait blocks until a call in scope is allowed or ctx is done.
func (x *Throttler) Wait(ctx context.Context, scope string) error {
	if x.config.Limit <= 0 {
		return nil
	}

	if x.client == nil {
		return x.waitLocal(ctx, scope)
	}

	key := fmt.Sprintf("throttle:%s", scope)
	for {
		success, err := x.client.SetNX(ctx, key, x.now().Unix(), x.config.Limit).Result()
		if err != nil {
			x.log.E("Error setting throttle key", tracing.InnerError, err, tracing.Scope, scope)
			return x.waitLocal(ctx, scope)
		}
		if success {
			return nil
		}

		backoff := x.config.Limit / 4
		if ttl, err := x.client.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
			backoff = ttl
		}
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
	}
}

func (x *Throttler) waitLocal(ctx context.Context, scope string) error {
	x.mu.Lock()
	last, seen := x.last[scope]
	now := x.now()
	next := now
	if seen && now.Sub(last) < x.config.Limit {
		next = last.Add(x.config.Limit)
	}
	x.last[scope] = next
	x.mu.Unlock()

	if delay := next.Sub(now); delay > 0 {
		x.log.D("Throttling remote call", tracing.Scope, scope, "delay_ms", delay.Milliseconds())
		return sleep(ctx, delay)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
