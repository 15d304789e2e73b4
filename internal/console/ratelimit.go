package console

import (
	"sync"
	"time"

	"github.com/minekent/skillsengine/internal/config"
)

const (
	rateLimitCleanupInterval = 5 * time.Minute
	rateLimitRetention       = 10 * time.Minute
)

// LoginRateLimiter locks out IPs after repeated failed operator logins.
// Each lockout of the same IP doubles in length up to the configured maximum.
type LoginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*attemptInfo
	maxAttempts int
	lockout     time.Duration
	maxLockout  time.Duration
	now         func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type attemptInfo struct {
	failures    int
	lockouts    int
	lockedUntil time.Time
}

// NewLoginRateLimiter creates a limiter and starts its cleanup goroutine.
// Call Stop to end it.
func NewLoginRateLimiter(cfg config.RateLimitConfig) *LoginRateLimiter {
	rl := newLoginRateLimiter(cfg, time.Now)
	go rl.cleanupLoop(rateLimitCleanupInterval)
	return rl
}

func newLoginRateLimiter(cfg config.RateLimitConfig, now func() time.Time) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		attempts:    make(map[string]*attemptInfo),
		maxAttempts: cfg.MaxAttempts,
		lockout:     time.Duration(cfg.LockoutSeconds) * time.Second,
		maxLockout:  time.Duration(cfg.MaxLockoutSeconds) * time.Second,
		now:         now,
		stop:        make(chan struct{}),
	}
	if rl.maxAttempts <= 0 {
		rl.maxAttempts = 5
	}
	if rl.lockout <= 0 {
		rl.lockout = 30 * time.Second
	}
	if rl.maxLockout <= 0 {
		rl.maxLockout = 5 * time.Minute
	}
	if rl.maxLockout < rl.lockout {
		rl.maxLockout = rl.lockout
	}
	return rl
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *LoginRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// IsLocked reports whether ip is locked out and for how much longer.
func (rl *LoginRateLimiter) IsLocked(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, ok := rl.attempts[ip]
	if !ok {
		return false, 0
	}
	if left := info.lockedUntil.Sub(rl.now()); left > 0 {
		return true, left
	}
	return false, 0
}

// RecordFailure counts a failed login. It reports whether ip is now locked
// out and for how long.
func (rl *LoginRateLimiter) RecordFailure(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, ok := rl.attempts[ip]
	if !ok {
		info = &attemptInfo{}
		rl.attempts[ip] = info
	}

	now := rl.now()
	if left := info.lockedUntil.Sub(now); left > 0 {
		return true, left
	}

	info.failures++
	if info.failures < rl.maxAttempts {
		return false, 0
	}

	info.lockouts++
	d := rl.lockout
	for i := 1; i < info.lockouts && d < rl.maxLockout; i++ {
		d *= 2
	}
	d = min(d, rl.maxLockout)

	info.lockedUntil = now.Add(d)
	info.failures = 0
	return true, d
}

// RecordSuccess forgets the failures of ip.
func (rl *LoginRateLimiter) RecordSuccess(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, ip)
}

// Failures returns the failed attempts of ip since its last lockout.
func (rl *LoginRateLimiter) Failures(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if info, ok := rl.attempts[ip]; ok {
		return info.failures
	}
	return 0
}

func (rl *LoginRateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup drops IPs whose last lockout ended long ago and that have no pending failures.
func (rl *LoginRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rateLimitRetention)
	for ip, info := range rl.attempts {
		if info.failures == 0 && info.lockedUntil.Before(cutoff) {
			delete(rl.attempts, ip)
		}
	}
}
