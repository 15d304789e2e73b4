package console

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/minekent/skillsengine/internal/config"
	"github.com/minekent/skillsengine/internal/logger"
)

var (
	// ErrInvalidCredentials is returned for an unknown operator or a wrong password.
	ErrInvalidCredentials = errors.New("invalid operator name or password")

	// ErrLockedOut is returned while the client's IP is rate limited.
	ErrLockedOut = errors.New("too many failed login attempts")
)

// LockoutError carries how long a locked out IP has to wait.
type LockoutError struct {
	Remaining time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("%v: retry in %d seconds", ErrLockedOut, int(e.Remaining.Round(time.Second).Seconds()))
}

func (e *LockoutError) Unwrap() error {
	return ErrLockedOut
}

// Authenticator checks operator credentials against the configured bcrypt hashes.
type Authenticator struct {
	console *config.ConsoleConfig
	limiter *LoginRateLimiter
}

// NewAuthenticator creates an authenticator. limiter may be nil to disable rate limiting.
func NewAuthenticator(console *config.ConsoleConfig, limiter *LoginRateLimiter) *Authenticator {
	return &Authenticator{console: console, limiter: limiter}
}

// Locked reports whether logins from ip are currently refused.
func (a *Authenticator) Locked(ip string) error {
	if a.limiter == nil {
		return nil
	}
	if locked, left := a.limiter.IsLocked(ip); locked {
		return &LockoutError{Remaining: left}
	}
	return nil
}

// Authenticate verifies name and password for a login from ip and returns
// the operator name as configured.
func (a *Authenticator) Authenticate(name, password, ip string) (string, error) {
	if err := a.Locked(ip); err != nil {
		return "", err
	}

	op, ok := a.console.Operator(strings.TrimSpace(name))
	if ok && bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) == nil {
		if a.limiter != nil {
			a.limiter.RecordSuccess(ip)
		}
		return op.Name, nil
	}

	logger.Info("Failed operator login", "operator", name, "ip", ip, "event", "login_failed")
	if a.limiter != nil {
		if locked, d := a.limiter.RecordFailure(ip); locked {
			logger.Warning("IP rate limited after failed logins",
				"ip", ip,
				"lockout_seconds", int(d.Seconds()),
				"event", "login_ratelimit")
			return "", &LockoutError{Remaining: d}
		}
	}
	return "", ErrInvalidCredentials
}

// HashPassword returns the bcrypt hash to put in an operator's password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
