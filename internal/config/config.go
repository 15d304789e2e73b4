// Package config loads the daemon configuration from YAML.
package config

import (
	"os"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/minekent/skillsengine/internal/journal"
)

// Config holds daemon-wide settings. The logging block of the same file is
// read by the logger package.
type Config struct {
	// Debug enables verbose cast tracing at startup.
	Debug bool `yaml:"debug"`

	// SkillsDir is the directory holding skill definition files.
	SkillsDir string `yaml:"skills_dir"`

	// Vocabulary optionally extends the built-in host vocabulary.
	Vocabulary string `yaml:"vocabulary"`

	// Messages is the deny-message template file.
	Messages string `yaml:"messages"`

	// Sandbox is the world definition loaded into the in-memory host.
	Sandbox string `yaml:"sandbox"`

	Console ConsoleConfig `yaml:"console"`
	Journal JournalConfig `yaml:"journal"`
}

// ConsoleConfig holds the operator console settings.
type ConsoleConfig struct {
	// TelnetAddress is the listen address of the line console. Empty disables it.
	TelnetAddress string `yaml:"telnet_address"`

	// DefaultPlayer is cast for when an operator omits the player argument.
	// Empty means the player argument is required.
	DefaultPlayer string `yaml:"default_player"`

	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Password    PasswordConfig    `yaml:"password"`
	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Flood       FloodConfig       `yaml:"flood"`
	Operators   []OperatorConfig  `yaml:"operators"`
}

// OperatorConfig is one account allowed to log into the console.
type OperatorConfig struct {
	Name string `yaml:"name"`

	// PasswordHash is a bcrypt hash, as printed by skillcheck -hash.
	PasswordHash string `yaml:"password_hash"`
}

// JournalConfig enables the cast journal.
type JournalConfig struct {
	Enabled        bool `yaml:"enabled"`
	journal.Config `yaml:",inline"`
}

// RateLimitConfig holds rate limiting settings for login attempts.
type RateLimitConfig struct {
	// MaxAttempts is the maximum login attempts before lockout.
	MaxAttempts int `yaml:"max_attempts"`

	// LockoutSeconds is the initial lockout duration in seconds.
	LockoutSeconds int `yaml:"lockout_seconds"`

	// MaxLockoutSeconds caps the exponential backoff.
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// FloodConfig limits how many commands a remote session may send.
type FloodConfig struct {
	Enabled bool `yaml:"enabled"`

	// MaxCommands is the number of commands allowed per window.
	MaxCommands int `yaml:"max_commands"`

	// WindowSeconds is the length of the sliding window.
	WindowSeconds int `yaml:"window_seconds"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections from one IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections. 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// PasswordConfig holds the strength rules for new operator passwords.
type PasswordConfig struct {
	MinLength        int  `yaml:"min_length"`
	RequireUppercase bool `yaml:"require_uppercase"`
	RequireLowercase bool `yaml:"require_lowercase"`
	RequireDigit     bool `yaml:"require_digit"`
	RequireSpecial   bool `yaml:"require_special"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// Address is the listen address of the WebSocket console. Empty disables it.
	Address string `yaml:"address"`

	// AllowedOrigins lists origins allowed to connect.
	// Empty enforces same-origin; "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns a Config with local, conservative defaults.
func DefaultConfig() *Config {
	return &Config{
		SkillsDir: "data/skills",
		Messages:  "data/messages.yaml",
		Sandbox:   "data/sandbox.yaml",
		Console: ConsoleConfig{
			TelnetAddress: "127.0.0.1:4100",
			WebSocket: WebSocketConfig{
				Address:        "127.0.0.1:4180",
				AllowedOrigins: []string{},
				MaxMessageSize: 4096,
			},
			Password: PasswordConfig{
				MinLength:        10,
				RequireUppercase: true,
				RequireLowercase: true,
				RequireDigit:     true,
			},
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 20,
			},
			RateLimit: RateLimitConfig{
				MaxAttempts:       5,
				LockoutSeconds:    30,
				MaxLockoutSeconds: 300,
			},
			Flood: FloodConfig{
				Enabled:       true,
				MaxCommands:   20,
				WindowSeconds: 10,
			},
		},
		Journal: JournalConfig{
			Enabled: true,
			Config:  journal.DefaultConfig("data/journal.db"),
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// ApplyEnv overrides settings from SKILLS_DIR and SKILLS_DEBUG.
func (c *Config) ApplyEnv() {
	if dir := os.Getenv("SKILLS_DIR"); dir != "" {
		c.SkillsDir = dir
	}
	if debug := os.Getenv("SKILLS_DEBUG"); debug != "" {
		if enabled, err := strconv.ParseBool(debug); err == nil {
			c.Debug = enabled
		}
	}
}

// Operator returns the operator with the given name, ignoring case.
func (c *ConsoleConfig) Operator(name string) (OperatorConfig, bool) {
	for _, op := range c.Operators {
		if strings.EqualFold(op.Name, name) {
			return op, true
		}
	}
	return OperatorConfig{}, false
}

// IsOriginAllowed reports whether a WebSocket upgrade from origin may proceed.
// It is allowed when AllowedOrigins contains "*" or the exact origin, or when
// AllowedOrigins is empty and origin matches the request host.
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // non-browser client
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}

func (c *PasswordConfig) minLength() int {
	if c.MinLength <= 0 {
		return 8
	}
	return c.MinLength
}

// ValidatePassword checks a password against the configured rules.
// It returns a message describing the first violation, or "" if valid.
func (c *PasswordConfig) ValidatePassword(password string) string {
	if minLen := c.minLength(); len(password) < minLen {
		return "Password must be at least " + strconv.Itoa(minLen) + " characters."
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if c.RequireUppercase && !hasUpper {
		return "Password must contain at least one uppercase letter."
	}
	if c.RequireLowercase && !hasLower {
		return "Password must contain at least one lowercase letter."
	}
	if c.RequireDigit && !hasDigit {
		return "Password must contain at least one digit."
	}
	if c.RequireSpecial && !hasSpecial {
		return "Password must contain at least one special character."
	}

	return ""
}

// GetRequirementsText describes the password rules for prompts.
func (c *PasswordConfig) GetRequirementsText() string {
	parts := []string{"min " + strconv.Itoa(c.minLength()) + " chars"}

	if c.RequireUppercase {
		parts = append(parts, "uppercase")
	}
	if c.RequireLowercase {
		parts = append(parts, "lowercase")
	}
	if c.RequireDigit {
		parts = append(parts, "digit")
	}
	if c.RequireSpecial {
		parts = append(parts, "special char")
	}

	return strings.Join(parts, ", ")
}
