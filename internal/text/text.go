// Package text provides loading and lookup for player-facing message templates
// and the placeholder and colour-code formatting applied to them.
package text

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultDenyTemplate is used when no template is configured for a deny reason.
const DefaultDenyTemplate = "Cannot cast {skill}: {reason}"

// MessageData represents the structure of the messages.yaml file.
type MessageData struct {
	Messages map[string]string `yaml:"messages"`
}

// Messages provides template lookup by key.
type Messages struct {
	path string
	data *MessageData
	mu   sync.RWMutex
}

var (
	instance *Messages
	once     sync.Once
)

// defaultTemplates are the templates shipped with the engine.
var defaultTemplates = map[string]string{
	"cooldown":          "&c{skill} is on cooldown for {seconds}s.",
	"no_permission":     "&cYou are not allowed to use {skill}.",
	"low_level":         "&cYour level is too low for {skill} ({payload}).",
	"missing_item":      "&cYou are missing the item required by {skill}.",
	"cost_xp_levels":    "&cYou do not have enough levels to cast {skill}.",
	"cost_item":         "&cYou cannot pay the item cost of {skill}.",
	"no_target":         "&cNo target in range for {skill}.",
	"world_not_allowed": "&c{skill} cannot be used in this world.",
	"world_denied":      "&c{skill} is disabled in this world.",
	"default":           "&c" + DefaultDenyTemplate,
}

// Defaults returns a Messages holding the built-in templates.
func Defaults() *Messages {
	templates := make(map[string]string, len(defaultTemplates))
	for k, v := range defaultTemplates {
		templates[k] = v
	}
	return &Messages{data: &MessageData{Messages: templates}}
}

// Load loads message templates from a YAML file.
func Load(path string) (*Messages, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}
	return &Messages{path: path, data: data}, nil
}

func read(path string) (*MessageData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}

	var data MessageData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}
	if data.Messages == nil {
		data.Messages = make(map[string]string)
	}

	// Keys are matched case-insensitively.
	normalized := make(map[string]string, len(data.Messages))
	for k, v := range data.Messages {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	data.Messages = normalized
	return &data, nil
}

// GetInstance returns the singleton messages instance.
// Must call Initialize first.
func GetInstance() *Messages {
	return instance
}

// Initialize loads the messages file and sets the singleton instance.
func Initialize(path string) error {
	var err error
	once.Do(func() {
		instance, err = Load(path)
	})
	return err
}

// Reload re-reads the file the messages were loaded from. On error the
// current templates stay in place. Messages built by Defaults have nothing to reload.
func (m *Messages) Reload() error {
	if m.path == "" {
		return nil
	}
	data, err := read(m.path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

// Template returns the template configured for key, or "" when there is none.
func (m *Messages) Template(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Messages[strings.ToLower(key)]
}

// Keys returns the configured template keys, sorted.
func (m *Messages) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data.Messages))
	for k := range m.data.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
