// Package registry holds the loaded skills, the trigger index built from them
// and the catalog snapshot the engine reads on every cast.
package registry

import (
	"sort"
	"sync"

	"github.com/minekent/skillsengine/internal/skill"
)

// Registry maps case-insensitive skill ids to skills.
type Registry struct {
	mu     sync.RWMutex
	skills map[string]*skill.Skill // lowercase id -> skill
	order  []string                // lowercase ids in first-registration order
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		skills: make(map[string]*skill.Skill),
	}
}

// Register adds s, replacing any skill with the same id (last writer wins).
// It reports whether an earlier skill was replaced.
func (r *Registry) Register(s *skill.Skill) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := s.Key()
	_, replaced := r.skills[key]
	if !replaced {
		r.order = append(r.order, key)
	}
	r.skills[key] = s
	return replaced
}

// Get returns the skill with the given id, ignoring case.
func (r *Registry) Get(id string) (*skill.Skill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.skills[skill.Key(id)]
	return s, ok
}

// All returns every skill in registration order.
func (r *Registry) All() []*skill.Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*skill.Skill, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.skills[key])
	}
	return result
}

// IDs returns the skill ids sorted alphabetically.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.skills))
	for _, s := range r.skills {
		ids = append(ids, s.ID)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.skills)
}
