// Package vocab holds the names a host understands: item kinds, status
// effects, particles, sounds, sound categories and entity types.
package vocab

import (
	"sort"
	"strings"
)

// Vocabulary is an immutable set of host names. Lookups ignore case.
type Vocabulary struct {
	items           map[string]struct{}
	statuses        map[string]struct{}
	particles       map[string]struct{}
	sounds          map[string]struct{}
	soundCategories map[string]struct{}
	entities        map[string]struct{}
}

// FromDefinition builds a Vocabulary from a decoded definition.
func FromDefinition(def *Definition) *Vocabulary {
	return &Vocabulary{
		items:           toSet(def.Items),
		statuses:        toSet(def.Statuses),
		particles:       toSet(def.Particles),
		sounds:          toSet(def.Sounds),
		soundCategories: toSet(def.SoundCategories),
		entities:        toSet(def.Entities),
	}
}

// MatchItem resolves an item name the way Minecraft's material matching does:
// an optional "minecraft:" namespace, any case, spaces or dashes for underscores.
func (v *Vocabulary) MatchItem(name string) (string, bool) {
	key := canonical(name)
	key = strings.TrimPrefix(key, "MINECRAFT:")
	if key == "" {
		return "", false
	}
	if _, ok := v.items[key]; !ok {
		return "", false
	}
	return key, true
}

func (v *Vocabulary) HasStatus(name string) bool        { return has(v.statuses, name) }
func (v *Vocabulary) HasParticle(name string) bool      { return has(v.particles, name) }
func (v *Vocabulary) HasSound(name string) bool         { return has(v.sounds, name) }
func (v *Vocabulary) HasSoundCategory(name string) bool { return has(v.soundCategories, name) }
func (v *Vocabulary) HasEntityType(name string) bool    { return has(v.entities, name) }

// Items returns the known item kinds, sorted.
func (v *Vocabulary) Items() []string {
	out := make([]string, 0, len(v.items))
	for k := range v.items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Counts returns the size of each name set, keyed by section name.
func (v *Vocabulary) Counts() map[string]int {
	return map[string]int{
		"items":            len(v.items),
		"statuses":         len(v.statuses),
		"particles":        len(v.particles),
		"sounds":           len(v.sounds),
		"sound_categories": len(v.soundCategories),
		"entities":         len(v.entities),
	}
}

func has(set map[string]struct{}, name string) bool {
	_, ok := set[canonical(name)]
	return ok
}

func canonical(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if c := canonical(n); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}
