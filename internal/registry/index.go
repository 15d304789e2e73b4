package registry

import (
	"strings"

	"github.com/minekent/skillsengine/internal/skill"
)

// TriggerIndex groups skills by trigger kind and by command word.
// It is built once per reload and never modified afterwards.
type TriggerIndex struct {
	byKind    map[skill.TriggerKind][]*skill.Skill
	byCommand map[string][]*skill.Skill
}

// BuildIndex indexes every skill in reg, preserving registration order.
func BuildIndex(reg *Registry) *TriggerIndex {
	idx := &TriggerIndex{
		byKind:    make(map[skill.TriggerKind][]*skill.Skill),
		byCommand: make(map[string][]*skill.Skill),
	}

	for _, s := range reg.All() {
		idx.byKind[s.Trigger.Kind] = append(idx.byKind[s.Trigger.Kind], s)

		if s.Trigger.Kind != skill.TriggerCommand {
			continue
		}
		if cmd := s.Trigger.Command(); cmd != "" {
			idx.byCommand[cmd] = append(idx.byCommand[cmd], s)
		}
	}

	return idx
}

// ForKind returns the skills bound to the given trigger kind.
func (idx *TriggerIndex) ForKind(kind skill.TriggerKind) []*skill.Skill {
	return cloneSkills(idx.byKind[kind])
}

// ForCommand returns the skills bound to a command word. Lookup ignores case.
func (idx *TriggerIndex) ForCommand(command string) []*skill.Skill {
	return cloneSkills(idx.byCommand[strings.ToLower(strings.TrimSpace(command))])
}

// Commands returns every indexed command word.
func (idx *TriggerIndex) Commands() []string {
	cmds := make([]string, 0, len(idx.byCommand))
	for cmd := range idx.byCommand {
		cmds = append(cmds, cmd)
	}
	return cmds
}

func cloneSkills(skills []*skill.Skill) []*skill.Skill {
	if len(skills) == 0 {
		return []*skill.Skill{}
	}
	result := make([]*skill.Skill, len(skills))
	copy(result, skills)
	return result
}
