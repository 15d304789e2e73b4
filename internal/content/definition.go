package content

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minekent/skillsengine/internal/skill"
)

// parseDocument decodes one definition file. A nil map means the document
// defines no keys at all.
func parseDocument(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(doc) == 0 {
		return nil, nil
	}
	return doc, nil
}

// buildSkill turns a decoded document into a candidate skill. It never fails;
// anything wrong is left for Validate to report. fallbackID is used when the
// document has no id key.
func buildSkill(doc map[string]any, fallbackID string) *skill.Skill {
	params := skill.Params(doc)

	id := fallbackID
	if params.Has("id") {
		id = strings.TrimSpace(params.String("id", ""))
	}

	name := strings.TrimSpace(params.String("name", ""))
	if name == "" {
		name = id
	}

	triggerParams := skill.ToParams(doc["trigger"])
	triggerKind := skill.StringToTriggerKind(triggerParams.String("type", string(skill.TriggerCommand)))
	delete(triggerParams, "type")

	targetParams := skill.ToParams(doc["target"])
	targetKind := skill.StringToTargetKind(targetParams.String("type", string(skill.TargetSelf)))
	delete(targetParams, "type")

	s := &skill.Skill{
		ID:             id,
		Name:           name,
		Category:       params.String("type", "DEFAULT"),
		Trigger:        skill.TriggerSpec{Kind: triggerKind, Params: triggerParams},
		Target:         skill.TargetSpec{Kind: targetKind, Params: targetParams},
		CooldownMillis: skill.ParseDuration(doc["cooldown"], 0),
		Cost:           skill.ToParams(doc["cost"]),
		DenyMessage:    params.String("denyMessage", ""),
	}

	for _, p := range skill.ToParamsList(doc["conditions"]) {
		kind := skill.StringToConditionKind(p.String("type", ""))
		delete(p, "type")
		s.Conditions = append(s.Conditions, skill.ConditionSpec{Kind: kind, Params: p})
	}
	for _, p := range skill.ToParamsList(doc["actions"]) {
		kind := skill.StringToActionKind(p.String("type", ""))
		delete(p, "type")
		s.Actions = append(s.Actions, skill.ActionSpec{Kind: kind, Params: p})
	}

	return s
}
