package skill

import (
	"fmt"
	"strconv"
	"strings"
)

// Params is the kind-specific configuration bag of a trigger, target, condition,
// action or cost. Values are whatever the YAML decoder produced: scalars, []any
// or map[string]any. Getters are lenient: numbers written as strings parse, and
// a value of the wrong shape yields the default.
type Params map[string]any

// Has reports whether key is present with a non-nil value.
func (p Params) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns the value formatted as text, or def when absent.
func (p Params) String(key, def string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Float returns the value as a float64.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// Int returns the value as an int. Fractional numbers are truncated; fractional strings fall back to def.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

// Bool returns the value as a bool. Strings are true only when they equal "true" ignoring case.
func (p Params) Bool(key string, def bool) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return def
}

// Strings returns a list value as strings, dropping nil entries. ok is false when
// the value is absent or not a list.
func (p Params) Strings(key string) (values []string, ok bool) {
	list, ok := p[key].([]any)
	if !ok {
		return nil, false
	}
	values = make([]string, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		if s, isString := item.(string); isString {
			values = append(values, s)
		} else {
			values = append(values, fmt.Sprint(item))
		}
	}
	return values, true
}

// ToParams converts a decoded YAML value into Params. Non-map values yield an empty bag.
func ToParams(raw any) Params {
	out := Params{}
	switch m := raw.(type) {
	case map[string]any:
		for k, v := range m {
			out[k] = v
		}
	case map[any]any:
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
	}
	return out
}

// ToParamsList converts a decoded YAML list of maps into a slice of Params,
// silently dropping entries that are not maps.
func ToParamsList(raw any) []Params {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Params, 0, len(list))
	for _, item := range list {
		switch item.(type) {
		case map[string]any, map[any]any:
			out = append(out, ToParams(item))
		}
	}
	return out
}
