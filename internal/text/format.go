package text

import (
	"sort"
	"strings"
)

// SectionSign is the colour-code prefix clients understand.
const SectionSign = '§'

const colorCodes = "0123456789AaBbCcDdEeFfKkLlMmNnOoRrXx"

// Colorize translates '&'-prefixed colour codes ("&a") into section-sign codes ("§a").
// An '&' not followed by a valid code is left alone.
func Colorize(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '&' && i+1 < len(runes) && strings.ContainsRune(colorCodes, runes[i+1]) {
			b.WriteRune(SectionSign)
			b.WriteString(strings.ToLower(string(runes[i+1])))
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// Apply substitutes {player} and {skill}, then every {key} in vars, then colorizes.
// Empty player or skill values leave their placeholders untouched.
func Apply(template, player, skill string, vars map[string]string) string {
	out := template
	if player != "" {
		out = strings.ReplaceAll(out, "{player}", player)
	}
	if skill != "" {
		out = strings.ReplaceAll(out, "{skill}", skill)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "" {
			continue
		}
		out = strings.ReplaceAll(out, "{"+k+"}", vars[k])
	}

	return Colorize(out)
}
