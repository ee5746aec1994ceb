package diagrams

import "strings"

// aliasFor strips a display name down to a PlantUML-safe participant alias.
// Only letters and digits survive; an empty result falls back to "P".
func aliasFor(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "P"
	}
	return b.String()
}

// escapeAction keeps an action label from terminating its statement early.
func escapeAction(s string) string {
	return strings.ReplaceAll(s, ";", ",")
}

// escapeCondition keeps a branch condition from closing its own parentheses.
func escapeCondition(s string) string {
	s = strings.ReplaceAll(s, "(", "[")
	return strings.ReplaceAll(s, ")", "]")
}
