package flowmodel

import "strings"

// maxStepLength bounds the length of a cleaned execution step.
const maxStepLength = 80

// Clean strips markdown emphasis wrapping from an extracted fragment and
// bounds its length. Strings longer than 80 characters are truncated to 77
// plus an ellipsis marker. All other characters pass through unchanged.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.TrimSpace(s)

	r := []rune(s)
	if len(r) > maxStepLength {
		return string(r[:maxStepLength-3]) + "..."
	}
	return s
}
