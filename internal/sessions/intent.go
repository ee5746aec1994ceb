package sessions

import (
	"regexp"
	"strings"
)

// targetPattern matches a Class.method reference in a chat message.
var targetPattern = regexp.MustCompile(`\b([A-Z][A-Za-z0-9]*)\s*\.\s*([a-z][A-Za-z0-9_]*)\b`)

var diagramKeywords = []string{
	"diagram", "visualize", "visualise", "draw", "sequence", "flow chart",
	"flowchart", "activity", "uml", "plantuml",
}

var ticketKeywords = []string{
	"wrong", "incorrect", "broken", "bug", "missing", "ticket", "issue",
	"report", "doesn't match", "does not match",
}

// Classify determines what a user message is asking for. Diagram requests
// win over ticket phrasing so that "draw the broken flow" still renders.
func Classify(content string) Intent {
	lower := strings.ToLower(content)

	for _, kw := range diagramKeywords {
		if strings.Contains(lower, kw) {
			return IntentDiagram
		}
	}
	for _, kw := range ticketKeywords {
		if strings.Contains(lower, kw) {
			return IntentTicket
		}
	}
	return IntentQuestion
}

// ExtractTarget pulls the Class.method pair the message refers to, if any.
func ExtractTarget(content string) (className, methodName string, ok bool) {
	m := targetPattern.FindStringSubmatch(content)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
