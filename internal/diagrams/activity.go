package diagrams

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/omarselim/codeviz/internal/flowmodel"
)

// Activity renders a PlantUML activity diagram for one analyzed method.
//
// The body is chosen from the first non-empty source: explicit flow-logic
// elements, then classified execution steps, then a skeleton derived from
// the method name. Every opened branch or repeat block is closed before the
// final stop, on all three paths.
func Activity(className, methodName string, m flowmodel.FlowModel) string {
	var b strings.Builder
	b.WriteString("@startuml\n")
	writeTitle(&b, className, methodName)
	b.WriteString("start\n")

	switch {
	case len(m.FlowElements) > 0:
		writeFlowElements(&b, m.FlowElements)
	case len(m.ExecutionSteps) > 0:
		writeExecutionSteps(&b, m.ExecutionSteps)
	default:
		writeSkeleton(&b, methodName)
	}

	b.WriteString("stop\n")
	b.WriteString("@enduml\n")
	return b.String()
}

func writeTitle(b *strings.Builder, className, methodName string) {
	switch {
	case className != "" && methodName != "":
		fmt.Fprintf(b, "title %s.%s\n", className, methodName)
	case className != "":
		fmt.Fprintf(b, "title %s\n", className)
	case methodName != "":
		fmt.Fprintf(b, "title %s\n", methodName)
	}
}

// writeFlowElements emits one statement per flow-logic element, in order.
func writeFlowElements(b *strings.Builder, elements []flowmodel.FlowElement) {
	for _, el := range elements {
		switch el.Kind {
		case flowmodel.KindDecision:
			writeDecision(b, conditionText(el.Description), el.ExceptionName, true)
		case flowmodel.KindLoop:
			b.WriteString("repeat\n")
			fmt.Fprintf(b, "  :%s;\n", escapeAction(el.Description))
			b.WriteString("repeat while (more items?)\n")
		default: // Start, Process, End
			fmt.Fprintf(b, ":%s;\n", escapeAction(el.Description))
		}
	}
}

// writeDecision opens a yes/no branch and always closes it. The no branch
// throws the extracted exception (terminating that lane) when one is known,
// and falls back to a generic alternative-path action otherwise.
func writeDecision(b *strings.Builder, condition, exceptionName string, terminal bool) {
	fmt.Fprintf(b, "if (%s) then (yes)\n", escapeCondition(condition))
	b.WriteString("else (no)\n")
	if exceptionName != "" {
		fmt.Fprintf(b, "  :throw %s;\n", exceptionName)
		if terminal {
			b.WriteString("  stop\n")
		}
	} else {
		b.WriteString("  :handle alternative path;\n")
	}
	b.WriteString("endif\n")
}

var (
	decisionKeywords = regexp.MustCompile(`(?i)\b(check|validate|verify|exists|if|condition)\b`)
	loopKeywords     = regexp.MustCompile(`(?i)\b(loop|iterate|repeat|while)\b|for each`)
	stepThrowPattern = regexp.MustCompile(`throws?\s+([A-Z][A-Za-z0-9]*Exception)\b`)
)

// writeExecutionSteps walks the cleaned steps, classifying each by keyword.
// A loop step consumes the following step as its body, so that step is
// skipped in the outer walk.
func writeExecutionSteps(b *strings.Builder, steps []string) {
	for i := 0; i < len(steps); i++ {
		step := steps[i]
		switch {
		case decisionKeywords.MatchString(step):
			exception := ""
			if m := stepThrowPattern.FindStringSubmatch(step); m != nil {
				exception = m[1]
			}
			writeDecision(b, conditionText(step), exception, false)
		case loopKeywords.MatchString(step):
			b.WriteString("repeat\n")
			if i+1 < len(steps) {
				fmt.Fprintf(b, "  :%s;\n", escapeAction(steps[i+1]))
				i++
			} else {
				b.WriteString("  :process item;\n")
			}
			fmt.Fprintf(b, "repeat while (%s)\n", escapeCondition(conditionText(step)))
		default:
			fmt.Fprintf(b, ":%s;\n", escapeAction(step))
		}
	}
}

// conditionText shapes a description into a branch condition: the text up to
// the first question mark if one is present, else the whole text with a
// question mark appended.
func conditionText(s string) string {
	if idx := strings.IndexByte(s, '?'); idx >= 0 {
		return strings.TrimSpace(s[:idx+1])
	}
	return strings.TrimSpace(s) + "?"
}

// writeSkeleton emits a canonical activity body inferred from the method
// name alone, used when the analysis carried no recognizable structure.
func writeSkeleton(b *strings.Builder, methodName string) {
	name := strings.ToLower(methodName)
	switch {
	case hasAnyPrefix(name, "process", "handle"):
		b.WriteString(":Receive request;\n")
		b.WriteString("if (Input valid?) then (yes)\n")
		b.WriteString("  :Process request;\n")
		b.WriteString("  :Return result;\n")
		b.WriteString("else (no)\n")
		b.WriteString("  :throw ValidationException;\n")
		b.WriteString("  stop\n")
		b.WriteString("endif\n")
	case hasAnyPrefix(name, "create", "add"):
		b.WriteString(":Validate input data;\n")
		b.WriteString("if (Validation passed?) then (yes)\n")
		b.WriteString("  :Create new entity;\n")
		b.WriteString("  :Save to repository;\n")
		b.WriteString("  :Return created entity;\n")
		b.WriteString("else (no)\n")
		b.WriteString("  :throw ValidationException;\n")
		b.WriteString("  stop\n")
		b.WriteString("endif\n")
	case hasAnyPrefix(name, "update", "modify"):
		b.WriteString(":Validate input data;\n")
		b.WriteString("if (Entity exists?) then (yes)\n")
		b.WriteString("  :Apply updates;\n")
		b.WriteString("  :Save changes;\n")
		b.WriteString("  :Return updated entity;\n")
		b.WriteString("else (no)\n")
		b.WriteString("  :throw NotFoundException;\n")
		b.WriteString("  stop\n")
		b.WriteString("endif\n")
	case hasAnyPrefix(name, "delete", "remove"):
		b.WriteString(":Find entity by id;\n")
		b.WriteString("if (Entity exists?) then (yes)\n")
		b.WriteString("  if (Safe to delete?) then (yes)\n")
		b.WriteString("    :Delete entity;\n")
		b.WriteString("    :Return confirmation;\n")
		b.WriteString("  else (no)\n")
		b.WriteString("    :throw IllegalStateException;\n")
		b.WriteString("    stop\n")
		b.WriteString("  endif\n")
		b.WriteString("else (no)\n")
		b.WriteString("  :throw NotFoundException;\n")
		b.WriteString("  stop\n")
		b.WriteString("endif\n")
	case hasAnyPrefix(name, "get", "find", "retrieve"):
		b.WriteString(":Build query;\n")
		b.WriteString("if (Entity found?) then (yes)\n")
		b.WriteString("  :Map to response;\n")
		b.WriteString("  :Return entity;\n")
		b.WriteString("else (no)\n")
		b.WriteString("  :throw NotFoundException;\n")
		b.WriteString("  stop\n")
		b.WriteString("endif\n")
	default:
		b.WriteString(":Receive request;\n")
		b.WriteString(":Validate input;\n")
		b.WriteString(":Execute business logic;\n")
		b.WriteString(":Return response;\n")
	}
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
