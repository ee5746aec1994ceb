package diagrams

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/omarselim/codeviz/internal/flowmodel"
)

// clientName is the implicit caller declared first in every sequence diagram.
const clientName = "Client"

// Sequence renders a PlantUML sequence diagram for one analyzed method.
//
// Explicit interactions from the model are used when present; otherwise a
// linear Client -> class chain is derived from the involved classes and
// execution steps. Activations are tracked on a stack so that every
// activate has exactly one matching deactivate, whatever the input.
func Sequence(className, methodName string, m flowmodel.FlowModel) string {
	var b strings.Builder
	b.WriteString("@startuml\n")
	writeTitle(&b, className, methodName)

	if len(m.Interactions) > 0 {
		writeInteractions(&b, m.Interactions)
	} else {
		writeCallChain(&b, className, methodName, m)
	}

	b.WriteString("@enduml\n")
	return b.String()
}

// participants assigns collision-free aliases to display names, preserving
// first-appearance order. Two names stripping to the same alias get numeric
// suffixes so both stay addressable and the display names stay visible.
type participants struct {
	order   []string
	aliases map[string]string
	taken   map[string]bool
}

func newParticipants() *participants {
	return &participants{
		aliases: make(map[string]string),
		taken:   make(map[string]bool),
	}
}

func (p *participants) add(name string) string {
	if alias, ok := p.aliases[name]; ok {
		return alias
	}
	alias := aliasFor(name)
	if p.taken[alias] {
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s%d", alias, n)
			if !p.taken[candidate] {
				alias = candidate
				break
			}
		}
	}
	p.taken[alias] = true
	p.aliases[name] = alias
	p.order = append(p.order, name)
	return alias
}

func (p *participants) alias(name string) string {
	return p.aliases[name]
}

// declare emits the participant block: Client as an actor, everything else
// as a participant, quoting display names that needed sanitizing.
func (p *participants) declare(b *strings.Builder) {
	for _, name := range p.order {
		alias := p.aliases[name]
		switch {
		case name == clientName:
			fmt.Fprintf(b, "actor %s\n", alias)
		case name == alias:
			fmt.Fprintf(b, "participant %s\n", alias)
		default:
			fmt.Fprintf(b, "participant \"%s\" as %s\n", name, alias)
		}
	}
}

// writeInteractions emits the explicit interactions in order, modeling one
// execution lane: the participant most recently activated is deactivated
// before control moves to a new target, unless it is the caller itself.
func writeInteractions(b *strings.Builder, interactions []flowmodel.Interaction) {
	ps := newParticipants()
	ps.add(clientName)
	for _, it := range interactions {
		ps.add(it.Source)
		ps.add(it.Target)
	}
	ps.declare(b)

	var active []string // activation stack of aliases
	top := func() string {
		if len(active) == 0 {
			return ""
		}
		return active[len(active)-1]
	}

	for _, it := range interactions {
		src := ps.alias(it.Source)
		tgt := ps.alias(it.Target)

		if top() != tgt {
			if t := top(); t != "" && t != src {
				fmt.Fprintf(b, "deactivate %s\n", t)
				active = active[:len(active)-1]
			}
			fmt.Fprintf(b, "%s -> %s: %s(%s)\n", src, tgt, it.Method, it.Parameters)
			fmt.Fprintf(b, "activate %s\n", tgt)
			active = append(active, tgt)
		} else {
			fmt.Fprintf(b, "%s -> %s: %s(%s)\n", src, tgt, it.Method, it.Parameters)
		}
		fmt.Fprintf(b, "%s --> %s: return\n", tgt, src)
	}

	for len(active) > 0 {
		fmt.Fprintf(b, "deactivate %s\n", top())
		active = active[:len(active)-1]
	}
}

// methodByClassHint maps a substring of the target class name to a
// conventional method label, used when the execution steps name no method.
var methodByClassHint = []struct {
	hint   string
	method string
}{
	{"validat", "validate"},
	{"repository", "findById"},
	{"dao", "findById"},
	{"notification", "sendNotification"},
	{"inventory", "checkAvailability"},
	{"payment", "processPayment"},
	{"order", "processOrder"},
}

var bareCallPattern = regexp.MustCompile(`\b([a-z][A-Za-z0-9_]*)\s*\(`)

// resolveMethod picks the method label for a call into target: a
// "Target.method(" reference in the step wins, then any bare "method("
// in the step, then the class-name lookup table.
func resolveMethod(step, target string) string {
	qualified := regexp.MustCompile(`\b` + regexp.QuoteMeta(target) + `\s*\.\s*([A-Za-z_]\w*)\s*\(`)
	if m := qualified.FindStringSubmatch(step); m != nil {
		return m[1]
	}
	if m := bareCallPattern.FindStringSubmatch(step); m != nil {
		return m[1]
	}
	lower := strings.ToLower(target)
	for _, entry := range methodByClassHint {
		if strings.Contains(lower, entry.hint) {
			return entry.method
		}
	}
	return "process"
}

// writeCallChain derives a linear call chain: Client calls the main class,
// which relays through the remaining involved classes, one hop per
// execution step.
func writeCallChain(b *strings.Builder, className, methodName string, m flowmodel.FlowModel) {
	classes := orderClasses(className, m.InvolvedClasses)

	ps := newParticipants()
	ps.add(clientName)
	for _, c := range classes {
		ps.add(c)
	}
	ps.declare(b)

	first := ps.alias(classes[0])
	entry := methodName
	if entry == "" {
		entry = "handleRequest"
	}
	fmt.Fprintf(b, "%s -> %s: %s()\n", ps.alias(clientName), first, entry)
	fmt.Fprintf(b, "activate %s\n", first)

	for i := 0; i+1 < len(classes) && i < len(m.ExecutionSteps); i++ {
		src := ps.alias(classes[i])
		tgt := ps.alias(classes[i+1])
		method := resolveMethod(m.ExecutionSteps[i], classes[i+1])
		fmt.Fprintf(b, "%s -> %s: %s()\n", src, tgt, method)
		fmt.Fprintf(b, "%s --> %s: result\n", tgt, src)
	}

	fmt.Fprintf(b, "%s --> %s: return\n", first, ps.alias(clientName))
	fmt.Fprintf(b, "deactivate %s\n", first)
}

// orderClasses forces the main class to the front of the involved-class
// list, falling back to a single generic participant when nothing is known.
func orderClasses(className string, involved []string) []string {
	if className == "" {
		if len(involved) > 0 {
			return involved
		}
		return []string{"Service"}
	}
	ordered := []string{className}
	for _, c := range involved {
		if c != className {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
