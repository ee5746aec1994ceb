package flowmodel

import (
	"regexp"
	"strings"
)

// Extract scans a raw, markdown-flavored analysis text and builds a
// FlowModel. It never fails: a section that is absent or unparseable yields
// an empty collection for that field.
//
// Each field is filled by an ordered chain of strategies; the first strategy
// that produces at least one value wins and lower tiers are skipped.
func Extract(rawText string) FlowModel {
	return FlowModel{
		FlowElements:    extractFlowElements(rawText),
		Interactions:    extractInteractions(rawText),
		InvolvedClasses: extractInvolvedClasses(rawText),
		ExecutionSteps:  extractExecutionSteps(rawText),
		ExceptionTypes:  extractExceptionTypes(rawText),
	}
}

// sectionHeading matches a bold markdown heading such as "**Flow Logic:**"
// or "**Flow Logic**:". The colon is required so inline bold emphasis inside
// a sentence is not mistaken for a heading.
var sectionHeading = regexp.MustCompile(`\*\*\s*([^*\n:]+?)\s*(?::\s*\*\*|\*\*\s*:)`)

// sectionBody returns the text between the named heading and the next bold
// heading (or end of input). The second return value reports whether the
// heading was found at all.
func sectionBody(text, name string) (string, bool) {
	matches := sectionHeading.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		heading := text[m[2]:m[3]]
		if !strings.EqualFold(strings.TrimSpace(heading), name) {
			continue
		}
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		return text[start:end], true
	}
	return "", false
}

// --- involved classes ------------------------------------------------------

// roleSuffixes are conventional class-name endings that identify a class as
// a participant in the described flow.
var roleSuffixes = []string{
	"Service", "Controller", "Repository", "Component", "Manager", "Handler",
	"DAO", "Entity", "DTO", "Model", "Facade", "Factory", "Builder",
	"Validator", "Processor", "Gateway", "Client", "Provider", "Adapter",
}

var (
	roleSuffixPattern = regexp.MustCompile(
		`\b([A-Z][A-Za-z0-9]*(?:` + strings.Join(roleSuffixes, "|") + `))\b`)
	callSitePattern    = regexp.MustCompile(`\b([A-Z][A-Za-z0-9]*)\.[a-z_]\w*\s*\(`)
	capitalizedPattern = regexp.MustCompile(`\b([A-Z][a-z][A-Za-z0-9]+)\b`)
	bracketedList      = regexp.MustCompile(`\[([^\]]*)\]`)
)

// classStopwords excludes common sentence-leading words from the
// capitalized-word heuristic.
var classStopwords = map[string]bool{
	"The": true, "This": true, "That": true, "These": true, "Those": true,
	"When": true, "While": true, "Then": true, "Else": true, "After": true,
	"Before": true, "First": true, "Next": true, "Finally": true, "Each": true,
	"Step": true, "Steps": true, "Flow": true, "Logic": true, "Method": true,
	"Class": true, "Classes": true, "Involved": true, "Execution": true,
	"Sequence": true, "Interactions": true, "Exception": true, "Handling": true,
	"Start": true, "End": true, "Loop": true, "Decision": true, "Process": true,
	"Client": true, "Note": true, "Here": true, "There": true, "Once": true,
	"Also": true, "However": true, "Otherwise": true, "Returns": true,
}

func extractInvolvedClasses(text string) []string {
	strategies := []func(string) []string{
		classesFromSection,
		classesFromRoleSuffix,
		classesFromCallSites,
		classesFromCapitalizedWords,
	}
	for _, strategy := range strategies {
		if classes := strategy(text); len(classes) > 0 {
			return classes
		}
	}
	return nil
}

// classesFromSection parses an explicit "Involved Classes" section, either
// a bracketed list on the heading line or comma/bullet entries in the body.
func classesFromSection(text string) []string {
	body, ok := sectionBody(text, "Involved Classes")
	if !ok {
		return nil
	}
	var raw []string
	if m := bracketedList.FindStringSubmatch(body); m != nil {
		raw = strings.Split(m[1], ",")
	} else {
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• "))
			if line == "" {
				continue
			}
			raw = append(raw, strings.Split(line, ",")...)
		}
	}
	return dedupeNames(raw, 0)
}

func classesFromRoleSuffix(text string) []string {
	return dedupeNames(allGroup1(roleSuffixPattern, text), 8)
}

func classesFromCallSites(text string) []string {
	return dedupeNames(allGroup1(callSitePattern, text), 8)
}

func classesFromCapitalizedWords(text string) []string {
	var names []string
	for _, name := range allGroup1(capitalizedPattern, text) {
		if !classStopwords[name] {
			names = append(names, name)
		}
	}
	return dedupeNames(names, 6)
}

func allGroup1(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// dedupeNames trims, de-duplicates preserving first-mention order, and caps
// the result. A limit of 0 means unbounded.
func dedupeNames(raw []string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// --- execution steps -------------------------------------------------------

var (
	numberedLine = regexp.MustCompile(`^\s*\d+[.)]\s+(.+)$`)
	bulletLine   = regexp.MustCompile(`^\s*[-*•]\s+(.+)$`)
)

const maxBulletSteps = 10

func extractExecutionSteps(text string) []string {
	if steps := stepsFromSection(text); len(steps) > 0 {
		return steps
	}
	return stepsFromBullets(text)
}

func stepsFromSection(text string) []string {
	body, ok := sectionBody(text, "Execution Steps")
	if !ok {
		return nil
	}
	var steps []string
	for _, line := range strings.Split(body, "\n") {
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			steps = append(steps, Clean(m[1]))
		}
	}
	return steps
}

func stepsFromBullets(text string) []string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		m := bulletLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		steps = append(steps, Clean(m[1]))
		if len(steps) == maxBulletSteps {
			break
		}
	}
	return steps
}

// --- flow logic ------------------------------------------------------------

var (
	flowLogicLine = regexp.MustCompile(`^\s*-\s*(START|DECISION|LOOP|PROCESS|END)\s*:\s*(.*)$`)
	throwPattern  = regexp.MustCompile(`throws?\s+([A-Z][A-Za-z0-9]*Exception)\b`)
)

// extractFlowElements parses the explicit "Flow Logic" section. There is no
// heuristic fallback for this field: absence means the synthesizers fall back
// on execution steps or the method-name skeleton.
func extractFlowElements(text string) []FlowElement {
	body, ok := sectionBody(text, "Flow Logic")
	if !ok {
		return nil
	}
	var elements []FlowElement
	for _, line := range strings.Split(body, "\n") {
		m := flowLogicLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		el := FlowElement{
			Kind:        ElementKind(m[1]),
			Description: strings.TrimSpace(m[2]),
		}
		if el.Kind == KindDecision {
			if t := throwPattern.FindStringSubmatch(el.Description); t != nil {
				el.ExceptionName = t[1]
			}
		}
		elements = append(elements, el)
	}
	return elements
}

// --- sequence interactions ---------------------------------------------------

// interactionLine matches "N. Source -> Target.method(params)". Malformed
// lines are skipped, never errored.
var interactionLine = regexp.MustCompile(
	`^\s*\d+\.\s*([A-Za-z_][\w ]*?)\s*->\s*([A-Za-z_]\w*)\s*\.\s*([A-Za-z_]\w*)\s*\(([^)]*)\)`)

func extractInteractions(text string) []Interaction {
	body, ok := sectionBody(text, "Sequence Interactions")
	if !ok {
		return nil
	}
	var interactions []Interaction
	for _, line := range strings.Split(body, "\n") {
		m := interactionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		interactions = append(interactions, Interaction{
			Source:     strings.TrimSpace(m[1]),
			Target:     m[2],
			Method:     m[3],
			Parameters: strings.TrimSpace(m[4]),
		})
	}
	return interactions
}

// --- exception types ---------------------------------------------------------

var exceptionToken = regexp.MustCompile(`\b[A-Z][A-Za-z0-9]*Exception\b`)

func extractExceptionTypes(text string) []string {
	body, ok := sectionBody(text, "Exception Handling")
	if !ok {
		return nil
	}
	return dedupeNames(exceptionToken.FindAllString(body, -1), 0)
}
