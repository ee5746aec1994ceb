package analysis

import (
	"fmt"
	"strings"

	"github.com/omarselim/codeviz/internal/llm"
)

// systemPrompt instructs the model to emit the headed sections the flow
// model extractor understands. The format contract lives here; the extractor
// stays forgiving about whatever actually comes back.
const systemPrompt = `You are a senior engineer describing the execution flow of one method.
Structure your answer with these bold markdown sections, in this order,
omitting any section you have nothing for:

**Involved Classes:** [ClassA, ClassB, ...]

**Execution Steps:**
1. first step
2. second step

**Flow Logic:**
- START: entry condition
- DECISION: question? throw SomeException
- LOOP: what is repeated
- PROCESS: work done
- END: exit condition

**Sequence Interactions:**
1. Client -> ClassA.method(params)
2. ClassA -> ClassB.method(params)

**Exception Handling:**
which exceptions are thrown and when

Keep steps short. Use the exact prefixes shown. Do not wrap the answer in a
code fence.`

// buildMessages assembles the conversation for one flow description request.
func buildMessages(className, methodName, context string) []llm.Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Describe the execution flow of %s.%s.", orUnknown(className), orUnknown(methodName))
	if context != "" {
		sb.WriteString("\n\nRelevant context:\n")
		sb.WriteString(context)
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: sb.String()},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
