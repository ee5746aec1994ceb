package flowmodel

// ElementKind identifies the structural role of a flow-logic element.
type ElementKind string

const (
	KindStart    ElementKind = "START"
	KindDecision ElementKind = "DECISION"
	KindLoop     ElementKind = "LOOP"
	KindProcess  ElementKind = "PROCESS"
	KindEnd      ElementKind = "END"
)

// FlowElement is one structured step parsed from an explicit "Flow Logic" section.
type FlowElement struct {
	Kind        ElementKind `json:"kind"`
	Description string      `json:"description"`
	// ExceptionName is set only for decisions whose text carries a
	// "throw <Name>Exception" clause.
	ExceptionName string `json:"exception_name,omitempty"`
}

// Interaction is one explicit source -> target.method(params) call parsed
// from a "Sequence Interactions" section.
type Interaction struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Method     string `json:"method"`
	Parameters string `json:"parameters"`
}

// FlowModel is the structured intermediate representation extracted from a
// raw analysis text. Every field is independently optional: consumers must
// cope with a model where all fields are empty.
type FlowModel struct {
	FlowElements    []FlowElement `json:"flow_elements"`
	Interactions    []Interaction `json:"interactions"`
	InvolvedClasses []string      `json:"involved_classes"`
	ExecutionSteps  []string      `json:"execution_steps"`
	ExceptionTypes  []string      `json:"exception_types"`
}
