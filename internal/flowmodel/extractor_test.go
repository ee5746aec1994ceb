package flowmodel

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractEmptyInput(t *testing.T) {
	m := Extract("")
	if len(m.FlowElements) != 0 || len(m.Interactions) != 0 ||
		len(m.InvolvedClasses) != 0 || len(m.ExecutionSteps) != 0 ||
		len(m.ExceptionTypes) != 0 {
		t.Errorf("expected empty model, got %+v", m)
	}
}

func TestExplicitClassesWinOverSuffixHeuristic(t *testing.T) {
	text := `The OrderController calls PaymentService and InventoryRepository.

**Involved Classes:** [OrderService, PaymentService]
`
	m := Extract(text)
	want := []string{"OrderService", "PaymentService"}
	if !reflect.DeepEqual(m.InvolvedClasses, want) {
		t.Errorf("expected %v, got %v", want, m.InvolvedClasses)
	}
}

func TestClassesFromRoleSuffix(t *testing.T) {
	text := `The OrderService asks PaymentGateway, then OrderService saves via OrderRepository.`
	m := Extract(text)
	want := []string{"OrderService", "PaymentGateway", "OrderRepository"}
	if !reflect.DeepEqual(m.InvolvedClasses, want) {
		t.Errorf("expected %v, got %v", want, m.InvolvedClasses)
	}
}

func TestClassesRoleSuffixCap(t *testing.T) {
	var sb strings.Builder
	for _, name := range []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta", "Iota", "Kappa"} {
		sb.WriteString(name + "Service calls. ")
	}
	m := Extract(sb.String())
	if len(m.InvolvedClasses) != 8 {
		t.Errorf("expected cap of 8, got %d: %v", len(m.InvolvedClasses), m.InvolvedClasses)
	}
}

func TestClassesFromCallSites(t *testing.T) {
	text := `First Checkout.begin(cart) runs, then Billing.charge(card) settles.`
	m := Extract(text)
	want := []string{"Checkout", "Billing"}
	if !reflect.DeepEqual(m.InvolvedClasses, want) {
		t.Errorf("expected %v, got %v", want, m.InvolvedClasses)
	}
}

func TestClassesCapitalizedFallbackSkipsStopwords(t *testing.T) {
	text := `The Checkout flow asks Billing for totals. This completes quickly.`
	m := Extract(text)
	want := []string{"Checkout", "Billing"}
	if !reflect.DeepEqual(m.InvolvedClasses, want) {
		t.Errorf("expected %v, got %v", want, m.InvolvedClasses)
	}
}

func TestExecutionStepsNumberedSection(t *testing.T) {
	text := `**Execution Steps:**
1. **Receive** the request
2. Validate payload
3) Persist the order
`
	m := Extract(text)
	want := []string{"Receive the request", "Validate payload", "Persist the order"}
	if !reflect.DeepEqual(m.ExecutionSteps, want) {
		t.Errorf("expected %v, got %v", want, m.ExecutionSteps)
	}
}

func TestExecutionStepsBulletFallbackCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString("- a bullet step\n")
	}
	m := Extract(sb.String())
	if len(m.ExecutionSteps) != 10 {
		t.Errorf("expected cap of 10 bullet steps, got %d", len(m.ExecutionSteps))
	}
}

func TestFlowLogicSection(t *testing.T) {
	text := `**Flow Logic:**
- START: Order received
- DECISION: Order exists? throw NotFoundException
- LOOP: For every line item
- PROCESS: Reserve stock
- END: Confirmation sent
- NONSENSE: skipped line
`
	m := Extract(text)
	if len(m.FlowElements) != 5 {
		t.Fatalf("expected 5 elements, got %d", len(m.FlowElements))
	}
	if m.FlowElements[0].Kind != KindStart {
		t.Errorf("expected START first, got %s", m.FlowElements[0].Kind)
	}
	d := m.FlowElements[1]
	if d.Kind != KindDecision || d.ExceptionName != "NotFoundException" {
		t.Errorf("expected decision with NotFoundException, got %+v", d)
	}
	if m.FlowElements[2].Kind != KindLoop || m.FlowElements[4].Kind != KindEnd {
		t.Errorf("unexpected kinds: %+v", m.FlowElements)
	}
}

func TestFlowLogicAbsentWithoutSection(t *testing.T) {
	m := Extract("- START: looks like flow logic but has no heading\n")
	if len(m.FlowElements) != 0 {
		t.Errorf("expected no flow elements without explicit section, got %v", m.FlowElements)
	}
}

func TestSequenceInteractions(t *testing.T) {
	text := `**Sequence Interactions:**
1. Client -> OrderService.processOrder(orderId, userId)
2. OrderService -> PaymentService.charge(amount)
3. this line is malformed and skipped
4. OrderService -> NotificationService.send()
`
	m := Extract(text)
	if len(m.Interactions) != 3 {
		t.Fatalf("expected 3 interactions, got %d", len(m.Interactions))
	}
	first := m.Interactions[0]
	if first.Source != "Client" || first.Target != "OrderService" ||
		first.Method != "processOrder" || first.Parameters != "orderId, userId" {
		t.Errorf("unexpected first interaction: %+v", first)
	}
	if m.Interactions[2].Parameters != "" {
		t.Errorf("expected empty parameters, got %q", m.Interactions[2].Parameters)
	}
}

func TestExceptionTypes(t *testing.T) {
	text := `**Exception Handling:**
Throws NotFoundException when missing, ValidationException on bad input,
and NotFoundException again for nested lookups.
`
	m := Extract(text)
	want := []string{"NotFoundException", "ValidationException"}
	if !reflect.DeepEqual(m.ExceptionTypes, want) {
		t.Errorf("expected %v, got %v", want, m.ExceptionTypes)
	}
}

func TestSectionsInAnyOrder(t *testing.T) {
	text := `**Exception Handling:** throws TimeoutException

**Flow Logic:**
- START: begin

**Involved Classes:** [CartService]
`
	m := Extract(text)
	if len(m.FlowElements) != 1 || len(m.ExceptionTypes) != 1 || len(m.InvolvedClasses) != 1 {
		t.Errorf("section order should not matter: %+v", m)
	}
}
