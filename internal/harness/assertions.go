package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/timeslider/internal/config"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Notifications for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nNotifications:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s %s\n", event.Seq, event.Kind, event.Source, event.Time)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages.
func EvaluateAssertions(result *Result, assertions []Assertion, tree *config.Tree) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a, tree); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion, tree *config.Tree) error {
	switch a.Type {
	case AssertFinalTime:
		return assertFinalTime(tree, a)
	case AssertUnitName:
		return assertUnitName(tree, a)
	case AssertLabel:
		return assertLabel(tree, a)
	case AssertNotificationCount:
		return assertNotificationCount(result.Notifications(), a)
	case AssertNotificationOrder:
		return assertNotificationOrder(result.Notifications(), a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertFinalTime(tree *config.Tree, a Assertion) error {
	target, ok := tree.Lookup(a.Target)
	if !ok {
		return fmt.Errorf("unknown target %q", a.Target)
	}
	want, err := ParseInstant(a.Time)
	if err != nil {
		return err
	}
	if got := target.Time(); got != want {
		return &AssertionError{
			Type:     AssertFinalTime,
			Expected: fmt.Sprintf("%s at %s", a.Target, want),
			Actual:   got.String(),
		}
	}
	return nil
}

func assertUnitName(tree *config.Tree, a Assertion) error {
	target, ok := tree.Lookup(a.Target)
	if !ok {
		return fmt.Errorf("unknown target %q", a.Target)
	}
	if got := target.CurrentScrollUnitName(); got != a.Unit {
		return &AssertionError{
			Type:     AssertUnitName,
			Expected: fmt.Sprintf("%s on unit %q", a.Target, a.Unit),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

func assertLabel(tree *config.Tree, a Assertion) error {
	s, ok := tree.Sliders[a.Target]
	if !ok {
		return fmt.Errorf("unknown slider %q", a.Target)
	}
	if got := s.Label(); got != a.Label {
		return &AssertionError{
			Type:     AssertLabel,
			Expected: fmt.Sprintf("%s labelled %q", a.Target, a.Label),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

func matches(e TraceEvent, a Assertion) bool {
	return (a.Kind == "" || e.Kind == a.Kind) && (a.Source == "" || e.Source == a.Source)
}

// assertNotificationCount checks that exactly Count notifications match
// the assertion's kind and source.
func assertNotificationCount(notes []TraceEvent, a Assertion) error {
	count := 0
	for _, e := range notes {
		if matches(e, a) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertNotificationCount,
			Expected: fmt.Sprintf("%d notifications (kind=%q source=%q)", a.Count, a.Kind, a.Source),
			Actual:   fmt.Sprintf("%d notifications", count),
			Trace:    notes,
		}
	}
	return nil
}

// assertNotificationOrder checks that the kinds appear in order among the
// notifications from Source. Other notifications may come in between.
func assertNotificationOrder(notes []TraceEvent, a Assertion) error {
	next := 0
	for _, e := range notes {
		if next == len(a.Kinds) {
			break
		}
		if (a.Source == "" || e.Source == a.Source) && e.Kind == a.Kinds[next] {
			next++
		}
	}
	if next < len(a.Kinds) {
		return &AssertionError{
			Type:     AssertNotificationOrder,
			Expected: fmt.Sprintf("notifications in order: %v", a.Kinds),
			Actual:   fmt.Sprintf("matched %d of %d, missing %s", next, len(a.Kinds), a.Kinds[next]),
			Trace:    notes,
		}
	}
	return nil
}
