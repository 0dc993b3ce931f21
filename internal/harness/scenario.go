package harness

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/timeslider/internal/calendar"
	"github.com/roach88/timeslider/internal/config"
	"github.com/roach88/timeslider/internal/dispatch"
)

// Scenario is a scripted run against a set of sliders.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Start is the initial time of every slider, as RFC 3339 or as
	// milliseconds since the epoch.
	Start string `yaml:"start"`

	// SessionPrefix prefixes the session tokens. Defaults to "s".
	SessionPrefix string `yaml:"session_prefix,omitempty"`

	// Settle controls whether flings still running after the last step are
	// run to completion. Defaults to true.
	Settle *bool `yaml:"settle,omitempty"`

	// Config declares the sliders and groups.
	Config config.File `yaml:",inline"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one input event.
type Step struct {
	// Action is the event type, e.g. "press" or "set_time".
	Action string `yaml:"action"`

	// Target names a slider or group. Optional for tick.
	Target string `yaml:"target,omitempty"`

	// DX and DY are the drag distance in pixels.
	DX float64 `yaml:"dx,omitempty"`
	DY float64 `yaml:"dy,omitempty"`

	// VX and VY are the fling velocity in pixels per second.
	VX float64 `yaml:"vx,omitempty"`
	VY float64 `yaml:"vy,omitempty"`

	// Time is the new time of a set_time step.
	Time string `yaml:"time,omitempty"`

	// Wait advances the frame clock before the step.
	Wait time.Duration `yaml:"wait,omitempty"`

	// ExpectError is the dispatch error code this step must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the outcome of a run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_time": target's time equals Time
	// - "unit_name": target's active unit name equals Unit
	// - "label": target slider's label equals Label
	// - "notification_count": Count notifications match Kind and Source
	// - "notification_order": Kinds appear in order
	Type string `yaml:"type"`

	Target string `yaml:"target,omitempty"`
	Time   string `yaml:"time,omitempty"`
	Unit   string `yaml:"unit,omitempty"`
	Label  string `yaml:"label,omitempty"`

	// Kind and Source filter notifications. Empty matches all.
	Kind   string `yaml:"kind,omitempty"`
	Source string `yaml:"source,omitempty"`

	Count int      `yaml:"count,omitempty"`
	Kinds []string `yaml:"kinds,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalTime         = "final_time"
	AssertUnitName          = "unit_name"
	AssertLabel             = "label"
	AssertNotificationCount = "notification_count"
	AssertNotificationOrder = "notification_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	scenario.Config.Normalize()

	return &scenario, nil
}

// ParseInstant accepts RFC 3339 with optional fractional seconds, or a
// signed count of milliseconds since the epoch for dates outside the
// range RFC 3339 can express.
func ParseInstant(s string) (calendar.Instant, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return calendar.FromTime(t), nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want RFC 3339 or milliseconds", s)
	}
	return calendar.Instant(ms), nil
}

func (s *Scenario) settle() bool {
	return s.Settle == nil || *s.Settle
}

func (s *Scenario) sessionPrefix() string {
	if s.SessionPrefix == "" {
		return "s"
	}
	return s.SessionPrefix
}

// event converts the step to a dispatch event.
func (st Step) event() (dispatch.Event, error) {
	typ, err := dispatch.ParseEventType(st.Action)
	if err != nil {
		return dispatch.Event{}, err
	}
	ev := dispatch.Event{Type: typ, Target: st.Target}
	switch typ {
	case dispatch.EventDrag:
		ev.DX, ev.DY = st.DX, st.DY
	case dispatch.EventFling:
		ev.DX, ev.DY = st.VX, st.VY
	case dispatch.EventSetTime:
		t, err := ParseInstant(st.Time)
		if err != nil {
			return dispatch.Event{}, err
		}
		ev.Time = t
	}
	return ev, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := ParseInstant(s.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	if len(s.Config.Sliders) == 0 {
		return fmt.Errorf("sliders list is required and must be non-empty")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if _, err := step.event(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if step.Target == "" && step.Action != "tick" {
			return fmt.Errorf("steps[%d]: target is required for %s", i, step.Action)
		}
		if step.Action == "set_time" && step.Time == "" {
			return fmt.Errorf("steps[%d]: time is required for set_time", i)
		}
		if step.Wait < 0 {
			return fmt.Errorf("steps[%d]: wait must be non-negative", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalTime:
		if a.Target == "" {
			return fmt.Errorf("assertions[%d]: target is required for final_time", index)
		}
		if _, err := ParseInstant(a.Time); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertUnitName:
		if a.Target == "" {
			return fmt.Errorf("assertions[%d]: target is required for unit_name", index)
		}
	case AssertLabel:
		if a.Target == "" {
			return fmt.Errorf("assertions[%d]: target is required for label", index)
		}
	case AssertNotificationCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for notification_count", index)
		}
	case AssertNotificationOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for notification_order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
