// Package cycle holds the ordered list of units a scrollable steps through
// and the index of the one currently in use.
package cycle

import (
	"github.com/roach88/timeslider/internal/calendar"
)

// DefaultUnits is the unit list used when none is configured.
var DefaultUnits = []string{"second", "minute", "hour"}

// defaultFormats maps a unit key to the pattern used when no format list is
// configured.
var defaultFormats = map[string]string{
	"millennium":  "yyyy G",
	"century":     "yyyy G",
	"decade":      "yyyy",
	"year":        "yyyy",
	"month":       "MMM yyyy",
	"day":         "EEE d MMM",
	"hour":        "HH",
	"minute":      "HH:mm",
	"second":      "HH:mm:ss",
	"millisecond": "HH:mm:ss.SSS",
}

// UnitSpec is one entry of a cycle.
type UnitSpec struct {
	calendar.Granularity

	// Key is the configured unit name, e.g. "decade".
	Key string
	// Name is the display name reported to hosts.
	Name string
	// Format is the date pattern used to render items for this unit.
	Format string
}

// Cycle is an ordered sequence of unit specs with a current index.
// The index always satisfies 0 <= index < Len() for a non-empty cycle.
type Cycle struct {
	specs []UnitSpec
	index int
}

// New returns a cycle over specs positioned at the first entry.
func New(specs ...UnitSpec) *Cycle {
	return &Cycle{specs: append([]UnitSpec(nil), specs...)}
}

// Build resolves unit keys into a cycle. Names and formats are matched to
// units by index modulo their own length, so shorter lists repeat. An empty
// names list falls back to the unit keys and an empty formats list to a
// per-unit default pattern. Unknown keys resolve to milliseconds.
func Build(units, names, formats []string) *Cycle {
	if len(units) == 0 {
		units = DefaultUnits
	}
	specs := make([]UnitSpec, len(units))
	for i, key := range units {
		g, _ := calendar.Lookup(key)
		spec := UnitSpec{Granularity: g, Key: key, Name: key, Format: defaultFormat(g)}
		if len(names) > 0 {
			spec.Name = names[i%len(names)]
		}
		if len(formats) > 0 {
			spec.Format = formats[i%len(formats)]
		}
		specs[i] = spec
	}
	return &Cycle{specs: specs}
}

func defaultFormat(g calendar.Granularity) string {
	if f, ok := defaultFormats[g.String()]; ok {
		return f
	}
	return defaultFormats[g.Unit.String()]
}

// Len returns the number of entries.
func (c *Cycle) Len() int { return len(c.specs) }

// Index returns the current position.
func (c *Cycle) Index() int { return c.index }

// Specs returns a copy of all entries.
func (c *Cycle) Specs() []UnitSpec {
	return append([]UnitSpec(nil), c.specs...)
}

// Current returns the active entry. ok is false for an empty cycle.
func (c *Cycle) Current() (UnitSpec, bool) {
	if len(c.specs) == 0 {
		return UnitSpec{}, false
	}
	return c.specs[c.index], true
}

// Next returns the entry Advance would move to, wrapping at the end.
func (c *Cycle) Next() (UnitSpec, bool) {
	if len(c.specs) == 0 {
		return UnitSpec{}, false
	}
	return c.specs[(c.index+1)%len(c.specs)], true
}

// Advance moves to the next entry and returns it.
func (c *Cycle) Advance() (UnitSpec, bool) {
	if len(c.specs) == 0 {
		return UnitSpec{}, false
	}
	c.index = (c.index + 1) % len(c.specs)
	return c.specs[c.index], true
}

// Reset moves back to the first entry.
func (c *Cycle) Reset() {
	c.index = 0
}
