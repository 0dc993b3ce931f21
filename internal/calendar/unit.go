package calendar

import (
	"strconv"
	"strings"
)

// Unit is a calendar granularity, ordered from finest to coarsest.
type Unit int

const (
	Millisecond Unit = iota
	Second
	Minute
	Hour
	Day
	Month
	Year
)

var unitNames = [...]string{
	Millisecond: "millisecond",
	Second:      "second",
	Minute:      "minute",
	Hour:        "hour",
	Day:         "day",
	Month:       "month",
	Year:        "year",
}

func (u Unit) String() string {
	if u < Millisecond || u > Year {
		return "unknown"
	}
	return unitNames[u]
}

// Valid reports whether u is one of the defined units.
func (u Unit) Valid() bool {
	return u >= Millisecond && u <= Year
}

// Granularity is a unit together with a positive multiplier. Only Year
// makes use of factors larger than one (decade, century, millennium) when
// quantizing; the factor always contributes to the pixel scale.
type Granularity struct {
	Unit   Unit
	Factor int
}

// Of returns the granularity of u with factor 1.
func Of(u Unit) Granularity {
	return Granularity{Unit: u, Factor: 1}
}

// factor returns the effective factor, treating non-positive values as 1.
func (g Granularity) factor() int {
	if g.Factor < 1 {
		return 1
	}
	return g.Factor
}

func (g Granularity) String() string {
	if g.factor() == 1 {
		return g.Unit.String()
	}
	for _, e := range granularityTable {
		if e.g.Unit == g.Unit && e.g.Factor == g.Factor {
			return e.name
		}
	}
	return g.Unit.String() + "x" + strconv.Itoa(g.factor())
}

// granularityTable maps configuration names onto granularities. Order
// matters only for String, which picks the first matching name.
var granularityTable = []struct {
	name string
	g    Granularity
}{
	{"millennium", Granularity{Year, 1000}},
	{"century", Granularity{Year, 100}},
	{"decade", Granularity{Year, 10}},
	{"year", Granularity{Year, 1}},
	{"month", Granularity{Month, 1}},
	{"day", Granularity{Day, 1}},
	{"hour", Granularity{Hour, 1}},
	{"minute", Granularity{Minute, 1}},
	{"second", Granularity{Second, 1}},
	{"millisecond", Granularity{Millisecond, 1}},
}

// Lookup resolves a unit name such as "minute" or "century". Unknown names
// resolve to Millisecond with ok set to false, so callers always get a
// usable granularity.
func Lookup(name string) (g Granularity, ok bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, e := range granularityTable {
		if e.name == key {
			return e.g, true
		}
	}
	return Of(Millisecond), false
}

// Names returns the recognized unit names, coarsest first.
func Names() []string {
	out := make([]string, len(granularityTable))
	for i, e := range granularityTable {
		out[i] = e.name
	}
	return out
}

// ApproxMillis returns the nominal size of one step of u in milliseconds.
// A month is always 30 days and a year 12 such months. The value is only
// meant for deriving a pixel-to-time scale; exact arithmetic goes through
// AddUnits.
func ApproxMillis(u Unit) int64 {
	if u <= Millisecond || !u.Valid() {
		return 1
	}
	return stepRatio[u] * ApproxMillis(u-1)
}

// stepRatio is the ratio between a unit and the next finer one.
var stepRatio = [...]int64{
	Millisecond: 1,
	Second:      1000,
	Minute:      60,
	Hour:        60,
	Day:         24,
	Month:       30,
	Year:        12,
}
