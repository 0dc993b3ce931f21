// Package format renders calendar instants for display.
//
// Patterns use the familiar date-pattern letters:
//
//	G     era (AD, BC)
//	y     year of era; yy is the last two digits
//	M     month; MMM short name, MMMM full name
//	d     day of month
//	E     weekday; EEEE full name
//	H h   hour of day (0-23), hour of half day (1-12)
//	m s   minute, second
//	S     millisecond
//	a     AM/PM marker
//
// A run of the same letter selects the minimum width for numbers. Text in
// single quotes is copied verbatim and '' is a literal quote. Other
// characters are copied as they are. Formatting never changes the instant.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/roach88/timeslider/internal/calendar"
)

// Formatter renders instants in one time zone and language.
type Formatter struct {
	zone    *time.Location
	tag     language.Tag
	printer *message.Printer
	names   monday.Locale
}

// New returns a formatter. A nil zone means UTC.
func New(zone *time.Location, tag language.Tag) *Formatter {
	if zone == nil {
		zone = time.UTC
	}
	return &Formatter{zone: zone, tag: tag, printer: newPrinter(tag), names: nameLocale(tag)}
}

// Zone returns the formatter's time zone.
func (f *Formatter) Zone() *time.Location { return f.zone }

// Language returns the formatter's language tag.
func (f *Formatter) Language() language.Tag { return f.tag }

// LoadZone resolves an IANA zone name. The empty name is UTC.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

// ParseLocale resolves a BCP 47 tag. The empty string is English.
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return language.English, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", s, err)
	}
	return tag, nil
}

// Format renders i according to pattern.
func (f *Formatter) Format(i calendar.Instant, pattern string) string {
	t := i.Time().In(f.zone)
	var b strings.Builder
	for pos := 0; pos < len(pattern); {
		c := pattern[pos]
		switch {
		case c == '\'':
			lit, next := quoted(pattern, pos)
			b.WriteString(lit)
			pos = next
		case isLetter(c):
			n := run(pattern, pos)
			b.WriteString(f.field(t, c, n))
			pos += n
		default:
			b.WriteByte(c)
			pos++
		}
	}
	return b.String()
}

func (f *Formatter) field(t time.Time, c byte, n int) string {
	year, bc := calendar.YearOfEra(t.Year())
	switch c {
	case 'G':
		if bc {
			return localName(f.printer, tableEra, 0)
		}
		return localName(f.printer, tableEra, 1)
	case 'y':
		if n == 2 {
			return f.num(year%100, 2)
		}
		return f.num(year, n)
	case 'M':
		switch {
		case n >= 4:
			return monday.Format(t, "January", f.names)
		case n == 3:
			return monday.Format(t, "Jan", f.names)
		}
		return f.num(int(t.Month()), n)
	case 'd':
		return f.num(t.Day(), n)
	case 'E':
		if n >= 4 {
			return monday.Format(t, "Monday", f.names)
		}
		return monday.Format(t, "Mon", f.names)
	case 'H':
		return f.num(t.Hour(), n)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return f.num(h, n)
	case 'm':
		return f.num(t.Minute(), n)
	case 's':
		return f.num(t.Second(), n)
	case 'S':
		return f.num(t.Nanosecond()/int(time.Millisecond), n)
	case 'a':
		if t.Hour() < 12 {
			return localName(f.printer, tableAmPm, 0)
		}
		return localName(f.printer, tableAmPm, 1)
	}
	return strings.Repeat(string(c), n)
}

func (f *Formatter) num(v, width int) string {
	return f.printer.Sprintf("%v", number.Decimal(v, number.MinIntegerDigits(width), number.NoSeparator()))
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func run(pattern string, pos int) int {
	n := 1
	for pos+n < len(pattern) && pattern[pos+n] == pattern[pos] {
		n++
	}
	return n
}

// quoted reads a quoted literal starting at pattern[pos] == '\''. It returns
// the literal text and the position after the closing quote. An unterminated
// literal runs to the end of the pattern.
func quoted(pattern string, pos int) (string, int) {
	if pos+1 < len(pattern) && pattern[pos+1] == '\'' {
		return "'", pos + 2
	}
	var b strings.Builder
	i := pos + 1
	for i < len(pattern) {
		if pattern[i] == '\'' {
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			return b.String(), i + 1
		}
		b.WriteByte(pattern[i])
		i++
	}
	return b.String(), i
}
