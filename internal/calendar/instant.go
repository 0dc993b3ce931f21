package calendar

import "time"

// Instant is a point in time in milliseconds since the Unix epoch (UTC).
type Instant int64

// FromTime converts t to an Instant.
func FromTime(t time.Time) Instant {
	return Instant(t.UnixMilli())
}

// Time returns the instant as a UTC time.Time.
func (i Instant) Time() time.Time {
	return time.UnixMilli(int64(i)).UTC()
}

// Millis returns the raw millisecond count.
func (i Instant) Millis() int64 {
	return int64(i)
}

func (i Instant) String() string {
	return i.Time().Format("2006-01-02T15:04:05.000Z07:00")
}

// fields is a broken-down UTC calendar representation indexed by Unit.
// Month and Day are 1-based.
type fields [Year + 1]int

// minField holds the smallest legal value of every field.
var minField = fields{
	Millisecond: 0,
	Second:      0,
	Minute:      0,
	Hour:        0,
	Day:         1,
	Month:       1,
	Year:        0,
}

func split(i Instant) fields {
	t := i.Time()
	return fields{
		Millisecond: t.Nanosecond() / int(time.Millisecond),
		Second:      t.Second(),
		Minute:      t.Minute(),
		Hour:        t.Hour(),
		Day:         t.Day(),
		Month:       int(t.Month()),
		Year:        t.Year(),
	}
}

// join rebuilds an instant. Out-of-range fields are normalized the way
// time.Date does it, so February 29 of a common year becomes March 1.
func (f fields) join() Instant {
	return FromTime(time.Date(
		f[Year], time.Month(f[Month]), f[Day],
		f[Hour], f[Minute], f[Second], f[Millisecond]*int(time.Millisecond),
		time.UTC,
	))
}

// EraYear returns the signed proleptic year of i: positive for AD, 0 for
// 1 BC, -1 for 2 BC.
func EraYear(i Instant) int {
	return i.Time().Year()
}

// IsBC reports whether i lies in the BC era.
func IsBC(i Instant) bool {
	return EraYear(i) <= 0
}

// SetEraYear replaces the year of i, keeping every other field.
func SetEraYear(i Instant, year int) Instant {
	f := split(i)
	f[Year] = year
	return f.join()
}

// YearOfEra converts a signed year into the pair shown to people, e.g.
// -3 becomes (4, true) for 4 BC.
func YearOfEra(year int) (n int, bc bool) {
	if year > 0 {
		return year, false
	}
	return 1 - year, true
}

// FloorYear rounds year down to a multiple of factor. Non-positive years are
// shifted by factor-1 before the truncating division so that BC years land
// on the lower boundary as well.
func FloorYear(year, factor int) int {
	if factor <= 1 {
		return year
	}
	if year <= 0 {
		year -= factor - 1
	}
	return year / factor * factor
}

// AddUnits adds count steps of u to i with calendar-correct field
// arithmetic. Month and year steps pin the day of month to the length of the
// target month. For Year steps on a BC instant the sign of count is
// inverted first.
func AddUnits(i Instant, u Unit, count int) Instant {
	switch u {
	case Year:
		if IsBC(i) {
			count = -count
		}
		return addMonths(i, 12*count)
	case Month:
		return addMonths(i, count)
	default:
		// Units up to a day have a fixed length in UTC.
		return i + Instant(int64(count)*ApproxMillis(u))
	}
}

func addMonths(i Instant, n int) Instant {
	f := split(i)
	total := f[Month] - 1 + n
	f[Year] += floorDiv(total, 12)
	f[Month] = total - floorDiv(total, 12)*12 + 1
	if d := daysIn(f[Year], f[Month]); f[Day] > d {
		f[Day] = d
	}
	return f.join()
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Quantize coarsens i onto g: every field finer than g.Unit is reset to its
// minimum and, for Year, the year is floored to a multiple of g.Factor.
// Quantize is idempotent.
func Quantize(i Instant, g Granularity) Instant {
	f := split(i)
	for u := Millisecond; u < g.Unit && u < Year; u++ {
		f[u] = minField[u]
	}
	if g.Unit == Year {
		f[Year] = FloorYear(f[Year], g.factor())
	}
	return f.join()
}

// Cascade merges two instants field by field: fields coarser than or equal
// to g.Unit come from src, finer ones from dst. For Year the copied year is
// floored to g.Factor as in Quantize. This is how a continuous gesture
// position is folded into the discrete value.
func Cascade(dst, src Instant, g Granularity) Instant {
	out := split(dst)
	from := split(src)
	for u := Year; u >= g.Unit && u >= Millisecond; u-- {
		out[u] = from[u]
	}
	if g.Unit == Year {
		out[Year] = FloorYear(out[Year], g.factor())
	}
	return out.join()
}
