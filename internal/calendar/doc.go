// Package calendar implements the unit arithmetic behind a scrollable
// calendar: approximate unit magnitudes for pixel scaling, era-aware year
// access, calendar-correct unit addition, quantization onto a unit and the
// field cascade used while a gesture is in progress.
//
// # Instants
//
// An Instant is a count of milliseconds since the Unix epoch. It is always
// interpreted in UTC; zones and locales only matter when an instant is
// formatted for display (see package format).
//
// # Era-signed years
//
// Years are proleptic Gregorian and signed: year 1 is 1 AD, year 0 is 1 BC,
// year -1 is 2 BC and so on. This is the numbering time.Time already uses,
// so EraYear is the UTC year of the instant.
//
// # Purity
//
// Every function in this package is a pure Instant → Instant transform. Any
// broken-down calendar representation is local to the call.
package calendar
