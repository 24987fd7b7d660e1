// Package month provides a calendar month value type keyed as "YYYY-MM".
//
// Months are the unit of income, reconciliation and analytics. The zero
// Month is invalid; use Parse or Of to build one.
package month

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Layout is the canonical text form of a Month.
const Layout = "2006-01"

// ErrInvalid is returned when a value cannot be read as a month.
var ErrInvalid = errors.New("invalid month, expected YYYY-MM")

// Month is a calendar month in UTC.
type Month struct {
	Year  int
	Month time.Month
}

// Parse reads a "YYYY-MM" string.
func Parse(s string) (Month, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Month{}, ErrInvalid
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Month {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Of returns the month containing t, evaluated in UTC.
func Of(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

// Current returns the month containing time.Now().
func Current() Month {
	return Of(time.Now())
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the exclusive upper bound: midnight UTC on the first day of the next month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Days returns the number of calendar days in the month.
func (m Month) Days() int {
	return m.End().AddDate(0, 0, -1).Day()
}

// Day returns midnight UTC on day d of the month.
func (m Month) Day(d int) time.Time {
	return time.Date(m.Year, m.Month, d, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(m.Start()) && t.Before(m.End())
}

// Prev returns the month before m.
func (m Month) Prev() Month {
	return Of(m.Start().AddDate(0, -1, 0))
}

// String returns the "YYYY-MM" form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalJSON encodes the month as a "YYYY-MM" string.
func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a "YYYY-MM" string.
func (m *Month) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalid
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer so months are stored as varchar(7).
func (m Month) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner.
func (m *Month) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*m = Month{}
		return nil
	default:
		return fmt.Errorf("month: cannot scan %T", src)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
