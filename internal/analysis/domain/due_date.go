package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date format accepted for due dates.
const DateLayout = "2006-01-02"

// DueDate holds a due date supplied either as a calendar date or as the raw
// string from a request. String forms are parsed when the date is resolved.
type DueDate struct {
	date time.Time
	raw  string
	set  bool
}

// DateOf wraps a calendar date. Only the year, month and day of t are kept.
func DateOf(t time.Time) DueDate {
	y, m, d := t.Date()
	return DueDate{date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), set: true}
}

// DueDateFromString wraps an unparsed date string.
func DueDateFromString(s string) DueDate {
	return DueDate{raw: s, set: s != ""}
}

// ParseDate strictly parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not in YYYY-MM-DD format", s)
	}
	return t, nil
}

// IsZero reports whether no due date was supplied.
func (d DueDate) IsZero() bool {
	return !d.set
}

// Resolve returns the calendar date at UTC midnight, parsing the string form if needed.
func (d DueDate) Resolve() (time.Time, error) {
	if !d.set {
		return time.Time{}, NewFieldError("due_date", msgRequired)
	}
	if d.raw == "" {
		return d.date, nil
	}
	t, err := ParseDate(d.raw)
	if err != nil {
		return time.Time{}, NewFieldError("due_date", msgInvalidDate)
	}
	return t, nil
}

// String returns the date in YYYY-MM-DD form, or the raw input when it was never parsed.
func (d DueDate) String() string {
	switch {
	case !d.set:
		return ""
	case d.raw != "":
		return d.raw
	default:
		return d.date.Format(DateLayout)
	}
}

// MarshalJSON encodes the date as a string, or null when unset.
func (d DueDate) MarshalJSON() ([]byte, error) {
	if !d.set {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a string or null. Parsing is deferred to Resolve so
// malformed input surfaces as a validation failure rather than a decode error.
func (d *DueDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = DueDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = DueDate{raw: string(data), set: true}
		return nil
	}
	*d = DueDateFromString(s)
	return nil
}

// MarshalText lets DueDate appear in TOML and other text encodings.
func (d DueDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText is the text counterpart of UnmarshalJSON.
func (d *DueDate) UnmarshalText(text []byte) error {
	*d = DueDateFromString(string(text))
	return nil
}
