// Package calendar holds the date-only type used for subscription boundaries
// and the clock that decides what "today" is.
package calendar

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const (
	// ISOLayout is the storage and wire format
	ISOLayout = "2006-01-02"
	// DisplayLayout is the dd/MM/yyyy format shown to operators and clients
	DisplayLayout = "02/01/2006"
)

// Date is a calendar day without a time component.
// The zero value means "no date".
type Date struct {
	t time.Time
}

// NewDate builds a Date from its parts. Out of range values are normalized
// the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Parse reads a YYYY-MM-DD date. A full RFC3339 timestamp is accepted too and
// only its date part is kept.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(ISOLayout) && s[len(ISOLayout)] == 'T' {
		s = s[:len(ISOLayout)]
	}
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return Date{}, errors.Wrapf(err, "invalid date %q", s)
	}
	return Date{t: t}, nil
}

// MustParse is Parse for literals; it panics on bad input
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DaysBetween returns a - b in whole calendar days.
// Positive when a is after b. Dates sit at UTC midnight, so the Unix seconds
// differ by whole days at any distance.
func DaysBetween(a, b Date) int {
	return int((a.t.Unix() - b.t.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func (d Date) IsZero() bool { return d.t.IsZero() }

// AddDays returns the date n days later (or earlier for negative n)
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// Compare returns -1, 0 or +1
func (d Date) Compare(o Date) int {
	return d.t.Compare(o.t)
}

// Time returns midnight UTC of the day
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISOLayout)
}

// Display formats the date as dd/MM/yyyy
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DisplayLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when zero
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return errors.Newf("invalid date %s", s)
	}
	parsed, err := Parse(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores the date as a YYYY-MM-DD string
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.String())
}

// UnmarshalBSONValue reads either a YYYY-MM-DD string or a BSON datetime
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		s := raw.StringValue()
		if s == "" {
			*d = Date{}
			return nil
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*d = parsed
	case bsontype.DateTime:
		*d = DateOf(raw.Time().UTC())
	case bsontype.Null:
		*d = Date{}
	default:
		return errors.Newf("cannot decode %s into calendar.Date", t)
	}
	return nil
}
