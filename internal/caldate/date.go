// Package caldate provides a calendar date value without time-of-day or zone.
//
// Day arithmetic runs on a days-since-epoch ordinal, so differences are exact
// regardless of daylight-saving transitions in the caller's location.
package caldate

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid calendar date")

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New normalises out-of-range components the same way time.Date does.
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC), time.UTC)
}

func FromTime(value time.Time, location *time.Location) Date {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return Date{Year: year, Month: month, Day: day}
}

func Today(now time.Time, location *time.Location) Date {
	return FromTime(now, location)
}

func Parse(raw string) (Date, error) {
	parsed, err := time.ParseInLocation(Layout, raw, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return FromTime(parsed, time.UTC), nil
}

func MustParse(raw string) Date {
	day, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return day
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight of the date in location.
func (d Date) Time(location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, location)
}

func (d Date) ordinal() int64 {
	return d.Time(time.UTC).Unix() / 86400
}

func (d Date) AddDays(days int) Date {
	return New(d.Year, d.Month, d.Day+days)
}

// DaysSince returns d - other in whole days; negative when d is earlier.
func (d Date) DaysSince(other Date) int {
	return int(d.ordinal() - other.ordinal())
}

func (d Date) Before(other Date) bool {
	return d.ordinal() < other.ordinal()
}

func (d Date) After(other Date) bool {
	return d.ordinal() > other.ordinal()
}

func (d Date) Equal(other Date) bool {
	return d.ordinal() == other.ordinal()
}

func (d Date) Compare(other Date) int {
	switch {
	case d.Before(other):
		return -1
	case d.After(other):
		return 1
	default:
		return 0
	}
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Date) Scan(value any) error {
	switch typed := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case string:
		return d.scanString(typed)
	case []byte:
		return d.scanString(string(typed))
	case time.Time:
		*d = FromTime(typed, time.UTC)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidDate, value)
	}
}

func (d *Date) scanString(raw string) error {
	if raw == "" {
		*d = Date{}
		return nil
	}
	// SQLite drivers may hand back a full timestamp for DATE-affinity columns.
	if len(raw) > len(Layout) {
		raw = raw[:len(Layout)]
	}
	return d.UnmarshalText([]byte(raw))
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}
