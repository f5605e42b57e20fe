package caldate

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDaysSinceIgnoresDaylightSavingShift(t *testing.T) {
	t.Parallel()

	location, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 2026-03-29 is the spring-forward day in Europe/Berlin.
	before := FromTime(time.Date(2026, time.March, 28, 23, 30, 0, 0, location), location)
	after := FromTime(time.Date(2026, time.March, 30, 0, 15, 0, 0, location), location)

	if got := after.DaysSince(before); got != 2 {
		t.Fatalf("expected 2 days across DST change, got %d", got)
	}
}

func TestFromTimeUsesLocationCalendarDay(t *testing.T) {
	t.Parallel()

	location := time.FixedZone("UTC+3", 3*60*60)
	instant := time.Date(2026, time.February, 21, 22, 30, 0, 0, time.UTC)

	if got := FromTime(instant, location).String(); got != "2026-02-22" {
		t.Fatalf("expected local day 2026-02-22, got %s", got)
	}
	if got := FromTime(instant, nil).String(); got != "2026-02-21" {
		t.Fatalf("expected UTC day 2026-02-21, got %s", got)
	}
}

func TestAddDaysCrossesMonthAndLeapDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		start string
		days  int
		want  string
	}{
		{start: "2024-02-28", days: 1, want: "2024-02-29"},
		{start: "2024-02-28", days: 2, want: "2024-03-01"},
		{start: "2025-12-31", days: 1, want: "2026-01-01"},
		{start: "2026-03-01", days: -1, want: "2026-02-28"},
	}

	for _, testCase := range cases {
		got := MustParse(testCase.start).AddDays(testCase.days).String()
		if got != testCase.want {
			t.Fatalf("%s%+d: expected %s, got %s", testCase.start, testCase.days, testCase.want, got)
		}
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "2026-13-01", "2026-02-30", "21/02/2026", "2026-2-1"} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestDateJSONAndSQLRoundTrip(t *testing.T) {
	t.Parallel()

	day := MustParse("2026-02-10")
	encoded, err := json.Marshal(struct {
		Day  Date  `json:"day"`
		Last *Date `json:"last"`
	}{Day: day})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `{"day":"2026-02-10","last":null}` {
		t.Fatalf("unexpected json: %s", encoded)
	}

	value, err := day.Value()
	if err != nil || value != "2026-02-10" {
		t.Fatalf("unexpected driver value %v (%v)", value, err)
	}

	var scanned Date
	if err := scanned.Scan("2026-02-10 00:00:00+00:00"); err != nil {
		t.Fatalf("scan timestamp text: %v", err)
	}
	if !scanned.Equal(day) {
		t.Fatalf("expected %s, got %s", day, scanned)
	}

	if value, _ := (Date{}).Value(); value != nil {
		t.Fatalf("expected zero date to store NULL, got %v", value)
	}
}
