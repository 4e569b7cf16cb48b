package source

import (
	"testing"
	"time"
)

func TestParseTimeISO(t *testing.T) {
	cases := []struct {
		in   string
		want *time.Time
	}{
		{"2026-09-12T19:30:00Z", timeRef(2026, 9, 12, 19, 30)},
		{"2026-09-12T19:30:00", timeRef(2026, 9, 12, 19, 30)},
		{"2026-09-12", timeRef(2026, 9, 12, 0, 0)},
		{"", nil},
		{"12 September 2026", nil},
	}
	for _, tc := range cases {
		got := parseTimeISO(tc.in)
		if (got == nil) != (tc.want == nil) {
			t.Fatalf("parseTimeISO(%q) = %v want %v", tc.in, got, tc.want)
		}
		if got != nil && !got.Equal(*tc.want) {
			t.Fatalf("parseTimeISO(%q) = %v want %v", tc.in, got, tc.want)
		}
	}
}

func timeRef(year int, month time.Month, day, hour, min int) *time.Time {
	t := time.Date(year, month, day, hour, min, 0, 0, time.UTC)
	return &t
}

func TestFloatFromString(t *testing.T) {
	if got := floatFromString("51.5432"); got == nil || *got != 51.5432 {
		t.Fatalf("got %v", got)
	}
	if got := floatFromString("0"); got != nil {
		t.Fatalf("zero should yield nil, got %v", *got)
	}
	if got := floatFromString("north"); got != nil {
		t.Fatalf("junk should yield nil, got %v", *got)
	}
	if got := floatFromString(""); got != nil {
		t.Fatalf("empty should yield nil, got %v", *got)
	}
}

func TestMapCategory(t *testing.T) {
	table := map[string]string{"music": "music", "arts & theatre": "theatre"}

	if got := mapCategory(table, "Arts & Theatre", "other"); got != "theatre" {
		t.Fatalf("mapped: got %q", got)
	}
	if got := mapCategory(table, "Undefined", "other"); got != "other" {
		t.Fatalf("fallback: got %q", got)
	}
	if got := mapCategory(table, "Sports", ""); got != "sports" {
		t.Fatalf("passthrough: got %q", got)
	}
}

func TestDedupeCategories(t *testing.T) {
	in := []string{"music", "", "music", "comedy", "theatre", "arts"}
	got := dedupeCategories(in, 3)
	if len(got) != 3 {
		t.Fatalf("len=%d want 3", len(got))
	}
	if got[0] != "music" || got[1] != "comedy" || got[2] != "theatre" {
		t.Fatalf("got %v", got)
	}
}
