package handler

import "testing"

func TestParseOrder(t *testing.T) {
	allow := map[string]string{
		"start_date":       "start_date",
		"popularity_score": "popularity_score",
	}

	cases := []struct {
		in   string
		want string
	}{
		{"start_date", "start_date"},
		{"Popularity_Score", "popularity_score"},
		{"  start_date  ", "start_date"},
		{"", ""},
		{"venue_name", ""},
		{"start_date; DROP TABLE events", ""},
		{"(SELECT pg_sleep(10))--", ""},
	}
	for _, tc := range cases {
		if got := parseOrder(tc.in, allow); got != tc.want {
			t.Fatalf("parseOrder(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}
