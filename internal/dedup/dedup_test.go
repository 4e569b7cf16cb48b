package dedup

import (
	"testing"
)

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"Coldplay", "Coldplay", 1.0},
		{"Coldplay", "coldplay", 1.0},
		{"  Coldplay  ", "coldplay", 1.0},
		{"abcd", "abce", 0.75},
		{"abcd", "", 0.0},
	}
	for _, tc := range cases {
		if got := Similarity(tc.a, tc.b); got != tc.want {
			t.Fatalf("Similarity(%q, %q) = %v want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSimilarityNearMatch(t *testing.T) {
	// One edit over a 20-rune title: well above the matching threshold.
	got := Similarity("The National - Live", "The National - Live!")
	if got <= DefaultTitleThreshold {
		t.Fatalf("near-identical titles scored %v, want > %v", got, DefaultTitleThreshold)
	}

	// Different artists on the same bill format should not clear it.
	got = Similarity("Coldplay at Wembley", "Blondie at Wembley")
	if got > DefaultTitleThreshold {
		t.Fatalf("distinct titles scored %v, want <= %v", got, DefaultTitleThreshold)
	}
}

func TestVenueSimilarityNeutralWhenMissing(t *testing.T) {
	d := New(nil)
	empty := ""
	name := "Roundhouse"

	if got := d.venueSimilarity(nil, &name); got != 1.0 {
		t.Fatalf("nil venue scored %v, want neutral 1.0", got)
	}
	if got := d.venueSimilarity(&empty, &name); got != 1.0 {
		t.Fatalf("empty venue scored %v, want neutral 1.0", got)
	}
	if got := d.venueSimilarity(&name, &name); got != 1.0 {
		t.Fatalf("identical venues scored %v", got)
	}

	other := "Alexandra Palace"
	if got := d.venueSimilarity(&name, &other); got > DefaultVenueThreshold {
		t.Fatalf("distinct venues scored %v, want <= %v", got, DefaultVenueThreshold)
	}
}
