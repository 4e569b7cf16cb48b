package classify

import (
	"math"
	"testing"
	"time"

	"eventradar/internal/config"
	"eventradar/internal/models"
	"eventradar/internal/source"
)

func testClassifier() *Classifier {
	return New(config.DetectorConfig{
		SelloutThresholdPct:      10,
		LowAvailabilityThreshold: 50,
	})
}

func intp(n int) *int           { return &n }
func floatp(f float64) *float64 { return &f }
func timep(t time.Time) *time.Time { return &t }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDetermineZeroTicketsWinsOverStatus(t *testing.T) {
	c := testClassifier()
	got := c.Determine(Signals{
		TicketsAvailable: intp(0),
		SaleStatus:       source.SaleStatusOnSale,
		Now:              time.Now(),
	})
	if got != models.StatusSoldOut {
		t.Fatalf("got %q want sold_out", got)
	}
}

func TestDetermineSoldOutStatus(t *testing.T) {
	c := testClassifier()
	got := c.Determine(Signals{SaleStatus: source.SaleStatusSoldOut, Now: time.Now()})
	if got != models.StatusSoldOut {
		t.Fatalf("got %q want sold_out", got)
	}
}

func TestDetermineCancelled(t *testing.T) {
	c := testClassifier()
	got := c.Determine(Signals{SaleStatus: source.SaleStatusCancelled, Now: time.Now()})
	if got != models.StatusCancelled {
		t.Fatalf("got %q want cancelled", got)
	}
}

func TestDeterminePercentageThresholdInclusive(t *testing.T) {
	c := testClassifier()

	// Exactly 10% remaining: at the threshold, still selling fast.
	got := c.Determine(Signals{
		TicketsAvailable: intp(100),
		TotalTickets:     intp(1000),
		SaleStatus:       source.SaleStatusOnSale,
		Now:              time.Now(),
	})
	if got != models.StatusSellingFast {
		t.Fatalf("10%% remaining: got %q want selling_fast", got)
	}

	// Just above the threshold, and above the absolute floor.
	got = c.Determine(Signals{
		TicketsAvailable: intp(110),
		TotalTickets:     intp(1000),
		SaleStatus:       source.SaleStatusOnSale,
		Now:              time.Now(),
	})
	if got != models.StatusOnSale {
		t.Fatalf("11%% remaining: got %q want on_sale", got)
	}
}

func TestDetermineAbsoluteThreshold(t *testing.T) {
	c := testClassifier()

	// 50 of 200 is a healthy 25%, but the absolute floor still fires.
	got := c.Determine(Signals{
		TicketsAvailable: intp(50),
		TotalTickets:     intp(200),
		SaleStatus:       source.SaleStatusOnSale,
		Now:              time.Now(),
	})
	if got != models.StatusSellingFast {
		t.Fatalf("50 tickets left: got %q want selling_fast", got)
	}

	got = c.Determine(Signals{
		TicketsAvailable: intp(51),
		TotalTickets:     intp(200),
		SaleStatus:       source.SaleStatusOnSale,
		Now:              time.Now(),
	})
	if got != models.StatusOnSale {
		t.Fatalf("51 tickets left: got %q want on_sale", got)
	}
}

func TestDetermineVelocityRule(t *testing.T) {
	c := testClassifier()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 200 down to 100 in one day with no known capacity: 100/day leaves
	// one projected day of stock, 14 days before the event.
	got := c.Determine(Signals{
		TicketsAvailable:     intp(100),
		SaleStatus:           source.SaleStatusOnSale,
		PreviousAvailability: intp(200),
		LastCheck:            timep(now.Add(-24 * time.Hour)),
		EventDate:            timep(now.AddDate(0, 0, 14)),
		Now:                  now,
	})
	if got != models.StatusSellingFast {
		t.Fatalf("halved in a day: got %q want selling_fast", got)
	}

	// With known capacity the percentage and absolute rules stay quiet
	// at 500 of 2000, leaving the rate rule to decide.
	got = c.Determine(Signals{
		TicketsAvailable:     intp(500),
		TotalTickets:         intp(2000),
		SaleStatus:           source.SaleStatusOnSale,
		PreviousAvailability: intp(700),
		LastCheck:            timep(now.Add(-24 * time.Hour)),
		EventDate:            timep(now.AddDate(0, 0, 14)),
		Now:                  now,
	})
	// 200/day against 500 left projects sell-out in 2.5 days.
	if got != models.StatusSellingFast {
		t.Fatalf("fast velocity: got %q want selling_fast", got)
	}

	// Same counts with a slow rate: 10/day projects 50 days.
	got = c.Determine(Signals{
		TicketsAvailable:     intp(500),
		TotalTickets:         intp(2000),
		SaleStatus:           source.SaleStatusOnSale,
		PreviousAvailability: intp(510),
		LastCheck:            timep(now.Add(-24 * time.Hour)),
		EventDate:            timep(now.AddDate(0, 0, 14)),
		Now:                  now,
	})
	if got != models.StatusOnSale {
		t.Fatalf("slow velocity: got %q want on_sale", got)
	}
}

func TestDetermineSaleStatusFallback(t *testing.T) {
	c := testClassifier()
	cases := []struct {
		status source.SaleStatus
		want   models.EventStatus
	}{
		{source.SaleStatusOnSale, models.StatusOnSale},
		{source.SaleStatusPresale, models.StatusOnSale},
		{source.SaleStatusOffSale, models.StatusUpcoming},
		{source.SaleStatusUnknown, models.StatusUpcoming},
	}
	for _, tc := range cases {
		if got := c.Determine(Signals{SaleStatus: tc.status, Now: time.Now()}); got != tc.want {
			t.Fatalf("status %q: got %q want %q", tc.status, got, tc.want)
		}
	}
}

func TestSelloutProbability(t *testing.T) {
	c := testClassifier()

	if got := c.SelloutProbability(0, 0, 10, nil); got != 0.0 {
		t.Fatalf("zero capacity: got %v", got)
	}
	if got := c.SelloutProbability(100, 1000, -1, nil); got != 0.0 {
		t.Fatalf("past event: got %v", got)
	}

	// 90% sold, 5 days out: 0.9 * 1.3 clamps to 1.0.
	if got := c.SelloutProbability(100, 1000, 5, nil); got != 1.0 {
		t.Fatalf("near sell-out soon: got %v want 1.0", got)
	}

	// 50% sold, far out: 0.5 * 0.9.
	if got := c.SelloutProbability(500, 1000, 60, nil); !almostEqual(got, 0.45) {
		t.Fatalf("far out: got %v want 0.45", got)
	}

	// Rate outpacing the clock scales up: 0.5 * 1.1 * 1.2.
	got := c.SelloutProbability(500, 1000, 20, floatp(50))
	if !almostEqual(got, 0.66) {
		t.Fatalf("fast rate: got %v want 0.66", got)
	}

	// Rate slower than the clock scales down: 0.5 * 1.1 * 0.8.
	got = c.SelloutProbability(500, 1000, 20, floatp(10))
	if !almostEqual(got, 0.44) {
		t.Fatalf("slow rate: got %v want 0.44", got)
	}
}

func TestUrgencyMessage(t *testing.T) {
	cases := []struct {
		name   string
		status models.EventStatus
		avail  *int
		pct    *float64
		want   string
	}{
		{"sold out", models.StatusSoldOut, nil, nil, "SOLD OUT"},
		{"few tickets", models.StatusSellingFast, intp(7), floatp(3), "Only 7 tickets left!"},
		{"under 5 pct", models.StatusSellingFast, intp(40), floatp(4), "Less than 5% of tickets remaining!"},
		{"under 10 pct", models.StatusSellingFast, intp(90), floatp(9), "Selling fast - less than 10% remaining!"},
		{"no counts", models.StatusSellingFast, nil, nil, "Selling fast - book soon!"},
		{"on sale", models.StatusOnSale, nil, nil, "On sale now"},
		{"cancelled", models.StatusCancelled, nil, nil, "Cancelled"},
		{"upcoming", models.StatusUpcoming, nil, nil, ""},
	}
	for _, tc := range cases {
		if got := UrgencyMessage(tc.status, tc.avail, tc.pct); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestShouldHighlight(t *testing.T) {
	if !ShouldHighlight(models.StatusSellingFast) || !ShouldHighlight(models.StatusOnSale) {
		t.Fatal("selling_fast and on_sale should highlight")
	}
	if ShouldHighlight(models.StatusSoldOut) || ShouldHighlight(models.StatusUpcoming) {
		t.Fatal("sold_out and upcoming should not highlight")
	}
}
