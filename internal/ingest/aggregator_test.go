package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"eventradar/internal/classify"
	"eventradar/internal/config"
	"eventradar/internal/dedup"
	"eventradar/internal/models"
	"eventradar/internal/source"
)

// stubSource is a fixed-output adapter for orchestrator tests.
type stubSource struct {
	name    string
	typ     string
	enabled bool
	records []source.Record
	err     error
}

func (s *stubSource) Name() string                    { return s.name }
func (s *stubSource) SourceType() string              { return s.typ }
func (s *stubSource) Enabled() bool                   { return s.enabled }
func (s *stubSource) Validate(rec source.Record) bool { return source.Validate(rec) }
func (s *stubSource) RateLimitDelay() time.Duration   { return 0 }

func (s *stubSource) FetchEvents(ctx context.Context, start, end time.Time) ([]source.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func testAggregator(repo *stubRepo, sources ...source.DataSource) *Aggregator {
	agg := New(
		source.NewRegistry(sources...),
		repo,
		dedup.New(repo),
		classify.New(config.DetectorConfig{SelloutThresholdPct: 10, LowAvailabilityThreshold: 50}),
		config.IngestConfig{WindowDays: 90},
		zap.NewNop(),
	)
	return agg
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func baseRecord(sourceName, sourceID, title string, start time.Time) source.Record {
	startCopy := start
	return source.Record{
		Title:      title,
		StartDate:  &startCopy,
		Currency:   "GBP",
		SourceName: sourceName,
		SourceID:   sourceID,
	}
}

func TestIngestIdempotent(t *testing.T) {
	repo := newStubRepo()
	start := time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)
	src := &stubSource{
		name: "ticketmaster", typ: "api", enabled: true,
		records: []source.Record{baseRecord("ticketmaster", "tm-1", "The National", start)},
	}
	agg := testAggregator(repo, src)

	for i := 0; i < 2; i++ {
		results := agg.RunOnce(context.Background())
		if results["ticketmaster"] != 1 {
			t.Fatalf("cycle %d: saved=%d want 1", i, results["ticketmaster"])
		}
	}

	if len(repo.events) != 1 {
		t.Fatalf("events=%d want 1", len(repo.events))
	}
	if repo.events[0].Slug != "the-national" {
		t.Fatalf("slug=%q", repo.events[0].Slug)
	}
}

func TestCrossProviderDuplicateSkipped(t *testing.T) {
	repo := newStubRepo()
	start := time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)

	first := baseRecord("ticketmaster", "tm-1", "The National - Live", start)
	first.VenueName = strp("Roundhouse")
	second := baseRecord("seatgeek", "sg-9", "The National - Live!", start)
	second.VenueName = strp("Roundhouse")

	agg := testAggregator(repo,
		&stubSource{name: "ticketmaster", typ: "api", enabled: true, records: []source.Record{first}},
		&stubSource{name: "seatgeek", typ: "api", enabled: true, records: []source.Record{second}},
	)
	agg.RunOnce(context.Background())

	if len(repo.events) != 1 {
		t.Fatalf("events=%d want 1 (cross-provider duplicate must be skipped)", len(repo.events))
	}
	if repo.events[0].SourceName != "ticketmaster" {
		t.Fatalf("surviving row source=%q want ticketmaster", repo.events[0].SourceName)
	}
}

func TestDifferentStartDatesNeverMerge(t *testing.T) {
	repo := newStubRepo()
	day1 := time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 13, 19, 30, 0, 0, time.UTC)

	first := baseRecord("ticketmaster", "tm-1", "Patti Smith", day1)
	first.VenueName = strp("Royal Albert Hall")
	second := baseRecord("seatgeek", "sg-2", "Patti Smith", day2)
	second.VenueName = strp("Royal Albert Hall")

	agg := testAggregator(repo,
		&stubSource{name: "ticketmaster", typ: "api", enabled: true, records: []source.Record{first}},
		&stubSource{name: "seatgeek", typ: "api", enabled: true, records: []source.Record{second}},
	)
	agg.RunOnce(context.Background())

	if len(repo.events) != 2 {
		t.Fatalf("events=%d want 2 (different dates must not merge)", len(repo.events))
	}
}

func TestVenueMismatchNotMerged(t *testing.T) {
	repo := newStubRepo()
	start := time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)

	first := baseRecord("ticketmaster", "tm-1", "Winter Gala", start)
	first.VenueName = strp("Barbican Centre")
	second := baseRecord("seatgeek", "sg-2", "Winter Gala", start)
	second.VenueName = strp("Alexandra Palace")

	agg := testAggregator(repo,
		&stubSource{name: "ticketmaster", typ: "api", enabled: true, records: []source.Record{first}},
		&stubSource{name: "seatgeek", typ: "api", enabled: true, records: []source.Record{second}},
	)
	agg.RunOnce(context.Background())

	if len(repo.events) != 2 {
		t.Fatalf("events=%d want 2 (venue mismatch must not merge)", len(repo.events))
	}
}

func TestStatusTransitionWritesOneHistoryRow(t *testing.T) {
	repo := newStubRepo()
	start := time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)

	onSale := baseRecord("ticketmaster", "tm-1", "Big Show", start)
	onSale.SaleStatus = source.SaleStatusOnSale
	src := &stubSource{name: "ticketmaster", typ: "api", enabled: true, records: []source.Record{onSale}}
	agg := testAggregator(repo, src)

	agg.RunOnce(context.Background())
	if len(repo.history) != 0 {
		t.Fatalf("history after create=%d want 0", len(repo.history))
	}

	// Re-check with no change: no history row.
	agg.RunOnce(context.Background())
	if len(repo.history) != 0 {
		t.Fatalf("history after no-op recheck=%d want 0", len(repo.history))
	}

	soldOut := onSale
	soldOut.SaleStatus = source.SaleStatusSoldOut
	soldOut.TicketsAvailable = intp(0)
	src.records = []source.Record{soldOut}
	agg.RunOnce(context.Background())

	if len(repo.history) != 1 {
		t.Fatalf("history after transition=%d want 1", len(repo.history))
	}
	row := repo.history[0]
	if row.NewStatus != models.StatusSoldOut {
		t.Fatalf("new_status=%q want sold_out", row.NewStatus)
	}
	if row.PreviousStatus == nil || *row.PreviousStatus != models.StatusOnSale {
		t.Fatalf("previous_status=%v want on_sale", row.PreviousStatus)
	}

	ev, _ := repo.GetEventBySourceTx(context.Background(), nil, "ticketmaster", "tm-1")
	if ev.Status != models.StatusSoldOut {
		t.Fatalf("event status=%q want sold_out", ev.Status)
	}
	if ev.PreviousStatus == nil || *ev.PreviousStatus != models.StatusOnSale {
		t.Fatalf("event previous_status=%v want on_sale", ev.PreviousStatus)
	}
}

func TestAdapterFailureDoesNotAbortOthers(t *testing.T) {
	repo := newStubRepo()
	start := time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)

	failing := &stubSource{name: "eventbrite", typ: "api", enabled: true, err: errors.New("rate limited")}
	healthy := &stubSource{
		name: "seatgeek", typ: "api", enabled: true,
		records: []source.Record{baseRecord("seatgeek", "sg-1", "Comedy Night", start)},
	}
	agg := testAggregator(repo, failing, healthy)

	results := agg.RunOnce(context.Background())
	if results["eventbrite"] != 0 {
		t.Fatalf("failing adapter saved=%d want 0", results["eventbrite"])
	}
	if results["seatgeek"] != 1 {
		t.Fatalf("healthy adapter saved=%d want 1", results["seatgeek"])
	}
	if len(repo.events) != 1 {
		t.Fatalf("events=%d want 1", len(repo.events))
	}

	bad := repo.health["eventbrite"]
	if bad.LastError == nil || *bad.LastError != "rate limited" {
		t.Fatalf("failing adapter last_error=%v", bad.LastError)
	}
	if bad.LastSuccessAt != nil {
		t.Fatalf("failing adapter has success timestamp")
	}
	good := repo.health["seatgeek"]
	if good.LastSuccessAt == nil || good.EventsFetched != 1 {
		t.Fatalf("healthy adapter health = %+v", good)
	}
}

func TestDisabledAdapterSkipped(t *testing.T) {
	repo := newStubRepo()
	start := time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)
	disabled := &stubSource{
		name: "ticketmaster", typ: "api", enabled: false,
		records: []source.Record{baseRecord("ticketmaster", "tm-1", "Hidden", start)},
	}
	agg := testAggregator(repo, disabled)

	results := agg.RunOnce(context.Background())
	if len(results) != 0 || len(repo.events) != 0 {
		t.Fatalf("disabled adapter ran: results=%v events=%d", results, len(repo.events))
	}
}

func TestMergePreservesOptionalFields(t *testing.T) {
	repo := newStubRepo()
	start := time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)

	full := baseRecord("ticketmaster", "tm-1", "Opera Night", start)
	full.VenueName = strp("Royal Opera House")
	full.TicketURL = strp("https://example.com/tickets")
	src := &stubSource{name: "ticketmaster", typ: "api", enabled: true, records: []source.Record{full}}
	agg := testAggregator(repo, src)
	agg.RunOnce(context.Background())

	// Second cycle omits the optional fields.
	sparse := baseRecord("ticketmaster", "tm-1", "Opera Night (Rescheduled)", start)
	src.records = []source.Record{sparse}
	agg.RunOnce(context.Background())

	ev, _ := repo.GetEventBySourceTx(context.Background(), nil, "ticketmaster", "tm-1")
	if ev.Title != "Opera Night (Rescheduled)" {
		t.Fatalf("title=%q (required scalar must be overwritten)", ev.Title)
	}
	if ev.VenueName == nil || *ev.VenueName != "Royal Opera House" {
		t.Fatalf("venue=%v (optional omission must not erase)", ev.VenueName)
	}
	if ev.TicketURL == nil || *ev.TicketURL != "https://example.com/tickets" {
		t.Fatalf("ticket_url=%v (optional omission must not erase)", ev.TicketURL)
	}
}

func TestTrackSourceLatencyTwoPointMean(t *testing.T) {
	repo := newStubRepo()
	src := &stubSource{name: "seatgeek", typ: "api", enabled: true}
	agg := testAggregator(repo, src)
	ctx := context.Background()

	agg.trackSource(ctx, src, true, 10, 2.0, nil)
	agg.trackSource(ctx, src, true, 5, 4.0, nil)

	h := repo.health["seatgeek"]
	if h.AvgFetchSeconds == nil || *h.AvgFetchSeconds != 3.0 {
		t.Fatalf("avg_fetch_seconds=%v want 3.0", h.AvgFetchSeconds)
	}
	if h.EventsFetched != 15 {
		t.Fatalf("events_fetched=%d want 15", h.EventsFetched)
	}
	if h.SuccessRate != 1.0 {
		t.Fatalf("success_rate=%v want 1.0", h.SuccessRate)
	}

	agg.trackSource(ctx, src, false, 0, 0, errors.New("boom"))
	h = repo.health["seatgeek"]
	if h.AttemptCount != 3 || h.SuccessCount != 2 {
		t.Fatalf("attempts=%d successes=%d", h.AttemptCount, h.SuccessCount)
	}
	if want := 2.0 / 3.0; h.SuccessRate != want {
		t.Fatalf("success_rate=%v want %v", h.SuccessRate, want)
	}
	if h.AvgFetchSeconds == nil || *h.AvgFetchSeconds != 3.0 {
		t.Fatalf("failure must not move latency mean: %v", h.AvgFetchSeconds)
	}
}
