// Package ingest drives the provider adapters: fetch, validate,
// dedup, merge into the event store, and track per-provider health.
package ingest

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"eventradar/internal/classify"
	"eventradar/internal/config"
	"eventradar/internal/dedup"
	"eventradar/internal/models"
	"eventradar/internal/repository"
	"eventradar/internal/source"
)

type Aggregator struct {
	Registry   *source.Registry
	Repo       repository.Repository
	Dedup      *dedup.Deduplicator
	Classifier *classify.Classifier
	Logger     *zap.Logger

	// WindowDays is the fetch horizon: each cycle requests
	// [now, now+WindowDays).
	WindowDays int

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func New(reg *source.Registry, repo repository.Repository, ded *dedup.Deduplicator, cls *classify.Classifier, cfg config.IngestConfig, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		Registry:   reg,
		Repo:       repo,
		Dedup:      ded,
		Classifier: cls,
		Logger:     logger,
		WindowDays: cfg.WindowDays,
		Now:        time.Now,
	}
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

// RunOnce executes one full ingestion cycle over the configured
// window. Registered as the cron ingest job.
func (a *Aggregator) RunOnce(ctx context.Context) map[string]int {
	start := a.now()
	end := start.AddDate(0, 0, a.WindowDays)
	return a.FetchAll(ctx, start, end, nil)
}

// FetchAll runs every enabled adapter over [start, end). When only is
// non-empty, adapters outside it are skipped. One adapter's failure
// never aborts the others; each adapter's batch commits in its own
// transaction. Returns saved-record counts per adapter.
func (a *Aggregator) FetchAll(ctx context.Context, start, end time.Time, only []string) map[string]int {
	if a == nil || a.Registry == nil {
		return nil
	}
	results := make(map[string]int)

	for _, src := range a.Registry.Enabled() {
		if len(only) > 0 && !containsString(only, src.Name()) {
			continue
		}
		if ctx.Err() != nil {
			a.Logger.Warn("ingestion cycle interrupted", zap.Error(ctx.Err()))
			break
		}

		a.Logger.Info("fetching", zap.String("source", src.Name()))
		fetchStart := a.now()
		records, err := src.FetchEvents(ctx, start, end)
		fetchSeconds := a.now().Sub(fetchStart).Seconds()

		if err != nil {
			a.Logger.Error("fetch failed",
				zap.String("source", src.Name()),
				zap.Error(err))
			a.trackSource(ctx, src, false, 0, 0, err)
			results[src.Name()] = 0
			continue
		}

		saved, err := a.processRecords(ctx, records)
		if err != nil {
			a.Logger.Error("persist failed",
				zap.String("source", src.Name()),
				zap.Error(err))
			a.trackSource(ctx, src, false, 0, 0, err)
			results[src.Name()] = 0
			continue
		}

		a.trackSource(ctx, src, true, len(records), fetchSeconds, nil)
		results[src.Name()] = saved
		a.Logger.Info("source ingested",
			zap.String("source", src.Name()),
			zap.Int("fetched", len(records)),
			zap.Int("saved", saved))
	}

	return results
}

// processRecords commits one adapter's batch in a single transaction.
func (a *Aggregator) processRecords(ctx context.Context, records []source.Record) (int, error) {
	saved := 0
	err := a.Repo.InTx(ctx, func(tx *gorm.DB) error {
		for _, rec := range records {
			if !source.Validate(rec) {
				continue
			}

			existing, err := a.Repo.GetEventBySourceTx(ctx, tx, rec.SourceName, rec.SourceID)
			if err != nil {
				return err
			}

			if existing != nil {
				if err := a.updateEvent(ctx, tx, existing, rec); err != nil {
					return err
				}
				saved++
				continue
			}

			match, err := a.Dedup.FindMatch(ctx, tx, rec)
			if err != nil {
				return err
			}
			if match != nil {
				// Cross-provider duplicate: skip, never field-merge.
				a.Logger.Debug("duplicate event skipped",
					zap.String("title", rec.Title),
					zap.String("source", rec.SourceName),
					zap.Uint64("matched_event_id", match.ID))
				continue
			}

			if err := a.createEvent(ctx, tx, rec); err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	return saved, err
}

func (a *Aggregator) createEvent(ctx context.Context, tx *gorm.DB, rec source.Record) error {
	now := a.now()
	status := a.Classifier.Determine(classify.Signals{
		TicketsAvailable: rec.TicketsAvailable,
		TotalTickets:     rec.TotalTickets,
		SaleStatus:       rec.SaleStatus,
		Now:              now,
	})

	event := models.Event{
		Title:        rec.Title,
		Slug:         models.Slugify(rec.Title),
		Description:  rec.Description,
		StartDate:    rec.StartDate.UTC(),
		EndDate:      rec.EndDate,
		VenueName:    rec.VenueName,
		VenueAddress: rec.VenueAddress,
		Latitude:     rec.Latitude,
		Longitude:    rec.Longitude,
		TicketURL:    rec.TicketURL,
		PriceMin:     rec.PriceMin,
		PriceMax:     rec.PriceMax,
		Currency:     rec.Currency,
		OnSaleDate:   rec.OnSaleDate,
		OnSaleStatus: rec.SaleStatus.StringPtr(),

		Status:                 status,
		TicketsAvailable:       rec.TicketsAvailable,
		TotalTickets:           rec.TotalTickets,
		AvailabilityPercentage: availabilityPct(rec.TicketsAvailable, rec.TotalTickets),

		SourceName: rec.SourceName,
		SourceID:   rec.SourceID,
		SourceURL:  rec.SourceURL,
		ImageURL:   rec.ImageURL,

		FirstSeenAt: now,
	}
	if rec.TicketsAvailable != nil {
		event.LastAvailabilityCheck = &now
	}
	if rec.RawData != nil {
		event.RawData = mustJSON(rec.RawData)
	}
	if len(rec.Images) > 0 {
		event.Images = mustJSON(rec.Images)
	}

	if err := a.Repo.CreateEventTx(ctx, tx, &event); err != nil {
		return err
	}
	return a.attachCategories(ctx, tx, &event, rec.Categories)
}

func (a *Aggregator) updateEvent(ctx context.Context, tx *gorm.DB, existing *models.Event, rec source.Record) error {
	updated := a.mergeRecord(*existing, rec)

	if updated.Status != existing.Status {
		prev := existing.Status
		updated.PreviousStatus = &prev
		history := models.AvailabilityHistory{
			EventID:                existing.ID,
			PreviousStatus:         &prev,
			NewStatus:              updated.Status,
			TicketsAvailable:       updated.TicketsAvailable,
			TotalTickets:           updated.TotalTickets,
			AvailabilityPercentage: updated.AvailabilityPercentage,
			RecordedAt:             a.now(),
		}
		if err := a.Repo.InsertAvailabilityTx(ctx, tx, &history); err != nil {
			return err
		}
	}

	return a.Repo.SaveEventTx(ctx, tx, &updated)
}

// mergeRecord folds a fresh record into a stored event and returns the
// result; it never mutates its input. Required scalars (title, dates)
// always take the incoming value; optional fields only when the
// incoming value is present, so transient provider omissions never
// erase known data. Status is recomputed from the merged signals.
func (a *Aggregator) mergeRecord(existing models.Event, rec source.Record) models.Event {
	now := a.now()
	ev := existing

	ev.Title = rec.Title
	ev.StartDate = rec.StartDate.UTC()
	ev.EndDate = rec.EndDate

	if rec.Description != nil {
		ev.Description = rec.Description
	}
	if rec.VenueName != nil {
		ev.VenueName = rec.VenueName
	}
	if rec.VenueAddress != nil {
		ev.VenueAddress = rec.VenueAddress
	}
	if rec.TicketURL != nil {
		ev.TicketURL = rec.TicketURL
	}
	if rec.PriceMin != nil {
		ev.PriceMin = rec.PriceMin
	}
	if rec.PriceMax != nil {
		ev.PriceMax = rec.PriceMax
	}
	if rec.OnSaleDate != nil {
		ev.OnSaleDate = rec.OnSaleDate
	}
	if s := rec.SaleStatus.StringPtr(); s != nil {
		ev.OnSaleStatus = s
	}
	if rec.ImageURL != nil {
		ev.ImageURL = rec.ImageURL
	}
	if rec.RawData != nil {
		ev.RawData = mustJSON(rec.RawData)
	}

	sig := classify.Signals{
		TicketsAvailable: ev.TicketsAvailable,
		TotalTickets:     ev.TotalTickets,
		SaleStatus:       rec.SaleStatus,
		Now:              now,
	}
	if rec.TicketsAvailable != nil {
		// Prior observation feeds the velocity rule.
		sig.PreviousAvailability = existing.TicketsAvailable
		sig.LastCheck = existing.LastAvailabilityCheck
		eventDate := ev.StartDate
		sig.EventDate = &eventDate

		ev.TicketsAvailable = rec.TicketsAvailable
		if rec.TotalTickets != nil {
			ev.TotalTickets = rec.TotalTickets
		}
		ev.AvailabilityPercentage = availabilityPct(rec.TicketsAvailable, ev.TotalTickets)
		ev.LastAvailabilityCheck = &now

		sig.TicketsAvailable = ev.TicketsAvailable
		sig.TotalTickets = ev.TotalTickets
	}
	ev.Status = a.Classifier.Determine(sig)

	return ev
}

func (a *Aggregator) attachCategories(ctx context.Context, tx *gorm.DB, event *models.Event, names []string) error {
	if len(names) == 0 {
		return nil
	}
	var categories []models.Category
	for _, name := range names {
		cat, err := a.Repo.GetOrCreateCategoryTx(ctx, tx, name)
		if err != nil {
			return err
		}
		if cat != nil {
			categories = append(categories, *cat)
		}
	}
	if len(categories) == 0 {
		return nil
	}
	return a.Repo.ReplaceEventCategoriesTx(ctx, tx, event, categories)
}

// trackSource upserts the per-provider health row after an adapter
// run. Latency is averaged as a two-point mean of the stored and new
// samples.
func (a *Aggregator) trackSource(ctx context.Context, src source.DataSource, success bool, eventsCount int, fetchSeconds float64, fetchErr error) {
	now := a.now()

	health, err := a.Repo.GetProviderHealth(ctx, src.Name())
	if err != nil {
		a.Logger.Error("provider health lookup failed",
			zap.String("source", src.Name()), zap.Error(err))
		return
	}
	if health == nil {
		health = &models.ProviderHealth{
			Name:       src.Name(),
			SourceType: src.SourceType(),
			Enabled:    true,
		}
	}

	health.LastAttemptAt = &now
	health.AttemptCount++

	if success {
		health.LastSuccessAt = &now
		health.SuccessCount++
		health.EventsFetched += int64(eventsCount)
		health.LastError = nil
		if health.AvgFetchSeconds != nil {
			mean := (*health.AvgFetchSeconds + fetchSeconds) / 2
			health.AvgFetchSeconds = &mean
		} else {
			health.AvgFetchSeconds = &fetchSeconds
		}
	} else if fetchErr != nil {
		msg := fetchErr.Error()
		health.LastError = &msg
	}
	if health.AttemptCount > 0 {
		health.SuccessRate = float64(health.SuccessCount) / float64(health.AttemptCount)
	}

	if err := a.Repo.UpsertProviderHealth(ctx, health); err != nil {
		a.Logger.Error("provider health upsert failed",
			zap.String("source", src.Name()), zap.Error(err))
	}
}

func availabilityPct(available, total *int) *float64 {
	if available == nil || total == nil || *total == 0 {
		return nil
	}
	pct := float64(*available) / float64(*total) * 100
	return &pct
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func containsString(items []string, needle string) bool {
	for _, item := range items {
		if item == needle {
			return true
		}
	}
	return false
}
