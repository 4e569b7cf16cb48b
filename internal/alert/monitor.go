// Package alert watches the availability history for threshold-worthy
// status transitions and emits editorial alert posts.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"eventradar/internal/config"
	"eventradar/internal/models"
	"eventradar/internal/repository"
)

// Renderer turns the qualifying events into a post body. An empty
// body means there is nothing to emit.
type Renderer interface {
	RenderAlert(sellingFast, soldOut []models.Event) (string, error)
}

type Monitor struct {
	Repo     repository.Repository
	Renderer Renderer
	Logger   *zap.Logger

	Lookback       time.Duration
	MinSellingFast int
	MinSoldOut     int
	OutputDir      string

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func New(repo repository.Repository, renderer Renderer, cfg config.AlertsConfig, logger *zap.Logger) *Monitor {
	return &Monitor{
		Repo:           repo,
		Renderer:       renderer,
		Logger:         logger,
		Lookback:       cfg.Lookback,
		MinSellingFast: cfg.MinSellingFast,
		MinSoldOut:     cfg.MinSoldOut,
		OutputDir:      cfg.OutputDir,
		Now:            time.Now,
	}
}

func (m *Monitor) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

// CheckResult partitions the qualifying transitions of one scan.
type CheckResult struct {
	NewlySellingFast []models.Event
	NewlySoldOut     []models.Event
	CheckedAt        time.Time
}

// Check scans status transitions recorded since the given time. Only
// each event's latest transition counts; past events are ignored.
// Selling-fast events come back scarcest first, sold-out events
// soonest first.
func (m *Monitor) Check(ctx context.Context, since time.Time) (CheckResult, error) {
	now := m.now()
	result := CheckResult{CheckedAt: now}

	rows, err := m.Repo.ListTransitionsSince(ctx, since, nil)
	if err != nil {
		return result, fmt.Errorf("list transitions: %w", err)
	}

	seen := make(map[uint64]struct{})
	sellingFastIDs := make(map[uint64]struct{})
	soldOutIDs := make(map[uint64]struct{})
	// Rows come back oldest first; walk backwards so the latest
	// transition per event wins.
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if _, ok := seen[row.EventID]; ok {
			continue
		}
		seen[row.EventID] = struct{}{}
		switch row.NewStatus {
		case models.StatusSellingFast:
			sellingFastIDs[row.EventID] = struct{}{}
		case models.StatusSoldOut:
			soldOutIDs[row.EventID] = struct{}{}
		}
	}

	result.NewlySellingFast, err = m.loadFutureEvents(ctx, sellingFastIDs, now)
	if err != nil {
		return result, err
	}
	sort.SliceStable(result.NewlySellingFast, func(i, j int) bool {
		return pctOrMax(result.NewlySellingFast[i]) < pctOrMax(result.NewlySellingFast[j])
	})

	result.NewlySoldOut, err = m.loadFutureEvents(ctx, soldOutIDs, now)
	if err != nil {
		return result, err
	}
	sort.SliceStable(result.NewlySoldOut, func(i, j int) bool {
		return result.NewlySoldOut[i].StartDate.Before(result.NewlySoldOut[j].StartDate)
	})

	m.Logger.Info("alert check",
		zap.Int("selling_fast", len(result.NewlySellingFast)),
		zap.Int("sold_out", len(result.NewlySoldOut)),
		zap.Time("since", since))
	return result, nil
}

func (m *Monitor) loadFutureEvents(ctx context.Context, ids map[uint64]struct{}, now time.Time) ([]models.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]uint64, 0, len(ids))
	for id := range ids {
		keys = append(keys, id)
	}
	events, err := m.Repo.ListEventsByIDs(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	future := events[:0]
	for _, ev := range events {
		if !ev.StartDate.Before(now) {
			future = append(future, ev)
		}
	}
	return future, nil
}

// ShouldAlert applies the thresholds: enough newly selling-fast OR
// enough newly sold-out events.
func (m *Monitor) ShouldAlert(result CheckResult) bool {
	return len(result.NewlySellingFast) >= m.MinSellingFast ||
		len(result.NewlySoldOut) >= m.MinSoldOut
}

// RunOnce performs one monitor pass: check the lookback window, and
// when thresholds are met render, persist, and write the alert post.
// Returns nil without error when no alert is warranted. Registered as
// the cron monitor job.
func (m *Monitor) RunOnce(ctx context.Context) (*models.Alert, error) {
	now := m.now()
	since := now.Add(-m.Lookback)

	result, err := m.Check(ctx, since)
	if err != nil {
		return nil, err
	}
	if !m.ShouldAlert(result) {
		m.Logger.Info("no alert needed, thresholds not met")
		return nil, nil
	}

	body, err := m.Renderer.RenderAlert(result.NewlySellingFast, result.NewlySoldOut)
	if err != nil {
		return nil, fmt.Errorf("render alert: %w", err)
	}
	if body == "" {
		m.Logger.Info("renderer produced empty alert body")
		return nil, nil
	}

	var outputPath *string
	if m.OutputDir != "" {
		path, err := m.writeOutput(body, now)
		if err != nil {
			return nil, err
		}
		outputPath = &path
	}

	item := &models.Alert{
		Reference:        uuid.NewString(),
		SellingFastCount: len(result.NewlySellingFast),
		SoldOutCount:     len(result.NewlySoldOut),
		EventIDs:         eventIDsJSON(result),
		Body:             body,
		OutputPath:       outputPath,
	}
	if err := m.Repo.InsertAlert(ctx, item); err != nil {
		return nil, fmt.Errorf("persist alert: %w", err)
	}

	m.Logger.Info("alert generated",
		zap.String("reference", item.Reference),
		zap.Int("selling_fast", item.SellingFastCount),
		zap.Int("sold_out", item.SoldOutCount))
	return item, nil
}

func (m *Monitor) writeOutput(body string, now time.Time) (string, error) {
	if err := os.MkdirAll(m.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(m.OutputDir, "alert_"+now.Format("2006-01-02")+".html")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write alert file: %w", err)
	}
	return path, nil
}

func pctOrMax(ev models.Event) float64 {
	if ev.AvailabilityPercentage == nil {
		return 101
	}
	return *ev.AvailabilityPercentage
}

func eventIDsJSON(result CheckResult) datatypes.JSON {
	ids := make([]uint64, 0, len(result.NewlySellingFast)+len(result.NewlySoldOut))
	for _, ev := range result.NewlySellingFast {
		ids = append(ids, ev.ID)
	}
	for _, ev := range result.NewlySoldOut {
		ids = append(ids, ev.ID)
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}
