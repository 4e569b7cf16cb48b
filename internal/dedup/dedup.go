// Package dedup matches incoming records against events already
// ingested from other providers, so one real-world event keeps a
// single canonical row.
package dedup

import (
	"context"
	"strings"

	"github.com/agnivade/levenshtein"
	"gorm.io/gorm"

	"eventradar/internal/models"
	"eventradar/internal/repository"
	"eventradar/internal/source"
)

const (
	// DefaultTitleThreshold and DefaultVenueThreshold gate fuzzy
	// matching: both similarities must clear their threshold.
	DefaultTitleThreshold = 0.85
	DefaultVenueThreshold = 0.75
)

// Deduplicator finds the canonical event for an incoming record.
type Deduplicator struct {
	Repo           repository.Repository
	TitleThreshold float64
	VenueThreshold float64
}

func New(repo repository.Repository) *Deduplicator {
	return &Deduplicator{
		Repo:           repo,
		TitleThreshold: DefaultTitleThreshold,
		VenueThreshold: DefaultVenueThreshold,
	}
}

// FindMatch returns the existing event the record duplicates, or nil.
//
// Candidates share the record's exact start timestamp; among them the
// first whose title and venue similarities clear both thresholds wins.
// Returns nil when the record has no start date.
func (d *Deduplicator) FindMatch(ctx context.Context, tx *gorm.DB, rec source.Record) (*models.Event, error) {
	if d == nil || d.Repo == nil || rec.StartDate == nil {
		return nil, nil
	}
	candidates, err := d.Repo.ListEventsByStartDateTx(ctx, tx, *rec.StartDate)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		cand := &candidates[i]
		// A record never duplicates its own provenance row; that case
		// is an update, handled before dedup runs.
		if cand.SourceName == rec.SourceName && cand.SourceID == rec.SourceID {
			continue
		}
		if d.matches(rec, cand) {
			return cand, nil
		}
	}
	return nil, nil
}

func (d *Deduplicator) matches(rec source.Record, cand *models.Event) bool {
	if Similarity(rec.Title, cand.Title) <= d.TitleThreshold {
		return false
	}
	return d.venueSimilarity(rec.VenueName, cand.VenueName) > d.VenueThreshold
}

// venueSimilarity is neutral (1.0) when either side lacks a venue;
// scrapers and APIs disagree on venue presence more than on names.
func (d *Deduplicator) venueSimilarity(a, b *string) float64 {
	if a == nil || b == nil || *a == "" || *b == "" {
		return 1.0
	}
	return Similarity(*a, *b)
}

// Similarity is a normalized edit-distance ratio in [0,1] over
// lowercased input: 1 - distance/maxLen. Two empty strings are
// identical.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
