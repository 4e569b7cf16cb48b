package source

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// parseTimeISO accepts the timestamp shapes providers actually send:
// RFC3339 and bare dates. Returns nil for anything else.
func parseTimeISO(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		t = t.UTC()
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}

func rawToMap(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func floatFromString(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f == 0 {
		return nil
	}
	return &f
}

// mapCategory normalizes a provider category label through the
// adapter's mapping table; unmapped labels fall through lowercased,
// or to fallback when set.
func mapCategory(table map[string]string, raw, fallback string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := table[key]; ok {
		return mapped
	}
	if fallback != "" {
		return fallback
	}
	return key
}

func dedupeCategories(in []string, limit int) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
