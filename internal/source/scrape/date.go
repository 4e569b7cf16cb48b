package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateRangeSplitRe = regexp.MustCompile(`[\x{2013}\-]`)
	yearFullRe       = regexp.MustCompile(`(\d{4})`)
	yearShortRe      = regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\w*\s+(\d{2})\b`)
	monthRe          = regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\w*`)
	dayRe            = regexp.MustCompile(`(\d{1,2})`)
)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseCardDate extracts a start date from the loose formats venue
// sites print, such as "Fri 20 February", "Mon 16-Wed 18 February",
// "Tue 17 Feb 26" or "2025-03-14". Ranges yield the range start.
// Returns nil rather than guessing when nothing parses; callers skip
// the card.
func parseCardDate(text string, now time.Time) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if t, err := time.Parse("2006-01-02", text); err == nil {
		t = t.UTC()
		return &t
	}

	parts := dateRangeSplitRe.Split(text, 2)
	startText := strings.TrimSpace(parts[0])
	endText := ""
	if len(parts) > 1 {
		endText = strings.TrimSpace(parts[1])
	}

	// Year may only appear on the range end ("Mon 16-Wed 18 Feb 26").
	year := 0
	for _, segment := range []string{startText, endText} {
		if m := yearFullRe.FindStringSubmatch(segment); m != nil {
			year, _ = strconv.Atoi(m[1])
			break
		}
		if m := yearShortRe.FindStringSubmatch(segment); m != nil {
			short, _ := strconv.Atoi(m[1])
			year = 2000 + short
			break
		}
	}

	var month time.Month
	for _, segment := range []string{startText, endText} {
		if m := monthRe.FindStringSubmatch(segment); m != nil {
			month = monthAbbrev[strings.ToLower(m[1])]
			break
		}
	}
	if month == 0 {
		return nil
	}

	dayMatch := dayRe.FindStringSubmatch(startText)
	if dayMatch == nil {
		return nil
	}
	day, _ := strconv.Atoi(dayMatch[1])

	if year == 0 {
		year = now.Year()
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow; reject "31 February" style input.
	if t.Day() != day || t.Month() != month {
		return nil
	}
	return &t
}
