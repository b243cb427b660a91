// Package calendar derives date→glyph views from committed diary entries.
// Pure functions of the entries and the requested range; data volumes are a
// handful of records, so nothing is cached.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"moodiary/internal/diary"
)

// NoRecordTooltip is the tooltip text for days without an entry.
const NoRecordTooltip = "no record"

const tooltipSummaryMax = 40

// Cell is one rendered day. In window mode Glyphs concatenates every entry
// of that day; in month mode it holds exactly the most recent entry's glyph.
type Cell struct {
	Date     time.Time
	Glyphs   string
	Tooltip  string
	HasEntry bool
}

// MoodStat is one mood's share of the entries in a displayed month.
type MoodStat struct {
	Label   string
	Glyph   string
	Count   int
	Percent int
}

// Window builds the rolling heat strip: days consecutive dates ending today.
// Multiple same-day entries show concatenated glyphs; empty days get the
// placeholder glyph and the no-record tooltip.
func Window(entries []diary.Entry, today time.Time, days int) []Cell {
	if days <= 0 {
		return nil
	}
	byDay := groupByDay(entries)

	out := make([]Cell, 0, days)
	start := today.AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		key := dayKey(day)
		dayEntries := byDay[key]
		if len(dayEntries) == 0 {
			out = append(out, emptyCell(day))
			continue
		}
		var glyphs strings.Builder
		for _, e := range dayEntries {
			glyphs.WriteString(e.Glyph())
		}
		out = append(out, Cell{
			Date:     day,
			Glyphs:   glyphs.String(),
			Tooltip:  tooltip(latestOf(dayEntries)),
			HasEntry: true,
		})
	}
	return out
}

// Month builds the month grid: one cell per day of the month, most recent
// entry winning when a day has several.
func Month(entries []diary.Entry, year int, month time.Month) []Cell {
	byDay := groupByDay(entries)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysIn := first.AddDate(0, 1, -1).Day()

	out := make([]Cell, 0, daysIn)
	for d := 1; d <= daysIn; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, time.Local)
		dayEntries := byDay[dayKey(day)]
		if len(dayEntries) == 0 {
			out = append(out, emptyCell(day))
			continue
		}
		latest := latestOf(dayEntries)
		out = append(out, Cell{
			Date:     day,
			Glyphs:   latest.Glyph(),
			Tooltip:  tooltip(latest),
			HasEntry: true,
		})
	}
	return out
}

// MonthStats counts entries per mood label for the month and each label's
// percentage of the month total, rounded to the nearest integer. Nil when
// the month has no entries.
func MonthStats(entries []diary.Entry, year int, month time.Month) []MoodStat {
	counts := map[string]int{}
	glyphs := map[string]string{}
	order := []string{}
	total := 0
	for _, e := range entries {
		if e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		label := e.Label()
		if _, seen := counts[label]; !seen {
			order = append(order, label)
			glyphs[label] = e.Glyph()
		}
		counts[label]++
		total++
	}
	if total == 0 {
		return nil
	}
	out := make([]MoodStat, 0, len(order))
	for _, label := range order {
		c := counts[label]
		out = append(out, MoodStat{
			Label:   label,
			Glyph:   glyphs[label],
			Count:   c,
			Percent: (c*100 + total/2) / total,
		})
	}
	return out
}

func groupByDay(entries []diary.Entry) map[string][]diary.Entry {
	byDay := map[string][]diary.Entry{}
	for _, e := range entries {
		key := dayKey(e.Date)
		byDay[key] = append(byDay[key], e)
	}
	return byDay
}

// latestOf picks the entry with the greatest Date. Store order usually
// tracks time, but a restore re-appends, so position alone is not enough.
func latestOf(dayEntries []diary.Entry) diary.Entry {
	latest := dayEntries[0]
	for _, e := range dayEntries[1:] {
		if !e.Date.Before(latest.Date) {
			latest = e
		}
	}
	return latest
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func emptyCell(day time.Time) Cell {
	return Cell{
		Date:    day,
		Glyphs:  diary.PlaceholderGlyph,
		Tooltip: fmt.Sprintf("%s - %s", dayKey(day), NoRecordTooltip),
	}
}

func tooltip(e diary.Entry) string {
	t := fmt.Sprintf("%s - %s", dayKey(e.Date), e.Label())
	if s := strings.TrimSpace(e.Summary); s != "" {
		t += " | " + truncate(s, tooltipSummaryMax)
	} else if len(e.Keywords) > 0 {
		t += " | " + strings.Join(e.Keywords, " ")
	}
	return t
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
