package tui

import (
	"strings"
	"testing"
	"time"

	"moodiary/internal/calendar"
	"moodiary/internal/diary"
)

func TestRenderMarkdown_Basic(t *testing.T) {
	input := "That sounds **really hard**. Be gentle with yourself."
	result := RenderMarkdown(input, 80)
	if result == "" {
		t.Fatal("RenderMarkdown returned empty")
	}
	if !strings.Contains(result, "hard") {
		t.Fatalf("result should contain 'hard': %q", result)
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	if RenderMarkdown("", 80) != "" {
		t.Fatal("empty input should return empty")
	}
	if RenderMarkdown("  ", 80) != "" {
		t.Fatal("whitespace input should return empty")
	}
}

func TestRenderStrip(t *testing.T) {
	theme := DarkTheme()
	today := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	entries := []diary.Entry{
		{Date: today, Mood: diary.MoodGood, Summary: "good walk"},
	}
	cells := calendar.Window(entries, today, 7)
	result := RenderStrip(cells, theme)
	if result == "" {
		t.Fatal("RenderStrip returned empty")
	}
	if !strings.Contains(result, diary.MoodGood.Glyph()) {
		t.Fatalf("strip should contain the mood glyph: %q", result)
	}
	if !strings.Contains(result, diary.PlaceholderGlyph) {
		t.Fatalf("strip should contain placeholders for empty days: %q", result)
	}
}

func TestRenderMonthGrid(t *testing.T) {
	theme := DarkTheme()
	entries := []diary.Entry{
		{Date: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), Mood: diary.MoodBad},
	}
	cells := calendar.Month(entries, 2026, time.March)
	result := RenderMonthGrid(cells, theme)
	if !strings.Contains(result, "Su") {
		t.Fatalf("grid should have a weekday header: %q", result)
	}
	if !strings.Contains(result, diary.MoodBad.Glyph()) {
		t.Fatalf("grid should contain the entry glyph: %q", result)
	}
	// 2026-03-01 是周日，首行无偏移 / March 2026 starts on Sunday, no offset
	lines := strings.Split(result, "\n")
	if len(lines) < 2 || strings.HasPrefix(lines[1], " ") == false {
		t.Fatalf("unexpected grid layout: %q", result)
	}
}

func TestRenderStats(t *testing.T) {
	theme := DarkTheme()
	entries := []diary.Entry{
		{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Mood: diary.MoodGood},
		{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Mood: diary.MoodGood},
		{Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), Mood: diary.MoodBad},
	}
	result := RenderStats(calendar.MonthStats(entries, 2026, time.March), theme)
	if !strings.Contains(result, "67%") {
		t.Fatalf("stats should contain the rounded percentage: %q", result)
	}
	if !strings.Contains(result, "2 (") {
		t.Fatalf("stats should contain the count: %q", result)
	}
}

func TestRenderStats_Empty(t *testing.T) {
	theme := DarkTheme()
	result := RenderStats(nil, theme)
	if !strings.Contains(result, "no entries") {
		t.Fatalf("empty stats should say so: %q", result)
	}
}
