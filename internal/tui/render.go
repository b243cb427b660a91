package tui

import (
	"fmt"
	"strings"

	"moodiary/internal/calendar"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}

// RenderStrip 渲染滚动情绪条 / RenderStrip renders the rolling mood strip.
// One glyph column per day, oldest on the left, plus day-of-month markers
// every 7 cells so the strip stays readable.
func RenderStrip(cells []calendar.Cell, theme Theme) string {
	if len(cells) == 0 {
		return ""
	}
	var glyphs, days []string
	for i, c := range cells {
		glyphs = append(glyphs, c.Glyphs)
		if i%7 == 0 {
			days = append(days, fmt.Sprintf("%-2d", c.Date.Day()))
		} else {
			days = append(days, "  ")
		}
	}
	return strings.Join(glyphs, "") + "\n" + theme.MutedStyle.Render(strings.Join(days, ""))
}

// RenderMonthGrid 渲染月历网格 / RenderMonthGrid lays out one month of cells
// in calendar weeks, Sunday first. Cells before the first day are blank.
func RenderMonthGrid(cells []calendar.Cell, theme Theme) string {
	if len(cells) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.MutedStyle.Render(" Su  Mo  Tu  We  Th  Fr  Sa"))
	b.WriteString("\n")

	weekday := int(cells[0].Date.Weekday())
	b.WriteString(strings.Repeat("    ", weekday))
	for _, c := range cells {
		glyph := c.Glyphs
		if glyph == "" {
			glyph = " "
		}
		// 每格固定 4 列 / Fixed 4 columns per cell
		b.WriteString(fmt.Sprintf(" %s ", firstGlyph(glyph)))
		weekday++
		if weekday == 7 {
			weekday = 0
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// firstGlyph keeps the grid aligned when a day holds several entries.
func firstGlyph(glyphs string) string {
	for _, r := range glyphs {
		return string(r)
	}
	return " "
}

// RenderStats 渲染月度统计 / RenderStats renders the per-mood month counters.
func RenderStats(stats []calendar.MoodStat, theme Theme) string {
	if len(stats) == 0 {
		return theme.MutedStyle.Render("  no entries this month")
	}
	var parts []string
	for _, s := range stats {
		parts = append(parts, fmt.Sprintf("  %s %s %d (%d%%)", s.Glyph, s.Label, s.Count, s.Percent))
	}
	return strings.Join(parts, "\n")
}
