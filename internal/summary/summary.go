// Package summary formats checklist state and the habit log for display.
// Everything here is pure.
package summary

import (
	"fmt"
	"strings"

	"github.com/kingrea/habit-chart/internal/calendar"
	"github.com/kingrea/habit-chart/internal/document"
	"github.com/kingrea/habit-chart/internal/habit"
)

// Mode selects how the title is rendered.
type Mode string

const (
	ModeSummary Mode = ""
	ModeStars   Mode = "stars"
	ModeNone    Mode = "none"
)

// Glyphs used by ModeStars, and the ModeNone label.
const (
	PrimaryDone  = "★"
	PrimaryOpen  = "☆"
	BonusDone    = "✦"
	BonusOpen    = "✧"
	StaticLabel  = "Habits"
	TitlePrefix  = "Habits: "
	editLabel    = "Edit habits"
	countPattern = "%s×%d"
)

// ParseMode normalizes a title mode from the document. Unknown values render
// like the default mode.
func ParseMode(value string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeStars:
		return ModeStars
	case ModeNone:
		return ModeNone
	default:
		return ModeSummary
	}
}

// Title renders the status title for the current day. encoded is the day's
// summary string as produced by the habit codec.
func Title(mode Mode, c habit.Checklist, encoded string) string {
	switch mode {
	case ModeNone:
		return StaticLabel
	case ModeStars:
		var b strings.Builder
		for _, item := range c.Primary {
			b.WriteString(glyph(item.Checked, PrimaryDone, PrimaryOpen))
		}
		for _, item := range c.Bonus {
			b.WriteString(glyph(item.Checked, BonusDone, BonusOpen))
		}
		return b.String()
	default:
		if encoded != "" {
			return encoded
		}
		return fmt.Sprintf("0 / %d", len(c.Primary))
	}
}

// Heading renders the status line: the title behind TitlePrefix, or the
// static label alone in ModeNone.
func Heading(mode Mode, title string) string {
	if mode == ModeNone {
		return StaticLabel
	}
	return TitlePrefix + title
}

// CountAllDone returns how many days in the log carry the all-done marker.
func CountAllDone(entries []document.LogEntry) int {
	n := 0
	for _, e := range entries {
		if strings.Contains(e.Summary, habit.AllDoneMarker) {
			n++
		}
	}
	return n
}

// CountBonus returns the total number of bonus markers across the log. A day
// with three bonus habits done contributes three.
func CountBonus(entries []document.LogEntry) int {
	n := 0
	for _, e := range entries {
		n += strings.Count(e.Summary, habit.BonusMarker)
	}
	return n
}

// History renders the aggregate line shown next to the edit action, e.g.
// "Edit habits (01 Mar, ⭐️×3, 🌟×6)".
func History(day calendar.Date, entries []document.LogEntry) string {
	return fmt.Sprintf("%s (%s, %s, %s)",
		editLabel,
		day.Label(),
		fmt.Sprintf(countPattern, habit.AllDoneMarker, CountAllDone(entries)),
		fmt.Sprintf(countPattern, habit.BonusMarker, CountBonus(entries)),
	)
}

// MenuLabel renders a habit as "<icon> <name>".
func MenuLabel(h habit.Habit) string {
	if strings.TrimSpace(h.Name) == "" {
		return h.Token
	}
	return h.Token + " " + h.Name
}

func glyph(done bool, on, off string) string {
	if done {
		return on
	}
	return off
}
