package summary

import (
	"testing"

	"github.com/kingrea/habit-chart/internal/calendar"
	"github.com/kingrea/habit-chart/internal/document"
	"github.com/kingrea/habit-chart/internal/habit"
)

func checklist() habit.Checklist {
	return habit.Checklist{
		Primary: []habit.Item{
			{Habit: habit.Habit{Token: "🏃"}, Checked: true},
			{Habit: habit.Habit{Token: "📖"}},
		},
		Bonus: []habit.Item{
			{Habit: habit.Habit{Token: "🧘", Bonus: true}, Checked: true},
		},
	}
}

func TestTitleModes(t *testing.T) {
	c := checklist()
	cases := []struct {
		mode    Mode
		encoded string
		want    string
	}{
		{ModeSummary, "🏃🧘🌟", "🏃🧘🌟"},
		{ModeSummary, "", "0 / 2"},
		{ModeStars, "🏃🧘🌟", "★☆✦"},
		{ModeNone, "🏃🧘🌟", "Habits"},
	}
	for _, tc := range cases {
		if got := Title(tc.mode, c, tc.encoded); got != tc.want {
			t.Fatalf("Title(%q, %q) = %q, want %q", tc.mode, tc.encoded, got, tc.want)
		}
	}
}

func TestHeading(t *testing.T) {
	if got := Heading(ModeSummary, "🏃⭐️"); got != "Habits: 🏃⭐️" {
		t.Fatalf("Heading(summary) = %q", got)
	}
	if got := Heading(ModeNone, "Habits"); got != "Habits" {
		t.Fatalf("Heading(none) = %q", got)
	}
}

func TestParseMode(t *testing.T) {
	for input, want := range map[string]Mode{
		"":        ModeSummary,
		"stars":   ModeStars,
		" Stars ": ModeStars,
		"none":    ModeNone,
		"fancy":   ModeSummary,
	} {
		if got := ParseMode(input); got != want {
			t.Fatalf("ParseMode(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBonusCounting(t *testing.T) {
	day := "🏃" + habit.AllDoneMarker + "🧘" + habit.BonusMarker + "🎸" + habit.BonusMarker
	entries := []document.LogEntry{
		{Day: "2024-03-01", Summary: day},
		{Day: "2024-03-02", Summary: day},
		{Day: "2024-03-03", Summary: day},
		{Day: "2024-03-04", Summary: "🏃"},
	}
	if got := CountBonus(entries[:1]); got != 2 {
		t.Fatalf("CountBonus(one day) = %d, want 2", got)
	}
	if got := CountBonus(entries); got != 6 {
		t.Fatalf("CountBonus = %d, want 6", got)
	}
	if got := CountAllDone(entries); got != 3 {
		t.Fatalf("CountAllDone = %d, want 3", got)
	}
	day4, _ := calendar.ParseDate("2024-03-04")
	if got, want := History(day4, entries), "Edit habits (04 Mar, ⭐️×3, 🌟×6)"; got != want {
		t.Fatalf("History = %q, want %q", got, want)
	}
}

func TestMenuLabel(t *testing.T) {
	if got := MenuLabel(habit.Habit{Token: "🏃", Name: "run"}); got != "🏃 run" {
		t.Fatalf("MenuLabel = %q", got)
	}
	if got := MenuLabel(habit.Habit{Token: "🏃"}); got != "🏃" {
		t.Fatalf("MenuLabel without name = %q", got)
	}
}
