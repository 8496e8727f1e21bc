package tui

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/habit-chart/internal/chart"
	"github.com/kingrea/habit-chart/internal/document"
	"github.com/kingrea/habit-chart/internal/watch"
)

const testDocument = `habits:
  🏃: run
bonus:
  🧘: meditate
log: {}
`

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

type fakePoller struct {
	ctrl  *chart.Controller
	ticks int
	err   error
}

func (p *fakePoller) Interval() time.Duration { return time.Second }

func (p *fakePoller) Tick() (watch.Trigger, error) {
	p.ticks++
	if p.err != nil {
		return watch.TriggerNone, p.err
	}
	return watch.TriggerModified, p.ctrl.Reload()
}

func newTestApp(t *testing.T, content string, opts ...AppOption) (*App, *chart.Controller, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habits.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	ctrl := chart.New(path, chart.WithClock(func() time.Time { return fixedNow }))
	if err := ctrl.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	app := NewApp(ctrl, opts...)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return app, ctrl, path
}

func press(a *App, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := a.Update(msg)
	return cmd
}

func itemTitles(a *App) []string {
	var titles []string
	for _, item := range a.menu.Items() {
		switch it := item.(type) {
		case habitItem:
			titles = append(titles, it.Title())
		case actionItem:
			titles = append(titles, it.Title())
		}
	}
	return titles
}

func TestMenuListsHabitsThenActions(t *testing.T) {
	app, _, _ := newTestApp(t, testDocument)
	want := []string{
		"[ ] 🏃 run",
		"[ ] 🧘 meditate 🌟",
		"Edit habits (01 Mar, ⭐️×0, 🌟×0)",
		"Quit",
	}
	got := itemTitles(app)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("menu = %q, want %q", got, want)
	}
	if h := app.heading(); h != "Habits: 0 / 1" {
		t.Fatalf("heading = %q", h)
	}
}

func TestToggleSavesAndRefreshes(t *testing.T) {
	app, _, path := newTestApp(t, testDocument)
	app.menu.Select(0)
	if cmd := press(app, "enter"); cmd == nil {
		t.Fatalf("toggle should update the window title")
	}
	if got := itemTitles(app)[0]; got != "[x] 🏃 run" {
		t.Fatalf("first item = %q", got)
	}
	if h := app.heading(); h != "Habits: 🏃⭐️" {
		t.Fatalf("heading = %q", h)
	}
	if app.statusErr || app.statusMsg != "Checked 🏃 run" {
		t.Fatalf("status = %q (err=%v)", app.statusMsg, app.statusErr)
	}

	doc, err := document.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, _ := doc.LogEntry("2024-03-01"); got != "🏃⭐️" {
		t.Fatalf("log entry = %q", got)
	}
	if got := itemTitles(app)[2]; got != "Edit habits (01 Mar, ⭐️×1, 🌟×0)" {
		t.Fatalf("edit entry = %q", got)
	}
}

func TestToggleBonusWithSpace(t *testing.T) {
	app, _, _ := newTestApp(t, testDocument)
	app.menu.Select(1)
	_, _ = app.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if got := itemTitles(app)[1]; got != "[x] 🧘 meditate 🌟" {
		t.Fatalf("bonus item = %q", got)
	}
	if h := app.heading(); h != "Habits: 🧘🌟" {
		t.Fatalf("heading = %q", h)
	}
}

func TestPollPicksUpExternalEdits(t *testing.T) {
	poller := &fakePoller{}
	app, ctrl, path := newTestApp(t, testDocument, WithPoller(poller))
	poller.ctrl = ctrl

	edited := strings.Replace(testDocument, "  🏃: run\n", "  🏃: run\n  📖: read\n", 1)
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}
	_, cmd := app.Update(pollMsg{})
	if cmd == nil {
		t.Fatalf("poll should schedule the next tick")
	}
	if poller.ticks != 1 {
		t.Fatalf("ticks = %d", poller.ticks)
	}
	if got := len(app.menu.Items()); got != 5 {
		t.Fatalf("items after reload = %d, want 5", got)
	}
	if h := app.heading(); h != "Habits: 0 / 2" {
		t.Fatalf("heading = %q", h)
	}
}

func TestPollErrorKeepsMenuAndShowsStatus(t *testing.T) {
	poller := &fakePoller{err: errors.New("document: parse broken.yaml")}
	app, _, _ := newTestApp(t, testDocument, WithPoller(poller))
	app.Update(pollMsg{})
	if !app.statusErr {
		t.Fatalf("expected error status")
	}
	if got := len(app.menu.Items()); got != 4 {
		t.Fatalf("items = %d, want 4", got)
	}
	if view := app.View(); !strings.Contains(view, "parse broken.yaml") {
		t.Fatalf("view missing error:\n%s", view)
	}
}

func TestEditOpensEditorThenPolls(t *testing.T) {
	var opened string
	poller := &fakePoller{}
	app, ctrl, path := newTestApp(t, testDocument,
		WithPoller(poller),
		WithEditorCommand(func(p string) *exec.Cmd {
			opened = p
			return exec.Command("true")
		}),
	)
	poller.ctrl = ctrl

	if cmd := press(app, "e"); cmd == nil {
		t.Fatalf("edit should return an exec command")
	}
	if opened != path {
		t.Fatalf("editor opened %q, want %q", opened, path)
	}
	app.Update(editorFinishedMsg{})
	if poller.ticks != 1 {
		t.Fatalf("editor exit should poll once, ticks = %d", poller.ticks)
	}

	app.Update(editorFinishedMsg{err: errors.New("exit status 1")})
	if !app.statusErr || !strings.Contains(app.statusMsg, "exit status 1") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestEditEntryOpensEditor(t *testing.T) {
	calls := 0
	app, _, _ := newTestApp(t, testDocument, WithEditorCommand(func(string) *exec.Cmd {
		calls++
		return exec.Command("true")
	}))
	app.menu.Select(2)
	if cmd := press(app, "enter"); cmd == nil || calls != 1 {
		t.Fatalf("edit entry: cmd=%v calls=%d", cmd, calls)
	}
}

func TestQuitEntryAndKey(t *testing.T) {
	app, _, _ := newTestApp(t, testDocument)
	app.menu.Select(3)
	cmd := press(app, "enter")
	if cmd == nil {
		t.Fatalf("quit entry should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit entry did not quit")
	}
	cmd = press(app, "q")
	if cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestUnloadedChartShowsActionsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	ctrl := chart.New(path)
	if err := ctrl.Reload(); !errors.Is(err, document.ErrNotFound) {
		t.Fatalf("reload err = %v", err)
	}
	app := NewApp(ctrl)
	if got := itemTitles(app); strings.Join(got, "|") != "Edit habits|Quit" {
		t.Fatalf("menu = %q", got)
	}
	if !app.statusErr {
		t.Fatalf("load error should be shown")
	}
	if app.heading() != "Habits" {
		t.Fatalf("heading = %q", app.heading())
	}
}

func TestEditorCommandResolution(t *testing.T) {
	env := map[string]string{"EDITOR": "code -w"}
	cmd := editorCommand("/tmp/habits.yaml", func(k string) string { return env[k] })
	if got := strings.Join(cmd.Args, " "); got != "code -w /tmp/habits.yaml" {
		t.Fatalf("args = %q", got)
	}

	env["VISUAL"] = "vim"
	cmd = editorCommand("/tmp/habits.yaml", func(k string) string { return env[k] })
	if got := strings.Join(cmd.Args, " "); got != "vim /tmp/habits.yaml" {
		t.Fatalf("VISUAL should win, args = %q", got)
	}

	cmd = editorCommand("/tmp/habits.yaml", func(string) string { return "" })
	want := "xdg-open"
	if runtime.GOOS == "darwin" {
		want = "open"
	}
	if cmd.Args[0] != want {
		t.Fatalf("fallback = %q, want %q", cmd.Args[0], want)
	}
}
