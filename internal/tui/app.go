// internal/tui/app.go
//
// The habit chart view. It follows The Elm Architecture like any bubbletea
// program: messages come in through Update, the model changes, View renders.
//
// A tea.Tick drives the file watcher, so edits made outside the app (or a
// logical day rollover) show up without a keypress.

package tui

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/habit-chart/internal/chart"
	"github.com/kingrea/habit-chart/internal/habit"
	"github.com/kingrea/habit-chart/internal/logbook"
	"github.com/kingrea/habit-chart/internal/summary"
	"github.com/kingrea/habit-chart/internal/watch"
)

const quitLabel = "Quit"

// Chart is the part of chart.Controller the view drives.
type Chart interface {
	Path() string
	Snapshot() (chart.State, bool)
	Err() error
	Reload() error
	Toggle(token string, bonus bool) error
}

// Poller checks the document for changes. watch.Watcher satisfies it.
type Poller interface {
	Interval() time.Duration
	Tick() (watch.Trigger, error)
}

// EditorCommand builds the process that opens the document for editing.
type EditorCommand func(path string) *exec.Cmd

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithPoller enables periodic polling.
func WithPoller(p Poller) AppOption {
	return func(a *App) {
		a.poller = p
	}
}

// WithLogbook shows the latest log line under the menu.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

// WithEditorCommand overrides how the document is opened for editing.
func WithEditorCommand(fn EditorCommand) AppOption {
	return func(a *App) {
		if fn != nil {
			a.editor = fn
		}
	}
}

type pollMsg struct{}

type editorFinishedMsg struct {
	err error
}

type actionKind int

const (
	actionEdit actionKind = iota
	actionQuit
)

// habitItem is a toggleable menu entry.
type habitItem struct {
	habit   habit.Habit
	checked bool
}

func (i habitItem) Title() string {
	box := "[ ] "
	if i.checked {
		box = "[x] "
	}
	label := box + summary.MenuLabel(i.habit)
	if i.habit.Bonus {
		label += " " + habit.BonusMarker
	}
	return label
}
func (i habitItem) Description() string { return "" }
func (i habitItem) FilterValue() string { return summary.MenuLabel(i.habit) }

type actionItem struct {
	kind  actionKind
	title string
}

func (i actionItem) Title() string       { return i.title }
func (i actionItem) Description() string { return "" }
func (i actionItem) FilterValue() string { return i.title }

// App is the bubbletea model for the habit chart.
type App struct {
	chart   Chart
	poller  Poller
	logbook *logbook.Logbook
	editor  EditorCommand

	menu list.Model
	keys keyMap
	help help.Model

	width     int
	height    int
	statusMsg string
	statusErr bool
}

// NewApp builds the view over a loaded (or failed-to-load) chart.
func NewApp(c Chart, opts ...AppOption) *App {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	menu := list.New(nil, delegate, 0, 0)
	menu.SetShowTitle(false)
	menu.SetShowStatusBar(false)
	menu.SetShowHelp(false)
	menu.SetFilteringEnabled(false)

	app := &App{
		chart:  c,
		editor: func(path string) *exec.Cmd { return editorCommand(path, os.Getenv) },
		menu:   menu,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.refresh()
	if err := c.Err(); err != nil {
		app.setError(err)
	}
	return app
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.windowTitle(), a.schedulePoll())
}

// Update handles one message.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.menu.SetSize(max(20, msg.Width-4), max(3, msg.Height-9))
		return a, nil

	case pollMsg:
		a.poll()
		return a, tea.Batch(a.windowTitle(), a.schedulePoll())

	case editorFinishedMsg:
		if msg.err != nil {
			a.logbook.Warn("editor exited: %v", msg.err)
			a.setError(fmt.Errorf("editor: %w", msg.err))
		}
		// Pick up the edit now rather than on the next tick.
		a.poll()
		return a, a.windowTitle()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Toggle):
			return a.activate(a.menu.SelectedItem())
		case key.Matches(msg, a.keys.Edit):
			return a, a.openEditor()
		case key.Matches(msg, a.keys.Reload):
			if err := a.chart.Reload(); err != nil {
				a.setError(err)
			} else {
				a.setStatus("Reloaded " + filepath.Base(a.chart.Path()))
			}
			a.refresh()
			return a, a.windowTitle()
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.menu, cmd = a.menu.Update(msg)
	return a, cmd
}

func (a *App) activate(selected list.Item) (tea.Model, tea.Cmd) {
	switch item := selected.(type) {
	case habitItem:
		err := a.chart.Toggle(item.habit.Token, item.habit.Bonus)
		// A failed save still leaves the toggle applied in memory.
		a.refresh()
		switch {
		case errors.Is(err, chart.ErrNotLoaded):
			a.setError(err)
			return a, nil
		case err != nil:
			a.setError(err)
		case item.checked:
			a.setStatus("Unchecked " + summary.MenuLabel(item.habit))
		default:
			a.setStatus("Checked " + summary.MenuLabel(item.habit))
		}
		return a, a.windowTitle()
	case actionItem:
		if item.kind == actionQuit {
			return a, tea.Quit
		}
		return a, a.openEditor()
	}
	return a, nil
}

func (a *App) openEditor() tea.Cmd {
	cmd := a.editor(a.chart.Path())
	if cmd == nil {
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (a *App) poll() {
	if a.poller == nil {
		return
	}
	trigger, err := a.poller.Tick()
	switch {
	case err != nil:
		a.setError(err)
	case trigger != watch.TriggerNone:
		a.setStatus(fmt.Sprintf("Reloaded (%s)", trigger))
	}
	a.refresh()
}

func (a *App) schedulePoll() tea.Cmd {
	if a.poller == nil {
		return nil
	}
	return tea.Tick(a.poller.Interval(), func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

// refresh rebuilds the menu from the controller's current state.
func (a *App) refresh() {
	st, ok := a.chart.Snapshot()
	var items []list.Item
	edit := "Edit habits"
	if ok {
		for _, item := range st.Checklist.Primary {
			items = append(items, habitItem{habit: item.Habit, checked: item.Checked})
		}
		for _, item := range st.Checklist.Bonus {
			items = append(items, habitItem{habit: item.Habit, checked: item.Checked})
		}
		edit = st.History
	}
	items = append(items,
		actionItem{kind: actionEdit, title: edit},
		actionItem{kind: actionQuit, title: quitLabel},
	)
	a.menu.SetItems(items)
}

func (a *App) heading() string {
	if st, ok := a.chart.Snapshot(); ok {
		return st.Heading()
	}
	return summary.StaticLabel
}

func (a *App) windowTitle() tea.Cmd {
	return tea.SetWindowTitle(a.heading())
}

func (a *App) setStatus(msg string) {
	a.statusMsg = msg
	a.statusErr = false
}

func (a *App) setError(err error) {
	a.statusMsg = err.Error()
	a.statusErr = true
}

// View renders the current state.
func (a *App) View() string {
	sections := []string{
		headerStyle.Render(a.heading()),
		a.menu.View(),
	}
	if a.statusMsg != "" {
		style := statusStyle
		if a.statusErr {
			style = errorStyle
		}
		sections = append(sections, style.Render(a.statusMsg))
	}
	if line := a.lastLogLine(); line != "" {
		sections = append(sections, logStyle.Render(line))
	}
	sections = append(sections,
		pathStyle.Render(a.chart.Path()),
		a.help.View(a.keys),
	)
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if a.width > 0 {
		return panelStyle.Width(max(20, a.width-2)).Render(body)
	}
	return panelStyle.Render(body)
}

func (a *App) lastLogLine() string {
	lines, _ := a.logbook.Tail(1)
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

// editorCommand opens path in $VISUAL or $EDITOR, falling back to the
// desktop's default handler.
func editorCommand(path string, getenv func(string) string) *exec.Cmd {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(getenv(name)); len(fields) > 0 {
			return exec.Command(fields[0], append(fields[1:], path)...)
		}
	}
	if runtime.GOOS == "darwin" {
		return exec.Command("open", path)
	}
	return exec.Command("xdg-open", path)
}
