// Package watch polls the habit document for external edits and day rollover.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kingrea/habit-chart/internal/calendar"
	"github.com/kingrea/habit-chart/internal/document"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 10 * time.Second

// Source is the reloadable state being watched.
type Source interface {
	Path() string
	// Day is the logical day of the last successful reload.
	Day() calendar.Date
	// LogicalDay resolves now with the source's current day boundary.
	LogicalDay(now time.Time) calendar.Date
	Reload() error
}

// Trigger reports why a tick reloaded.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerModified
	TriggerRollover
)

func (t Trigger) String() string {
	switch t {
	case TriggerModified:
		return "modified"
	case TriggerRollover:
		return "rollover"
	default:
		return "none"
	}
}

// StatFunc returns file info for a path; os.Stat by default.
type StatFunc func(path string) (fs.FileInfo, error)

// Option customizes a Watcher.
type Option func(*Watcher)

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(w *Watcher) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// WithStat overrides how the file's modification time is read.
func WithStat(stat StatFunc) Option {
	return func(w *Watcher) {
		if stat != nil {
			w.stat = stat
		}
	}
}

// WithInterval sets the polling period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// Watcher decides on each tick whether the source needs a full reload.
type Watcher struct {
	source   Source
	stat     StatFunc
	clock    func() time.Time
	interval time.Duration
	lastMod  time.Time
}

// New creates a watcher for source.
func New(source Source, opts ...Option) *Watcher {
	w := &Watcher{
		source:   source,
		stat:     os.Stat,
		clock:    time.Now,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Interval returns the polling period.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Prime records the file's current modification time without reloading, so
// the first tick after an initial load does not reload again.
func (w *Watcher) Prime() error {
	info, err := w.statSource()
	if err != nil {
		return err
	}
	w.lastMod = info.ModTime()
	return nil
}

// Tick performs one poll. A changed modification time reloads; otherwise a
// changed logical day reloads; otherwise nothing else is touched.
func (w *Watcher) Tick() (Trigger, error) {
	info, err := w.statSource()
	if err != nil {
		return TriggerNone, err
	}
	if mod := info.ModTime(); !mod.Equal(w.lastMod) {
		// A failed reload leaves lastMod alone so the next tick tries again.
		if err := w.source.Reload(); err != nil {
			return TriggerModified, err
		}
		w.lastMod = mod
		return TriggerModified, nil
	}
	if !w.source.LogicalDay(w.clock()).Equal(w.source.Day()) {
		return TriggerRollover, w.source.Reload()
	}
	return TriggerNone, nil
}

func (w *Watcher) statSource() (fs.FileInfo, error) {
	path := w.source.Path()
	info, err := w.stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("watch: %w: %w", document.ErrNotFound, err)
		}
		return nil, fmt.Errorf("watch: stat %s: %w", path, err)
	}
	return info, nil
}
