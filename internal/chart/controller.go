package chart

import (
	"errors"
	"sync"
	"time"

	"github.com/kingrea/habit-chart/internal/calendar"
	"github.com/kingrea/habit-chart/internal/document"
	"github.com/kingrea/habit-chart/internal/habit"
)

// ErrNotLoaded is returned by Toggle before the first successful reload.
var ErrNotLoaded = errors.New("chart: document not loaded")

// Store loads and saves the habit document.
type Store interface {
	Load(path string) (*document.Document, error)
	Save(path string, doc *document.Document) error
}

// FileStore is the Store backed by document.Load and document.Save.
type FileStore struct{}

func (FileStore) Load(path string) (*document.Document, error) { return document.Load(path) }

func (FileStore) Save(path string, doc *document.Document) error { return document.Save(path, doc) }

// CuePlayer plays the completion sounds.
type CuePlayer interface {
	Play(allDone bool) error
}

// Logger receives controller diagnostics.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Option customizes a Controller.
type Option func(*Controller)

// WithStore overrides the document store.
func WithStore(store Store) Option {
	return func(c *Controller) {
		if store != nil {
			c.store = store
		}
	}
}

// WithCodec overrides the summary string codec.
func WithCodec(codec habit.Codec) Option {
	return func(c *Controller) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithCuePlayer sets the audio cue player. Without one, cues are dropped.
func WithCuePlayer(cue CuePlayer) Option {
	return func(c *Controller) {
		c.cue = cue
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithObserver registers a callback run after every reload and render.
func WithObserver(fn func(State)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// Controller owns the current State. All reloads and toggles are serialized.
type Controller struct {
	path      string
	store     Store
	codec     habit.Codec
	cue       CuePlayer
	logger    Logger
	clock     func() time.Time
	observers []func(State)

	mu      sync.Mutex
	state   State
	loaded  bool
	lastErr error
}

// New creates a controller for the document at path. Call Reload before use.
func New(path string, opts ...Option) *Controller {
	c := &Controller{
		path:   path,
		store:  FileStore{},
		codec:  habit.SubstringCodec{},
		logger: nopLogger{},
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the backing file path.
func (c *Controller) Path() string {
	return c.path
}

// Snapshot returns the current state and whether a document has been loaded.
func (c *Controller) Snapshot() (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.loaded
}

// Err returns the error from the most recent reload or save, if it failed.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Day returns the logical day of the last successful reload.
func (c *Controller) Day() calendar.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Day
}

// LogicalDay resolves now using the last loaded reset hour.
func (c *Controller) LogicalDay(now time.Time) calendar.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.LogicalDay(now)
}

// Reload replaces the in-memory state with a fresh load of the document.
// On failure the last good state is kept and the error is returned.
func (c *Controller) Reload() error {
	c.mu.Lock()
	doc, err := c.store.Load(c.path)
	if err == nil {
		var st State
		st, err = Build(c.path, doc, c.clock(), c.codec)
		if err == nil {
			c.state = st
			c.loaded = true
		}
	}
	c.lastErr = err
	st := c.state
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("Reload of %s failed, keeping last state: %v", c.path, err)
		return err
	}
	c.logger.Info("Reloaded %s for %s", c.path, st.Day)
	c.publish(st)
	return nil
}

// Toggle flips one habit for the current day and persists the document. If
// the save fails the in-memory state is kept and the error is returned; the
// next successful save will catch the file up.
func (c *Controller) Toggle(token string, bonus bool) error {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	next, effects, err := c.state.Toggle(c.codec, token, bonus)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next

	var saveErr error
	var render bool
	var cues []Cue
	for _, eff := range effects {
		switch e := eff.(type) {
		case Persist:
			saveErr = c.store.Save(e.Path, e.Document)
		case Render:
			render = true
		case Cue:
			cues = append(cues, e)
		}
	}
	c.lastErr = saveErr
	c.mu.Unlock()

	if saveErr != nil {
		c.logger.Error("Saving %s after toggling %s failed: %v", c.path, token, saveErr)
	} else {
		c.logger.Info("Toggled %s · %s = %q", token, next.Day, next.Encoded(c.codec))
	}
	if render {
		c.publish(next)
	}
	if saveErr == nil && c.cue != nil {
		for _, cue := range cues {
			if err := c.cue.Play(cue.AllDone); err != nil {
				c.logger.Warn("Audio cue failed: %v", err)
			}
		}
	}
	return saveErr
}

func (c *Controller) publish(st State) {
	for _, fn := range c.observers {
		fn(st)
	}
}
