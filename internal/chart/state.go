// Package chart holds the habit chart state machine.
//
// State transitions are pure: Build and State.Toggle return a new State and
// the side effects to run. Controller owns the current State, serializes all
// mutations, and executes the effects.
package chart

import (
	"errors"
	"fmt"
	"time"

	"github.com/kingrea/habit-chart/internal/calendar"
	"github.com/kingrea/habit-chart/internal/document"
	"github.com/kingrea/habit-chart/internal/habit"
	"github.com/kingrea/habit-chart/internal/summary"
)

// ErrUnknownHabit is returned when toggling a token that is not registered.
var ErrUnknownHabit = errors.New("chart: unknown habit")

// State is a fully derived snapshot for one logical day.
type State struct {
	Path      string
	Document  *document.Document
	Registry  habit.Registry
	Checklist habit.Checklist
	Day       calendar.Date
	Mode      summary.Mode
	Title     string
	History   string
}

// Effect is a side effect requested by a transition.
type Effect interface {
	effect()
}

// Persist asks for the document to be written to Path.
type Persist struct {
	Path     string
	Document *document.Document
}

// Render asks for the display strings to be refreshed.
type Render struct {
	Title   string
	History string
}

// Cue asks for an audio cue. AllDone is set when the toggled habit's scope
// (primary or bonus) is now complete.
type Cue struct {
	AllDone bool
}

func (Persist) effect() {}
func (Render) effect()  {}
func (Cue) effect()     {}

// Build derives the state for the logical day containing now.
func Build(path string, doc *document.Document, now time.Time, codec habit.Codec) (State, error) {
	reg := habit.FromDocument(doc)
	if err := reg.Validate(); err != nil {
		return State{}, err
	}
	hour, ok := doc.ResetAtHour()
	day := calendar.LogicalDay(now, hour, ok)
	entry, _ := doc.LogEntry(day.String())
	st := State{
		Path:      path,
		Document:  doc,
		Registry:  reg,
		Checklist: codec.Derive(reg, entry),
		Day:       day,
	}
	return st.refresh(codec), nil
}

// LogicalDay resolves now against the document's reset hour.
func (s State) LogicalDay(now time.Time) calendar.Date {
	if s.Document == nil {
		return calendar.DateOf(now)
	}
	hour, ok := s.Document.ResetAtHour()
	return calendar.LogicalDay(now, hour, ok)
}

// Toggle flips one habit for the state's day, re-encodes the day's summary
// into a copy of the document, and returns the effects to execute.
func (s State) Toggle(codec habit.Codec, token string, bonus bool) (State, []Effect, error) {
	checklist, ok := s.Checklist.Toggle(token, bonus)
	if !ok {
		return s, nil, fmt.Errorf("%w: %q", ErrUnknownHabit, token)
	}
	doc := s.Document.Clone()
	doc.SetLogEntry(s.Day.String(), codec.Encode(checklist))

	next := s
	next.Document = doc
	next.Checklist = checklist
	next = next.refresh(codec)

	effects := []Effect{
		Persist{Path: s.Path, Document: doc},
		Render{Title: next.Title, History: next.History},
	}
	if on, _ := checklist.Checked(token, bonus); on && doc.SoundEnabled() {
		allDone := checklist.AllPrimaryDone()
		if bonus {
			allDone = checklist.AllBonusDone()
		}
		effects = append(effects, Cue{AllDone: allDone})
	}
	return next, effects, nil
}

// Heading returns the status line for the current title.
func (s State) Heading() string {
	return summary.Heading(s.Mode, s.Title)
}

// Encoded returns the summary string for the current checklist.
func (s State) Encoded(codec habit.Codec) string {
	return codec.Encode(s.Checklist)
}

func (s State) refresh(codec habit.Codec) State {
	s.Mode = summary.ParseMode(s.Document.TitleMode())
	s.Title = summary.Title(s.Mode, s.Checklist, codec.Encode(s.Checklist))
	s.History = summary.History(s.Day, s.Document.LogEntries())
	return s
}
