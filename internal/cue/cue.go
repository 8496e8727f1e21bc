// Package cue plays the completion sounds for the habit chart.
package cue

import (
	"io"
	"strings"
	"sync"
)

const bel = "\a"

// Bell rings the terminal bell: once for a checked habit, twice when the
// habit's whole section is done.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play rings the cue for a newly checked habit.
func (b *Bell) Play(allDone bool) error {
	if b == nil || b.w == nil {
		return nil
	}
	rings := 1
	if allDone {
		rings = 2
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.w, strings.Repeat(bel, rings))
	return err
}
