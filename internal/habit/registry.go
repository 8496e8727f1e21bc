// Package habit derives the trackable habits from the document and reconciles
// checklist state with the per-day summary strings stored in the log.
package habit

import (
	"fmt"
	"strings"

	"github.com/kingrea/habit-chart/internal/document"
)

// Markers appended to a summary string.
const (
	AllDoneMarker = "⭐️"
	BonusMarker   = "🌟"
)

// Habit is one trackable item.
type Habit struct {
	Token string
	Name  string
	Bonus bool
}

// Registry lists primary and bonus habits in document order.
type Registry struct {
	Primary []Habit
	Bonus   []Habit
}

// FromDocument projects the document's habit sections. No deduplication or
// validation happens here; see Registry.Validate.
func FromDocument(doc *document.Document) Registry {
	var reg Registry
	for _, e := range doc.Habits() {
		reg.Primary = append(reg.Primary, Habit{Token: e.Token, Name: e.Name})
	}
	for _, e := range doc.Bonus() {
		reg.Bonus = append(reg.Bonus, Habit{Token: e.Token, Name: e.Name, Bonus: true})
	}
	return reg
}

// All returns primary habits followed by bonus habits.
func (r Registry) All() []Habit {
	all := make([]Habit, 0, len(r.Primary)+len(r.Bonus))
	all = append(all, r.Primary...)
	return append(all, r.Bonus...)
}

// Len returns the total number of registered habits.
func (r Registry) Len() int {
	return len(r.Primary) + len(r.Bonus)
}

// AmbiguityError reports tokens that cannot be told apart in a summary
// string because one contains the other.
type AmbiguityError struct {
	Token string
	Other string
}

func (e *AmbiguityError) Error() string {
	if e.Token == "" {
		return "habit: empty icon token"
	}
	if e.Token == e.Other {
		return fmt.Sprintf("habit: icon %q is used more than once", e.Token)
	}
	return fmt.Sprintf("habit: icon %q overlaps %q; summaries would be ambiguous", e.Token, e.Other)
}

// Validate checks that every token can be recovered from a summary string by
// substring search: no empty tokens, no token inside another token (across
// primary and bonus), and no overlap with the markers.
func (r Registry) Validate() error {
	all := r.All()
	for i, h := range all {
		if h.Token == "" {
			return &AmbiguityError{}
		}
		for _, marker := range []string{AllDoneMarker, BonusMarker} {
			if strings.Contains(marker, h.Token) || strings.Contains(h.Token, marker) {
				return &AmbiguityError{Token: h.Token, Other: marker}
			}
		}
		for _, other := range all[i+1:] {
			if strings.Contains(other.Token, h.Token) {
				return &AmbiguityError{Token: h.Token, Other: other.Token}
			}
			if strings.Contains(h.Token, other.Token) {
				return &AmbiguityError{Token: other.Token, Other: h.Token}
			}
		}
	}
	return nil
}
