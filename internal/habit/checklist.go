package habit

import "strings"

// Item is a habit with its checkbox state for the current day.
type Item struct {
	Habit
	Checked bool
}

// Checklist holds the day's checkbox state in registry order.
type Checklist struct {
	Primary []Item
	Bonus   []Item
}

// Codec converts between checklists and the summary strings kept in the log.
type Codec interface {
	Derive(reg Registry, entry string) Checklist
	Encode(c Checklist) string
}

// SubstringCodec is the file format used by the habit log: checked tokens are
// concatenated and recovered by substring search.
type SubstringCodec struct{}

var _ Codec = SubstringCodec{}

// Derive marks each registered habit as checked when its token occurs in entry.
func (SubstringCodec) Derive(reg Registry, entry string) Checklist {
	derive := func(habits []Habit) []Item {
		if len(habits) == 0 {
			return nil
		}
		items := make([]Item, len(habits))
		for i, h := range habits {
			items[i] = Item{Habit: h, Checked: strings.Contains(entry, h.Token)}
		}
		return items
	}
	return Checklist{Primary: derive(reg.Primary), Bonus: derive(reg.Bonus)}
}

// Encode renders checked primary tokens, the all-done marker when every
// primary habit is checked, then each checked bonus token followed by the
// bonus marker.
func (SubstringCodec) Encode(c Checklist) string {
	var b strings.Builder
	for _, item := range c.Primary {
		if item.Checked {
			b.WriteString(item.Token)
		}
	}
	if c.AllPrimaryDone() {
		b.WriteString(AllDoneMarker)
	}
	for _, item := range c.Bonus {
		if item.Checked {
			b.WriteString(item.Token)
			b.WriteString(BonusMarker)
		}
	}
	return b.String()
}

// AllPrimaryDone reports whether there is at least one primary habit and all
// of them are checked.
func (c Checklist) AllPrimaryDone() bool {
	return allChecked(c.Primary)
}

// AllBonusDone reports whether there is at least one bonus habit and all of
// them are checked.
func (c Checklist) AllBonusDone() bool {
	return allChecked(c.Bonus)
}

// Checked returns the state of the habit identified by token and scope.
func (c Checklist) Checked(token string, bonus bool) (checked, ok bool) {
	for _, item := range c.scope(bonus) {
		if item.Token == token {
			return item.Checked, true
		}
	}
	return false, false
}

// Toggle returns a copy of c with the given habit flipped. ok is false when no
// habit with that token exists in the scope.
func (c Checklist) Toggle(token string, bonus bool) (Checklist, bool) {
	next := c.Clone()
	items := next.scope(bonus)
	for i := range items {
		if items[i].Token == token {
			items[i].Checked = !items[i].Checked
			return next, true
		}
	}
	return c, false
}

// Clone returns a copy that shares no backing arrays with c.
func (c Checklist) Clone() Checklist {
	return Checklist{
		Primary: append([]Item(nil), c.Primary...),
		Bonus:   append([]Item(nil), c.Bonus...),
	}
}

// Equal reports whether both checklists hold the same items and states.
func (c Checklist) Equal(other Checklist) bool {
	return itemsEqual(c.Primary, other.Primary) && itemsEqual(c.Bonus, other.Bonus)
}

func (c Checklist) scope(bonus bool) []Item {
	if bonus {
		return c.Bonus
	}
	return c.Primary
}

func allChecked(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.Checked {
			return false
		}
	}
	return true
}

func itemsEqual(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
