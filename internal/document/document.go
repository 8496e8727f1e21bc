// Package document loads and saves the habit YAML document.
//
// The document is kept as a yaml.v3 node tree so that saving a log entry
// re-emits the file with its key order, scalar styles and comments intact.
// Only structural decoding happens here.
package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Top-level keys of the habit document.
const (
	KeyHabits      = "habits"
	KeyBonus       = "bonus"
	KeyLog         = "log"
	KeyResetAtHour = "reset at hour"
	KeyTitleMode   = "title mode"
	KeySound       = "sound"
)

// Entry is one icon token and its display name, in document order.
type Entry struct {
	Token string
	Name  string
}

// LogEntry is one day of the log, keyed by its YYYY-MM-DD string.
type LogEntry struct {
	Day     string
	Summary string
}

// Document is the decoded habit file.
type Document struct {
	root *yaml.Node

	habits      []Entry
	bonus       []Entry
	log         []LogEntry
	logIndex    map[string]int
	resetAtHour *int
	titleMode   string
	sound       bool
}

// New returns an empty document.
func New() *Document {
	return &Document{
		root:     emptyRoot(),
		logIndex: map[string]int{},
		sound:    true,
	}
}

// Habits returns the primary habits in document order.
func (d *Document) Habits() []Entry {
	return append([]Entry(nil), d.habits...)
}

// Bonus returns the bonus habits in document order.
func (d *Document) Bonus() []Entry {
	return append([]Entry(nil), d.bonus...)
}

// LogEntries returns every log entry in document order.
func (d *Document) LogEntries() []LogEntry {
	return append([]LogEntry(nil), d.log...)
}

// LogEntry returns the summary stored for day, or "" when there is none.
func (d *Document) LogEntry(day string) (string, bool) {
	idx, ok := d.logIndex[day]
	if !ok {
		return "", false
	}
	return d.log[idx].Summary, true
}

// ResetAtHour returns the configured day boundary hour, if any.
func (d *Document) ResetAtHour() (int, bool) {
	if d.resetAtHour == nil {
		return 0, false
	}
	return *d.resetAtHour, true
}

// TitleMode returns the raw title mode value ("" when unset).
func (d *Document) TitleMode() string {
	return d.titleMode
}

// SoundEnabled reports whether audio cues are wanted. Defaults to true.
func (d *Document) SoundEnabled() bool {
	return d.sound
}

// SetLogEntry records summary for day. An existing entry is overwritten in
// place; a new one is appended to the end of the log mapping.
func (d *Document) SetLogEntry(day, summary string) {
	logMap := d.ensureLogMapping()
	value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: summary}
	replaced := false
	for i := len(logMap.Content) - 2; i >= 0; i -= 2 {
		if deref(logMap.Content[i]).Value != day {
			continue
		}
		if current := logMap.Content[i+1]; current.Kind == yaml.ScalarNode {
			value.Style = current.Style &^ (yaml.LiteralStyle | yaml.FoldedStyle)
			value.LineComment = current.LineComment
		}
		logMap.Content[i+1] = value
		replaced = true
		break
	}
	if !replaced {
		logMap.Style &^= yaml.FlowStyle
		logMap.Content = append(logMap.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: day},
			value,
		)
	}

	if idx, ok := d.logIndex[day]; ok {
		d.log[idx].Summary = summary
		return
	}
	d.logIndex[day] = len(d.log)
	d.log = append(d.log, LogEntry{Day: day, Summary: summary})
}

// Clone returns a deep copy that can be mutated independently.
func (d *Document) Clone() *Document {
	cloned := &Document{
		root:      cloneNode(d.root, map[*yaml.Node]*yaml.Node{}),
		habits:    d.Habits(),
		bonus:     d.Bonus(),
		log:       d.LogEntries(),
		logIndex:  make(map[string]int, len(d.logIndex)),
		titleMode: d.titleMode,
		sound:     d.sound,
	}
	for k, v := range d.logIndex {
		cloned.logIndex[k] = v
	}
	if d.resetAtHour != nil {
		hour := *d.resetAtHour
		cloned.resetAtHour = &hour
	}
	return cloned
}

func (d *Document) body() *yaml.Node {
	return d.root.Content[0]
}

func (d *Document) ensureLogMapping() *yaml.Node {
	body := d.body()
	for i := 0; i+1 < len(body.Content); i += 2 {
		if deref(body.Content[i]).Value != KeyLog {
			continue
		}
		value := deref(body.Content[i+1])
		if value.Kind == yaml.MappingNode {
			return value
		}
		created := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		body.Content[i+1] = created
		return created
	}
	created := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	body.Content = append(body.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: KeyLog},
		created,
	)
	return created
}

func (d *Document) decode() error {
	body := d.body()
	d.logIndex = map[string]int{}
	d.sound = true
	for i := 0; i+1 < len(body.Content); i += 2 {
		key := deref(body.Content[i])
		value := deref(body.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: top-level keys must be scalars", key.Line)
		}
		var err error
		switch key.Value {
		case KeyHabits:
			d.habits, err = decodeEntries(key.Value, value)
		case KeyBonus:
			d.bonus, err = decodeEntries(key.Value, value)
		case KeyLog:
			err = d.decodeLog(value)
		case KeyResetAtHour:
			err = d.decodeResetAtHour(value)
		case KeyTitleMode:
			err = d.decodeTitleMode(value)
		case KeySound:
			err = d.decodeSound(value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeEntries(name string, node *yaml.Node) ([]Entry, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %s must be a mapping of icon to name", node.Line, name)
	}
	entries := make([]Entry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := deref(node.Content[i])
		value := deref(node.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %s icons must be scalars", key.Line, name)
		}
		entry := Entry{Token: key.Value}
		switch {
		case isNull(value):
		case value.Kind == yaml.ScalarNode:
			entry.Name = value.Value
		default:
			return nil, fmt.Errorf("line %d: %s name for %q must be a scalar", value.Line, name, key.Value)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (d *Document) decodeLog(node *yaml.Node) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping of date to summary", node.Line, KeyLog)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := deref(node.Content[i])
		value := deref(node.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: %s dates must be scalars", key.Line, KeyLog)
		}
		var summary string
		switch {
		case isNull(value):
		case value.Kind == yaml.ScalarNode:
			summary = value.Value
		default:
			return fmt.Errorf("line %d: %s entry for %s must be a string", value.Line, KeyLog, key.Value)
		}
		if idx, ok := d.logIndex[key.Value]; ok {
			d.log[idx].Summary = summary
			continue
		}
		d.logIndex[key.Value] = len(d.log)
		d.log = append(d.log, LogEntry{Day: key.Value, Summary: summary})
	}
	return nil
}

func (d *Document) decodeResetAtHour(node *yaml.Node) error {
	var hour *int
	if err := node.Decode(&hour); err != nil {
		return fmt.Errorf("line %d: %s must be an hour between 0 and 23", node.Line, KeyResetAtHour)
	}
	if hour != nil && (*hour < 0 || *hour > 23) {
		return fmt.Errorf("line %d: %s must be an hour between 0 and 23, got %d", node.Line, KeyResetAtHour, *hour)
	}
	d.resetAtHour = hour
	return nil
}

func (d *Document) decodeTitleMode(node *yaml.Node) error {
	var mode *string
	if err := node.Decode(&mode); err != nil {
		return fmt.Errorf("line %d: %s must be a string", node.Line, KeyTitleMode)
	}
	if mode != nil {
		d.titleMode = *mode
	}
	return nil
}

func (d *Document) decodeSound(node *yaml.Node) error {
	var on *bool
	if err := node.Decode(&on); err != nil {
		return fmt.Errorf("line %d: %s must be true or false", node.Line, KeySound)
	}
	if on != nil {
		d.sound = *on
	}
	return nil
}

func emptyRoot() *yaml.Node {
	return &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
	}
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func cloneNode(n *yaml.Node, seen map[*yaml.Node]*yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if c, ok := seen[n]; ok {
		return c
	}
	c := *n
	seen[n] = &c
	c.Alias = cloneNode(n.Alias, seen)
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = cloneNode(child, seen)
		}
	}
	return &c
}
