package document

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// The yaml.v3 emitter only counts characters up to U+FFFF as printable, so
// emoji such as 🏃 would be written as "\U0001F3C3" with forced double quotes.
// Before encoding, each such rune is swapped for a private-use character that
// does not occur in the document; the emitter then picks the same scalar
// style it would for any other text, and the swap is undone on the output.

const (
	standInFirst rune = 0xE000
	standInLast  rune = 0xF8FF
)

// shieldAstral returns a copy of root with astral runes replaced by stand-ins
// and a function that restores them in encoded output. root is not modified.
// If the private-use range runs out, the remaining runes are left to the
// emitter's escaping.
func shieldAstral(root *yaml.Node) (*yaml.Node, func([]byte) []byte) {
	used := map[rune]bool{}
	var astral []rune
	eachText(root, func(s *string) {
		for _, r := range *s {
			if used[r] {
				continue
			}
			used[r] = true
			if r > 0xFFFF {
				astral = append(astral, r)
			}
		}
	})
	if len(astral) == 0 {
		return root, func(b []byte) []byte { return b }
	}

	standIns := make(map[rune]rune, len(astral))
	pairs := make([]string, 0, 2*len(astral))
	next := standInFirst
	for _, r := range astral {
		for next <= standInLast && used[next] {
			next++
		}
		if next > standInLast {
			break
		}
		standIns[r] = next
		pairs = append(pairs, string(next), string(r))
		next++
	}
	swap := func(r rune) rune {
		if s, ok := standIns[r]; ok {
			return s
		}
		return r
	}

	shielded := cloneNode(root, map[*yaml.Node]*yaml.Node{})
	eachText(shielded, func(s *string) { *s = strings.Map(swap, *s) })

	restore := strings.NewReplacer(pairs...)
	return shielded, func(b []byte) []byte {
		return []byte(restore.Replace(string(b)))
	}
}

// eachText calls fn with every scalar value and comment in the tree. Alias
// targets are reached through the tree itself, not through Alias.
func eachText(n *yaml.Node, fn func(*string)) {
	if n == nil {
		return
	}
	fn(&n.Value)
	fn(&n.HeadComment)
	fn(&n.LineComment)
	fn(&n.FootComment)
	for _, child := range n.Content {
		eachText(child, fn)
	}
}
