package document

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const indent = 2

// Parse decodes a habit document. Empty input yields an empty document.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Err: err}
	}
	doc := New()
	if root.Kind == 0 {
		return doc, nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return nil, &ParseError{Err: errors.New("expected a single YAML document")}
	}
	body := deref(root.Content[0])
	switch {
	case isNull(body):
		root.Content[0] = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	case body.Kind != yaml.MappingNode:
		return nil, &ParseError{Err: fmt.Errorf("line %d: document root must be a mapping", body.Line)}
	default:
		root.Content[0] = body
	}
	doc.root = &root
	if err := doc.decode(); err != nil {
		return nil, &ParseError{Err: err}
	}
	return doc, nil
}

// Encode renders the document back to YAML with two-space indentation and
// unescaped unicode, emoji included.
func Encode(doc *Document) ([]byte, error) {
	root, restore := shieldAstral(doc.root)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}
	return restore(buf.Bytes()), nil
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("document: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Save writes the whole document to path, keeping the file mode of an
// existing file.
func Save(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
