package document

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the habit document does not exist at the given path.
var ErrNotFound = errors.New("document: not found")

// ParseError reports a document that is not valid YAML or has the wrong shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("document: parse: %v", e.Err)
	}
	return fmt.Sprintf("document: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError reports a failure persisting the document.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("document: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
