package lcov

import (
	"errors"
	"fmt"
)

// ErrUndeclaredFunction is matched by every *LookupError.
var ErrUndeclaredFunction = errors.New("hit count for undeclared function")

// IOError reports an input that could not be read. It unwraps to the
// underlying error so callers can still test for fs.ErrNotExist and friends.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a line whose tag is known but whose payload is malformed.
type ParseError struct {
	Path    string
	Line    int // 1-based
	Tag     string
	Content string
	Err     error
}

func newParseError(kind Kind, content string, err error) *ParseError {
	return &ParseError{Tag: kind.Tag(), Content: content, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: malformed %s record %q: %v", e.Path, e.Line, e.Tag, e.Content, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LookupError reports an FNDA record naming a function that was not declared
// by an FN record in the same section.
type LookupError struct {
	Path     string // trace being parsed
	Line     int    // 1-based
	File     string // source file of the current section
	Function string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s:%d: %v %q in section %s", e.Path, e.Line, ErrUndeclaredFunction, e.Function, e.File)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrUndeclaredFunction
}
