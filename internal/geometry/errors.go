package geometry

import "fmt"

// ParseError reports a malformed line in an asset file.
type ParseError struct {
	Line int    // 1-based line number
	Text string // offending line, trimmed
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DecodeError reports a snapshot body that could not be turned into a mesh.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode snapshot: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
