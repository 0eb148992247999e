package site

import "fmt"

// SourceError locates a render failure in a source file.
type SourceError struct {
	File string
	Line int
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
