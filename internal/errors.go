package internal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionNotFound is returned when switching to an id that is not in the session list
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnknownIntent is returned by Dispatch for intents with no handler
	ErrUnknownIntent = errors.New("unknown intent")

	// ErrEmptyMessage is returned when a send is refused for blank input
	ErrEmptyMessage = errors.New("message is empty")
)

// StorageError represents errors accessing the state database
type StorageError struct {
	Path string
	Op   string // "open", "read", "write"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing persisted data or configuration
type ParseError struct {
	Source string // "state", "config"
	Key    string // storage key or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a form is refused locally, before any
// network call is made.
type ValidationError struct {
	Form   string
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Form, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Form, e.Reason, strings.Join(e.Fields, ", "))
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
