package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage is returned for blank chat input
	ErrEmptyMessage = errors.New("message is empty")

	// ErrSessionNotFound is returned when a session is absent from memory
	ErrSessionNotFound = errors.New("session not found")
)

// StageError represents a failure inside a workflow stage
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// CollaboratorError represents a failed call to an external service
type CollaboratorError struct {
	Service string // "gemini", "tavily"
	Op      string // "analyze", "generate", "search"
	Err     error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Service, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
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
