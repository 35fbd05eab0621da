package errors

import (
	"fmt"
)

// ValidationError represents an error that occurs during validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// FileError represents an error that occurs during file operations
type FileError struct {
	Path    string
	Op      string
	Wrapped error
}

func (e *FileError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s operation failed on %s: %v", e.Op, e.Path, e.Wrapped)
	}
	return fmt.Sprintf("%s operation failed on %s", e.Op, e.Path)
}

func (e *FileError) Unwrap() error {
	return e.Wrapped
}

// NewFileError creates a new FileError
func NewFileError(path, op string, wrapped error) error {
	return &FileError{
		Path:    path,
		Op:      op,
		Wrapped: wrapped,
	}
}

// DeployError represents a failed deploy of one artifact family
type DeployError struct {
	Artifact string
	ExitCode int
	Wrapped  error
}

func (e *DeployError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("deploy failed for %s (exit %d): %v", e.Artifact, e.ExitCode, e.Wrapped)
	}
	return fmt.Sprintf("deploy failed for %s (exit %d)", e.Artifact, e.ExitCode)
}

func (e *DeployError) Unwrap() error {
	return e.Wrapped
}

// NewDeployError creates a new DeployError
func NewDeployError(artifact string, exitCode int, wrapped error) error {
	return &DeployError{
		Artifact: artifact,
		ExitCode: exitCode,
		Wrapped:  wrapped,
	}
}

// CacheError represents an error that occurs talking to the hosted cache
type CacheError struct {
	Op      string
	Key     string
	Wrapped error
}

func (e *CacheError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("cache %s operation failed for %s: %v", e.Op, e.Key, e.Wrapped)
	}
	return fmt.Sprintf("cache %s operation failed for %s", e.Op, e.Key)
}

func (e *CacheError) Unwrap() error {
	return e.Wrapped
}

// NewCacheError creates a new CacheError
func NewCacheError(op, key string, wrapped error) error {
	return &CacheError{
		Op:      op,
		Key:     key,
		Wrapped: wrapped,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
