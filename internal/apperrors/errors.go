// Package apperrors holds the error types shared by the interview organizer
// components. Each type wraps an optional cause and supports errors.As.
package apperrors

import "fmt"

// DataLoadError reports a roster file that is missing or malformed.
// It is fatal to startup.
type DataLoadError struct {
	Path string
	Msg  string
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Msg)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// NewDataLoadError creates a DataLoadError for path.
func NewDataLoadError(path, msg string, err error) *DataLoadError {
	return &DataLoadError{Path: path, Msg: msg, Err: err}
}

// PersistenceError reports a failed settings write.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError reports a request rejected before any side effect.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Msg, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	default:
		return e.Msg
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// NotFoundError reports a group or panel name that does not exist in the session.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}
