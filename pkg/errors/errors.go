// Package errors provides the error taxonomy for the imagesync pipeline.
// Errors fall into three tiers: fatal configuration/input errors that abort
// a run, probe-exhaustion errors from the endpoint resolver, and per-item
// errors that are accumulated into the reconciliation report without
// stopping the batch.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Sentinel errors for the imagesync pipeline.
var (
	// ErrDirectoryNotFound indicates the images directory does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrEndpointUnreachable indicates every URL candidate for an
	// operation failed.
	ErrEndpointUnreachable = errors.New("endpoint unreachable")

	// ErrAssetNotFound indicates no asset could be resolved or created
	// for an image.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrUploadFailed indicates a binary upload to the asset store failed.
	ErrUploadFailed = errors.New("upload failed")

	// ErrEntryFetchFailed indicates the pre-update entry fetch failed and
	// the update proceeded with an empty-fields baseline.
	ErrEntryFetchFailed = errors.New("entry fetch failed")

	// ErrUpdateRejected indicates every endpoint and payload-shape
	// combination for an entry update was rejected.
	ErrUpdateRejected = errors.New("update rejected")

	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("not found")
)

// DirectoryNotFoundError reports a missing input directory. This is fatal.
type DirectoryNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("directory %s not found", e.Path)
}

// Is implements errors.Is support.
func (e *DirectoryNotFoundError) Is(target error) bool {
	return target == ErrDirectoryNotFound || target == ErrNotFound
}

// ConfigError represents a configuration error, typically missing
// credentials. ConfigErrors abort the run before any remote call.
type ConfigError struct {
	Key     string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("configuration error (%s): %s", e.Key, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// EndpointUnreachableError is returned by the endpoint resolver when all
// URL candidates for an operation fail. It carries the last observed
// status and response text for diagnostics.
type EndpointUnreachableError struct {
	Op         string
	Candidates int
	LastStatus int
	LastBody   string
	Err        error
}

// Error implements the error interface.
func (e *EndpointUnreachableError) Error() string {
	if e.LastStatus != 0 {
		return fmt.Sprintf("no working endpoint for %s (%d candidates tried, last status %d): %s",
			e.Op, e.Candidates, e.LastStatus, e.LastBody)
	}
	return fmt.Sprintf("no working endpoint for %s (%d candidates tried): %v", e.Op, e.Candidates, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *EndpointUnreachableError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *EndpointUnreachableError) Is(target error) bool {
	return target == ErrEndpointUnreachable
}

// APIError represents a non-success response from the remote content API.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error during %s (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error during %s: %s", e.Op, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error {
	return e.Err
}

// ItemError records a per-item failure during the apply phase. It wraps one
// of the per-item sentinels so callers can classify it with errors.Is.
type ItemError struct {
	Filename string
	EntryID  string
	Kind     error // one of the per-item sentinels
	Err      error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Filename, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Filename, e.Kind)
}

// Unwrap implements errors.Unwrap.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support against the item's kind sentinel.
func (e *ItemError) Is(target error) bool {
	return target == e.Kind
}

// IOError represents an error during filesystem operations.
type IOError struct {
	Operation string // "read", "write", "open", "stat"
	Path      string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents an error decoding a document.
type ParseError struct {
	Format string // "json", "yaml"
	File   string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %v", e.Format, e.File, e.Err)
	}
	return fmt.Sprintf("%s parse error: %v", e.Format, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Helper wrapping functions for common patterns.

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Err: err}
}

// NewItemError creates an ItemError classified by kind.
func NewItemError(filename, entryID string, kind, err error) *ItemError {
	return &ItemError{Filename: filename, EntryID: entryID, Kind: kind, Err: err}
}

// Helper functions for error checking.

// IsDirectoryNotFound checks for a missing input directory.
func IsDirectoryNotFound(err error) bool {
	return errors.Is(err, ErrDirectoryNotFound)
}

// IsEndpointUnreachable checks for probe exhaustion.
func IsEndpointUnreachable(err error) bool {
	return errors.Is(err, ErrEndpointUnreachable)
}

// IsFatal reports whether err should abort the whole run rather than be
// recorded against a single item.
func IsFatal(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return true
	}
	return errors.Is(err, ErrDirectoryNotFound)
}
