package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrInvalidFilePath = errors.New("invalid file path")

	ErrInvalidPath  = errors.New("path does not resolve in the document")
	ErrEmptyPath    = errors.New("the document root cannot be replaced or deleted")
	ErrNotContainer = errors.New("value is not an object or array")
	ErrPlaceholder  = errors.New("truncated placeholder nodes cannot be edited")

	ErrRegexCompile = errors.New("search term could not be compiled")

	ErrNoDocument  = errors.New("no document loaded")
	ErrEmptySearch = errors.New("search term is empty")
	ErrNoMatches   = errors.New("no leaf nodes match the search term")
	ErrNoSelection = errors.New("no node selected")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypePath    ErrorType = "path"
	ErrorTypeSearch  ErrorType = "search"
	ErrorTypeState   ErrorType = "state"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInput, Message: message, Err: err}
}

// NewParsingError creates a new error for malformed JSON documents, values or keys
func NewParsingError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeParsing, Message: message, Err: err}
}

// NewPathError creates a new error for mutations against an empty or unresolvable path
func NewPathError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypePath, Message: message, Err: err}
}

// NewSearchError creates a new error for search terms that cannot be compiled
func NewSearchError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeSearch, Message: message, Err: err}
}

// NewStateError creates a new error for operations that are not valid in the current session state
func NewStateError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeState, Message: message, Err: err}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeOutput, Message: message, Err: err}
}

// NewConfigError creates a new error for invalid configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// IsType reports whether err wraps an *AppError of type t
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypePath:
			return fmt.Sprintf("Path error: %s", appErr.Message)
		case ErrorTypeSearch:
			return fmt.Sprintf("Search error: %s", appErr.Message)
		case ErrorTypeState:
			return fmt.Sprintf("Editor error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrInvalidPath) {
		return "Error: The path does not exist in the document."
	}
	if errors.Is(err, ErrNoDocument) {
		return "Error: No document is loaded. Load a JSON file first."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
