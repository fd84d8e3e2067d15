package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	// Run-level failures, each fatal to the download
	ErrorTypeSetup      ErrorType = "setup"
	ErrorTypeListing    ErrorType = "listing"
	ErrorTypeAssetFetch ErrorType = "asset_fetch"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeArchive    ErrorType = "archive"

	// API failures reported by the Shopify client
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error is a typed error. Key is set for failures tied to a single asset.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Key     string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Key != "" {
		msg = fmt.Sprintf("%s (asset %s)", msg, e.Key)
	}
	if e.Code != 0 {
		msg = fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, msg)
	} else {
		msg = fmt.Sprintf("%s error: %s", e.Type, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given type
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Wrap creates an error of the given type around a cause
func Wrap(t ErrorType, err error, message string) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

// WithKey attaches an asset key
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// TypeOf returns the type of the outermost typed error in the chain
func TypeOf(err error) ErrorType {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether any typed error in the chain has the given type
func Is(err error, t ErrorType) bool {
	for err != nil {
		var typed *Error
		if !errors.As(err, &typed) {
			return false
		}
		if typed.Type == t {
			return true
		}
		err = typed.Err
	}
	return false
}

// ExitCode maps a run error to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch TypeOf(err) {
	case ErrorTypeSetup:
		return 2
	case ErrorTypeListing:
		return 3
	case ErrorTypeAssetFetch:
		return 4
	case ErrorTypeIO:
		return 5
	case ErrorTypeArchive:
		return 6
	default:
		return 1
	}
}

// StatusType classifies a non-success HTTP status code
func StatusType(statusCode int) ErrorType {
	switch {
	case statusCode == 0:
		return ErrorTypeNetwork
	case statusCode == 401 || statusCode == 403:
		return ErrorTypeAuth
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode == 429:
		return ErrorTypeRateLimit
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}
