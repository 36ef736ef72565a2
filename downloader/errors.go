package downloader

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorType represents different categories of download errors
type ErrorType int

const (
	ErrorNetwork ErrorType = iota
	ErrorSkeletonNotFound
	ErrorServer
	ErrorUnauthorized
	ErrorInvalidURL
	ErrorFileCreation
	ErrorWrite
	ErrorContentLengthMissing
	ErrorUnsupportedModType
	ErrorCharacterIDNotFound
)

// String returns the wire name of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorNetwork:
		return "NetworkError"
	case ErrorSkeletonNotFound:
		return "SkeletonNotFound"
	case ErrorServer:
		return "ServerError"
	case ErrorUnauthorized:
		return "Unauthorized"
	case ErrorInvalidURL:
		return "InvalidUrl"
	case ErrorFileCreation:
		return "FileCreationError"
	case ErrorWrite:
		return "WriteError"
	case ErrorContentLengthMissing:
		return "ContentLengthMissing"
	case ErrorUnsupportedModType:
		return "UnsupportedModType"
	case ErrorCharacterIDNotFound:
		return "CharacterIdNotFound"
	default:
		return "Unknown"
	}
}

// DownloadError represents a structured error that occurred during download
type DownloadError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (de *DownloadError) Error() string {
	msg := de.Type.String()
	if de.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, de.Message)
	}
	if de.Cause != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, de.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error
func (de *DownloadError) Unwrap() error {
	return de.Cause
}

// MarshalJSON emits the {type, message} shape the presentation layer consumes.
// Context stays on the Go side.
func (de *DownloadError) MarshalJSON() ([]byte, error) {
	detail := de.Message
	if de.Cause != nil {
		if detail == "" {
			detail = de.Cause.Error()
		} else {
			detail = fmt.Sprintf("%s: %v", detail, de.Cause)
		}
	}
	return json.Marshal(struct {
		Type    string `json:"type"`
		Message string `json:"message,omitempty"`
	}{de.Type.String(), detail})
}

// NewDownloadError creates a new DownloadError with the specified type and message
func NewDownloadError(errorType ErrorType, message string) *DownloadError {
	return &DownloadError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// NewDownloadErrorWithCause creates a new DownloadError with a cause
func NewDownloadErrorWithCause(errorType ErrorType, message string, cause error) *DownloadError {
	return &DownloadError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (de *DownloadError) WithContext(key string, value interface{}) *DownloadError {
	if de.Context == nil {
		de.Context = make(map[string]interface{})
	}
	de.Context[key] = value
	return de
}

// IsType checks if the error is of a specific type
func (de *DownloadError) IsType(errorType ErrorType) bool {
	return de.Type == errorType
}

// IsDownloadError checks if an error is a DownloadError and optionally of a specific type
func IsDownloadError(err error, errorType ...ErrorType) bool {
	var de *DownloadError
	if !errors.As(err, &de) {
		return false
	}
	if len(errorType) == 0 {
		return true
	}
	for _, et := range errorType {
		if de.Type == et {
			return true
		}
	}
	return false
}

// classifyStatus maps a non-success HTTP status to a DownloadError
func classifyStatus(status int, statusText, url string) *DownloadError {
	switch {
	case status == 404:
		return NewDownloadError(ErrorSkeletonNotFound, url).WithContext("status", status)
	case status == 401 || status == 403:
		return NewDownloadError(ErrorUnauthorized, "").WithContext("status", status).WithContext("url", url)
	case status >= 500 && status <= 599:
		return NewDownloadError(ErrorServer, fmt.Sprintf("Server error: %s", statusText)).WithContext("status", status)
	default:
		return NewDownloadError(ErrorNetwork, fmt.Sprintf("HTTP %s", statusText)).WithContext("status", status)
	}
}
