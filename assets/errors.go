package assets

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ResolutionErrorType represents the ways scanning a mod folder can fail
type ResolutionErrorType int

const (
	ErrorDirectoryNotFound ResolutionErrorType = iota
	ErrorDirectoryInvalid
	ErrorMissingSkeletonOrJSON
	ErrorMissingAtlas
	ErrorInvalidSkeletonFileName
	ErrorInvalidAtlasFileName
	ErrorInvalidFileName
	ErrorIO
)

// String returns the wire name of the error type
func (et ResolutionErrorType) String() string {
	switch et {
	case ErrorDirectoryNotFound:
		return "DirectoryNotFound"
	case ErrorDirectoryInvalid:
		return "DirectoryInvalidError"
	case ErrorMissingSkeletonOrJSON:
		return "MissingSkeletonOrJson"
	case ErrorMissingAtlas:
		return "MissingAtlas"
	case ErrorInvalidSkeletonFileName:
		return "InvalidSkeletonFileName"
	case ErrorInvalidAtlasFileName:
		return "InvalidAtlasFileName"
	case ErrorInvalidFileName:
		return "InvalidFileName"
	case ErrorIO:
		return "IOError"
	default:
		return "Unknown"
	}
}

// ResolutionError is a structured failure of ResolveAssets or EncodeFile
type ResolutionError struct {
	Type    ResolutionErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (re *ResolutionError) Error() string {
	msg := re.Type.String()
	if re.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, re.Message)
	}
	if re.Cause != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, re.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error
func (re *ResolutionError) Unwrap() error {
	return re.Cause
}

// MarshalJSON emits the {type, message} shape the presentation layer consumes
func (re *ResolutionError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Message string `json:"message,omitempty"`
	}{re.Type.String(), re.detail()})
}

func (re *ResolutionError) detail() string {
	if re.Cause == nil {
		return re.Message
	}
	if re.Message == "" {
		return re.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", re.Message, re.Cause)
}

func newResolutionError(errorType ResolutionErrorType, message string, cause error) *ResolutionError {
	return &ResolutionError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// IsResolutionError checks if an error is a ResolutionError and optionally of a specific type
func IsResolutionError(err error, errorType ...ResolutionErrorType) bool {
	var re *ResolutionError
	if !errors.As(err, &re) {
		return false
	}
	if len(errorType) == 0 {
		return true
	}
	for _, et := range errorType {
		if re.Type == et {
			return true
		}
	}
	return false
}
