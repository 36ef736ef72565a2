package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"spine-mod-loader/assets"
	"spine-mod-loader/downloader"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrorTypeUsage ErrorType = iota
	ErrorTypeResolution
	ErrorTypeDownload
	ErrorTypeHistory
	ErrorTypeRuntime
)

// String returns the string representation of ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeUsage:
		return "USAGE"
	case ErrorTypeResolution:
		return "RESOLUTION"
	case ErrorTypeDownload:
		return "DOWNLOAD"
	case ErrorTypeHistory:
		return "HISTORY"
	case ErrorTypeRuntime:
		return "RUNTIME"
	default:
		return "UNKNOWN"
	}
}

// historyError marks failures of the history store
type historyError struct {
	err error
}

func (h *historyError) Error() string { return h.err.Error() }
func (h *historyError) Unwrap() error { return h.err }

// ErrorContext provides context information for error handling
type ErrorContext struct {
	Command       string
	Args          []string
	CorrelationID string
	Timestamp     time.Time
}

// errorReport is the machine-readable failure written under --output json/yaml
type errorReport struct {
	Error         json.Marshaler `json:"error"`
	CorrelationID string         `json:"correlationId"`
}

// genericError renders errors without a wire form as {type, message}
type genericError struct {
	Type    string
	Message string
}

func (g genericError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Message string `json:"message,omitempty"`
	}{g.Type, g.Message})
}

// ErrorHandler provides centralized error management for the CLI
type ErrorHandler struct {
	logger *zap.Logger
	newID  func() string
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorHandler{
		logger: logger,
		newID:  uuid.NewString,
	}
}

// HandleCommandError logs a handler failure, reports it to the user and
// returns the exit code
func (e *ErrorHandler) HandleCommandError(err error, cmdCtx *CommandContext) int {
	errorCtx := &ErrorContext{
		Command:       cmdCtx.Command,
		Args:          cmdCtx.Args,
		CorrelationID: e.newID(),
		Timestamp:     time.Now(),
	}

	errorType := e.Classify(err)
	e.logStructuredError(errorType, err, errorCtx, "Command processing error occurred")

	if cmdCtx.Output == OutputText {
		fmt.Fprintln(cmdCtx.Err, e.createUserFriendlyMessage(err, errorCtx.CorrelationID))
	} else {
		report := errorReport{Error: wireError(err), CorrelationID: errorCtx.CorrelationID}
		if werr := writeOutput(cmdCtx, report, nil); werr != nil {
			e.logger.Error("failed to write error report",
				zap.String("correlation_id", errorCtx.CorrelationID),
				zap.Error(werr))
		}
	}

	if errorType == ErrorTypeUsage {
		return ExitUsage
	}
	return ExitFailure
}

// HandleUsageError reports an invocation problem and returns ExitUsage
func (e *ErrorHandler) HandleUsageError(err error, w io.Writer) int {
	e.logger.Debug("usage error", zap.Error(err))
	fmt.Fprintf(w, "Error: %v\nRun 'spine-mod-loader --help' for usage.\n", err)
	return ExitUsage
}

// Classify maps an error to its category
func (e *ErrorHandler) Classify(err error) ErrorType {
	var (
		ue *usageError
		he *historyError
	)
	switch {
	case errors.As(err, &ue):
		return ErrorTypeUsage
	case assets.IsResolutionError(err):
		return ErrorTypeResolution
	case downloader.IsDownloadError(err):
		return ErrorTypeDownload
	case errors.As(err, &he):
		return ErrorTypeHistory
	default:
		return ErrorTypeRuntime
	}
}

// logStructuredError logs errors with structured information
func (e *ErrorHandler) logStructuredError(errorType ErrorType, err error, ctx *ErrorContext, message string) {
	fields := []zap.Field{
		zap.String("error_type", errorType.String()),
		zap.Error(err),
	}
	if ctx != nil {
		fields = append(fields,
			zap.String("correlation_id", ctx.CorrelationID),
			zap.Time("timestamp", ctx.Timestamp),
			zap.String("command", ctx.Command),
			zap.Strings("args", ctx.Args))
	}

	switch errorType {
	case ErrorTypeUsage, ErrorTypeResolution:
		e.logger.Warn(message, fields...)
	default:
		e.logger.Error(message, fields...)
	}
}

// wireError returns the {type, message} form of err
func wireError(err error) json.Marshaler {
	var (
		re *assets.ResolutionError
		de *downloader.DownloadError
		he *historyError
		ue *usageError
	)
	switch {
	case errors.As(err, &re):
		return re
	case errors.As(err, &de):
		return de
	case errors.As(err, &he):
		return genericError{Type: "HistoryError", Message: he.Error()}
	case errors.As(err, &ue):
		return genericError{Type: "UsageError", Message: ue.Error()}
	default:
		return genericError{Type: "InternalError", Message: err.Error()}
	}
}

// createUserFriendlyMessage creates a user-friendly error message
func (e *ErrorHandler) createUserFriendlyMessage(err error, correlationID string) string {
	var (
		re *assets.ResolutionError
		de *downloader.DownloadError
	)

	var userMessage string
	switch {
	case errors.Is(err, context.Canceled):
		userMessage = "⏹️ The operation was cancelled."
	case errors.As(err, &re):
		userMessage = resolutionMessage(re)
	case errors.As(err, &de):
		userMessage = downloadMessage(de)
	default:
		userMessage = "❌ Something went wrong while processing your request."
	}

	userMessage += fmt.Sprintf("\n   %v", err)

	// Only the first 8 characters of the correlation ID are shown
	if len(correlationID) >= 8 {
		userMessage += fmt.Sprintf("\n🔧 Error ID: %s", correlationID[:8])
	}

	return userMessage
}

func resolutionMessage(re *assets.ResolutionError) string {
	switch re.Type {
	case assets.ErrorDirectoryNotFound:
		return "📁 The folder does not exist."
	case assets.ErrorDirectoryInvalid:
		return "📁 The path could not be read as a folder."
	case assets.ErrorMissingSkeletonOrJSON:
		return "🦴 No skeleton (.skel or .json) was found. Run 'fetch' to download it."
	case assets.ErrorMissingAtlas:
		return "🗺️ No .atlas file was found in the folder."
	case assets.ErrorInvalidSkeletonFileName, assets.ErrorInvalidAtlasFileName, assets.ErrorInvalidFileName:
		return "🏷️ A file in the folder has a name that cannot be used."
	default:
		return "💾 A file in the folder could not be read."
	}
}

func downloadMessage(de *downloader.DownloadError) string {
	switch de.Type {
	case downloader.ErrorSkeletonNotFound:
		return "🔍 The asset repository has no skeleton for this mod."
	case downloader.ErrorUnauthorized:
		return "🔒 The asset repository refused access."
	case downloader.ErrorServer:
		return "🛠️ The asset repository is having problems. Please try again later."
	case downloader.ErrorInvalidURL:
		return "🔗 The download address is invalid. Check ASSET_REPO_URL and CUTSCENE_REPO_URL."
	case downloader.ErrorFileCreation, downloader.ErrorWrite:
		return "💾 The skeleton could not be saved into the folder."
	case downloader.ErrorContentLengthMissing:
		return "📏 The server did not report the file size."
	case downloader.ErrorUnsupportedModType, downloader.ErrorCharacterIDNotFound:
		return "🏷️ The folder has no recognised .modfile marker, so its skeleton cannot be located."
	default:
		return "🌐 The asset repository could not be reached."
	}
}

// RecoverFromPanic turns a handler panic into a runtime error on *errp.
// It must be deferred directly.
func (e *ErrorHandler) RecoverFromPanic(cmdCtx *CommandContext, errp *error) {
	if r := recover(); r != nil {
		var err error
		if re, ok := r.(error); ok {
			err = re
		} else {
			err = fmt.Errorf("panic: %v", r)
		}
		*errp = &commandError{cmdCtx: cmdCtx, err: fmt.Errorf("recovered from panic: %w", err)}
	}
}
