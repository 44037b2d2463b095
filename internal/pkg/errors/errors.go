package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/pratik-mahalle/missioncontrol/pkg/client"
)

// Kind classifies a failure by how it is surfaced to the user
type Kind string

const (
	// KindValidation blocks a transition client-side without contacting the server
	KindValidation Kind = "VALIDATION_REJECTION"
	// KindServer is a non-2xx response; its detail is shown verbatim
	KindServer Kind = "SERVER_REJECTION"
	// KindTransport means no response was obtained
	KindTransport Kind = "TRANSPORT_FAILURE"
	// KindSilent is a secondary failure that is logged and never shown
	KindSilent Kind = "SILENT_DEGRADATION"
)

// ConnectivityMessage is shown for every transport failure
const ConnectivityMessage = "Could not connect to backend."

// AppError represents a classified client-side error
type AppError struct {
	Kind       Kind
	Message    string
	StatusCode int
	Internal   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Validation creates a validation rejection
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// Silent wraps a secondary failure that must not reach the user
func Silent(message string, err error) *AppError {
	return &AppError{Kind: KindSilent, Message: message, Internal: err}
}

// Classify maps a gateway error onto the taxonomy. fallback is the message used
// when the server rejected the request without a detail.
func Classify(err error, fallback string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	if apiErr, ok := client.AsAPIError(err); ok {
		msg := apiErr.Detail
		if msg == "" {
			msg = fallback
		}
		return &AppError{Kind: KindServer, Message: msg, StatusCode: apiErr.StatusCode, Internal: err}
	}

	return &AppError{Kind: KindTransport, Message: ConnectivityMessage, Internal: err}
}

// UserText renders the error the way the form displays it
func (e *AppError) UserText() string {
	return "Error: " + e.Message
}

// Is reports whether err is an *AppError of the given kind
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}
