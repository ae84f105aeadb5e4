package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures for HTTP status mapping
type ErrorKind int

const (
	// ErrorKindInternal - unexpected assembly or store failure (500)
	ErrorKindInternal ErrorKind = iota

	// ErrorKindClientInput - empty or invalid preferences (400)
	ErrorKindClientInput

	// ErrorKindNotFound - no documents for the requested reference (404)
	ErrorKindNotFound

	// ErrorKindUpstream - generative service unreachable or erroring (502)
	ErrorKindUpstream
)

// String returns a human-readable kind name
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindClientInput:
		return "client_input"
	case ErrorKindNotFound:
		return "not_found"
	case ErrorKindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// ServiceError wraps errors with a kind for transport mapping
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewClientInputError reports invalid caller input
func NewClientInputError(message string) *ServiceError {
	return &ServiceError{Kind: ErrorKindClientInput, Message: message}
}

// NewNotFoundError reports an empty lookup result
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: ErrorKindNotFound, Message: message}
}

// NewUpstreamError reports a generative-service failure
func NewUpstreamError(message string, cause error) *ServiceError {
	return &ServiceError{Kind: ErrorKindUpstream, Message: message, Cause: cause}
}

// NewInternalError reports an assembly or store failure
func NewInternalError(message string, cause error) *ServiceError {
	return &ServiceError{Kind: ErrorKindInternal, Message: message, Cause: cause}
}

// KindOf extracts the error kind, defaulting to internal for plain errors
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ErrorKindInternal
}
