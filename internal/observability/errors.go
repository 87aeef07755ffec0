package observability

import (
	"errors"
	"fmt"
)

// ObservabilityErrorCode classifies failures while setting up or tearing down
// telemetry.
type ObservabilityErrorCode string

const (
	ErrExporterConnection  ObservabilityErrorCode = "OBSERVABILITY_EXPORTER_CONNECTION"
	ErrMetricsRegistration ObservabilityErrorCode = "OBSERVABILITY_METRICS_REGISTRATION"
	ErrShutdownTimeout     ObservabilityErrorCode = "OBSERVABILITY_SHUTDOWN_TIMEOUT"
)

// ObservabilityError is a telemetry error. Two errors match under errors.Is
// when their codes are equal.
type ObservabilityError struct {
	Code      ObservabilityErrorCode
	Message   string
	Retryable bool
	Cause     error
}

func (e *ObservabilityError) Error() string {
	msg := "[" + string(e.Code) + "] " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *ObservabilityError) Unwrap() error { return e.Cause }

func (e *ObservabilityError) Is(target error) bool {
	var other *ObservabilityError
	return errors.As(target, &other) && other.Code == e.Code
}

func NewObservabilityError(code ObservabilityErrorCode, message string) *ObservabilityError {
	return &ObservabilityError{Code: code, Message: message}
}

func WrapObservabilityError(code ObservabilityErrorCode, message string, cause error) *ObservabilityError {
	return &ObservabilityError{Code: code, Message: message, Cause: cause}
}

// NewExporterConnectionError reports an unreachable collector. It is retryable.
func NewExporterConnectionError(endpoint string, cause error) *ObservabilityError {
	return &ObservabilityError{
		Code:      ErrExporterConnection,
		Message:   fmt.Sprintf("failed to connect to exporter at %s", endpoint),
		Retryable: true,
		Cause:     cause,
	}
}
