// Package errors provides the typed error taxonomy and recovery policies
// used by every plugin component.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==========================
// 1. Error Kinds and Codes
// ==========================

// ErrorKind identifies the taxonomy branch of an error record.
type ErrorKind string

const (
	KindPlugin        ErrorKind = "PluginError"
	KindService       ErrorKind = "ServiceError"
	KindValidation    ErrorKind = "ValidationError"
	KindNetwork       ErrorKind = "NetworkError"
	KindConfiguration ErrorKind = "ConfigurationError"
)

// IsServiceKind reports whether the kind describes a failed upstream
// dependency. Network and Configuration are specializations of Service.
func (k ErrorKind) IsServiceKind() bool {
	return k == KindService || k == KindNetwork || k == KindConfiguration
}

// FallbackKey returns the key used to look up a substitute value in
// StrategyConfig.FallbackValues (e.g. KindNetwork -> "networkerror").
func (k ErrorKind) FallbackKey() string {
	return strings.ToLower(string(k))
}

// ErrorCode is a stable machine-readable identifier, unique enough to drive
// both statistics and user-message translation.
type ErrorCode string

const (
	CodePluginError        ErrorCode = "PLUGIN_ERROR"
	CodeServiceError       ErrorCode = "SERVICE_ERROR"
	CodeValidationError    ErrorCode = "VALIDATION_ERROR"
	CodeNetworkError       ErrorCode = "NETWORK_ERROR"
	CodeConfigurationError ErrorCode = "CONFIGURATION_ERROR"

	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

func defaultCode(kind ErrorKind) ErrorCode {
	switch kind {
	case KindService:
		return CodeServiceError
	case KindValidation:
		return CodeValidationError
	case KindNetwork:
		return CodeNetworkError
	case KindConfiguration:
		return CodeConfigurationError
	default:
		return CodePluginError
	}
}

// ==========================
// 2. PluginError Record
// ==========================

// PluginError is the common error record shared by every kind in the
// taxonomy. The Kind field discriminates; kind-specific fields are populated
// only by the matching constructor. Records are immutable after construction.
type PluginError struct {
	ID          string                 `json:"id"`
	Kind        ErrorKind              `json:"kind"`
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Recoverable bool                   `json:"recoverable"`

	// Kind-specific fields.
	Service   string      `json:"service,omitempty"`
	Field     string      `json:"field,omitempty"`
	Value     interface{} `json:"value,omitempty"`
	Status    int         `json:"status,omitempty"`
	URL       string      `json:"url,omitempty"`
	ConfigKey string      `json:"configKey,omitempty"`

	cause error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Code, e.Message)
}

// Unwrap returns the wrapped cause for errors.Is / errors.As compatibility.
func (e *PluginError) Unwrap() error {
	return e.cause
}

// StatsKey returns the "<kind>:<code>" key under which the record is counted.
func (e *PluginError) StatsKey() string {
	return fmt.Sprintf("%s:%s", e.Kind, e.Code)
}

// Dump returns a lossless structured copy of the record for logging or
// transmission. The framework never parses Details, it only carries them.
func (e *PluginError) Dump() map[string]interface{} {
	out := map[string]interface{}{
		"id":          e.ID,
		"kind":        string(e.Kind),
		"code":        string(e.Code),
		"message":     e.Message,
		"timestamp":   e.Timestamp.Format(time.RFC3339Nano),
		"recoverable": e.Recoverable,
	}
	if len(e.Details) > 0 {
		details := make(map[string]interface{}, len(e.Details))
		for k, v := range e.Details {
			details[k] = v
		}
		out["details"] = details
	}
	if e.Service != "" {
		out["service"] = e.Service
	}
	if e.Field != "" {
		out["field"] = e.Field
		out["value"] = e.Value
	}
	if e.Status != 0 {
		out["status"] = e.Status
	}
	if e.URL != "" {
		out["url"] = e.URL
	}
	if e.ConfigKey != "" {
		out["configKey"] = e.ConfigKey
	}
	return out
}

// MarshalJSON serializes the record including the wrapped cause's text.
func (e *PluginError) MarshalJSON() ([]byte, error) {
	type alias PluginError
	wrapped := struct {
		*alias
		Cause string `json:"cause,omitempty"`
	}{alias: (*alias)(e)}
	if e.cause != nil {
		wrapped.Cause = e.cause.Error()
	}
	return json.Marshal(wrapped)
}

// ==========================
// 3. Constructors
// ==========================

// Option customizes a record at construction time.
type Option func(*PluginError)

// WithCode overrides the per-kind default code.
func WithCode(code ErrorCode) Option {
	return func(e *PluginError) {
		if code != "" {
			e.Code = code
		}
	}
}

// WithDetails merges diagnostic context into the record's details payload.
func WithDetails(details map[string]interface{}) Option {
	return func(e *PluginError) {
		for k, v := range details {
			e.Details[k] = v
		}
	}
}

// WithDetail attaches a single diagnostic key/value pair.
func WithDetail(key string, value interface{}) Option {
	return func(e *PluginError) {
		e.Details[key] = value
	}
}

// WithRecoverable overrides the per-kind recoverability default.
func WithRecoverable(recoverable bool) Option {
	return func(e *PluginError) {
		e.Recoverable = recoverable
	}
}

// WithCause records the underlying failure for errors.Is / errors.As.
func WithCause(cause error) Option {
	return func(e *PluginError) {
		e.cause = cause
	}
}

func newRecord(kind ErrorKind, message string, opts ...Option) *PluginError {
	e := &PluginError{
		ID:          uuid.NewString(),
		Kind:        kind,
		Code:        defaultCode(kind),
		Message:     message,
		Details:     map[string]interface{}{},
		Timestamp:   time.Now().UTC(),
		Recoverable: kind != KindValidation,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// New creates a generic plugin error, recoverable by default.
func New(message string, opts ...Option) *PluginError {
	return newRecord(KindPlugin, message, opts...)
}

// Newf creates a generic plugin error with a formatted message.
func Newf(format string, args ...interface{}) *PluginError {
	return newRecord(KindPlugin, fmt.Sprintf(format, args...))
}

// NewServiceError creates an error for a named upstream dependency failure.
func NewServiceError(service, message string, opts ...Option) *PluginError {
	e := newRecord(KindService, message, opts...)
	e.Service = service
	return e
}

// NewValidationError creates a non-recoverable error for an input that
// failed a rule, carrying the field name and the offending value.
func NewValidationError(field string, value interface{}, message string, opts ...Option) *PluginError {
	e := newRecord(KindValidation, message, opts...)
	e.Field = field
	e.Value = value
	return e
}

// NewNetworkError creates an error for a failed request. Status and url are
// optional; zero values are omitted from the serialized record.
func NewNetworkError(message string, status int, url string, opts ...Option) *PluginError {
	e := newRecord(KindNetwork, message, opts...)
	e.Status = status
	e.URL = url
	return e
}

// NewConfigurationError creates an error for a missing or invalid setting.
func NewConfigurationError(configKey, message string, opts ...Option) *PluginError {
	e := newRecord(KindConfiguration, message, opts...)
	e.ConfigKey = configKey
	return e
}

// ==========================
// 4. Normalization
// ==========================

// Normalize ensures err is a *PluginError. Taxonomy-native errors are
// returned as-is, never re-wrapped; foreign failures become a generic plugin
// error with the original preserved in details and via Unwrap.
func Normalize(err error) *PluginError {
	var pe *PluginError
	if stderrors.As(err, &pe) {
		return pe
	}
	return New("unexpected error",
		WithDetail("cause", err.Error()),
		WithCause(err),
	)
}
