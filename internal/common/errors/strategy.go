package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Strategies
// ==========================

// ErrorStrategy selects the recovery policy applied to a failed operation.
type ErrorStrategy string

const (
	StrategyRetry      ErrorStrategy = "retry"
	StrategyFallback   ErrorStrategy = "fallback"
	StrategyIgnore     ErrorStrategy = "ignore"
	StrategyEscalate   ErrorStrategy = "escalate"
	StrategyUserAction ErrorStrategy = "user_action"
)

// ParseStrategy converts a configuration string to an ErrorStrategy.
func ParseStrategy(s string) (ErrorStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "retry":
		return StrategyRetry, nil
	case "fallback":
		return StrategyFallback, nil
	case "ignore":
		return StrategyIgnore, nil
	case "escalate":
		return StrategyEscalate, nil
	case "user_action", "useraction":
		return StrategyUserAction, nil
	default:
		return "", fmt.Errorf("unknown error strategy %q", s)
	}
}

// ==========================
// 2. Configuration
// ==========================

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1000 * time.Millisecond
)

// StrategyConfig controls retry budgets, backoff timing and substitute
// values for one handler instance.
type StrategyConfig struct {
	MaxRetries      int
	RetryDelay      time.Duration
	EnableLogging   bool
	EnableReporting bool

	// FallbackValues maps a lower-cased kind name (see ErrorKind.FallbackKey)
	// to the value substituted under the Fallback strategy.
	FallbackValues map[string]interface{}
}

// DefaultStrategyConfig returns the config used when the caller supplies none.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		EnableLogging: true,
	}
}

// ExecutionContext is caller-supplied metadata attached to every error
// raised through a handler instance. Purely descriptive.
type ExecutionContext struct {
	Component string `json:"component"`
	Plugin    string `json:"plugin,omitempty"`
	Module    string `json:"module,omitempty"`
}

// Fields returns the context as a details payload fragment.
func (c ExecutionContext) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if c.Component != "" {
		fields["component"] = c.Component
	}
	if c.Plugin != "" {
		fields["plugin"] = c.Plugin
	}
	if c.Module != "" {
		fields["module"] = c.Module
	}
	return fields
}

// ==========================
// 3. Resolver
// ==========================

// Decision is the resolver's verdict for one caught error. Handled means the
// error is suppressed (the caller receives a substitute or nil); unhandled
// errors must propagate after any side effects.
type Decision struct {
	Retry              bool
	Delay              time.Duration
	Substitute         interface{}
	HasSubstitute      bool
	Handled            bool
	Escalate           bool
	RequiresUserAction bool
}

// Resolve maps an (error, strategy, attempt) triple to a Decision. Pure:
// statistics, logging and reporting side effects belong to the handler.
// Attempt counts retries already made and is zero-indexed, so the k-th retry
// waits RetryDelay * 2^(k-1).
func Resolve(err *PluginError, strategy ErrorStrategy, attempt int, cfg StrategyConfig) Decision {
	switch strategy {
	case StrategyRetry:
		// Validation failures cannot be fixed by retrying the same input.
		if !err.Recoverable {
			return Decision{}
		}
		if attempt < cfg.MaxRetries {
			return Decision{
				Retry: true,
				Delay: cfg.RetryDelay * time.Duration(1<<attempt),
			}
		}
		return Decision{}

	case StrategyFallback:
		if value, ok := cfg.FallbackValues[err.Kind.FallbackKey()]; ok {
			return Decision{Substitute: value, HasSubstitute: true, Handled: true}
		}
		return Decision{Substitute: map[string]interface{}{}, HasSubstitute: true, Handled: true}

	case StrategyIgnore:
		return Decision{Handled: true}

	case StrategyEscalate:
		// Reported best-effort by the handler, then still propagated.
		return Decision{Escalate: true}

	case StrategyUserAction:
		return Decision{RequiresUserAction: true}

	default:
		return Decision{}
	}
}
