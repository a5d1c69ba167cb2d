package errors

import (
	"context"
	stderrors "errors"
	"time"

	"plugin-resilience/internal/common/logger"
	"plugin-resilience/internal/common/metrics"
)

// Operation is a fallible unit of work run under a recovery strategy. The
// context is the one passed to RunSafely; implementations must honor its
// cancellation and release their own resources on every exit path.
type Operation func(ctx context.Context) (interface{}, error)

// SyncOperation is the non-suspending variant used by RunSafelySync.
type SyncOperation func() (interface{}, error)

// ErrorHandler wraps fallible operations, classifies their failures and
// applies the configured recovery policy. Construct one per logical owner
// (e.g. one per service instance); it is safe for concurrent use.
type ErrorHandler struct {
	cfg      StrategyConfig
	execCtx  ExecutionContext
	stats    *Statistics
	log      logger.Logger
	reporter Reporter

	// Injectable backoff wait, replaced in tests to avoid real sleeps.
	sleep func(ctx context.Context, d time.Duration) error
}

// HandlerOption customizes an ErrorHandler at construction.
type HandlerOption func(*ErrorHandler)

// WithReporter installs the reporting sink invoked under the Escalate
// strategy when reporting is enabled.
func WithReporter(r Reporter) HandlerOption {
	return func(h *ErrorHandler) { h.reporter = r }
}

// WithStatistics shares an existing tracker between handler instances.
func WithStatistics(s *Statistics) HandlerOption {
	return func(h *ErrorHandler) { h.stats = s }
}

// NewErrorHandler creates a handler with the given config and execution
// context. A nil logger falls back to a no-op logger.
func NewErrorHandler(cfg StrategyConfig, execCtx ExecutionContext, log logger.Logger, opts ...HandlerOption) *ErrorHandler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &ErrorHandler{
		cfg:     cfg,
		execCtx: execCtx,
		stats:   NewStatistics(),
		log:     log,
		sleep:   waitBackoff,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Config returns the handler's strategy configuration.
func (h *ErrorHandler) Config() StrategyConfig {
	return h.cfg
}

// GetStatistics returns a copy of the per-(kind, code) error counts.
func (h *ErrorHandler) GetStatistics() map[string]int {
	return h.stats.Snapshot()
}

// ResetStatistics clears all error counters.
func (h *ErrorHandler) ResetStatistics() {
	h.stats.Reset()
}

// ==========================
// 1. Asynchronous entry point
// ==========================

// RunSafely invokes op under the given strategy. On success the operation's
// result is returned. On failure the error is normalized into the taxonomy,
// recorded in statistics and resolved: retried with exponential backoff,
// substituted, suppressed, or re-raised. The backoff wait is context-aware;
// cancellation of ctx propagates immediately and bypasses the resolver.
//
// fallback is a caller-supplied substitute returned instead of raising once
// retries are exhausted or the strategy leaves the error unhandled. Untyped
// nil means no fallback. The handler never silently swallows an error: the
// caller receives either a defined value or the typed error.
func (h *ErrorHandler) RunSafely(ctx context.Context, op Operation, fallback interface{}, strategy ErrorStrategy) (interface{}, error) {
	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if cancelled(ctx, err) {
			return nil, err
		}

		pe := h.capture(err)
		decision := Resolve(pe, strategy, attempt, h.cfg)
		if decision.Retry {
			metrics.RetriesAttempted.WithLabelValues(string(pe.Kind)).Inc()
			h.trace("retrying operation", map[string]interface{}{
				"attempt": attempt + 1,
				"delayMs": decision.Delay.Milliseconds(),
				"code":    string(pe.Code),
			})
			if werr := h.sleep(ctx, decision.Delay); werr != nil {
				return nil, werr
			}
			continue
		}
		return h.conclude(ctx, pe, decision, fallback)
	}
}

// ==========================
// 2. Synchronous entry point
// ==========================

// RunSafelySync applies the same policy as RunSafely for operations that
// cannot suspend. Under the Retry strategy the operation is re-invoked
// immediately, without any backoff delay; callers needing timed backoff must
// use RunSafely.
func (h *ErrorHandler) RunSafelySync(op SyncOperation, fallback interface{}, strategy ErrorStrategy) (interface{}, error) {
	for attempt := 0; ; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}

		pe := h.capture(err)
		decision := Resolve(pe, strategy, attempt, h.cfg)
		if decision.Retry {
			metrics.RetriesAttempted.WithLabelValues(string(pe.Kind)).Inc()
			h.trace("retrying operation without delay", map[string]interface{}{
				"attempt": attempt + 1,
				"code":    string(pe.Code),
			})
			continue
		}
		return h.conclude(context.Background(), pe, decision, fallback)
	}
}

// ==========================
// 3. Outcome application
// ==========================

// capture normalizes a failure, stamps the execution context into its
// details and records it.
func (h *ErrorHandler) capture(err error) *PluginError {
	pe := Normalize(err)
	if fields := h.execCtx.Fields(); len(fields) > 0 {
		if _, ok := pe.Details["context"]; !ok {
			pe.Details["context"] = fields
		}
	}
	h.stats.Record(pe)
	metrics.ErrorsRecorded.WithLabelValues(string(pe.Kind), string(pe.Code)).Inc()
	return pe
}

func (h *ErrorHandler) conclude(ctx context.Context, pe *PluginError, decision Decision, fallback interface{}) (interface{}, error) {
	// A caller-supplied fallback wins over every non-retry outcome.
	if fallback != nil {
		h.trace("returning caller fallback", map[string]interface{}{"code": string(pe.Code)})
		return fallback, nil
	}

	if decision.Escalate {
		metrics.ErrorsEscalated.WithLabelValues(string(pe.Kind)).Inc()
		if h.cfg.EnableReporting && h.reporter != nil {
			h.reporter.Report(ctx, pe)
		}
	}
	if decision.RequiresUserAction {
		pe.Details["requiresUserAction"] = true
	}

	if decision.Handled {
		if decision.HasSubstitute {
			metrics.FallbacksApplied.WithLabelValues(string(pe.Kind)).Inc()
			h.trace("substituting configured fallback", map[string]interface{}{"code": string(pe.Code)})
			return decision.Substitute, nil
		}
		h.trace("ignoring error", pe.Dump())
		return nil, nil
	}

	if h.cfg.EnableLogging {
		h.log.Error("operation failed", pe.Dump())
	}
	return nil, pe
}

// trace emits a diagnostic log entry when logging is enabled. It never
// affects the handled/unhandled contract.
func (h *ErrorHandler) trace(msg string, fields map[string]interface{}) {
	if h.cfg.EnableLogging {
		h.log.Debug(msg, fields)
	}
}

func cancelled(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

func waitBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
