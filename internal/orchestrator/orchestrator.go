// Package orchestrator drives backend translation calls with retry,
// result validation, circuit breaking and one-way multi-backend fallback.
// One Orchestrator instance belongs to one document run; its error
// counters are single-writer state and assume strictly sequential units.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/polyglotkit/doctrans/internal/backend"
)

// Options configures retry and fallback behaviour.
type Options struct {
	MaxRetries        int           // retries after the first attempt
	RetryDelay        time.Duration // initial backoff interval
	FallbackThreshold int           // consecutive failures before switching
	CallbackTimeout   time.Duration // bound on progress callback execution
}

// DefaultOptions returns the orchestrator defaults.
func DefaultOptions() Options {
	return Options{
		MaxRetries:        3,
		RetryDelay:        time.Second,
		FallbackThreshold: 3,
		CallbackTimeout:   2 * time.Second,
	}
}

// ProgressFunc receives completion progress after each unit.
type ProgressFunc func(fraction float64, message string)

// errorSignatures mark results that look like an error message rather
// than a translation; such results are retried.
var errorSignatures = []string{
	"translation failed",
	"翻译失败",
	"translation error",
	"timeout",
	"超时",
	"service unavailable",
	"服务不可用",
	"rate limit",
}

// SoftError marks a result the orchestrator rejected (empty, suspiciously
// short, or carrying an error signature). After retries are exhausted a
// soft failure degrades the unit instead of failing the document.
type SoftError struct {
	Reason string
}

func (e *SoftError) Error() string {
	return e.Reason
}

// Orchestrator performs translation calls for one document run. The
// fallback switch is one-way: once the primary backend is abandoned, the
// fallback serves the rest of the document.
type Orchestrator struct {
	primary  backend.Backend
	fallback backend.Backend
	active   backend.Backend
	switched bool

	failures map[string]int // consecutive failures per backend
	breakers map[string]*gobreaker.CircuitBreaker

	opts     Options
	logger   *zap.Logger
	progress ProgressFunc
}

// New creates an Orchestrator. fallback may be nil.
func New(primary, fallback backend.Backend, opts Options, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		primary:  primary,
		fallback: fallback,
		active:   primary,
		failures: map[string]int{},
		breakers: map[string]*gobreaker.CircuitBreaker{},
		opts:     opts,
		logger:   logger,
	}
	o.breakers[primary.Name()] = o.newBreaker(primary.Name())
	if fallback != nil {
		o.breakers[fallback.Name()] = o.newBreaker(fallback.Name())
	}
	return o
}

func (o *Orchestrator) newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			o.logger.Warn("Circuit breaker state changed",
				zap.String("backend", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// SetProgress installs the caller's progress callback.
func (o *Orchestrator) SetProgress(fn ProgressFunc) {
	o.progress = fn
}

// ActiveBackend returns the name of the backend currently serving calls.
func (o *Orchestrator) ActiveBackend() string {
	return o.active.Name()
}

// Switched reports whether the fallback switch has happened.
func (o *Orchestrator) Switched() bool {
	return o.switched
}

// Translate performs one unit's backend call with retry and fallback and
// returns a tagged Outcome. It never panics and only reports Fatal after
// every available backend has been exhausted.
func (o *Orchestrator) Translate(ctx context.Context, req backend.Request) Outcome {
	result, attempts, err := o.translateWithRetry(ctx, o.active, req)
	if err == nil {
		return Outcome{
			Status:   StatusSuccess,
			Text:     result,
			Backend:  o.active.Name(),
			Attempts: attempts,
		}
	}

	primaryName := o.active.Name()
	primaryErr := err

	// Decide whether to flip to the fallback backend. The switch is
	// permanent for the rest of the document.
	if !o.switched && o.fallback != nil && o.failures[primaryName] >= o.opts.FallbackThreshold {
		o.switched = true
		o.active = o.fallback
		o.logger.Warn("Switching to fallback backend",
			zap.String("from", primaryName),
			zap.String("to", o.active.Name()),
			zap.Int("consecutiveFailures", o.failures[primaryName]))

		// One attempt against the new backend before giving up on the unit.
		result, err := o.callOnce(ctx, o.active, req)
		attempts++
		if err == nil {
			o.failures[o.active.Name()] = 0
			return Outcome{
				Status:   StatusSuccess,
				Text:     result,
				Backend:  o.active.Name(),
				Attempts: attempts,
			}
		}
		// Both errors stay in the chain so a soft rejection from either
		// backend still degrades the unit instead of failing the document.
		o.failures[o.active.Name()]++
		primaryErr = fmt.Errorf("%s: %w; %s fallback: %w",
			primaryName, primaryErr, o.active.Name(), err)
	}

	var soft *SoftError
	if errors.As(primaryErr, &soft) {
		return Outcome{
			Status:   StatusDegraded,
			Text:     req.Text,
			Reason:   soft.Reason,
			Backend:  o.active.Name(),
			Attempts: attempts,
		}
	}

	return Outcome{
		Status:   StatusFatal,
		Text:     req.Text,
		Reason:   primaryErr.Error(),
		Backend:  o.active.Name(),
		Attempts: attempts,
		Err:      fmt.Errorf("translation failed after %d attempts: %w", attempts, primaryErr),
	}
}

// translateWithRetry retries one backend with exponential backoff
// (multiplier 1.5, capped at 30s) until acceptance or exhaustion.
func (o *Orchestrator) translateWithRetry(ctx context.Context, b backend.Backend, req backend.Request) (string, int, error) {
	attempts := 0
	var result string

	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempts++

		text, err := o.callOnce(ctx, b, req)
		if err != nil {
			o.failures[b.Name()]++
			o.logger.Warn("Translation attempt failed",
				zap.String("backend", b.Name()),
				zap.Int("attempt", attempts),
				zap.Error(err))
			if errors.Is(err, gobreaker.ErrOpenState) {
				return backoff.Permanent(err)
			}
			return err
		}

		o.failures[b.Name()] = 0
		result = text
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = o.opts.RetryDelay
	bo.Multiplier = 1.5
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	// A negative retry count would wrap around in the uint64 conversion.
	maxRetries := o.opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries)), ctx))
	if err != nil {
		return "", attempts, err
	}
	return result, attempts, nil
}

// callOnce makes a single backend call through its circuit breaker and
// validates the result.
func (o *Orchestrator) callOnce(ctx context.Context, b backend.Backend, req backend.Request) (string, error) {
	breaker := o.breakers[b.Name()]
	result, err := breaker.Execute(func() (any, error) {
		text, err := b.Translate(ctx, req)
		if err != nil {
			return nil, err
		}
		if reason, suspect := suspectResult(req.Text, text); suspect {
			return nil, &SoftError{Reason: reason}
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// suspectResult rejects results that are empty, implausibly short, or
// carry a known error signature.
func suspectResult(input, result string) (string, bool) {
	trimmed := strings.TrimSpace(result)
	if trimmed == "" {
		return "空结果", true
	}

	inputLen := len([]rune(input))
	if inputLen > 50 && len([]rune(trimmed))*10 < inputLen {
		return "结果过短", true
	}

	lower := strings.ToLower(trimmed)
	for _, sig := range errorSignatures {
		if strings.Contains(lower, sig) {
			return fmt.Sprintf("错误特征: %s", sig), true
		}
	}

	return "", false
}

// ReportProgress invokes the caller's progress callback without letting
// it block the translation loop: a hung callback is abandoned after
// CallbackTimeout with a warning.
func (o *Orchestrator) ReportProgress(fraction float64, message string) {
	if o.progress == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		o.progress(fraction, message)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(o.opts.CallbackTimeout):
		o.logger.Warn("Progress callback timed out; continuing",
			zap.Float64("fraction", fraction),
			zap.Duration("timeout", o.opts.CallbackTimeout))
	}
}
