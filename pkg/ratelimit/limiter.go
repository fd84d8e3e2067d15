package ratelimit

import (
	"context"
	"time"

	"themedl/pkg/logger"
)

// Reason explains why a call was delayed
type Reason string

const (
	ReasonNone   Reason = "none"
	ReasonCycle  Reason = "cycle"
	ReasonBudget Reason = "budget"
)

// BudgetSource reports how many API calls remain in the current window
type BudgetSource interface {
	CallsRemaining() int
}

// Policy holds the two ceilings enforced between API calls
type Policy struct {
	// Cycle is the minimum spacing between consecutive calls
	Cycle time.Duration
	// Unit is the granularity waits are rounded up to
	Unit time.Duration
	// BudgetFloor triggers BudgetPause when the remaining budget is at or below it
	BudgetFloor int
	BudgetPause time.Duration
}

// DefaultPolicy allows about two calls per second and backs off for ten
// seconds when five or fewer calls remain
func DefaultPolicy() Policy {
	return Policy{
		Cycle:       500 * time.Millisecond,
		Unit:        time.Second,
		BudgetFloor: 5,
		BudgetPause: 10 * time.Second,
	}
}

// Decision is the outcome of one cycle check
type Decision struct {
	Wait           time.Duration
	Reason         Reason
	CallsRemaining int
}

// CycleLimiter gates API calls on call spacing first and the remaining call
// budget second. Only one reason applies per check; waits never stack.
// It is not safe for concurrent use.
type CycleLimiter struct {
	policy   Policy
	budget   BudgetSource
	lastCall time.Time
	logger   logger.Logger

	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
	onPause func(Decision)
}

// Option configures a CycleLimiter
type Option func(*CycleLimiter)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(l *CycleLimiter) { l.now = now }
}

// WithSleeper replaces the blocking sleep
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *CycleLimiter) { l.sleep = sleep }
}

// WithLogger sets the logger used for pauses
func WithLogger(log logger.Logger) Option {
	return func(l *CycleLimiter) { l.logger = log }
}

// OnPause registers a callback invoked before every non-zero wait
func OnPause(fn func(Decision)) Option {
	return func(l *CycleLimiter) { l.onPause = fn }
}

// NewCycleLimiter creates a limiter whose last call timestamp is now
func NewCycleLimiter(policy Policy, budget BudgetSource, opts ...Option) *CycleLimiter {
	l := &CycleLimiter{
		policy: policy,
		budget: budget,
		now:    time.Now,
		sleep:  Sleep,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.GetLogger()
	}
	if l.policy.Unit <= 0 {
		l.policy.Unit = time.Second
	}
	l.lastCall = l.now()
	return l
}

// Decide computes the wait for a call made at now without sleeping or
// touching the limiter state
func (l *CycleLimiter) Decide(now time.Time) Decision {
	elapsed := now.Sub(l.lastCall)
	remaining := l.budget.CallsRemaining()

	if wait := ceilTo(l.policy.Cycle-elapsed, l.policy.Unit); wait > 0 {
		return Decision{Wait: wait, Reason: ReasonCycle, CallsRemaining: remaining}
	}
	if remaining <= l.policy.BudgetFloor {
		return Decision{Wait: l.policy.BudgetPause, Reason: ReasonBudget, CallsRemaining: remaining}
	}
	return Decision{Reason: ReasonNone, CallsRemaining: remaining}
}

// CheckCycle blocks for the decided wait, then resets the last call
// timestamp. It returns the wait that was applied.
func (l *CycleLimiter) CheckCycle(ctx context.Context) (time.Duration, error) {
	decision := l.Decide(l.now())

	if decision.Wait > 0 {
		logger.LogRateLimit(l.logger, string(decision.Reason), decision.Wait, decision.CallsRemaining)
		if l.onPause != nil {
			l.onPause(decision)
		}
		if err := l.sleep(ctx, decision.Wait); err != nil {
			return 0, err
		}
	}

	l.lastCall = l.now()
	return decision.Wait, nil
}

// Reset sets the last call timestamp to now
func (l *CycleLimiter) Reset() {
	l.lastCall = l.now()
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ceilTo rounds d up to a whole number of units; non-positive d yields 0
func ceilTo(d, unit time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	n := (d + unit - 1) / unit
	return n * unit
}
