// Package ratelimit guards mutating store operations against runaway
// loops. It is advisory backpressure, not a security boundary: counters
// live for the process lifetime only and reset on restart.
package ratelimit

import (
	"sync"
	"time"
)

// Rule bounds one operation kind: at most Max calls per Window.
type Rule struct {
	Window time.Duration
	Max    int
}

// DefaultRule applies to operation kinds with no explicit rule.
var DefaultRule = Rule{Max: 30, Window: 10 * time.Second}

type window struct {
	start time.Time
	count int
}

// Limiter tracks a fixed-window counter per operation kind. Construct one
// instance and inject it into the store; there is no package-global state.
type Limiter struct {
	now     func() time.Time
	rules   map[string]Rule
	windows map[string]*window
	mu      sync.Mutex
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithRule sets the rule for one operation kind.
func WithRule(op string, rule Rule) Option {
	return func(l *Limiter) {
		l.rules[op] = rule
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a Limiter.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		now:     time.Now,
		rules:   make(map[string]Rule),
		windows: make(map[string]*window),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether one more call of the given operation kind fits in
// the current window. The first call opens a window with count 1; the
// counter resets when the window expires.
func (l *Limiter) Allow(op string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	rule, ok := l.rules[op]
	if !ok {
		rule = DefaultRule
	}

	now := l.now()
	w, ok := l.windows[op]
	if !ok || now.Sub(w.start) >= rule.Window {
		l.windows[op] = &window{start: now, count: 1}
		return true
	}

	w.count++
	return w.count <= rule.Max
}

// Reset clears all counters. Useful between test cases sharing a limiter.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows = make(map[string]*window)
}
