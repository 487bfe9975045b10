// Package agent runs against the client-rendered checkout: it detects the
// checkout form with a bounded retry schedule, injects the configured field
// markup at a deterministic anchor, and merges the live input values into the
// outgoing submission request. Every failure on this path is logged and
// swallowed; the shopper can always submit.
package agent

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-checkoutfields/pkg/render"
)

// Option configures an Agent before Start.
type Option func(*Agent)

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithScheduler replaces the timer used for retry scheduling. Tests drive
// retries synchronously through this seam.
func WithScheduler(schedule func(time.Duration, func())) Option {
	return func(a *Agent) {
		if schedule != nil {
			a.schedule = schedule
		}
	}
}

// Agent is the browser-resident interception component. It is single
// threaded in spirit: retries are timer-scheduled, never parallel, and the
// mutex only guards state reads from the transport side.
type Agent struct {
	page     Page
	payload  render.ClientPayload
	logger   *slog.Logger
	schedule func(time.Duration, func())

	mu               sync.Mutex
	state            State
	attempt          int
	wrapperInstalled bool
}

// New builds an agent for one page load. Start begins detection.
func New(page Page, payload render.ClientPayload, opts ...Option) *Agent {
	a := &Agent{
		page:    page,
		payload: payload,
		logger:  slog.Default(),
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State reports the current lifecycle state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Start runs the first detection attempt immediately and schedules the
// bounded retries. Calling Start more than once is a no-op.
func (a *Agent) Start() {
	a.mu.Lock()
	if a.state != StateUninitialized {
		a.mu.Unlock()
		return
	}
	a.state = StateDetecting
	a.mu.Unlock()

	a.tryInject()
}

func (a *Agent) tryInject() {
	if a.State() != StateDetecting {
		return
	}

	ok := a.runAttempt()
	if ok {
		a.mu.Lock()
		a.state = StateInjected
		a.mu.Unlock()
		a.beginIntercepting()
		return
	}

	a.mu.Lock()
	delays := a.payload.Contract.RetryDelays()
	if a.attempt >= len(delays) {
		a.state = StateAborted
		a.mu.Unlock()
		a.logger.Info("checkout fields: form not found, giving up",
			"attempts", a.attempt+1)
		return
	}
	delay := delays[a.attempt]
	a.attempt++
	a.mu.Unlock()

	a.schedule(delay, a.tryInject)
}

// beginIntercepting is the terminal transition for the page lifetime; from
// here the wrapped transport merges field values into matching submissions.
func (a *Agent) beginIntercepting() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StateIntercepting
}

// runAttempt performs one detect+inject cycle. Any panic from the page
// bridge is recovered and treated as a failed attempt; DOM errors must never
// reach the shopper.
func (a *Agent) runAttempt() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("checkout fields: injection attempt failed",
				"error", fmt.Sprint(r))
			ok = false
		}
	}()

	contract := a.payload.Contract
	if !a.page.Has(contract.FormSelector) {
		return false
	}
	if a.page.Has("." + contract.ContainerClass) {
		// Already injected, possibly by an earlier page script.
		return true
	}
	if len(a.payload.Fields) == 0 {
		return false
	}

	markup := a.payload.ContainerHTML()
	if a.page.InsertAfter(contract.AnchorSelector, markup) {
		return true
	}
	return a.page.AppendTo(contract.FormSelector, markup)
}
