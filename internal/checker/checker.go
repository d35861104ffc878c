// Package checker turns a stream of field edits into at most one outstanding
// remote check per settled value.
//
// A Checker lives inside a bubbletea model and is only touched from Update.
// Each Push starts a new generation and a quiet window. When the window
// elapses for the live generation the remote check is issued as a tea.Cmd;
// its ResultMsg is applied only if it still belongs to the live generation and
// value. Older results are dropped, so the verdict always tracks the latest
// edit regardless of the order responses arrive in.
package checker

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// CheckFunc performs one remote check for value.
type CheckFunc[T any] func(ctx context.Context, value string) (T, error)

// Scheduler returns a command that yields msg after d.
type Scheduler func(d time.Duration, msg tea.Msg) tea.Cmd

// TickScheduler schedules with tea.Tick.
func TickScheduler(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// State tags every outcome so consumers never have to guess.
type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
	StateSettled State = "settled"
)

// Outcome is the checker's current view of the latest value.
type Outcome[T any] struct {
	State  State
	Value  string
	Result T // meaningful only when State is StateSettled
	Gen    uint64
}

// DebounceElapsedMsg fires when a quiet window ends.
type DebounceElapsedMsg struct {
	Key string
	Gen uint64
}

// ResultMsg carries a finished remote check back into the event loop.
type ResultMsg struct {
	Key    string
	Gen    uint64
	Value  string
	Result any
	Err    error
}

// Checker debounces values for one field and tracks the latest verdict.
type Checker[T any] struct {
	key      string
	window   time.Duration
	check    CheckFunc[T]
	opts     options
	onChange []func(Outcome[T])

	gen      uint64
	value    string
	state    State
	result   T
	inFlight bool
	issued   int
}

type options struct {
	ctx      context.Context
	schedule Scheduler
	onError  func(value string, err error)
}

// Option configures a Checker.
type Option func(*options)

// WithScheduler replaces the tea.Tick based scheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *options) { o.schedule = s }
}

// WithContext sets the context remote checks run under.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// OnError registers a hook for failed checks. Failures never reach the
// outcome: the checker stays pending until a later check succeeds.
func OnError(fn func(value string, err error)) Option {
	return func(o *options) { o.onError = fn }
}

// New creates a Checker. key must be unique among checkers sharing an
// event loop; it routes DebounceElapsedMsg and ResultMsg back here.
func New[T any](key string, window time.Duration, check CheckFunc[T], opts ...Option) *Checker[T] {
	c := &Checker[T]{
		key:    key,
		window: window,
		check:  check,
		opts: options{
			ctx:      context.Background(),
			schedule: TickScheduler,
		},
		state: StateIdle,
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// Subscribe registers fn for every outcome transition, in order.
func (c *Checker[T]) Subscribe(fn func(Outcome[T])) {
	c.onChange = append(c.onChange, fn)
}

// Key returns the routing key.
func (c *Checker[T]) Key() string { return c.key }

// Outcome returns the current outcome.
func (c *Checker[T]) Outcome() Outcome[T] {
	return Outcome[T]{State: c.state, Value: c.value, Result: c.result, Gen: c.gen}
}

// Issued returns how many remote checks this checker has started.
func (c *Checker[T]) Issued() int { return c.issued }

// Push records value as the newest candidate and restarts the quiet window.
// Whatever was pending or in flight for earlier values is superseded.
func (c *Checker[T]) Push(value string) tea.Cmd {
	c.advance(value, StatePending)
	if c.window <= 0 {
		return c.issue()
	}
	return c.opts.schedule(c.window, DebounceElapsedMsg{Key: c.key, Gen: c.gen})
}

// Retry re-issues the check for the current value immediately.
// It is a no-op when there is no value or a check is already outstanding.
func (c *Checker[T]) Retry() tea.Cmd {
	if c.state == StateIdle || c.inFlight {
		return nil
	}
	c.advance(c.value, StatePending)
	return c.issue()
}

// Reset forgets the current value. Outstanding work turns stale.
func (c *Checker[T]) Reset() {
	if c.state == StateIdle && c.value == "" {
		return
	}
	c.advance("", StateIdle)
}

// Update handles messages addressed to this checker. The returned bool
// reports whether the outcome changed.
func (c *Checker[T]) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case DebounceElapsedMsg:
		if msg.Key != c.key || msg.Gen != c.gen || c.state != StatePending {
			return nil, false
		}
		return c.issue(), false

	case ResultMsg:
		if msg.Key != c.key {
			return nil, false
		}
		if msg.Gen != c.gen || msg.Value != c.value {
			// Superseded by a newer edit.
			return nil, false
		}
		c.inFlight = false
		if msg.Err != nil {
			c.fail(msg.Err)
			return nil, false
		}
		res, ok := msg.Result.(T)
		if !ok {
			c.fail(fmt.Errorf("checker %s: unexpected result type %T", c.key, msg.Result))
			return nil, false
		}
		c.state = StateSettled
		c.result = res
		c.notify()
		return nil, true
	}
	return nil, false
}

// Handles reports whether msg is routed to this checker.
func (c *Checker[T]) Handles(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case DebounceElapsedMsg:
		return msg.Key == c.key
	case ResultMsg:
		return msg.Key == c.key
	}
	return false
}

func (c *Checker[T]) advance(value string, state State) {
	var zero T
	c.gen++
	c.value = value
	c.state = state
	c.result = zero
	c.inFlight = false
	c.notify()
}

func (c *Checker[T]) issue() tea.Cmd {
	c.inFlight = true
	c.issued++

	ctx, check, key, gen, value := c.opts.ctx, c.check, c.key, c.gen, c.value
	return func() tea.Msg {
		res, err := check(ctx, value)
		return ResultMsg{Key: key, Gen: gen, Value: value, Result: res, Err: err}
	}
}

func (c *Checker[T]) fail(err error) {
	if c.opts.onError != nil {
		c.opts.onError(c.value, err)
	}
}

func (c *Checker[T]) notify() {
	if len(c.onChange) == 0 {
		return
	}
	out := c.Outcome()
	for _, fn := range c.onChange {
		fn(out)
	}
}
